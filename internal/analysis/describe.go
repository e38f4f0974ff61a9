package analysis

import (
	"fmt"

	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"

	"github.com/montanaflynn/stats"
)

// ColumnProfile summarizes one numeric column
type ColumnProfile struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Median  float64 `json:"median"`
	Max     float64 `json:"max"`
}

// Describe profiles the non-missing values of a numeric column
func Describe(t *dataset.Table, column string) (ColumnProfile, error) {
	col, err := t.NumericColumn(column)
	if err != nil {
		return ColumnProfile{}, err
	}
	values := dropMissing(col.Floats())
	profile := ColumnProfile{
		Column:  column,
		Count:   len(values),
		Missing: col.Len() - len(values),
	}
	if len(values) == 0 {
		return profile, apperrors.InsufficientData(fmt.Sprintf("column %q has no non-missing values", column))
	}

	data := stats.Float64Data(values)
	profile.Mean, _ = data.Mean()
	profile.Min, _ = data.Min()
	profile.Median, _ = data.Median()
	profile.Max, _ = data.Max()
	if len(values) > 1 {
		profile.StdDev, _ = stats.StandardDeviationSample(data)
	}
	return profile, nil
}

// DescribeAll profiles every numeric column that has at least one value
func DescribeAll(t *dataset.Table) []ColumnProfile {
	var profiles []ColumnProfile
	for _, field := range t.Schema() {
		if !field.Type.IsNumeric() {
			continue
		}
		profile, err := Describe(t, field.Name)
		if err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles
}
