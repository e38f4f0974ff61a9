package analysis

import (
	"fmt"
	"math"

	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"

	"github.com/montanaflynn/stats"
)

// NumericValues returns the non-missing values of a numeric column, in
// row order
func NumericValues(t *dataset.Table, column string) ([]float64, error) {
	col, err := t.NumericColumn(column)
	if err != nil {
		return nil, err
	}
	return dropMissing(col.Floats()), nil
}

// Median returns the median of the non-missing values of a column
func Median(t *dataset.Table, column string) (float64, error) {
	values, err := NumericValues(t, column)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, apperrors.InsufficientData(fmt.Sprintf("column %q has no non-missing values", column))
	}
	return medianOf(values)
}

func medianOf(values []float64) (float64, error) {
	m, err := stats.Median(values)
	if err != nil {
		return 0, apperrors.InsufficientData(err.Error())
	}
	return m, nil
}

// dropMissing filters NaN markers out of a numeric slice
func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// countDistinct counts distinct values, stopping once limit is reached
func countDistinct(values []float64, limit int) int {
	seen := make(map[float64]struct{}, limit)
	for _, v := range values {
		seen[v] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}
