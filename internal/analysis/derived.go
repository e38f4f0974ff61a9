package analysis

import (
	"fmt"
	"math"

	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"
)

// AboveMedianColumn names the indicator column derived from column
func AboveMedianColumn(column string) string {
	return "above_median_" + column
}

// AddAboveMedian returns a copy of t with a bool column marking rows
// whose value in column is strictly greater than the column median.
// Missing values are never above the median. t is not modified.
func AddAboveMedian(t *dataset.Table, column string) (*dataset.Table, error) {
	col, err := t.NumericColumn(column)
	if err != nil {
		return nil, err
	}

	values := col.Floats()
	present := dropMissing(values)
	if len(present) < 2 {
		return nil, apperrors.InsufficientData(fmt.Sprintf("column %q needs at least 2 non-missing values for a median split, has %d", column, len(present)))
	}

	median, err := medianOf(present)
	if err != nil {
		return nil, err
	}

	flags := make([]bool, len(values))
	for i, v := range values {
		// NaN > median is false, so missing rows stay below.
		flags[i] = !math.IsNaN(v) && v > median
	}

	return t.WithColumn(dataset.NewBoolColumn(AboveMedianColumn(column), flags))
}
