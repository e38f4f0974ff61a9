package analysis

import (
	"fmt"

	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"
)

// FilterByYear returns the rows observed in year. No match yields an
// empty table, not an error.
func FilterByYear(t *dataset.Table, year int) (*dataset.Table, error) {
	col, err := t.NumericColumn(dataset.ColumnYear)
	if err != nil {
		return nil, err
	}
	years := col.Floats()
	target := float64(year)
	return t.Filter(func(row int) bool {
		return years[row] == target
	}), nil
}

// SplitByFlag partitions t by a bool column into the rows where it is
// false and the rows where it is true
func SplitByFlag(t *dataset.Table, column string) (falseRows, trueRows *dataset.Table, err error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, nil, err
	}
	if col.Type() != dataset.TypeBool {
		return nil, nil, notBoolError(column, col.Type())
	}
	flags := col.Bools()
	falseRows = t.Filter(func(row int) bool { return !flags[row] })
	trueRows = t.Filter(func(row int) bool { return flags[row] })
	return falseRows, trueRows, nil
}

func notBoolError(column string, typ dataset.ColumnType) error {
	return apperrors.InvalidInput(fmt.Sprintf("column %q is %s, not bool", column, typ))
}
