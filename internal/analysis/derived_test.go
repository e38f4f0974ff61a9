package analysis

import (
	"math"
	"testing"

	"whrlab/domain/dataset"
	apperrors "whrlab/internal/errors"
	"whrlab/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gdpTable(values ...float64) *dataset.Table {
	return dataset.MustNewTable(dataset.NewFloatColumn(dataset.ColumnLogGDP, values))
}

func flags(t *testing.T, table *dataset.Table, column string) []bool {
	t.Helper()
	col, err := table.Column(AboveMedianColumn(column))
	require.NoError(t, err)
	require.Equal(t, dataset.TypeBool, col.Type())
	return col.Bools()
}

func TestAddAboveMedian_OddDistinct(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"three", []float64{8, 9, 10}},
		{"five shuffled", []float64{3.2, 1.1, 5.9, 4.4, 2.7}},
		{"seven negative", []float64{-3, -1, -2, -7, -5, -4, -6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := AddAboveMedian(gdpTable(tt.values...), dataset.ColumnLogGDP)
			require.NoError(t, err)

			median, err := Median(out, dataset.ColumnLogGDP)
			require.NoError(t, err)

			trues := 0
			for i, flag := range flags(t, out, dataset.ColumnLogGDP) {
				if flag {
					trues++
					assert.Greater(t, tt.values[i], median)
				} else {
					assert.LessOrEqual(t, tt.values[i], median)
				}
			}
			assert.Equal(t, len(tt.values)/2, trues)
		})
	}
}

func TestAddAboveMedian_TiesAreNotAbove(t *testing.T) {
	out, err := AddAboveMedian(gdpTable(1, 2, 2, 2, 3), dataset.ColumnLogGDP)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, true}, flags(t, out, dataset.ColumnLogGDP))
}

func TestAddAboveMedian_EvenCount(t *testing.T) {
	// median of 1,2,3,4 is 2.5
	out, err := AddAboveMedian(gdpTable(4, 1, 3, 2), dataset.ColumnLogGDP)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, flags(t, out, dataset.ColumnLogGDP))
}

func TestAddAboveMedian_MissingValues(t *testing.T) {
	values := testkit.WithMissing([]float64{8, 0, 9, 10}, 1)
	out, err := AddAboveMedian(gdpTable(values...), dataset.ColumnLogGDP)
	require.NoError(t, err)

	// median of 8, 9, 10 is 9; the missing row is never above
	assert.Equal(t, []bool{false, false, false, true}, flags(t, out, dataset.ColumnLogGDP))
}

func TestAddAboveMedian_DoesNotModifyInput(t *testing.T) {
	in := gdpTable(1, 2, 3)
	before := in.Fingerprint()

	out, err := AddAboveMedian(in, dataset.ColumnLogGDP)
	require.NoError(t, err)

	assert.False(t, in.HasColumn(AboveMedianColumn(dataset.ColumnLogGDP)))
	assert.True(t, out.HasColumn(AboveMedianColumn(dataset.ColumnLogGDP)))
	assert.Equal(t, before, in.Fingerprint())
}

func TestAddAboveMedian_Errors(t *testing.T) {
	tests := []struct {
		name  string
		table *dataset.Table
		code  string
	}{
		{"single value", gdpTable(5), apperrors.CodeInsufficientData},
		{"all missing", gdpTable(math.NaN(), math.NaN()), apperrors.CodeInsufficientData},
		{"no rows", gdpTable(), apperrors.CodeInsufficientData},
		{"unknown column", dataset.MustNewTable(dataset.NewFloatColumn("x", []float64{1, 2})), apperrors.CodeInvalidInput},
		{"string column", dataset.MustNewTable(dataset.NewStringColumn(dataset.ColumnLogGDP, []string{"a", "b"})), apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddAboveMedian(tt.table, dataset.ColumnLogGDP)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}
}

// Three countries in 2022 with GDP 8, 9 and 10: only the richest is
// above the median of 9.
func TestThreeCountryScenario(t *testing.T) {
	table := testkit.ThreeCountries2022()

	year, err := FilterByYear(table, 2022)
	require.NoError(t, err)
	require.Equal(t, 3, year.Len())

	median, err := Median(year, dataset.ColumnLogGDP)
	require.NoError(t, err)
	assert.Equal(t, 9.0, median)

	out, err := AddAboveMedian(year, dataset.ColumnLogGDP)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true}, flags(t, out, dataset.ColumnLogGDP))

	below, above, err := SplitByFlag(out, AboveMedianColumn(dataset.ColumnLogGDP))
	require.NoError(t, err)
	assert.Equal(t, 2, below.Len())
	assert.Equal(t, 1, above.Len())
}
