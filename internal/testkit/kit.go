package testkit

import (
	"math"
	"testing"

	"whrlab/domain/dataset"
	"whrlab/domain/figure"
)

// WHRTable generates the default synthetic WHR panel
func WHRTable(tb testing.TB) *dataset.Table {
	tb.Helper()
	return GenerateWHR(tb, DefaultWHRConfig())
}

// GenerateWHR generates a synthetic WHR panel for config
func GenerateWHR(tb testing.TB, config WHRGeneratorConfig) *dataset.Table {
	tb.Helper()
	table, err := NewWHRDataGenerator(config).GenerateTable()
	if err != nil {
		tb.Fatalf("generate WHR table: %v", err)
	}
	return table
}

// GapTable generates the default long-format gap table
func GapTable(tb testing.TB) *dataset.Table {
	tb.Helper()
	table, err := NewWHRDataGenerator(DefaultWHRConfig()).GenerateGapTable()
	if err != nil {
		tb.Fatalf("generate gap table: %v", err)
	}
	return table
}

// ThreeCountries2022 is the smallest complete input: three countries
// observed in 2022 with Life Ladder 4.0, 6.0 and 8.0 and GDP 8.0, 9.0
// and 10.0
func ThreeCountries2022() *dataset.Table {
	return dataset.MustNewTable(
		dataset.NewStringColumn(dataset.ColumnCountry, []string{"A", "B", "C"}),
		dataset.NewIntColumn(dataset.ColumnYear, []float64{2022, 2022, 2022}),
		dataset.NewFloatColumn(dataset.ColumnLifeLadder, []float64{4.0, 6.0, 8.0}),
		dataset.NewFloatColumn(dataset.ColumnLogGDP, []float64{8.0, 9.0, 10.0}),
		dataset.NewFloatColumn(dataset.ColumnLifeExpectancy, []float64{60, 66, 72}),
	)
}

// EmptyWHR has the WHR schema and no rows
func EmptyWHR() *dataset.Table {
	return dataset.MustNewTable(
		dataset.NewStringColumn(dataset.ColumnCountry, nil),
		dataset.NewIntColumn(dataset.ColumnYear, nil),
		dataset.NewFloatColumn(dataset.ColumnLifeLadder, nil),
		dataset.NewFloatColumn(dataset.ColumnLogGDP, nil),
		dataset.NewFloatColumn(dataset.ColumnLifeExpectancy, nil),
	)
}

// WithMissing returns values with NaN at the given rows
func WithMissing(values []float64, rows ...int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for _, r := range rows {
		out[r] = math.NaN()
	}
	return out
}

// Panel returns the named panel of fig, failing the test when absent
func Panel(tb testing.TB, fig *figure.Figure, name string) figure.Panel {
	tb.Helper()
	for _, p := range fig.Panels {
		if p.Name == name {
			return p
		}
	}
	tb.Fatalf("figure %s has no panel %q", fig.Kind, name)
	return figure.Panel{}
}

// Series returns the first layer of panel with the given series name,
// failing the test when absent
func Series(tb testing.TB, panel figure.Panel, name string) figure.Layer {
	tb.Helper()
	for _, l := range panel.Layers {
		if l.Series == name {
			return l
		}
	}
	tb.Fatalf("panel %q has no series %q", panel.Name, name)
	return figure.Layer{}
}
