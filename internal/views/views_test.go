package views

import (
	"fmt"
	"math"
	"testing"

	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
	apperrors "whrlab/internal/errors"
	"whrlab/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/integrate"
)

// withFlags adds both median indicators used by the conditional and joint views
func withFlags(t *testing.T, table *dataset.Table) *dataset.Table {
	t.Helper()
	out, err := analysis.AddAboveMedian(table, dataset.ColumnLogGDP)
	require.NoError(t, err)
	out, err = analysis.AddAboveMedian(out, dataset.ColumnLifeExpectancy)
	require.NoError(t, err)
	return out
}

func TestBuildersRejectEmptyInput(t *testing.T) {
	empty := testkit.EmptyWHR()
	emptyFlags, err := empty.WithColumn(dataset.NewBoolColumn(analysis.AboveMedianColumn(dataset.ColumnLogGDP), nil))
	require.NoError(t, err)
	emptyGaps := dataset.MustNewTable(
		dataset.NewStringColumn(DefaultFacetColumn, nil),
		dataset.NewStringColumn(DefaultColorColumn, nil),
		dataset.NewStringColumn(DefaultMeasure, nil),
		dataset.NewFloatColumn(DefaultGapColumn, nil),
	)

	builders := []struct {
		name  string
		build func() (*figure.Figure, error)
	}{
		{"faceted gap bars", func() (*figure.Figure, error) { return FacetedGapBars(emptyGaps, FacetBarParams{}) }},
		{"scatter", func() (*figure.Figure, error) { return ScatterWithHue(empty, ScatterParams{}) }},
		{"histogram", func() (*figure.Figure, error) { return HistogramKDE(empty, HistogramKDEParams{}) }},
		{"conditional", func() (*figure.Figure, error) { return ConditionalKDE(emptyFlags, ConditionalKDEParams{}) }},
		{"joint", func() (*figure.Figure, error) {
			return JointMarginals(empty, JointParams{Hue: dataset.ColumnCountry})
		}},
		{"nil table", func() (*figure.Figure, error) { return HistogramKDE(nil, HistogramKDEParams{}) }},
	}

	for _, tt := range builders {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := tt.build()
			assert.Nil(t, fig)
			require.Error(t, err)
			assert.True(t, apperrors.IsEmptyInput(err), "got %v", err)
		})
	}
}

func TestFacetedGapBars(t *testing.T) {
	gaps := testkit.GapTable(t)

	fig, err := FacetedGapBars(gaps, FacetBarParams{})
	require.NoError(t, err)

	assert.Equal(t, figure.KindFacetedGapBar, fig.Kind)
	assert.True(t, fig.Faceted)
	assert.False(t, fig.SharedX, "panels keep independent x scales")

	var names []string
	for _, p := range fig.Panels {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Income", "Education", "Age", "Gender"}, names)

	income := testkit.Panel(t, fig, "Income")
	assert.Equal(t, []string{"Top vs bottom", "Top vs middle", "Middle vs bottom"}, income.Categories)
	require.Len(t, income.Layers, 2)
	for _, layer := range income.Layers {
		assert.Equal(t, figure.MarkBars, layer.Mark)
		assert.Equal(t, []float64{0, 1, 2}, layer.X)
		assert.Len(t, layer.Y, 3)
	}
	assert.Equal(t, 24, fig.PointCount())
}

func TestFacetedGapBars_NumericMeasure(t *testing.T) {
	gaps := dataset.MustNewTable(
		dataset.NewStringColumn("variable", []string{"Income", "Income", "Age"}),
		dataset.NewStringColumn("type", []string{"a", "b", "a"}),
		dataset.NewFloatColumn("quantile", []float64{0.1, 0.9, 0.5}),
		dataset.NewFloatColumn("gap", []float64{0.3, math.NaN(), 0.2}),
	)

	fig, err := FacetedGapBars(gaps, FacetBarParams{Facet: "variable", Color: "type", X: "quantile", Y: "gap"})
	require.NoError(t, err)

	income := testkit.Panel(t, fig, "Income")
	assert.Empty(t, income.Categories)
	require.Len(t, income.Layers, 1, "row with a missing gap is dropped")
	assert.Equal(t, []float64{0.1}, income.Layers[0].X)
}

func TestFacetedGapBars_MissingColumn(t *testing.T) {
	_, err := FacetedGapBars(testkit.ThreeCountries2022(), FacetBarParams{})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestScatterWithHue(t *testing.T) {
	table := testkit.WHRTable(t)

	fig, err := ScatterWithHue(table, ScatterParams{Year: 2022})
	require.NoError(t, err)

	require.Len(t, fig.Panels, 1)
	layer := fig.Panels[0].Layers[0]
	assert.Equal(t, figure.MarkPoints, layer.Mark)
	assert.Equal(t, len(layer.X), len(layer.Y))
	assert.Equal(t, len(layer.X), len(layer.Hue))
	assert.LessOrEqual(t, layer.Len(), 40)
	assert.Greater(t, layer.Len(), 0)
	assert.Equal(t, dataset.ColumnLogGDP, fig.XLabel)
	assert.Equal(t, dataset.ColumnLifeLadder, fig.YLabel)
}

func TestScatterWithHue_NoRowsForYear(t *testing.T) {
	_, err := ScatterWithHue(testkit.ThreeCountries2022(), ScatterParams{Year: 1990})
	assert.True(t, apperrors.IsEmptyInput(err))
}

func TestScatterWithHue_AllRowsIncomplete(t *testing.T) {
	table := dataset.MustNewTable(
		dataset.NewIntColumn(dataset.ColumnYear, []float64{2022}),
		dataset.NewFloatColumn(dataset.ColumnLifeLadder, []float64{5}),
		dataset.NewFloatColumn(dataset.ColumnLogGDP, []float64{math.NaN()}),
		dataset.NewFloatColumn(dataset.ColumnLifeExpectancy, []float64{60}),
	)
	_, err := ScatterWithHue(table, ScatterParams{Year: DefaultScatterYear})
	assert.True(t, apperrors.IsInsufficientData(err))
}

func TestScatterWithHue_YearZeroIsLiteral(t *testing.T) {
	table := dataset.MustNewTable(
		dataset.NewIntColumn(dataset.ColumnYear, []float64{0, 2022}),
		dataset.NewFloatColumn(dataset.ColumnLifeLadder, []float64{5, 6}),
		dataset.NewFloatColumn(dataset.ColumnLogGDP, []float64{9, 10}),
		dataset.NewFloatColumn(dataset.ColumnLifeExpectancy, []float64{60, 70}),
	)

	fig, err := ScatterWithHue(table, ScatterParams{})
	require.NoError(t, err)
	layer := fig.Panels[0].Layers[0]
	assert.Equal(t, []float64{9}, layer.X)
	assert.Equal(t, []float64{5}, layer.Y)
}

func TestHistogramKDE(t *testing.T) {
	table := testkit.WHRTable(t)

	fig, err := HistogramKDE(table, HistogramKDEParams{Histogram: analysis.HistogramOptions{Bins: 20}})
	require.NoError(t, err)

	panel := fig.Panels[0]
	bars := testkit.Series(t, panel, "histogram")
	assert.Equal(t, figure.MarkBars, bars.Mark)
	assert.Len(t, bars.Y, 20)
	assert.Len(t, bars.Edges, 21)

	area := 0.0
	for i, d := range bars.Y {
		area += d * (bars.Edges[i+1] - bars.Edges[i])
	}
	assert.InDelta(t, 1.0, area, 1e-9)

	curve := testkit.Series(t, panel, "kde")
	assert.Equal(t, figure.MarkLine, curve.Mark)
	assert.Len(t, curve.X, analysis.KDEPoints)
	assert.InDelta(t, 1.0, integrate.Trapezoidal(curve.X, curve.Y), 0.05)
}

func TestHistogramKDE_Idempotent(t *testing.T) {
	table := testkit.WHRTable(t)
	params := HistogramKDEParams{BandwidthFactor: 0.3}

	first, err := HistogramKDE(table, params)
	require.NoError(t, err)
	second, err := HistogramKDE(table, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConditionalKDE(t *testing.T) {
	table := withFlags(t, testkit.WHRTable(t))

	fig, err := ConditionalKDE(table, ConditionalKDEParams{})
	require.NoError(t, err)

	panel := fig.Panels[0]
	require.Len(t, panel.Layers, 2)
	for _, series := range []string{"false", "true"} {
		layer := testkit.Series(t, panel, series)
		assert.InDelta(t, 1.0, integrate.Trapezoidal(layer.X, layer.Y), 0.05, "each group integrates to 1 on its own")
	}
}

func TestConditionalKDE_OneSidedSplit(t *testing.T) {
	table := dataset.MustNewTable(
		dataset.NewFloatColumn(dataset.ColumnLifeLadder, []float64{1, 2, 3}),
		dataset.NewBoolColumn("flag", []bool{false, false, false}),
	)
	_, err := ConditionalKDE(table, ConditionalKDEParams{Group: "flag"})
	assert.True(t, apperrors.IsInsufficientData(err))
}

func TestConditionalKDE_GroupMustBeBool(t *testing.T) {
	_, err := ConditionalKDE(testkit.ThreeCountries2022(), ConditionalKDEParams{Group: dataset.ColumnLogGDP})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestJointMarginals(t *testing.T) {
	table := withFlags(t, testkit.WHRTable(t))

	fig, err := JointMarginals(table, JointParams{})
	require.NoError(t, err)
	require.Len(t, fig.Panels, 3)

	joint := testkit.Panel(t, fig, PanelJoint)
	require.Len(t, joint.Layers, 2)
	assert.Equal(t, "false", joint.Layers[0].Series)
	assert.Equal(t, "true", joint.Layers[1].Series)

	marginalX := testkit.Panel(t, fig, PanelMarginalX)
	assert.False(t, marginalX.Transposed)
	marginalY := testkit.Panel(t, fig, PanelMarginalY)
	assert.True(t, marginalY.Transposed)

	points := joint.Layers[0].Len() + joint.Layers[1].Len()
	xs, err := analysis.NumericValues(table, dataset.ColumnLogGDP)
	require.NoError(t, err)
	assert.LessOrEqual(t, points, len(xs))
}

func TestFigureIDs(t *testing.T) {
	table := testkit.WHRTable(t)

	a, err := HistogramKDE(table, HistogramKDEParams{})
	require.NoError(t, err)
	b, err := HistogramKDE(table, HistogramKDEParams{BandwidthFactor: 0.5})
	require.NoError(t, err)
	c, err := HistogramKDE(testkit.GenerateWHR(t, testkit.WHRGeneratorConfig{
		CountryCount: 10, StartYear: 2020, EndYear: 2022, Seed: 1,
	}), HistogramKDEParams{})
	require.NoError(t, err)

	assert.False(t, a.ID.String() == "")
	assert.NotEqual(t, a.ID, b.ID, "parameters change the ID")
	assert.NotEqual(t, a.ID, c.ID, "data changes the ID")
}

func TestBuildersAreSafeConcurrently(t *testing.T) {
	table := testkit.WHRTable(t)
	years := []int{2018, 2019, 2020, 2021, 2022}

	figs := make([]*figure.Figure, len(years))
	var g errgroup.Group
	for i, year := range years {
		g.Go(func() error {
			fig, err := ScatterWithHue(table, ScatterParams{Year: year})
			if err != nil {
				return fmt.Errorf("year %d: %w", year, err)
			}
			figs[i] = fig
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, year := range years {
		sequential, err := ScatterWithHue(table, ScatterParams{Year: year})
		require.NoError(t, err)
		assert.Equal(t, sequential, figs[i], "year %d", year)
	}
}
