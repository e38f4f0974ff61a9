package views

import (
	"strconv"

	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
)

// HistogramKDEParams configures the distribution view of one column
type HistogramKDEParams struct {
	Column          string
	Histogram       analysis.HistogramOptions
	BandwidthFactor float64
}

// HistogramKDE overlays a density-scaled histogram of a column with its
// kernel density curve
func HistogramKDE(t *dataset.Table, params HistogramKDEParams) (*figure.Figure, error) {
	kind := figure.KindHistogramKDE
	if err := requireRows(t, kind); err != nil {
		return nil, err
	}
	column := params.Column
	if column == "" {
		column = dataset.ColumnLifeLadder
	}
	factor := bandwidthOrDefault(params.BandwidthFactor)

	values, err := analysis.NumericValues(t, column)
	if err != nil {
		return nil, err
	}
	hist, err := analysis.NormalizedHistogram(values, params.Histogram)
	if err != nil {
		return nil, err
	}
	curve, err := densityLayer(t, column, "kde", factor)
	if err != nil {
		return nil, err
	}

	centers := make([]float64, len(hist.Density))
	for i := range centers {
		centers[i] = (hist.Edges[i] + hist.Edges[i+1]) / 2
	}
	bars := figure.Layer{
		Mark:   figure.MarkBars,
		Series: "histogram",
		X:      centers,
		Y:      hist.Density,
		Edges:  hist.Edges,
	}

	return &figure.Figure{
		ID: figureID(kind, t, column,
			strconv.Itoa(params.Histogram.Bins), formatFloat(params.Histogram.BinWidth), formatFloat(factor)),
		Kind:   kind,
		Title:  "Density histogram with KDE of " + column,
		XLabel: column,
		YLabel: "Density",
		Panels: []figure.Panel{{
			Name:   "distribution",
			Layers: []figure.Layer{bars, curve},
		}},
	}, nil
}
