package views

import (
	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
	apperrors "whrlab/internal/errors"
)

// ConditionalKDEParams names the value column and the bool column that
// splits it
type ConditionalKDEParams struct {
	Value           string
	Group           string
	BandwidthFactor float64
}

func (p ConditionalKDEParams) withDefaults() ConditionalKDEParams {
	if p.Value == "" {
		p.Value = dataset.ColumnLifeLadder
	}
	if p.Group == "" {
		p.Group = analysis.AboveMedianColumn(dataset.ColumnLogGDP)
	}
	p.BandwidthFactor = bandwidthOrDefault(p.BandwidthFactor)
	return p
}

// ConditionalKDE overlays the density of Value for the rows where Group
// is false and where it is true. Each curve is normalized on its own.
func ConditionalKDE(t *dataset.Table, params ConditionalKDEParams) (*figure.Figure, error) {
	kind := figure.KindConditionalKDE
	if err := requireRows(t, kind); err != nil {
		return nil, err
	}
	p := params.withDefaults()

	if _, err := t.NumericColumn(p.Value); err != nil {
		return nil, err
	}
	rows, err := completeRows(t, kind, p.Value, p.Group)
	if err != nil {
		return nil, err
	}
	below, above, err := analysis.SplitByFlag(rows, p.Group)
	if err != nil {
		return nil, err
	}

	panel := figure.Panel{Name: "conditional"}
	for _, g := range []struct {
		series string
		rows   *dataset.Table
	}{
		{"false", below},
		{"true", above},
	} {
		if g.rows.Len() == 0 {
			return nil, apperrors.InsufficientData(p.Group + " has no " + g.series + " rows")
		}
		layer, err := densityLayer(g.rows, p.Value, g.series, p.BandwidthFactor)
		if err != nil {
			return nil, apperrors.Wrapf(err, "%s=%s", p.Group, g.series)
		}
		panel.Layers = append(panel.Layers, layer)
	}

	return &figure.Figure{
		ID:     figureID(kind, t, p.Value, p.Group, formatFloat(p.BandwidthFactor)),
		Kind:   kind,
		Title:  "Distribution of " + p.Value + " by " + p.Group,
		XLabel: p.Value,
		YLabel: "Density",
		Panels: []figure.Panel{panel},
	}, nil
}
