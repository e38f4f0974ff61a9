package views

import (
	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	apperrors "whrlab/internal/errors"
)

// FacetBarParams names the columns of a long-format gap table. Empty
// fields fall back to the Default*Column constants.
type FacetBarParams struct {
	Facet string
	Color string
	X     string
	Y     string
}

func (p FacetBarParams) withDefaults() FacetBarParams {
	if p.Facet == "" {
		p.Facet = DefaultFacetColumn
	}
	if p.Color == "" {
		p.Color = DefaultColorColumn
	}
	if p.X == "" {
		p.X = DefaultMeasure
	}
	if p.Y == "" {
		p.Y = DefaultGapColumn
	}
	return p
}

// FacetedGapBars draws one bar panel per facet value, in order of first
// appearance, with one bar series per color value. Each panel keeps its
// own x scale.
func FacetedGapBars(t *dataset.Table, params FacetBarParams) (*figure.Figure, error) {
	kind := figure.KindFacetedGapBar
	if err := requireRows(t, kind); err != nil {
		return nil, err
	}
	p := params.withDefaults()

	if _, err := t.NumericColumn(p.Y); err != nil {
		return nil, err
	}
	rows, err := completeRows(t, kind, p.Facet, p.Color, p.X, p.Y)
	if err != nil {
		return nil, err
	}

	facetCol, _ := rows.Column(p.Facet)
	colorCol, _ := rows.Column(p.Color)
	xCol, _ := rows.Column(p.X)
	yCol, _ := rows.Column(p.Y)
	ys := yCol.Floats()
	var xs []float64
	if xCol.Type().IsNumeric() {
		xs = xCol.Floats()
	}

	facets, facetRows := groups(facetCol, rows.Len())
	panels := make([]figure.Panel, 0, len(facets))
	for _, facet := range facets {
		panel := figure.Panel{Name: facet, YLabel: p.Y}

		// Categorical measures are placed at 0..n-1 in the order they
		// first appear within the panel.
		position := map[string]int{}
		if xs == nil {
			for _, r := range facetRows[facet] {
				label := xCol.Format(r)
				if _, ok := position[label]; !ok {
					position[label] = len(panel.Categories)
					panel.Categories = append(panel.Categories, label)
				}
			}
		}

		series, seriesRows := groups(colorCol.Take(facetRows[facet]), len(facetRows[facet]))
		for _, name := range series {
			layer := figure.Layer{Mark: figure.MarkBars, Series: name}
			for _, local := range seriesRows[name] {
				r := facetRows[facet][local]
				if xs != nil {
					layer.X = append(layer.X, xs[r])
				} else {
					layer.X = append(layer.X, float64(position[xCol.Format(r)]))
				}
				layer.Y = append(layer.Y, ys[r])
			}
			panel.Layers = append(panel.Layers, layer)
		}
		panels = append(panels, panel)
	}

	if len(panels) == 0 {
		return nil, apperrors.InsufficientData("faceted gap view has no panels")
	}

	return &figure.Figure{
		ID:      figureID(kind, t, p.Facet, p.Color, p.X, p.Y),
		Kind:    kind,
		Title:   p.Y + " by " + p.Facet,
		YLabel:  p.Y,
		Faceted: true,
		SharedX: false,
		Panels:  panels,
	}, nil
}
