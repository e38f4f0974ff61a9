package views

import (
	"fmt"
	"strconv"

	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
	apperrors "whrlab/internal/errors"
)

// ScatterParams selects the axes, the color column and the year. Empty
// column names fall back to the WHR columns; Year is always used as
// given, so callers start from DefaultScatterYear.
type ScatterParams struct {
	X    string
	Y    string
	Hue  string
	Year int
}

func (p ScatterParams) withDefaults() ScatterParams {
	if p.X == "" {
		p.X = dataset.ColumnLogGDP
	}
	if p.Y == "" {
		p.Y = dataset.ColumnLifeLadder
	}
	if p.Hue == "" {
		p.Hue = dataset.ColumnLifeExpectancy
	}
	return p
}

// ScatterWithHue plots Y against X for the rows of one year, coloring
// each point by a continuous hue column
func ScatterWithHue(t *dataset.Table, params ScatterParams) (*figure.Figure, error) {
	kind := figure.KindScatterHue
	if err := requireRows(t, kind); err != nil {
		return nil, err
	}
	p := params.withDefaults()

	for _, name := range []string{p.X, p.Y, p.Hue} {
		if _, err := t.NumericColumn(name); err != nil {
			return nil, err
		}
	}

	year, err := analysis.FilterByYear(t, p.Year)
	if err != nil {
		return nil, err
	}
	if year.Len() == 0 {
		return nil, apperrors.EmptyInput(fmt.Sprintf("no rows for year %d", p.Year))
	}

	rows, err := completeRows(year, kind, p.X, p.Y, p.Hue)
	if err != nil {
		return nil, err
	}
	xCol, _ := rows.Column(p.X)
	yCol, _ := rows.Column(p.Y)
	hueCol, _ := rows.Column(p.Hue)

	return &figure.Figure{
		ID:     figureID(kind, t, p.X, p.Y, p.Hue, strconv.Itoa(p.Year)),
		Kind:   kind,
		Title:  fmt.Sprintf("%s vs %s in %d", p.Y, p.X, p.Year),
		XLabel: p.X,
		YLabel: p.Y,
		Panels: []figure.Panel{{
			Name: "scatter",
			Layers: []figure.Layer{{
				Mark:   figure.MarkPoints,
				Series: p.Hue,
				X:      xCol.Floats(),
				Y:      yCol.Floats(),
				Hue:    hueCol.Floats(),
			}},
		}},
	}, nil
}
