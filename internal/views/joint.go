package views

import (
	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
)

// Panel names of the joint view
const (
	PanelJoint     = "joint"
	PanelMarginalX = "marginal_x"
	PanelMarginalY = "marginal_y"
)

// JointParams selects the two axes and the categorical hue column
type JointParams struct {
	X               string
	Y               string
	Hue             string
	BandwidthFactor float64
}

func (p JointParams) withDefaults() JointParams {
	if p.X == "" {
		p.X = dataset.ColumnLogGDP
	}
	if p.Y == "" {
		p.Y = dataset.ColumnLifeLadder
	}
	if p.Hue == "" {
		p.Hue = analysis.AboveMedianColumn(dataset.ColumnLifeExpectancy)
	}
	p.BandwidthFactor = bandwidthOrDefault(p.BandwidthFactor)
	return p
}

// JointMarginals scatters Y against X with one point series per hue
// value, plus the density of X above and the density of Y beside it
func JointMarginals(t *dataset.Table, params JointParams) (*figure.Figure, error) {
	kind := figure.KindJointMarginals
	if err := requireRows(t, kind); err != nil {
		return nil, err
	}
	p := params.withDefaults()

	for _, name := range []string{p.X, p.Y} {
		if _, err := t.NumericColumn(name); err != nil {
			return nil, err
		}
	}
	rows, err := completeRows(t, kind, p.X, p.Y, p.Hue)
	if err != nil {
		return nil, err
	}

	xCol, _ := rows.Column(p.X)
	yCol, _ := rows.Column(p.Y)
	hueCol, _ := rows.Column(p.Hue)
	xs, ys := xCol.Floats(), yCol.Floats()

	joint := figure.Panel{Name: PanelJoint, XLabel: p.X, YLabel: p.Y}
	order, index := groups(hueCol, rows.Len())
	for _, key := range order {
		layer := figure.Layer{Mark: figure.MarkPoints, Series: key}
		for _, r := range index[key] {
			layer.X = append(layer.X, xs[r])
			layer.Y = append(layer.Y, ys[r])
		}
		joint.Layers = append(joint.Layers, layer)
	}

	marginalX, err := densityLayer(rows, p.X, p.X, p.BandwidthFactor)
	if err != nil {
		return nil, err
	}
	marginalY, err := densityLayer(rows, p.Y, p.Y, p.BandwidthFactor)
	if err != nil {
		return nil, err
	}

	return &figure.Figure{
		ID:      figureID(kind, t, p.X, p.Y, p.Hue, formatFloat(p.BandwidthFactor)),
		Kind:    kind,
		Title:   p.Y + " vs " + p.X + " by " + p.Hue,
		XLabel:  p.X,
		YLabel:  p.Y,
		SharedX: true,
		Panels: []figure.Panel{
			joint,
			{Name: PanelMarginalX, XLabel: p.X, YLabel: "Density", Layers: []figure.Layer{marginalX}},
			{Name: PanelMarginalY, XLabel: p.Y, YLabel: "Density", Transposed: true, Layers: []figure.Layer{marginalY}},
		},
	}, nil
}
