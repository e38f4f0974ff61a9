package figure

import (
	"whrlab/domain/core"
)

// Kind tags which view builder produced a figure
type Kind string

const (
	KindFacetedGapBar  Kind = "faceted_gap_bar"
	KindScatterHue     Kind = "scatter_hue"
	KindHistogramKDE   Kind = "histogram_kde"
	KindConditionalKDE Kind = "conditional_kde"
	KindJointMarginals Kind = "joint_marginals"
)

// AllKinds lists every view kind in pipeline order
var AllKinds = []Kind{
	KindFacetedGapBar,
	KindScatterHue,
	KindHistogramKDE,
	KindConditionalKDE,
	KindJointMarginals,
}

// Mark is the visual encoding of a layer
type Mark string

const (
	MarkPoints Mark = "points"
	MarkBars   Mark = "bars"
	MarkLine   Mark = "line"
)

// Figure is a renderable description of a chart. It is built once by a
// view builder and never modified afterwards.
type Figure struct {
	ID     core.FigureID `json:"id"`
	Kind   Kind          `json:"kind"`
	Title  string        `json:"title"`
	XLabel string        `json:"x_label"`
	YLabel string        `json:"y_label"`

	// Faceted figures lay their panels out side by side as one chart;
	// otherwise each panel is a chart of its own.
	Faceted bool `json:"faceted"`
	// SharedX reports whether panels share one x scale.
	SharedX bool `json:"shared_x"`

	Panels []Panel `json:"panels"`
}

// Panel is one set of axes
type Panel struct {
	Name   string `json:"name"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	// Transposed panels plot Layer.X on the vertical axis, as for a
	// marginal density drawn beside the y axis.
	Transposed bool `json:"transposed,omitempty"`
	// Categories labels the integer x positions 0..n-1 when the x axis
	// is categorical.
	Categories []string `json:"categories,omitempty"`
	Layers     []Layer  `json:"layers"`
}

// Layer is one mark drawn from paired X and Y values. Bars use Edges
// (len(Y)+1 bin boundaries) when set, and X as bar centers otherwise.
type Layer struct {
	Mark   Mark      `json:"mark"`
	Series string    `json:"series,omitempty"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Hue    []float64 `json:"hue,omitempty"`
	Edges  []float64 `json:"edges,omitempty"`
}

// Len returns the number of points in the layer
func (l Layer) Len() int { return len(l.Y) }

// PointCount totals the points drawn across every panel
func (f *Figure) PointCount() int {
	n := 0
	for _, p := range f.Panels {
		for _, l := range p.Layers {
			n += l.Len()
		}
	}
	return n
}
