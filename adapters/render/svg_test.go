package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whrlab/domain/figure"
	"whrlab/internal/testkit"
	"whrlab/internal/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramFigure(t *testing.T) *figure.Figure {
	t.Helper()
	fig, err := views.HistogramKDE(testkit.WHRTable(t), views.HistogramKDEParams{})
	require.NoError(t, err)
	return fig
}

func TestRenderHistogram(t *testing.T) {
	r := NewSVGRenderer(640, 400)

	outputs, err := r.Render(histogramFigure(t))
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	assert.Equal(t, string(figure.KindHistogramKDE), outputs[0].Name)
	svg := string(outputs[0].SVG)
	assert.True(t, strings.Contains(svg, "<svg"), "output is an SVG document")
	assert.Contains(t, svg, "</svg>")
}

func TestRenderRejectsEmptyFigure(t *testing.T) {
	r := NewSVGRenderer(0, 0)
	assert.Equal(t, 800, r.Width)
	assert.Equal(t, 500, r.Height)

	_, err := r.Render(&figure.Figure{Kind: figure.KindHistogramKDE})
	assert.Error(t, err)
	_, err = r.Render(nil)
	assert.Error(t, err)
}

func TestDirectorySinkPublish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	sink := NewDirectorySink(NewSVGRenderer(400, 300), dir)

	paths, err := sink.Publish(context.Background(), histogramFigure(t))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "histogram_kde.svg")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestSteps(t *testing.T) {
	layer := figure.Layer{
		Mark:  figure.MarkBars,
		X:     []float64{0.5, 1.5},
		Y:     []float64{0.25, 0.75},
		Edges: []float64{0, 1, 2},
	}

	xs, ys := steps(layer)
	assert.Equal(t, []float64{0, 0, 1, 2, 2}, xs)
	assert.Equal(t, []float64{0, 0.25, 0.75, 0.75, 0}, ys)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "joint_marginals_marginal_x", sanitize("joint_marginals_marginal_x"))
	assert.Equal(t, "a_b_c", sanitize("a/b c"))
}
