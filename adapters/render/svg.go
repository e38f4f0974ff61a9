// Package render draws figure descriptions as SVG with go-gg.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"whrlab/domain/figure"
	apperrors "whrlab/internal/errors"
	"whrlab/internal/logging"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// Output is one rendered chart
type Output struct {
	Name string
	SVG  []byte
}

// SVGRenderer renders figures at a fixed pixel size per chart
type SVGRenderer struct {
	Width  int
	Height int
}

// NewSVGRenderer creates a renderer, falling back to 800x500 for
// non-positive sizes
func NewSVGRenderer(width, height int) *SVGRenderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 500
	}
	return &SVGRenderer{Width: width, Height: height}
}

// Render draws a faceted figure as one chart and any other figure as one
// chart per panel
func (r *SVGRenderer) Render(fig *figure.Figure) (outputs []Output, err error) {
	if fig == nil || len(fig.Panels) == 0 {
		return nil, apperrors.InvalidInput("figure has no panels")
	}

	// go-gg reports misuse by panicking.
	defer func() {
		if rec := recover(); rec != nil {
			outputs = nil
			err = apperrors.InternalError(fmt.Sprintf("render %s: %v", fig.Kind, rec))
		}
	}()

	if fig.Faceted {
		svg, err := r.write(r.facetPlot(fig), len(fig.Panels))
		if err != nil {
			return nil, err
		}
		return []Output{{Name: string(fig.Kind), SVG: svg}}, nil
	}

	for _, panel := range fig.Panels {
		svg, err := r.write(r.panelPlot(fig, panel), 1)
		if err != nil {
			return nil, err
		}
		name := string(fig.Kind)
		if len(fig.Panels) > 1 {
			name += "_" + panel.Name
		}
		outputs = append(outputs, Output{Name: name, SVG: svg})
	}
	return outputs, nil
}

// WriteFiles renders fig and stores each chart as <dir>/<name>.svg
func (r *SVGRenderer) WriteFiles(fig *figure.Figure, dir string) ([]string, error) {
	log := logging.Component("SVGRenderer")

	outputs, err := r.Render(fig)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrapf(err, "create output directory %s", dir)
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, sanitize(out.Name)+".svg")
		if err := os.WriteFile(path, out.SVG, 0o644); err != nil {
			return nil, apperrors.Wrapf(err, "write %s", path)
		}
		log.Debug().Str("figure", fig.ID.String()).Str("path", path).Int("bytes", len(out.SVG)).Msg("Wrote chart")
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *SVGRenderer) write(p *gg.Plot, columns int) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteSVG(&buf, r.Width*columns, r.Height); err != nil {
		return nil, apperrors.Wrap(err, "write svg")
	}
	return buf.Bytes(), nil
}

// facetPlot lays every panel out as one column of a single chart. Only
// bar layers are faceted.
func (r *SVGRenderer) facetPlot(fig *figure.Figure) *gg.Plot {
	var rows barRows
	for _, panel := range fig.Panels {
		for _, layer := range panel.Layers {
			rows.addBars(panel.Name, layer)
		}
	}

	p := gg.NewPlot(rows.table())
	p.Add(gg.FacetX{Col: "panel", SplitXScales: !fig.SharedX})
	p.GroupBy("bar")
	p.Add(gg.LayerPaths{X: "x", Y: "y", Color: "series"})
	p.Add(gg.Title(fig.Title))
	if fig.YLabel != "" {
		p.Add(gg.AxisLabel("y", fig.YLabel))
	}
	return p
}

// panelPlot draws one panel. Each layer gets its own data table; the
// axes are shared by every layer.
func (r *SVGRenderer) panelPlot(fig *figure.Figure, panel figure.Panel) *gg.Plot {
	p := gg.NewPlot(new(table.Builder).Add("x", []float64{}).Add("y", []float64{}).Done())

	for _, layer := range panel.Layers {
		if layer.Len() == 0 {
			continue
		}
		xs, ys := layer.X, layer.Y
		if panel.Transposed {
			xs, ys = ys, xs
		}

		switch layer.Mark {
		case figure.MarkPoints:
			b := table.NewBuilder(nil).Add("x", xs).Add("y", ys)
			if len(layer.Hue) == layer.Len() {
				p.SetData(b.Add("hue", layer.Hue).Done())
				p.Add(gg.LayerPoints{X: "x", Y: "y", Color: "hue"})
			} else {
				p.SetData(b.Add("series", repeat(layer.Series, len(xs))).Done())
				p.Add(gg.LayerPoints{X: "x", Y: "y", Color: "series"})
			}
		case figure.MarkLine:
			p.SetData(table.NewBuilder(nil).
				Add("x", xs).Add("y", ys).
				Add("series", repeat(layer.Series, len(xs))).Done())
			if panel.Transposed {
				p.Add(gg.LayerPaths{X: "x", Y: "y", Color: "series"})
			} else {
				p.Add(gg.LayerLines{X: "x", Y: "y", Color: "series"})
			}
		case figure.MarkBars:
			if len(layer.Edges) == layer.Len()+1 {
				sx, sy := steps(layer)
				p.SetData(table.NewBuilder(nil).
					Add("x", sx).Add("y", sy).
					Add("series", repeat(layer.Series, len(sx))).Done())
				p.Add(gg.LayerSteps{LayerPaths: gg.LayerPaths{X: "x", Y: "y", Color: "series"}, Step: gg.StepHV})
			} else {
				var rows barRows
				rows.addBars(panel.Name, layer)
				p.SetData(rows.table())
				p.GroupBy("bar")
				p.Add(gg.LayerPaths{X: "x", Y: "y", Color: "series"})
			}
		}
	}

	title := fig.Title
	if len(fig.Panels) > 1 {
		title += " (" + panel.Name + ")"
	}
	p.Add(gg.Title(title))

	xLabel, yLabel := orDefault(panel.XLabel, fig.XLabel), orDefault(panel.YLabel, fig.YLabel)
	if panel.Transposed {
		xLabel, yLabel = yLabel, xLabel
	}
	if xLabel != "" {
		p.Add(gg.AxisLabel("x", xLabel))
	}
	if yLabel != "" {
		p.Add(gg.AxisLabel("y", yLabel))
	}
	return p
}

// steps turns a histogram into the corner points of its outline
func steps(layer figure.Layer) (xs, ys []float64) {
	xs = make([]float64, 0, len(layer.Edges)+2)
	ys = make([]float64, 0, len(layer.Edges)+2)
	xs = append(xs, layer.Edges[0])
	ys = append(ys, 0)
	for i, d := range layer.Y {
		xs = append(xs, layer.Edges[i])
		ys = append(ys, d)
	}
	last := len(layer.Edges) - 1
	xs = append(xs, layer.Edges[last], layer.Edges[last])
	ys = append(ys, layer.Y[len(layer.Y)-1], 0)
	return xs, ys
}

// barRows collects bars as vertical strokes from 0 to the bar height,
// one path group per bar
type barRows struct {
	panel, series, bar []string
	x, y               []float64
}

func (b *barRows) addBars(panel string, layer figure.Layer) {
	for i := range layer.Y {
		id := fmt.Sprintf("%s/%s/%d", panel, layer.Series, i)
		for _, y := range []float64{0, layer.Y[i]} {
			b.panel = append(b.panel, panel)
			b.series = append(b.series, layer.Series)
			b.bar = append(b.bar, id)
			b.x = append(b.x, layer.X[i])
			b.y = append(b.y, y)
		}
	}
}

func (b *barRows) table() *table.Table {
	return table.NewBuilder(nil).
		Add("panel", b.panel).
		Add("series", b.series).
		Add("bar", b.bar).
		Add("x", b.x).
		Add("y", b.y).
		Done()
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, name)
}

// DirectorySink publishes figures as SVG files under one directory
type DirectorySink struct {
	renderer *SVGRenderer
	dir      string
}

// NewDirectorySink creates a sink writing into dir
func NewDirectorySink(renderer *SVGRenderer, dir string) *DirectorySink {
	return &DirectorySink{renderer: renderer, dir: dir}
}

// Publish implements ports.FigureSink
func (s *DirectorySink) Publish(ctx context.Context, fig *figure.Figure) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.renderer.WriteFiles(fig, s.dir)
}
