package container

import (
	"context"
	"fmt"

	"whrlab/adapters/datareadiness/coercer"
	"whrlab/adapters/excel"
	"whrlab/adapters/render"
	"whrlab/app"
	"whrlab/internal/config"
	"whrlab/internal/logging"
	"whrlab/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Adapters
	Loader   *excel.FileLoader
	Renderer *render.SVGRenderer
	Sink     ports.FigureSink

	// Services
	Analysis *app.AnalysisService
}

// Option customizes a container before its services are built
type Option func(*Container)

// WithSink replaces the directory sink, e.g. with an in-memory one in tests
func WithSink(sink ports.FigureSink) Option {
	return func(c *Container) { c.Sink = sink }
}

// WithLoaderOptions passes reader options to the table loader, after
// the ones derived from the data config
func WithLoaderOptions(opts ...excel.Option) Option {
	return func(c *Container) {
		c.Loader = excel.NewFileLoader(append(loaderOptions(c.Config.Data), opts...)...)
	}
}

// loaderOptions maps the data config onto reader options. An empty cell
// is always missing in numeric columns, whatever tokens are configured.
func loaderOptions(data config.DataConfig) []excel.Option {
	var opts []excel.Option
	if data.Sheet != "" {
		opts = append(opts, excel.WithSheet(data.Sheet))
	}
	if len(data.MissingTokens) > 0 {
		rules := coercer.DefaultCoercionConfig()
		rules.MissingTokens = append([]string{""}, data.MissingTokens...)
		opts = append(opts, excel.WithCoercionConfig(rules))
	}
	return opts
}

// New creates a new dependency injection container
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:   cfg,
		Loader:   excel.NewFileLoader(loaderOptions(cfg.Data)...),
		Renderer: render.NewSVGRenderer(cfg.Output.Width, cfg.Output.Height),
	}
	c.Sink = render.NewDirectorySink(c.Renderer, cfg.Output.Dir)

	for _, opt := range opts {
		opt(c)
	}

	c.Analysis = app.NewAnalysisService(c.Loader, c.Sink, cfg.Views)

	log := logging.Component("Container")
	log.Debug().
		Str("output_dir", cfg.Output.Dir).
		Int("width", c.Renderer.Width).
		Int("height", c.Renderer.Height).
		Msg("Container initialized")
	return c, nil
}

// RunAndPublish loads the configured files, builds every view and
// publishes the ones that succeeded
func (c *Container) RunAndPublish(ctx context.Context) (*app.Report, error) {
	report, err := c.Analysis.RunFiles(ctx, c.Config.Data.File, c.Config.Data.GapFile)
	if err != nil {
		return nil, err
	}
	if err := c.Analysis.Publish(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}
