package ports

import (
	"context"

	"whrlab/domain/dataset"
	"whrlab/domain/figure"
)

// TableLoader reads an input file into a typed table
type TableLoader interface {
	LoadTable(ctx context.Context, path string) (*dataset.Table, error)
}

// FigureSink stores a figure somewhere outside the process and returns
// where it went
type FigureSink interface {
	Publish(ctx context.Context, fig *figure.Figure) ([]string, error)
}
