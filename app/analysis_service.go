package app

import (
	"context"
	"fmt"
	"time"

	"whrlab/domain/core"
	"whrlab/domain/dataset"
	"whrlab/domain/figure"
	"whrlab/internal/analysis"
	"whrlab/internal/config"
	apperrors "whrlab/internal/errors"
	"whrlab/internal/logging"
	"whrlab/internal/views"
	"whrlab/ports"
)

// AnalysisService builds every WHR view for one input table
type AnalysisService struct {
	loader ports.TableLoader
	sink   ports.FigureSink
	views  config.ViewConfig
}

// ViewResult is the outcome of one view builder. Exactly one of Figure
// and Err is set.
type ViewResult struct {
	Kind   figure.Kind    `json:"kind"`
	Figure *figure.Figure `json:"figure,omitempty"`
	Err    error          `json:"-"`
	Error  string         `json:"error,omitempty"`
	Paths  []string       `json:"paths,omitempty"`
}

// OK reports whether the view was built
func (r ViewResult) OK() bool { return r.Err == nil && r.Figure != nil }

// Report contains the complete output of an analysis run
type Report struct {
	RunID       core.RunID   `json:"run_id"`
	Fingerprint core.Hash    `json:"fingerprint"`
	Rows        int          `json:"rows"`
	Results     []ViewResult `json:"results"`
	RuntimeMs   int64        `json:"runtime_ms"`
}

// Failed returns the results whose builder returned an error
func (r *Report) Failed() []ViewResult {
	var failed []ViewResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// NewAnalysisService creates an analysis service. loader and sink may be
// nil when the caller only uses Run.
func NewAnalysisService(loader ports.TableLoader, sink ports.FigureSink, views config.ViewConfig) *AnalysisService {
	return &AnalysisService{
		loader: loader,
		sink:   sink,
		views:  views,
	}
}

// RunFiles loads the WHR file and the optional gap file, then runs
func (s *AnalysisService) RunFiles(ctx context.Context, dataFile, gapFile string) (*Report, error) {
	if s.loader == nil {
		return nil, apperrors.InternalError("analysis service has no table loader")
	}

	table, err := s.loader.LoadTable(ctx, dataFile)
	if err != nil {
		return nil, err
	}
	if err := table.Require(dataset.WHRRequiredColumns...); err != nil {
		return nil, apperrors.DataLoadError(fmt.Sprintf("%s is not a WHR table", dataFile), err)
	}

	// The gap table only feeds the faceted view, so a bad gap file fails
	// that view alone
	var (
		gaps   *dataset.Table
		gapErr error
	)
	if gapFile != "" {
		gaps, gapErr = s.loader.LoadTable(ctx, gapFile)
		if gapErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			gaps = nil
		}
	}
	return s.run(ctx, table, gaps, gapErr)
}

// Run builds the five views in order. A failing view is recorded in its
// result and does not stop the others; only cancellation aborts the run.
func (s *AnalysisService) Run(ctx context.Context, table, gaps *dataset.Table) (*Report, error) {
	return s.run(ctx, table, gaps, nil)
}

func (s *AnalysisService) run(ctx context.Context, table, gaps *dataset.Table, gapErr error) (*Report, error) {
	log := logging.Component("AnalysisService")
	start := time.Now()

	report := &Report{RunID: core.NewRunID()}
	if table != nil {
		report.Rows = table.Len()
		report.Fingerprint = table.Fingerprint()
	}
	log.Info().Str("run_id", report.RunID.String()).Int("rows", report.Rows).Msg("Starting analysis run")

	for _, kind := range figure.AllKinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			fig *figure.Figure
			err error
		)
		if kind == figure.KindFacetedGapBar && gapErr != nil {
			err = gapErr
		} else {
			fig, err = s.build(kind, table, gaps)
		}
		result := ViewResult{Kind: kind, Figure: fig, Err: err}
		if err != nil {
			result.Figure = nil
			result.Error = err.Error()
			log.Warn().Str("view", string(kind)).Str("code", apperrors.GetCode(err)).Err(err).Msg("View skipped")
		} else {
			log.Debug().Str("view", string(kind)).Str("figure", fig.ID.String()).Int("points", fig.PointCount()).Msg("View built")
		}
		report.Results = append(report.Results, result)
	}

	report.RuntimeMs = time.Since(start).Milliseconds()
	log.Info().
		Str("run_id", report.RunID.String()).
		Int("built", len(report.Results)-len(report.Failed())).
		Int("failed", len(report.Failed())).
		Int64("runtime_ms", report.RuntimeMs).
		Msg("Analysis run complete")
	return report, nil
}

// Publish hands every built figure to the sink and records where each
// one went. It stops at the first sink error.
func (s *AnalysisService) Publish(ctx context.Context, report *Report) error {
	if s.sink == nil {
		return apperrors.InternalError("analysis service has no figure sink")
	}
	for i := range report.Results {
		res := &report.Results[i]
		if !res.OK() {
			continue
		}
		paths, err := s.sink.Publish(ctx, res.Figure)
		if err != nil {
			return apperrors.Wrapf(err, "publish %s", res.Kind)
		}
		res.Paths = paths
	}
	return nil
}

func (s *AnalysisService) build(kind figure.Kind, table, gaps *dataset.Table) (*figure.Figure, error) {
	switch kind {
	case figure.KindFacetedGapBar:
		if gaps == nil {
			return nil, apperrors.InvalidInput("no gap table configured")
		}
		return views.FacetedGapBars(gaps, views.FacetBarParams{})

	case figure.KindScatterHue:
		return views.ScatterWithHue(table, views.ScatterParams{Year: s.views.ScatterYear})

	case figure.KindHistogramKDE:
		return views.HistogramKDE(table, views.HistogramKDEParams{
			Column: dataset.ColumnLifeLadder,
			Histogram: analysis.HistogramOptions{
				Bins:     s.views.HistogramBins,
				BinWidth: s.views.HistogramBinSize,
			},
			BandwidthFactor: s.views.BandwidthFactor,
		})

	case figure.KindConditionalKDE:
		if err := nonEmpty(table, kind); err != nil {
			return nil, err
		}
		derived, err := analysis.AddAboveMedian(table, dataset.ColumnLogGDP)
		if err != nil {
			return nil, err
		}
		return views.ConditionalKDE(derived, views.ConditionalKDEParams{
			Value:           dataset.ColumnLifeLadder,
			Group:           analysis.AboveMedianColumn(dataset.ColumnLogGDP),
			BandwidthFactor: s.views.BandwidthFactor,
		})

	case figure.KindJointMarginals:
		if err := nonEmpty(table, kind); err != nil {
			return nil, err
		}
		derived, err := analysis.AddAboveMedian(table, dataset.ColumnLifeExpectancy)
		if err != nil {
			return nil, err
		}
		return views.JointMarginals(derived, views.JointParams{
			X:               dataset.ColumnLogGDP,
			Y:               dataset.ColumnLifeLadder,
			Hue:             analysis.AboveMedianColumn(dataset.ColumnLifeExpectancy),
			BandwidthFactor: s.views.BandwidthFactor,
		})
	}
	return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unknown view kind %q", kind)
}

// nonEmpty reports an empty table before deriving columns from it, so
// the view fails as empty rather than as too small for a median
func nonEmpty(t *dataset.Table, kind figure.Kind) error {
	if t == nil || t.Len() == 0 {
		return apperrors.EmptyInput(fmt.Sprintf("%s view needs at least one row", kind))
	}
	return nil
}
