package analysis

import (
	"fmt"
	"math"
	"sort"

	apperrors "whrlab/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins is the bin count used when neither Bins nor
// BinWidth is set
const DefaultHistogramBins = 30

// maxHistogramBins bounds the bin count a BinWidth may produce
const maxHistogramBins = 100000

// HistogramOptions selects bins by count or by width. BinWidth wins when
// both are set.
type HistogramOptions struct {
	Bins     int
	BinWidth float64
}

// Histogram is a density-normalized histogram. Bin i covers
// [Edges[i], Edges[i+1]); the last bin also holds the maximum.
type Histogram struct {
	Edges   []float64
	Counts  []float64
	Density []float64
}

// NormalizedHistogram bins the non-missing values over [min, max] and
// scales bar heights so the total area is 1
func NormalizedHistogram(values []float64, opts HistogramOptions) (Histogram, error) {
	sample := dropMissing(values)
	if len(sample) == 0 {
		return Histogram{}, apperrors.InsufficientData("histogram needs at least one value")
	}
	sort.Float64s(sample)

	lo, hi := sample[0], sample[len(sample)-1]
	if lo == hi {
		return Histogram{}, apperrors.InsufficientData("histogram needs at least 2 distinct values")
	}

	edges, err := binEdges(lo, hi, opts)
	if err != nil {
		return Histogram{}, err
	}

	counts := stat.Histogram(make([]float64, len(edges)-1), edges, sample, nil)
	n := float64(len(sample))
	density := make([]float64, len(counts))
	for i, c := range counts {
		density[i] = c / (n * (edges[i+1] - edges[i]))
	}

	return Histogram{Edges: edges, Counts: counts, Density: density}, nil
}

// binEdges lays out the dividers. The last divider is nudged past hi
// because gonum's bins are half-open.
func binEdges(lo, hi float64, opts HistogramOptions) ([]float64, error) {
	if opts.BinWidth < 0 || opts.Bins < 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("histogram bins %d and width %g must not be negative", opts.Bins, opts.BinWidth))
	}

	var edges []float64
	if opts.BinWidth > 0 {
		bins := int(math.Ceil((hi - lo) / opts.BinWidth))
		if bins < 1 {
			bins = 1
		}
		if bins > maxHistogramBins {
			return nil, apperrors.InvalidInput(fmt.Sprintf("bin width %g yields %d bins, limit is %d", opts.BinWidth, bins, maxHistogramBins))
		}
		edges = make([]float64, bins+1)
		for i := range edges {
			edges[i] = lo + float64(i)*opts.BinWidth
		}
	} else {
		bins := opts.Bins
		if bins == 0 {
			bins = DefaultHistogramBins
		}
		edges = floats.Span(make([]float64, bins+1), lo, hi)
	}

	last := len(edges) - 1
	if edges[last] <= hi {
		edges[last] = math.Nextafter(hi, math.Inf(1))
	}
	return edges, nil
}
