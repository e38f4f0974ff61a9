package analysis

import (
	"fmt"
	"math"

	apperrors "whrlab/internal/errors"

	mstats "github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// KDEPoints is the number of evenly spaced points a density curve is
// sampled at
const KDEPoints = 300

// DefaultBandwidthFactor scales the sample standard deviation into the
// kernel bandwidth
const DefaultBandwidthFactor = 0.25

// Density is a kernel density estimate sampled on [min, max]
type Density struct {
	Xs        []float64
	Values    []float64
	Bandwidth float64
}

// Area integrates the sampled curve with the trapezoid rule
func (d Density) Area() float64 {
	if len(d.Xs) < 2 {
		return 0
	}
	return integrate.Trapezoidal(d.Xs, d.Values)
}

// KDEEstimate samples a Gaussian kernel density estimate of values at
// KDEPoints evenly spaced points spanning [min(values), max(values)].
func KDEEstimate(values []float64, bandwidthFactor float64) (xs, density []float64, err error) {
	d, err := EstimateDensity(values, bandwidthFactor)
	if err != nil {
		return nil, nil, err
	}
	return d.Xs, d.Values, nil
}

// EstimateDensity computes the density curve behind KDEEstimate.
//
// The bandwidth is bandwidthFactor times the sample standard deviation,
// the rule scipy applies for a fixed covariance factor. The curve is
// rescaled so that its trapezoid integral over the sampled range is 1;
// mass the kernels put outside [min, max] would otherwise be lost.
func EstimateDensity(values []float64, bandwidthFactor float64) (Density, error) {
	if !(bandwidthFactor > 0 && bandwidthFactor <= 1) {
		return Density{}, apperrors.InvalidInput(fmt.Sprintf("bandwidth factor must be in (0, 1], got %g", bandwidthFactor))
	}

	sample := dropMissing(values)
	if len(sample) == 0 {
		return Density{}, apperrors.InsufficientData("density estimate needs at least one value")
	}
	if countDistinct(sample, 2) < 2 {
		return Density{}, apperrors.InsufficientData("density estimate needs at least 2 distinct values")
	}

	bandwidth := bandwidthFactor * stat.StdDev(sample, nil)
	kde := mstats.KDE{
		Sample:         mstats.Sample{Xs: sample},
		Kernel:         mstats.GaussianKernel,
		Bandwidth:      bandwidth,
		BoundaryMethod: mstats.BoundaryReflect,
		BoundaryMin:    math.Inf(-1),
		BoundaryMax:    math.Inf(1),
	}

	xs := vec.Linspace(floats.Min(sample), floats.Max(sample), KDEPoints)
	density := make([]float64, len(xs))
	for i, x := range xs {
		density[i] = kde.PDF(x)
	}

	d := Density{Xs: xs, Values: density, Bandwidth: bandwidth}
	area := d.Area()
	if !(area > 0) || math.IsInf(area, 0) {
		return Density{}, apperrors.InsufficientData(fmt.Sprintf("density estimate degenerated (area %g)", area))
	}
	floats.Scale(1/area, d.Values)

	return d, nil
}
