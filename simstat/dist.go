// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A QuantileFunc returns the q'th quantile of sorted, a non-empty
// slice in ascending order.
type QuantileFunc func(sorted []float64, q float64) float64

// SampleQuantile is the default QuantileFunc. It interpolates using
// method R8 from Hyndman and Fan (1996).
func SampleQuantile(sorted []float64, q float64) float64 {
	return stats.Sample{Xs: sorted, Sorted: true}.Quantile(q)
}

// A Distribution summarizes a set of observations of one statistic.
type Distribution struct {
	// Values is the sorted set of observations.
	Values []float64

	// Mean is the arithmetic mean of Values.
	Mean float64

	// StdDev is the population standard deviation of Values.
	StdDev float64

	quantile QuantileFunc
}

type DistributionOptions struct {
	// Quantile computes quantiles of the distribution. If nil,
	// SampleQuantile is used.
	Quantile QuantileFunc
}

// NewDistribution returns the distribution of values. It takes
// ownership of values and sorts it in place.
//
// If values is empty, it returns ErrInsufficientData.
func NewDistribution(values []float64, opts DistributionOptions) (*Distribution, error) {
	if len(values) == 0 {
		return nil, ErrInsufficientData
	}
	samp := stats.Sample{Xs: values}
	// Speed up order statistics.
	samp.Sort()

	n := float64(len(values))
	// stats.Variance is the sample variance. Rescale to the
	// population variance.
	variance := stats.Variance(samp.Xs) * (n - 1) / n

	quantile := opts.Quantile
	if quantile == nil {
		quantile = SampleQuantile
	}
	return &Distribution{
		Values:   samp.Xs,
		Mean:     stats.Mean(samp.Xs),
		StdDev:   math.Sqrt(variance),
		quantile: quantile,
	}, nil
}

// Quantile returns the q'th quantile of d.
func (d *Distribution) Quantile(q float64) float64 {
	return d.quantile(d.Values, q)
}

// PercentileCI returns the two-sided percentile interval at level
// 1-alpha, that is, the alpha/2 and 1-alpha/2 quantiles of d.
func (d *Distribution) PercentileCI(alpha float64) (lo, hi float64) {
	return d.Quantile(alpha / 2), d.Quantile(1 - alpha/2)
}

// NormalCI returns the normal-approximation interval of the mean of
// d, Mean ∓ z·StdDev/√n.
func (d *Distribution) NormalCI(z float64) (lo, hi float64) {
	w := z * d.StdDev / math.Sqrt(float64(len(d.Values)))
	return d.Mean - w, d.Mean + w
}
