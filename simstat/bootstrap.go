// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"fmt"
	"math/rand/v2"
)

// A Comparer normalizes and compares lists of profiles of type P.
type Comparer[P any] interface {
	// Normalize returns profiles rescaled onto a common basis. It
	// must not modify profiles or the values it refers to.
	Normalize(profiles []P) ([]P, error)

	// Compare compares a list of profiles and returns the profile
	// they have in common and the fraction not shared among them.
	// The profiles slice is reused by the caller, so Compare must
	// not retain it.
	Compare(profiles []P) (Comparison[P], error)
}

// Comparison is the result of comparing a list of profiles.
type Comparison[P any] struct {
	// Profile is the profile common to the compared profiles.
	Profile P

	// NotShared is the fraction, in [0, 1], not shared by the
	// compared profiles.
	NotShared float64
}

// Shared returns the amount shared, 1 - c.NotShared.
func (c Comparison[P]) Shared() float64 {
	return 1 - c.NotShared
}

// A RandSource returns uniform random integers in [0, n).
//
// *rand.Rand from math/rand/v2 implements RandSource.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

const (
	// DefaultAlpha gives a 95% confidence interval.
	DefaultAlpha = 0.05

	// DefaultRepetitions is the default number of bootstrap
	// resamples.
	DefaultRepetitions = 1000
)

// BootstrapOptions controls Bootstrap.
type BootstrapOptions struct {
	// Alpha selects the two-sided 1-Alpha confidence interval. It
	// must be in [0, 1).
	Alpha float64

	// Repetitions is the number of bootstrap resamples. It must
	// be at least 1.
	Repetitions int

	// Rand draws resample indexes. If nil, the global
	// math/rand/v2 source is used.
	Rand RandSource

	// Quantile computes the confidence interval bounds. If nil,
	// SampleQuantile is used.
	Quantile QuantileFunc
}

// DefaultBootstrapOptions returns the default options: a 95%
// interval over 1000 resamples drawn from the global source.
func DefaultBootstrapOptions() BootstrapOptions {
	return BootstrapOptions{Alpha: DefaultAlpha, Repetitions: DefaultRepetitions}
}

func (o *BootstrapOptions) validate() error {
	if o.Repetitions < 0 {
		return fmt.Errorf("%w: negative repetitions %d", ErrInvalidOption, o.Repetitions)
	}
	if !(o.Alpha >= 0 && o.Alpha < 1) {
		return fmt.Errorf("%w: alpha %v not in [0, 1)", ErrInvalidOption, o.Alpha)
	}
	return nil
}

// An Estimate is the bootstrap estimate of the amount shared by a
// list of profiles.
type Estimate[P any] struct {
	// Profile is the profile common to the whole list.
	Profile P

	// Cell holds the amount shared by the whole list, and the
	// bootstrap standard deviation and percentile interval of
	// the amount shared.
	Cell
}

// Bootstrap estimates the amount shared by profiles.
//
// The point estimate, Shared, and Profile come from comparing all of
// the normalized profiles once. StdDev and the [Low, High] interval
// come from opts.Repetitions resamples of the profiles, drawn with
// replacement. Note that Shared is not the mean of the resamples.
//
// profiles itself is left untouched; Bootstrap works on the
// normalized copy returned by c.Normalize.
func Bootstrap[P any](c Comparer[P], profiles []P, opts BootstrapOptions) (*Estimate[P], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(profiles) == 0 || opts.Repetitions == 0 {
		return nil, ErrInsufficientData
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = globalRand{}
	}

	norm, err := c.Normalize(profiles)
	if err != nil {
		return nil, fmt.Errorf("normalizing profiles: %w", err)
	}

	n := len(norm)
	shared := make([]float64, 0, opts.Repetitions)
	resample := make([]P, n)
	for range opts.Repetitions {
		for j := range resample {
			resample[j] = norm[rnd.IntN(n)]
		}
		cmp, err := c.Compare(resample)
		if err != nil {
			return nil, fmt.Errorf("comparing resample: %w", err)
		}
		shared = append(shared, cmp.Shared())
	}

	dist, err := NewDistribution(shared, DistributionOptions{Quantile: opts.Quantile})
	if err != nil {
		return nil, err
	}
	lo, hi := dist.PercentileCI(opts.Alpha)

	// The point estimate is the comparison of the full list.
	full, err := c.Compare(norm)
	if err != nil {
		return nil, fmt.Errorf("comparing profiles: %w", err)
	}
	return &Estimate[P]{
		Profile: full.Profile,
		Cell: Cell{
			Shared: full.Shared(),
			StdDev: dist.StdDev,
			Low:    lo,
			High:   hi,
		},
	}, nil
}
