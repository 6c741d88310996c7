// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestBootstrapSingleRepetition(t *testing.T) {
	opts := BootstrapOptions{Alpha: 0.05, Repetitions: 1, Rand: constRand(0)}
	est, err := Bootstrap[float64](fracComparer{}, []float64{0.25, 0.75}, opts)
	if err != nil {
		t.Fatal(err)
	}
	// The only resample is [0.25, 0.25]. The point estimate comes
	// from the full list, not the resample.
	want := Cell{Shared: 0.5, StdDev: 0, Low: 0.25, High: 0.25}
	if diff := cmp.Diff(want, est.Cell); diff != "" {
		t.Errorf("cell mismatch (-want +got):\n%s", diff)
	}
	if est.Profile != 0.5 {
		t.Errorf("profile: got %v, want 0.5", est.Profile)
	}
}

func TestBootstrapStats(t *testing.T) {
	// Resamples [0,0], [1,1], [0,1], [1,0] share 0, 1, .5, .5.
	rnd := &seqRand{seq: []int{0, 0, 1, 1, 0, 1, 1, 0}}
	opts := BootstrapOptions{Alpha: 0.5, Repetitions: 4, Rand: rnd}
	est, err := Bootstrap[float64](fracComparer{}, []float64{0, 1}, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := Cell{
		Shared: 0.5,
		StdDev: math.Sqrt(0.125),
		// R8 quantiles of {0, .5, .5, 1} at .25 and .75.
		Low:  SampleQuantile([]float64{0, 0.5, 0.5, 1}, 0.25),
		High: SampleQuantile([]float64{0, 0.5, 0.5, 1}, 0.75),
	}
	if diff := cmp.Diff(want, est.Cell, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("cell mismatch (-want +got):\n%s", diff)
	}
	if !(est.Low <= est.High) {
		t.Errorf("interval [%v, %v] is inverted", est.Low, est.High)
	}
}

func TestBootstrapQuantiles(t *testing.T) {
	var qs []float64
	opts := BootstrapOptions{
		Alpha:       0.05,
		Repetitions: 10,
		Rand:        constRand(0),
		Quantile: func(sorted []float64, q float64) float64 {
			qs = append(qs, q)
			return sorted[0]
		},
	}
	if _, err := Bootstrap[float64](fracComparer{}, []float64{0.1, 0.2, 0.3}, opts); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.025, 0.975}, qs, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("quantiles mismatch (-want +got):\n%s", diff)
	}
}

func TestBootstrapDoesNotModifyInput(t *testing.T) {
	c := new(groupComparer)
	in := []tagged{{"p1", "a"}, {"p2", "a"}}
	est, err := Bootstrap[tagged](c, in, BootstrapOptions{Repetitions: 5, Rand: constRand(1)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]tagged{{"p1", "a"}, {"p2", "a"}}, in, cmp.AllowUnexported(tagged{})); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
	if c.normalized != 1 {
		t.Errorf("normalized %d times, want 1", c.normalized)
	}
	// 5 resamples plus the full comparison.
	if c.compared != 6 {
		t.Errorf("compared %d times, want 6", c.compared)
	}
	if est.Profile.name != "core" || est.Shared != 1 {
		t.Errorf("got profile %+v shared %v, want core profile sharing 1", est.Profile, est.Shared)
	}
}

func TestBootstrapErrors(t *testing.T) {
	check := func(name string, profiles []float64, opts BootstrapOptions, want error) {
		t.Helper()
		est, err := Bootstrap[float64](fracComparer{}, profiles, opts)
		if !errors.Is(err, want) {
			t.Errorf("%s: got error %v, want %v", name, err, want)
		}
		if est != nil {
			t.Errorf("%s: got partial result %+v", name, est)
		}
	}
	check("zero repetitions", []float64{1}, BootstrapOptions{Alpha: 0.05}, ErrInsufficientData)
	check("no profiles", nil, BootstrapOptions{Alpha: 0.05, Repetitions: 10}, ErrInsufficientData)
	check("negative repetitions", []float64{1}, BootstrapOptions{Repetitions: -1}, ErrInvalidOption)
	check("alpha one", []float64{1}, BootstrapOptions{Alpha: 1, Repetitions: 1}, ErrInvalidOption)
	check("alpha NaN", []float64{1}, BootstrapOptions{Alpha: math.NaN(), Repetitions: 1}, ErrInvalidOption)
}

func TestBootstrapDefaults(t *testing.T) {
	opts := DefaultBootstrapOptions()
	if opts.Alpha != 0.05 || opts.Repetitions != 1000 {
		t.Errorf("got %+v, want alpha 0.05 and 1000 repetitions", opts)
	}
	// The global source must work when Rand is nil.
	est, err := Bootstrap[float64](fracComparer{}, []float64{0.5, 0.5, 0.5}, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := Cell{Shared: 0.5, StdDev: 0, Low: 0.5, High: 0.5}
	if diff := cmp.Diff(want, est.Cell); diff != "" {
		t.Errorf("cell mismatch (-want +got):\n%s", diff)
	}
}
