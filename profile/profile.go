// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package profile implements feature-abundance profiles and the
// default way of comparing them.
//
// A Profile maps each feature to how much of it was observed.
// Comparer normalizes profiles to relative abundances and takes the
// part shared by a list of profiles to be the per-feature minimum.
package profile

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/scgm/simstat/proffmt"
	"github.com/scgm/simstat/simstat"
)

var (
	// ErrEmptyProfile is returned when normalizing a profile whose
	// total abundance is not positive.
	ErrEmptyProfile = errors.New("profile: empty profile")

	// ErrNoProfiles is returned when comparing an empty list.
	ErrNoProfiles = errors.New("profile: no profiles")
)

// A Profile maps each feature to its abundance.
type Profile map[string]float64

// FromSample returns the profile of s, summing repeated features.
func FromSample(s *proffmt.Sample) Profile {
	p := make(Profile, len(s.Counts))
	for _, c := range s.Counts {
		p[c.Feature] += c.Value
	}
	return p
}

// Total returns the sum of the abundances in p.
func (p Profile) Total() float64 {
	var t float64
	for _, v := range p {
		t += v
	}
	return t
}

// Features returns the features of p in sorted order.
func (p Profile) Features() []string {
	return slices.Sorted(maps.Keys(p))
}

// Comparer compares profiles by their relative abundances. It
// implements simstat.Comparer[Profile].
type Comparer struct{}

var _ simstat.Comparer[Profile] = Comparer{}

// Normalize returns each profile rescaled to sum to 1. It returns
// ErrEmptyProfile if a profile's total is not positive.
func (Comparer) Normalize(profiles []Profile) ([]Profile, error) {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		total := p.Total()
		if !(total > 0) || math.IsInf(total, 0) {
			return nil, fmt.Errorf("%w: profile %d has total %v", ErrEmptyProfile, i, total)
		}
		n := make(Profile, len(p))
		for f, v := range p {
			n[f] = v / total
		}
		out[i] = n
	}
	return out, nil
}

// Compare returns the core profile of profiles, the per-feature
// minimum abundance over all of them, and the fraction of abundance
// outside it. Features missing from any profile are not in the core.
func (Comparer) Compare(profiles []Profile) (simstat.Comparison[Profile], error) {
	if len(profiles) == 0 {
		return simstat.Comparison[Profile]{}, ErrNoProfiles
	}

	// Walk the smallest profile, since only its features can be
	// in the core.
	first := profiles[0]
	for _, p := range profiles[1:] {
		if len(p) < len(first) {
			first = p
		}
	}
	core := make(Profile)
	var shared float64
	for f, v := range first {
		for _, p := range profiles {
			v = min(v, p[f])
		}
		if v > 0 {
			core[f] = v
			shared += v
		}
	}
	return simstat.Comparison[Profile]{
		Profile:   core,
		NotShared: min(max(1-shared, 0), 1),
	}, nil
}
