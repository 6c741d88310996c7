// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"fmt"
	"math/bits"
)

// tagged is a test profile. Profiles with the same group share
// everything; profiles from different groups share nothing.
type tagged struct {
	name  string
	group string
}

// groupComparer compares tagged profiles by group. It counts its
// calls so tests can check what was compared.
type groupComparer struct {
	normalized int
	compared   int
}

func (c *groupComparer) Normalize(ps []tagged) ([]tagged, error) {
	c.normalized++
	out := make([]tagged, len(ps))
	for i, p := range ps {
		out[i] = tagged{name: p.name + "'", group: p.group}
	}
	return out, nil
}

func (c *groupComparer) Compare(ps []tagged) (Comparison[tagged], error) {
	c.compared++
	if len(ps) == 0 {
		return Comparison[tagged]{}, fmt.Errorf("no profiles")
	}
	for _, p := range ps[1:] {
		if p.group != ps[0].group {
			return Comparison[tagged]{Profile: tagged{name: "mixed"}, NotShared: 1}, nil
		}
	}
	return Comparison[tagged]{Profile: tagged{name: "core", group: ps[0].group}, NotShared: 0}, nil
}

// fracComparer compares profiles that are plain numbers. The amount
// shared by a list is the mean of its values.
type fracComparer struct{}

func (fracComparer) Normalize(ps []float64) ([]float64, error) {
	return append([]float64(nil), ps...), nil
}

func (fracComparer) Compare(ps []float64) (Comparison[float64], error) {
	sum := 0.0
	for _, p := range ps {
		sum += p
	}
	mean := sum / float64(len(ps))
	return Comparison[float64]{Profile: mean, NotShared: 1 - mean}, nil
}

// constRand always returns the same index.
type constRand int

func (r constRand) IntN(n int) int { return int(r) % n }

// cycleRand returns 0, 1, ..., n-1, 0, 1, ... for a fixed n, so every
// resample is a permutation-free copy of its input.
type cycleRand struct{ next int }

func (r *cycleRand) IntN(n int) int {
	v := r.next % n
	r.next++
	return v
}

// seqRand returns a fixed sequence of indexes, then repeats it.
type seqRand struct {
	seq []int
	pos int
}

func (r *seqRand) IntN(n int) int {
	v := r.seq[r.pos%len(r.seq)]
	r.pos++
	return v % n
}

// featureSet is a test profile holding up to eight features as bits.
type featureSet uint8

// setComparer shares the features common to every profile, as a
// fraction of all features present.
type setComparer struct{}

func (setComparer) Normalize(ps []featureSet) ([]featureSet, error) {
	return append([]featureSet(nil), ps...), nil
}

func (setComparer) Compare(ps []featureSet) (Comparison[featureSet], error) {
	and, or := ps[0], ps[0]
	for _, p := range ps[1:] {
		and &= p
		or |= p
	}
	shared := 0.0
	if or != 0 {
		shared = float64(bits.OnesCount8(uint8(and))) / float64(bits.OnesCount8(uint8(or)))
	}
	return Comparison[featureSet]{Profile: and, NotShared: 1 - shared}, nil
}
