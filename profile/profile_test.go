// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profile

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/scgm/simstat/proffmt"
	"github.com/scgm/simstat/simstat"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestFromSample(t *testing.T) {
	r := proffmt.NewReader(strings.NewReader("SampleA 1 x 2 y 3 x\n"), "test")
	if !r.Scan() {
		t.Fatal("no sample read")
	}
	s, err := r.Result()
	if err != nil {
		t.Fatal(err)
	}
	got := FromSample(s)
	if diff := cmp.Diff(Profile{"x": 4, "y": 2}, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, got.Features()); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	in := []Profile{{"x": 1, "y": 3}, {"z": 5}}
	got, err := Comparer{}.Normalize(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []Profile{{"x": 0.25, "y": 0.75}, {"z": 1}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("normalized mismatch (-want +got):\n%s", diff)
	}
	if in[0]["x"] != 1 {
		t.Errorf("input was modified: %v", in)
	}

	for _, bad := range []Profile{{}, {"x": 0}} {
		if _, err := (Comparer{}).Normalize([]Profile{{"x": 1}, bad}); !errors.Is(err, ErrEmptyProfile) {
			t.Errorf("normalizing %v: got %v, want %v", bad, err, ErrEmptyProfile)
		}
	}
}

func TestCompare(t *testing.T) {
	check := func(name string, in []Profile, wantCore Profile, wantNotShared float64) {
		t.Helper()
		got, err := Comparer{}.Compare(in)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			return
		}
		if diff := cmp.Diff(wantCore, got.Profile, approx, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: core mismatch (-want +got):\n%s", name, diff)
		}
		if diff := cmp.Diff(wantNotShared, got.NotShared, approx); diff != "" {
			t.Errorf("%s: not shared mismatch (-want +got):\n%s", name, diff)
		}
	}
	check("identical", []Profile{{"x": 0.5, "y": 0.5}, {"x": 0.5, "y": 0.5}}, Profile{"x": 0.5, "y": 0.5}, 0)
	check("overlap", []Profile{{"x": 0.25, "y": 0.75}, {"x": 0.5, "z": 0.5}}, Profile{"x": 0.25}, 0.75)
	check("disjoint", []Profile{{"x": 1}, {"y": 1}}, Profile{}, 1)
	check("single", []Profile{{"x": 0.4, "y": 0.6}}, Profile{"x": 0.4, "y": 0.6}, 0)

	if _, err := (Comparer{}).Compare(nil); !errors.Is(err, ErrNoProfiles) {
		t.Errorf("empty list: got %v, want %v", err, ErrNoProfiles)
	}
}

func TestSimilarityOfProfiles(t *testing.T) {
	// Two categories with disjoint features give a diagonal
	// matrix.
	profiles := map[string][]Profile{
		"gut":  {{"a": 2, "b": 2}, {"a": 1, "b": 1}},
		"skin": {{"c": 3, "d": 1}, {"c": 1, "d": 1}, {"c": 1}},
		"soil": {{"e": 1}},
	}
	keys := []string{"gut", "skin", "soil"}
	opts := simstat.MatrixOptions{
		Bootstrap: simstat.BootstrapOptions{Alpha: 0.05, Repetitions: 200},
		NewRand: func(i, j int) simstat.RandSource {
			return rand.New(rand.NewPCG(uint64(i), uint64(j)))
		},
	}
	m, reps, err := simstat.BuildSimilarityMatrix[Profile](context.Background(), Comparer{}, profiles, keys, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !simstat.IsDiagonal(m) {
		var b strings.Builder
		simstat.WriteTable(&b, m)
		t.Errorf("disjoint categories are not diagonal:\n%s", b.String())
	}
	if got := m.At(0, 0); got.Shared != 1 || got.StdDev != 0 {
		t.Errorf("gut diagonal: got %v, want shared 1 with no spread", got)
	}
	if diff := cmp.Diff(Profile{"a": 0.5, "b": 0.5}, reps["gut"], approx); diff != "" {
		t.Errorf("gut representative mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Profile{"e": 1}, reps["soil"]); diff != "" {
		t.Errorf("soil representative mismatch (-want +got):\n%s", diff)
	}
}
