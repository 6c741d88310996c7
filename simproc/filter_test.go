// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/scgm/simstat/proffmt"
)

func clone(s *proffmt.Sample) *proffmt.Sample {
	return &proffmt.Sample{
		FileConfig: append([]proffmt.Config(nil), s.FileConfig...),
		Name:       append([]byte(nil), s.Name...),
		Counts:     append([]proffmt.Count(nil), s.Counts...),
	}
}

// readSamples parses data in the sample format and returns copies of
// every sample.
func readSamples(t *testing.T, data string) []*proffmt.Sample {
	t.Helper()
	r := proffmt.NewReader(strings.NewReader(data), "test")
	var out []*proffmt.Sample
	for r.Scan() {
		s, err := r.Result()
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, clone(s))
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestFilter(t *testing.T) {
	smp := readSamples(t, "site: north\nhost: h1\nSampleGut-1 1 gyrA 2 rpoB\n")[0]
	const ALL = 0b11
	const NONE = 0

	check := func(t *testing.T, query string, want uint) {
		t.Helper()
		f, err := NewFilter(query)
		if err != nil {
			t.Fatal(err)
		}
		m := f.Match(smp)
		var got uint
		for i := 0; i < 2; i++ {
			if m.Test(i) {
				got |= 1 << i
			}
		}
		if got != want {
			t.Errorf("%s: got %02b, want %02b", query, got, want)
		} else if want == ALL && !m.All() {
			t.Errorf("%s: want All", query)
		} else if want == NONE && m.Any() {
			t.Errorf("%s: want !Any", query)
		}
	}

	t.Run("basic", func(t *testing.T) {
		check(t, "site:north", ALL)
		check(t, "site:south", NONE)
		check(t, "site:n.*", ALL)
		check(t, ".name:Gut-1", ALL)
		check(t, ".name:Gut", NONE)
		check(t, "missing:.*", ALL)
		check(t, `missing:""`, ALL)
	})

	t.Run("features", func(t *testing.T) {
		check(t, ".feature:gyrA", 0b01)
		check(t, ".feature:rpoB", 0b10)
		check(t, ".feature:foo", NONE)
		check(t, ".feature:(gyrA rpoB)", ALL)
	})

	t.Run("boolean", func(t *testing.T) {
		check(t, "*", ALL)
		check(t, "-*", NONE)
		check(t, "site:north OR site:south", ALL)
		check(t, "site:north AND site:south", NONE)
		check(t, "site:north host:h1", ALL)
		check(t, "-site:north", NONE)
		check(t, "--site:north", ALL)
		check(t, "site:north -.feature:gyrA", 0b10)
		check(t, "site:south OR .feature:gyrA", 0b01)
	})

	t.Run("manyFeatures", func(t *testing.T) {
		smp := clone(smp)
		smp.Counts = make([]proffmt.Count, 100)
		for i := range smp.Counts {
			smp.Counts[i] = proffmt.Count{Value: 1, Feature: fmt.Sprintf("f%d", i)}
		}
		f, err := NewFilter("site:north AND --(site:south OR .feature:(f0 f99))")
		if err != nil {
			t.Fatal(err)
		}
		m := f.Match(smp)
		for i := 0; i < 100; i++ {
			got := m.Test(i)
			want := i == 0 || i == 99
			if got != want {
				t.Errorf("for feature f%d, got %v, want %v", i, got, want)
			}
		}
		if !m.Apply(smp) || len(smp.Counts) != 2 || smp.Counts[1].Feature != "f99" {
			t.Errorf("Apply kept %v, want f0 and f99", smp.Counts)
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, q := range []string{"", "site", ":x", "site:(", "a:[", "site:x AND"} {
			if _, err := NewFilter(q); err == nil {
				t.Errorf("%q: want error", q)
			}
		}
	})
}

func TestFilterApply(t *testing.T) {
	f, err := NewFilter(".feature:gyrA")
	if err != nil {
		t.Fatal(err)
	}
	smps := readSamples(t, "SampleA 1 gyrA 2 rpoB\nSampleB 3 rpoB\n")

	m := f.Match(smps[0])
	if !m.Apply(smps[0]) {
		t.Errorf("A: Apply reported no matches")
	}
	if len(smps[0].Counts) != 1 || smps[0].Counts[0] != (proffmt.Count{Value: 1, Feature: "gyrA"}) {
		t.Errorf("A: got counts %v, want only gyrA", smps[0].Counts)
	}

	m = f.Match(smps[1])
	if m.Apply(smps[1]) || len(smps[1].Counts) != 0 {
		t.Errorf("B: got counts %v, want none", smps[1].Counts)
	}
}
