// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simproc selects and groups profile samples.
//
// A Filter selects samples, and feature counts within samples, using
// a boolean key:value query. A GroupBy sorts the selected samples
// into categories by the value of one key and converts them into
// profiles ready for a similarity matrix.
package simproc

import (
	"github.com/scgm/simstat/proffmt"
	"github.com/scgm/simstat/simproc/internal/kvql"
)

// A Filter filters samples and the feature counts within them.
type Filter struct {
	query kvql.Query

	// extractors records functions for extracting keys for
	// QueryMatch nodes.
	extractors map[string]proffmt.Extractor

	// usesFeatures indicates that the result of this filter may
	// differ between counts of one sample.
	usesFeatures bool
}

// NewFilter constructs a sample filter from a boolean query.
//
// The query syntax is a sequence of key:regexp terms combined with
// AND, OR, "-" for negation, and parentheses; adjacent terms are
// implicitly ANDed and "*" matches everything. key:(a b c) matches
// any of the listed patterns. Keys are ".name" for the sample name,
// ".feature" for the feature of each count, or a file configuration
// key such as ".file".
func NewFilter(query string) (*Filter, error) {
	q, err := kvql.Parse(query)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		query:      q,
		extractors: make(map[string]proffmt.Extractor),
	}
	err = kvql.Walk(q, func(m *kvql.QueryMatch) error {
		if _, ok := f.extractors[m.Key]; ok {
			return nil
		}
		if m.Key == ".feature" {
			f.usesFeatures = true
			return nil
		}
		ext, err := proffmt.NewExtractor(m.Key)
		if err != nil {
			return &kvql.SyntaxError{Query: query, Off: m.Off, Msg: err.Error()}
		}
		f.extractors[m.Key] = ext
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Match returns the set of s.Counts that match f.
func (f *Filter) Match(s *proffmt.Sample) Match {
	n := 1
	if f.usesFeatures {
		n = len(s.Counts)
	}
	bits := f.match(s, f.query, n)
	return finish(bits, !f.usesFeatures, len(s.Counts))
}

func (f *Filter) match(s *proffmt.Sample, node kvql.Query, n int) bitset {
	switch node := node.(type) {
	case *kvql.QueryOp:
		if len(node.Exprs) == 0 {
			b := newBitset(n)
			if node.Op == kvql.OpAnd {
				b.setAll()
			}
			return b
		}
		b := f.match(s, node.Exprs[0], n)
		switch node.Op {
		case kvql.OpNot:
			for i := range b {
				b[i] = ^b[i]
			}
		case kvql.OpAnd:
			for _, sub := range node.Exprs[1:] {
				b2 := f.match(s, sub, n)
				for i := range b {
					b[i] &= b2[i]
				}
			}
		case kvql.OpOr:
			for _, sub := range node.Exprs[1:] {
				b2 := f.match(s, sub, n)
				for i := range b {
					b[i] |= b2[i]
				}
			}
		}
		return b

	case *kvql.QueryMatch:
		b := newBitset(n)
		if node.Key == ".feature" {
			for i, c := range s.Counts {
				if node.Match(c.Feature) {
					b.set(i)
				}
			}
		} else if node.Match(f.extractors[node.Key](s)) {
			b.setAll()
		}
		return b
	}
	panic("unknown query node")
}

// bitset records one bit per count. Bits beyond the count are
// don't-cares.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, max(1, (n+63)/64))
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (i % 64)
}

func (b bitset) setAll() {
	for i := range b {
		b[i] = ^uint64(0)
	}
}

func (b bitset) test(i int) bool {
	return b[i/64]&(1<<(i%64)) != 0
}

func finish(b bitset, broadcast bool, n int) Match {
	m := Match{n: n, bits: b}
	if broadcast {
		m.allEqual = true
		return m
	}
	b0 := n == 0 || b.test(0)
	for i := 1; i < n; i++ {
		if b.test(i) != b0 {
			return m
		}
	}
	m.allEqual = true
	m.bits = bitset{0}
	if b0 {
		m.bits[0] = 1
	}
	return m
}

// A Match records the set of counts of a sample that matched a
// filter query.
type Match struct {
	// n is the number of counts.
	n int

	// allEqual means bit 0 holds the state for all counts.
	allEqual bool

	bits bitset
}

// All reports whether all counts of the sample matched the query.
func (m *Match) All() bool {
	return m.allEqual && m.bits.test(0)
}

// Any reports whether any count of the sample matched the query.
func (m *Match) Any() bool {
	return !m.allEqual || m.bits.test(0)
}

// Test reports whether count i matched the query.
func (m *Match) Test(i int) bool {
	if i < 0 || i >= m.n {
		return false
	} else if m.allEqual {
		return m.bits.test(0)
	}
	return m.bits.test(i)
}

// Apply removes counts from s that don't match m and reports whether
// any counts matched.
func (m *Match) Apply(s *proffmt.Sample) bool {
	if m.All() {
		return len(s.Counts) > 0
	}
	if !m.Any() {
		s.Counts = s.Counts[:0]
		return false
	}
	j := 0
	for i, c := range s.Counts {
		if m.Test(i) {
			s.Counts[j] = c
			j++
		}
	}
	s.Counts = s.Counts[:j]
	return j > 0
}
