// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/scgm/simstat/profile"
	"github.com/scgm/simstat/proffmt"
	"github.com/scgm/simstat/simproc/internal/kvql"
)

// An Order determines the order of categories in a GroupBy.
type Order int

const (
	// OrderFirst orders categories by first observation.
	OrderFirst Order = iota
	// OrderAlpha orders categories alphabetically.
	OrderAlpha
	// OrderNumeric orders categories numerically. Values that are
	// not numbers come last, alphabetically.
	OrderNumeric
	// OrderFixed uses an explicit list of categories and drops
	// samples in any other category.
	OrderFixed
)

var orderNames = map[string]Order{
	"first":   OrderFirst,
	"alpha":   OrderAlpha,
	"numeric": OrderNumeric,
}

// A GroupBy collects samples into categories by the value of one key.
type GroupBy struct {
	// Key is the key whose value names a sample's category.
	Key string

	// Order is the order of categories returned by Groups.
	Order Order

	// Values lists the categories in order for OrderFixed.
	Values []string

	extract proffmt.Extractor
	groups  OMap[string, []profile.Profile]
}

// ParseGroupBy parses a group-by specification.
//
// The syntax is one of
//
//	key
//	key@first | key@alpha | key@numeric
//	key:(value value ...)
//
// where key is as for NewFilter, except that ".feature" is not
// allowed. The plain form is the same as key@first. The last form
// keeps only the listed categories, in that order.
func ParseGroupBy(spec string) (*GroupBy, error) {
	toks, err := kvql.Tokenize(spec)
	if err != nil {
		return nil, err
	}
	fail := func(tok kvql.Tok, msg string) (*GroupBy, error) {
		return nil, fmt.Errorf("%s in group-by at position %d: %s>>>%s", msg, tok.Off, spec[:tok.Off], spec[tok.Off:])
	}
	word := func(tok kvql.Tok) bool { return tok.Kind == 'w' || tok.Kind == 'q' }

	if !word(toks[0]) {
		return fail(toks[0], "expected key")
	}
	g := &GroupBy{Key: toks[0].Tok}
	if g.extract, err = proffmt.NewExtractor(g.Key); err != nil {
		return fail(toks[0], err.Error())
	}
	rest := toks[1:]
	switch rest[0].Kind {
	case 0:
		return g, nil
	case '@':
		if !word(rest[1]) {
			return fail(rest[1], "expected order")
		}
		order, ok := orderNames[rest[1].Tok]
		if !ok {
			return fail(rest[1], "unknown order "+strconv.Quote(rest[1].Tok))
		}
		g.Order = order
		rest = rest[2:]
	case ':':
		if rest[1].Kind != '(' {
			return fail(rest[1], "expected (")
		}
		g.Order = OrderFixed
		g.Values = []string{}
		for rest = rest[2:]; word(rest[0]); rest = rest[1:] {
			if slices.Contains(g.Values, rest[0].Tok) {
				return fail(rest[0], "duplicate value "+strconv.Quote(rest[0].Tok))
			}
			g.Values = append(g.Values, rest[0].Tok)
		}
		if rest[0].Kind != ')' {
			return fail(rest[0], "expected value or )")
		}
		if len(g.Values) == 0 {
			return fail(rest[0], "nothing to group")
		}
		rest = rest[1:]
	default:
		return fail(rest[0], "expected @ or :")
	}
	if rest[0].Kind != 0 {
		return fail(rest[0], "expected end")
	}
	return g, nil
}

// Add adds the profile of s to its category and reports whether it
// was added. Samples with no positive counts, and samples outside the
// fixed categories, are not added.
func (g *GroupBy) Add(s *proffmt.Sample) bool {
	if !(s.Total() > 0) {
		return false
	}
	val := g.extract(s)
	if g.Order == OrderFixed && !slices.Contains(g.Values, val) {
		return false
	}
	g.groups.Store(val, append(g.groups.Load(val), profile.FromSample(s)))
	return true
}

// Groups returns the profiles collected in each category and the
// order of the categories. Fixed categories with no samples are
// omitted.
func (g *GroupBy) Groups() (map[string][]profile.Profile, []string) {
	var keys []string
	switch g.Order {
	case OrderFixed:
		for _, v := range g.Values {
			if _, ok := g.groups.LoadOK(v); ok {
				keys = append(keys, v)
			}
		}
	default:
		keys = slices.Clone(g.groups.Keys)
		switch g.Order {
		case OrderAlpha:
			slices.Sort(keys)
		case OrderNumeric:
			slices.SortStableFunc(keys, compareNumeric)
		}
	}

	groups := make(map[string][]profile.Profile, len(keys))
	for _, k := range keys {
		groups[k] = g.groups.Load(k)
	}
	return groups, keys
}

func compareNumeric(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa < fb {
			return -1
		} else if fa > fb {
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
