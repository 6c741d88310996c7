// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Query is a node in the query tree. It is either a *QueryOp or a
// *QueryMatch.
type Query interface {
	isQuery()
	String() string
}

// QueryMatch is a leaf in a Query tree that tests the value of a key
// against a regular expression.
type QueryMatch struct {
	Off int // Byte offset of the key in the original query.
	Key string

	re  *regexp.Regexp // anchored form of pat
	pat string
}

func (q *QueryMatch) isQuery() {}

func (q *QueryMatch) String() string {
	return quote(q.Key) + ":" + quote(q.pat)
}

// Match reports whether value, a value of q.Key, matches q's
// regular expression in full.
func (q *QueryMatch) Match(value string) bool {
	return q.re.MatchString(value)
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || isOp(r) {
			return strconv.Quote(s)
		}
	}
	return s
}

// QueryOp is a boolean operator in the Query tree. OpNot has exactly
// one child node. OpAnd and OpOr have zero or more; an empty OpAnd
// matches everything and an empty OpOr matches nothing.
type QueryOp struct {
	Op    Op
	Exprs []Query
}

func (q *QueryOp) isQuery() {}

func (q *QueryOp) String() string {
	if q.Op == OpNot {
		return fmt.Sprintf("-%s", q.Exprs[0])
	}
	if q.Op == OpAnd && len(q.Exprs) == 0 {
		return "*"
	}
	sep := " AND "
	if q.Op == OpOr {
		sep = " OR "
	}
	parts := make([]string, len(q.Exprs))
	for i, e := range q.Exprs {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Op specifies a type of boolean operator.
type Op int

const (
	OpAnd Op = 1 + iota
	OpOr
	OpNot
)

// Walk calls f for each QueryMatch in q, in query order, and stops
// at the first error.
func Walk(q Query, f func(*QueryMatch) error) error {
	switch q := q.(type) {
	case *QueryMatch:
		return f(q)
	case *QueryOp:
		for _, sub := range q.Exprs {
			if err := Walk(sub, f); err != nil {
				return err
			}
		}
		return nil
	}
	panic(fmt.Sprintf("unknown query node type %T", q))
}
