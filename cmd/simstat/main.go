// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command simstat computes bootstrap similarity matrices between
// categories of feature-count profiles.
//
// Usage:
//
//	simstat matrix [flags] [inputs...]
//	simstat consensus [flags] matrix-files...
//	simstat filter query [inputs...]
//
// The matrix command reads samples from the inputs, or stdin if there
// are none, keeps the samples and feature counts selected by -filter,
// groups samples into categories by -group-by, and prints the
// similarity matrix of the categories. Cell (i, j) is the fraction of
// relative abundance shared by the profiles of categories i and j,
// with its bootstrap standard deviation and confidence interval.
//
// The consensus command combines matrix files written by
// "simstat matrix -o" into one matrix of mean similarities.
//
// The filter command writes the samples selected by a query, in the
// sample format, to stdout.
//
// Queries have the following syntax:
//
//	key:regexp    - Test if key matches regexp. Key and value can be quoted.
//	key:(x y ...) - Test if key matches any of x, y, etc.
//	x y ...       - Test if x, y, etc. are all true
//	x AND y       - Same as x y
//	x OR y        - Test if x or y are true
//	-x            - Negate x
//	(...)         - Subexpression
//	*             - Match everything
//
// Keys may be ".name" for the sample name, ".feature" for individual
// feature counts, ".file" for the input file, or any file-level
// configuration key. Regexp matching is anchored at the beginning and
// end.
//
// For example, the query
//
//	body:(gut skin) -.feature:unclassified
//
// keeps samples from the gut and skin and drops their unclassified
// counts.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
