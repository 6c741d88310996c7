// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// String formats c as "shared ±stddev [low, high]" with three
// digits after the decimal point.
func (c Cell) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
	return f(c.Shared) + " ±" + f(c.StdDev) + " [" + f(c.Low) + ", " + f(c.High) + "]"
}

// WriteTable writes m to w as an aligned text table with one row
// and one column per key. Unlabeled rows and columns are numbered.
func WriteTable(w io.Writer, m *Matrix) error {
	label := func(i int) string {
		if i < len(m.Keys) {
			return m.Keys[i]
		}
		return "#" + strconv.Itoa(i)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for j := range m.Size() {
		fmt.Fprintf(tw, "\t%s", label(j))
	}
	fmt.Fprintf(tw, "\n")
	for i := range m.Size() {
		fmt.Fprintf(tw, "%s", label(i))
		for j := range m.Size() {
			fmt.Fprintf(tw, "\t%s", m.At(i, j))
		}
		fmt.Fprintf(tw, "\n")
	}
	return tw.Flush()
}
