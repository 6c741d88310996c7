// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrixfile

import (
	"fmt"

	"github.com/scgm/simstat/simstat"
)

// GlobalOrder takes a list of local key orders from lowest to highest
// priority and returns one order that combines them. Where local
// orders disagree, the higher priority order wins.
func GlobalOrder(local [][]string) []string {
	// Make a graph that combines the orders.
	type node struct {
		succs   []string // Successors in priority order
		set     map[string]bool
		visited bool
	}
	nodes := make(map[string]*node)
	for i := len(local) - 1; i >= 0; i-- {
		keys := local[i]
		succ, hasSucc := "", false
		for j := len(keys) - 1; j >= 0; j-- {
			key := keys[j]
			n := nodes[key]
			if n == nil {
				n = &node{set: make(map[string]bool)}
				nodes[key] = n
			}
			if hasSucc && !n.set[succ] {
				n.succs = append(n.succs, succ)
				n.set[succ] = true
			}
			succ, hasSucc = key, true
		}
	}

	// Topologically sort the graph, using the first key in each
	// order as a root and biasing by edge priority.
	var order []string
	var dfs func(key string)
	dfs = func(key string) {
		n := nodes[key]
		if n.visited {
			return
		}
		n.visited = true
		for _, succ := range n.succs {
			dfs(succ)
		}
		order = append(order, key)
	}
	for i := len(local) - 1; i >= 0; i-- {
		if len(local[i]) > 0 {
			dfs(local[i][0])
		}
	}
	// Order is backwards. Fix it.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Align returns the matrices of docs, all reordered to the
// GlobalOrder of their keys, with docs[0] having the lowest priority.
// Every document must have the same set of keys; a key missing from
// some document yields a *simstat.MissingKeyError.
func Align(docs []*Document) ([]*simstat.Matrix, []string, error) {
	local := make([][]string, len(docs))
	for i, d := range docs {
		local[i] = d.Keys
	}
	order := GlobalOrder(local)

	out := make([]*simstat.Matrix, len(docs))
	for i, d := range docs {
		m, err := d.Matrix()
		if err != nil {
			return nil, nil, err
		}
		for _, key := range order {
			if _, ok := m.Index(key); !ok {
				return nil, nil, fmt.Errorf("run %s: %w", d.Run, &simstat.MissingKeyError{Key: key})
			}
		}
		if out[i], err = m.Reorder(order); err != nil {
			return nil, nil, fmt.Errorf("run %s: %w", d.Run, err)
		}
	}
	return out, order, nil
}
