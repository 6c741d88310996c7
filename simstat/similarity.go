// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MatrixOptions controls BuildSimilarityMatrix.
type MatrixOptions struct {
	// Bootstrap is used for every bootstrapped cell.
	Bootstrap BootstrapOptions

	// Workers is the number of cells computed concurrently. Values
	// below 2 compute cells one at a time in row-major order.
	Workers int

	// NewRand, if non-nil, returns the random source for cell
	// (i, j), i <= j, overriding Bootstrap.Rand. Giving each cell
	// its own seeded source makes the result independent of
	// Workers.
	NewRand func(i, j int) RandSource

	// Logger receives per-cell debug logs. If nil, nothing is
	// logged.
	Logger *slog.Logger
}

// BuildSimilarityMatrix computes the similarity matrix of the
// profile lists in profiles, with rows and columns in keyOrder. It
// also returns the representative profile of each key.
//
// The diagonal cell of a key with a single profile is (1, 0, 1, 1)
// and its representative is that profile, unmodified. Otherwise the
// diagonal cell and representative are the Bootstrap of the key's
// profiles. Each off-diagonal cell (i, j) is the Bootstrap of the
// concatenation of the profiles of keys i and j.
//
// profiles is never modified.
func BuildSimilarityMatrix[P any](ctx context.Context, c Comparer[P], profiles map[string][]P, keyOrder []string, opts MatrixOptions) (*Matrix, map[string]P, error) {
	if len(keyOrder) == 0 {
		return nil, nil, ErrEmptyKeyOrder
	}
	seen := make(map[string]bool, len(keyOrder))
	for _, key := range keyOrder {
		if seen[key] {
			return nil, nil, &DuplicateKeyError{Key: key}
		}
		seen[key] = true
		if _, ok := profiles[key]; !ok {
			return nil, nil, &MissingKeyError{Key: key}
		}
	}
	if err := opts.Bootstrap.validate(); err != nil {
		return nil, nil, err
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	size := len(keyOrder)
	m := NewMatrix(keyOrder)
	reps := make([]P, size)

	shared := opts.Bootstrap.Rand
	if shared != nil && opts.Workers > 1 && opts.NewRand == nil {
		shared = &lockedRand{src: shared}
	}

	// cell computes cell (i, j). Distinct cells write distinct
	// slots of m and reps, so cells may run concurrently.
	cell := func(i, j int) error {
		bopts := opts.Bootstrap
		bopts.Rand = shared
		if opts.NewRand != nil {
			bopts.Rand = opts.NewRand(i, j)
		}

		ki, kj := keyOrder[i], keyOrder[j]
		var profs []P
		if i == j {
			profs = profiles[ki]
			if len(profs) == 1 {
				m.Set(i, i, selfCell)
				reps[i] = profs[0]
				log.Debug("single profile", "key", ki)
				return nil
			}
		} else {
			profs = make([]P, 0, len(profiles[ki])+len(profiles[kj]))
			profs = append(profs, profiles[ki]...)
			profs = append(profs, profiles[kj]...)
		}

		est, err := Bootstrap(c, profs, bopts)
		if err != nil {
			if i == j {
				return fmt.Errorf("bootstrapping %q: %w", ki, err)
			}
			return fmt.Errorf("bootstrapping %q vs %q: %w", ki, kj, err)
		}
		m.Set(i, j, est.Cell)
		if i == j {
			reps[i] = est.Profile
		}
		log.Debug("cell", "row", ki, "col", kj, "shared", est.Shared, "stddev", est.StdDev)
		return nil
	}

	if opts.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
	outer:
		for i := range size {
			for j := i; j < size; j++ {
				if gctx.Err() != nil {
					break outer
				}
				g.Go(func() error { return cell(i, j) })
			}
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
	} else {
		for i := range size {
			for j := i; j < size; j++ {
				if err := ctx.Err(); err != nil {
					return nil, nil, err
				}
				if err := cell(i, j); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	group := make(map[string]P, size)
	for i, key := range keyOrder {
		group[key] = reps[i]
	}
	return m, group, nil
}

// lockedRand serializes access to a RandSource shared by concurrent
// cells.
type lockedRand struct {
	mu  sync.Mutex
	src RandSource
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}
