// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/scgm/simstat/internal/config"
	"github.com/scgm/simstat/internal/logging"
	"github.com/scgm/simstat/matrixfile"
	"github.com/scgm/simstat/profile"
	"github.com/scgm/simstat/proffmt"
	"github.com/scgm/simstat/simproc"
	"github.com/scgm/simstat/simstat"
)

func newMatrixCmd(a *app) *cobra.Command {
	var output string
	def := config.Default()
	cmd := &cobra.Command{
		Use:   "matrix [flags] [inputs...]",
		Short: "Build the similarity matrix of grouped samples",
		Long: `Matrix reads samples from the inputs, or stdin if there are none,
filters and groups them into categories, and prints the bootstrap
similarity matrix of the categories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.matrixFlags(cmd); err != nil {
				return err
			}
			return a.runMatrix(cmd, args, output)
		},
	}
	f := cmd.Flags()
	f.Float64("alpha", def.Alpha, "report the 1-`alpha` confidence interval")
	f.Int("repetitions", def.Repetitions, "bootstrap `n` resamples per cell")
	f.Uint64("seed", def.Seed, "seed the random sources with `seed`")
	f.Int("workers", def.Workers, "compute `n` cells at once")
	f.String("group-by", def.GroupBy, "group samples by `spec` (key, key@first|alpha|numeric, key:(v1 v2 ...))")
	f.String("filter", def.Filter, "keep samples and counts matching `query`")
	f.StringVarP(&output, "output", "o", "", "also write the matrix as YAML to `file`")
	return cmd
}

// matrixFlags applies explicitly set flags over the configuration.
func (a *app) matrixFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	var err error
	set := func(name string, get func(string) error) {
		if err == nil && f.Changed(name) {
			err = get(name)
		}
	}
	set("alpha", func(n string) (e error) { a.cfg.Alpha, e = f.GetFloat64(n); return })
	set("repetitions", func(n string) (e error) { a.cfg.Repetitions, e = f.GetInt(n); return })
	set("seed", func(n string) (e error) { a.cfg.Seed, e = f.GetUint64(n); return })
	set("workers", func(n string) (e error) { a.cfg.Workers, e = f.GetInt(n); return })
	set("group-by", func(n string) (e error) { a.cfg.GroupBy, e = f.GetString(n); return })
	set("filter", func(n string) (e error) { a.cfg.Filter, e = f.GetString(n); return })
	if err != nil {
		return err
	}
	return a.cfg.Validate()
}

func (a *app) runMatrix(cmd *cobra.Command, args []string, output string) error {
	log := logging.New("matrix")
	cfg := a.cfg

	filter, err := simproc.NewFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("parsing -filter: %w", err)
	}
	group, err := simproc.ParseGroupBy(cfg.GroupBy)
	if err != nil {
		return fmt.Errorf("parsing -group-by: %w", err)
	}

	files := proffmt.Files{Paths: args, AllowStdin: true}
	read, kept := 0, 0
	for files.Scan() {
		s, err := files.Result()
		if err != nil {
			// Non-fatal sample parse error. Warn but keep
			// going.
			log.Warn("skipping sample", "err", err)
			continue
		}
		read++
		match := filter.Match(s)
		if !match.Apply(s) {
			continue
		}
		if group.Add(s) {
			kept++
		}
	}
	if err := files.Err(); err != nil {
		return err
	}
	profiles, keys := group.Groups()
	log.Info("read samples", "read", read, "kept", kept, "categories", len(keys))
	if len(keys) == 0 {
		return errors.New("no samples to compare")
	}

	size := uint64(len(keys))
	opts := simstat.MatrixOptions{
		Bootstrap: cfg.Bootstrap(),
		Workers:   cfg.Workers,
		NewRand: func(i, j int) simstat.RandSource {
			return rand.New(rand.NewPCG(cfg.Seed, uint64(i)*size+uint64(j)))
		},
		Logger: log,
	}
	m, _, err := simstat.BuildSimilarityMatrix[profile.Profile](cmd.Context(), profile.Comparer{}, profiles, keys, opts)
	if err != nil {
		return err
	}
	if err := simstat.WriteTable(cmd.OutOrStdout(), m); err != nil {
		return err
	}
	if simstat.IsDiagonal(m) && len(keys) > 1 {
		log.Warn("categories share nothing with each other")
	}

	if output != "" {
		doc := matrixfile.NewDocument(matrixfile.KindSimilarity, m)
		doc.Alpha, doc.Repetitions, doc.Seed = cfg.Alpha, cfg.Repetitions, cfg.Seed
		if err := writeDocs(output, doc); err != nil {
			return err
		}
		log.Info("wrote matrix", "file", output, "run", doc.Run)
	}
	return nil
}
