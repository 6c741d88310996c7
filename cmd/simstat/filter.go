// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scgm/simstat/internal/logging"
	"github.com/scgm/simstat/proffmt"
	"github.com/scgm/simstat/simproc"
)

func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter query [inputs...]",
		Short: "Write the samples and counts matching a query",
		Long: `Filter reads samples from the inputs, or stdin if there are none,
and writes the samples and feature counts matching query to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFilter,
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	log := logging.New("filter")

	filter, err := simproc.NewFilter(args[0])
	if err != nil {
		return err
	}

	writer := proffmt.NewWriter(cmd.OutOrStdout())
	files := proffmt.Files{Paths: args[1:], AllowStdin: true}
	for files.Scan() {
		s, err := files.Result()
		if err != nil {
			// Non-fatal sample parse error. Warn but keep
			// going.
			log.Warn("skipping sample", "err", err)
			continue
		}
		match := filter.Match(s)
		if !match.Apply(s) {
			continue
		}
		if err := writer.Write(s); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return files.Err()
}
