// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/scgm/simstat/internal/logging"
	"github.com/scgm/simstat/matrixfile"
	"github.com/scgm/simstat/simstat"
)

func newConsensusCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "consensus [flags] matrix-files...",
		Short: "Combine similarity matrices into a consensus matrix",
		Long: `Consensus reads every matrix in the given YAML files, aligns their
categories, and prints the mean of each cell with a normal-approximation
95% confidence interval.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsensus(cmd, args, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the consensus as YAML to `file`")
	return cmd
}

func runConsensus(cmd *cobra.Command, args []string, output string) error {
	log := logging.New("consensus")

	var docs []*matrixfile.Document
	for _, path := range args {
		d, err := matrixfile.ReadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, d...)
	}
	ms, keys, err := matrixfile.Align(docs)
	if err != nil {
		return err
	}
	m, err := simstat.BuildConsensusMatrix(ms)
	if err != nil {
		return err
	}
	log.Info("combined matrices", "matrices", len(ms), "categories", len(keys))
	if err := simstat.WriteTable(cmd.OutOrStdout(), m); err != nil {
		return err
	}

	if output != "" {
		doc := matrixfile.NewDocument(matrixfile.KindConsensus, m)
		for _, d := range docs {
			doc.Sources = append(doc.Sources, d.Run)
		}
		if err := writeDocs(output, doc); err != nil {
			return err
		}
		log.Info("wrote consensus", "file", output, "run", doc.Run)
	}
	return nil
}
