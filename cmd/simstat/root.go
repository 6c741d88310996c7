// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scgm/simstat/internal/config"
	"github.com/scgm/simstat/internal/logging"
	"github.com/scgm/simstat/matrixfile"
)

// app is the state shared by all commands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	// cfg is loaded before any command runs.
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := new(app)
	root := &cobra.Command{
		Use:   "simstat",
		Short: "Bootstrap similarity statistics between categories of profiles",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "read run configuration from YAML `file`")
	f.StringVar(&a.logLevel, "log-level", "info", "log `level` (debug, info, warn, error)")
	f.StringVar(&a.logFormat, "log-format", "text", "log `format` (text, json)")

	root.AddCommand(newMatrixCmd(a))
	root.AddCommand(newConsensusCmd())
	root.AddCommand(newFilterCmd())
	return root
}

// setup loads the configuration and installs the logger. Flags that
// were set explicitly override the configuration file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		a.cfg.LogFormat = a.logFormat
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, a.cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

// writeDocs writes docs to the file at path.
func writeDocs(path string, docs ...*matrixfile.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := matrixfile.Write(f, docs...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
