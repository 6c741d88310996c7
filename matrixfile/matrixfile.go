// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrixfile reads and writes similarity matrices as YAML.
//
// A file holds a stream of YAML documents, one per matrix:
//
//	run: 0b5e8f0e-4c1a-4f43-9a0e-1d2c3b4a5f60
//	kind: similarity
//	alpha: 0.05
//	repetitions: 1000
//	seed: 1
//	keys: [gut, skin]
//	cells:
//	  - [[1, 0, 1, 1], [0.12, 0.03, 0.07, 0.18]]
//	  - [[0.12, 0.03, 0.07, 0.18], [0.8, 0.05, 0.7, 0.9]]
//
// Each cell is [shared, stddev, low, high]. A consensus matrix lists
// the runs it was built from in sources.
package matrixfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/scgm/simstat/simstat"
)

// Kind is the kind of matrix in a Document.
type Kind string

const (
	KindSimilarity Kind = "similarity"
	KindConsensus  Kind = "consensus"
)

// A Document is one matrix and how it was computed.
type Document struct {
	// Run uniquely identifies the run that produced the matrix.
	Run  string `yaml:"run"`
	Kind Kind   `yaml:"kind"`

	Alpha       float64 `yaml:"alpha,omitempty"`
	Repetitions int     `yaml:"repetitions,omitempty"`
	Seed        uint64  `yaml:"seed,omitempty"`

	// Sources lists the runs a consensus matrix combines.
	Sources []string `yaml:"sources,omitempty"`

	Keys  []string `yaml:"keys,flow"`
	Cells []Row    `yaml:"cells"`
}

// A Row is one row of a matrix.
type Row []Cell

// MarshalYAML writes r on one line.
func (r Row) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range r {
		n.Content = append(n.Content, c.node())
	}
	return n, nil
}

// A Cell is a matrix cell as [shared, stddev, low, high].
type Cell []float64

func (c Cell) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range c {
		n.Content = append(n.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(v, 'g', -1, 64),
		})
	}
	return n
}

// NewDocument returns a document holding m under a new run ID.
func NewDocument(kind Kind, m *simstat.Matrix) *Document {
	d := &Document{
		Run:   uuid.NewString(),
		Kind:  kind,
		Keys:  append([]string(nil), m.Keys...),
		Cells: make([]Row, m.Size()),
	}
	for i := range d.Cells {
		d.Cells[i] = make(Row, m.Size())
		for j := range d.Cells[i] {
			c := m.At(i, j)
			d.Cells[i][j] = Cell{c.Shared, c.StdDev, c.Low, c.High}
		}
	}
	return d
}

// Matrix returns the matrix held by d. It checks that d is square,
// symmetric, and labeled.
func (d *Document) Matrix() (*simstat.Matrix, error) {
	n := len(d.Keys)
	if len(d.Cells) != n {
		return nil, fmt.Errorf("run %s: %d keys but %d rows", d.Run, n, len(d.Cells))
	}
	m := simstat.NewMatrix(d.Keys)
	for i, row := range d.Cells {
		if len(row) != n {
			return nil, fmt.Errorf("run %s: row %d has %d cells, want %d", d.Run, i, len(row), n)
		}
		for j, c := range row {
			if len(c) != 4 {
				return nil, fmt.Errorf("run %s: cell (%d, %d) has %d values, want 4", d.Run, i, j, len(c))
			}
			for _, v := range c {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("run %s: cell (%d, %d) is not finite", d.Run, i, j)
				}
			}
			if j < i {
				if !slices.Equal(c, d.Cells[j][i]) {
					return nil, fmt.Errorf("run %s: cell (%d, %d) differs from (%d, %d)", d.Run, i, j, j, i)
				}
				continue
			}
			m.Set(i, j, simstat.Cell{Shared: c[0], StdDev: c[1], Low: c[2], High: c[3]})
		}
	}
	return m, nil
}

func (d *Document) validate() error {
	if _, err := uuid.Parse(d.Run); err != nil {
		return fmt.Errorf("bad run ID %q: %w", d.Run, err)
	}
	switch d.Kind {
	case KindSimilarity, KindConsensus:
	default:
		return fmt.Errorf("run %s: unknown kind %q", d.Run, d.Kind)
	}
	for _, src := range d.Sources {
		if _, err := uuid.Parse(src); err != nil {
			return fmt.Errorf("run %s: bad source run ID %q: %w", d.Run, src, err)
		}
	}
	_, err := d.Matrix()
	return err
}

// Write writes docs to w as a YAML stream.
func Write(w io.Writer, docs ...*Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return enc.Close()
}

// Read reads every document in a YAML stream from r.
func Read(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var docs []*Document
	for {
		d := new(Document)
		err := dec.Decode(d)
		if errors.Is(err, io.EOF) {
			return docs, nil
		} else if err != nil {
			return nil, err
		}
		if err := d.validate(); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
}

// ReadFile reads every document in the named file.
func ReadFile(path string) ([]*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	docs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}
