// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proffmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Writer writes the profile sample format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	first      bool
	fileConfig map[string]string
	order      []string
}

// NewWriter returns a writer that writes samples to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true, fileConfig: make(map[string]string)}
}

// internalKey reports whether key is added by the reader, such as
// ".file", and so cannot be written as file configuration.
func internalKey(key string) bool {
	return strings.HasPrefix(key, ".")
}

// Write writes sample s to w. If s's file configuration differs from
// the current file configuration in w, it first emits the
// appropriate file configuration lines.
func (w *Writer) Write(s *Sample) error {
	changed := false
	n := 0
	for _, cfg := range s.FileConfig {
		if internalKey(cfg.Key) {
			continue
		}
		n++
		if val, ok := w.fileConfig[cfg.Key]; !ok || cfg.Value != val {
			changed = true
			break
		}
	}
	if changed || n != len(w.fileConfig) {
		w.writeFileConfig(s)
	}

	w.buf.WriteString("Sample")
	w.buf.Write(s.Name)
	for _, c := range s.Counts {
		w.buf.WriteByte(' ')
		w.buf.WriteString(strconv.FormatFloat(c.Value, 'g', -1, 64))
		w.buf.WriteByte(' ')
		w.buf.WriteString(c.Feature)
	}
	w.buf.WriteByte('\n')

	w.first = false

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *Writer) writeFileConfig(s *Sample) {
	if !w.first {
		// Configuration blocks after samples get an extra blank.
		w.buf.WriteByte('\n')
		w.first = true
	}

	// Walk keys we know to find changes and deletions.
	for i := 0; i < len(w.order); i++ {
		key := w.order[i]
		idx, ok := s.FileConfigIndex(key)
		if !ok {
			// Key was deleted.
			fmt.Fprintf(&w.buf, "%s:\n", key)
			delete(w.fileConfig, key)
			w.order = append(w.order[:i], w.order[i+1:]...)
			i--
			continue
		}
		val := s.FileConfig[idx].Value
		if w.fileConfig[key] == val {
			continue
		}
		fmt.Fprintf(&w.buf, "%s: %s\n", key, val)
		w.fileConfig[key] = val
	}

	// Find new keys.
	for _, cfg := range s.FileConfig {
		if internalKey(cfg.Key) {
			continue
		}
		if _, ok := w.fileConfig[cfg.Key]; ok {
			continue
		}
		fmt.Fprintf(&w.buf, "%s: %s\n", cfg.Key, cfg.Value)
		w.fileConfig[cfg.Key] = cfg.Value
		w.order = append(w.order, cfg.Key)
	}

	w.buf.WriteByte('\n')
}
