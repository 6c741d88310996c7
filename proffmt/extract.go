// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proffmt

import "fmt"

// An Extractor returns some component of a sample.
type Extractor func(*Sample) string

// NewExtractor returns a function that extracts some component of a
// sample.
//
// The key must be one of the following:
//
// - ".name" for the sample name.
//
// - Any other string is a file configuration key, including ".file"
// for samples read through Files.
//
// ".feature" varies across the counts of a sample rather than by
// sample, so it cannot be extracted.
func NewExtractor(key string) (Extractor, error) {
	switch key {
	case "":
		return nil, fmt.Errorf("key must not be empty")
	case ".feature":
		return nil, fmt.Errorf("%s is a per-count key", key)
	case ".name":
		return extractName, nil
	}
	return func(s *Sample) string {
		return s.GetFileConfig(key)
	}, nil
}

func extractName(s *Sample) string {
	return string(s.Name)
}
