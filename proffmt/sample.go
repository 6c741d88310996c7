// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proffmt provides a streaming reader and writer for feature
// count profiles.
//
// The format is line oriented and modeled on the Go benchmark
// format. A line of the form
//
//	key: value
//
// sets a file-level configuration key for all following samples, and
// "key:" with no value deletes it. Keys begin with a lower case
// letter and contain no spaces or upper case letters. A line of the
// form
//
//	Sample<name> <count> <feature> [<count> <feature>...]
//
// is a sample: one observation of how often each feature occurred.
// All other lines are ignored.
package proffmt

// Sample is a single profile sample and all of its feature counts.
type Sample struct {
	// FileConfig is the set of file-level key/value pairs in
	// effect for this sample.
	//
	// Callers should not modify this directly. New keys are
	// appended and changed keys are updated in place, so the
	// index of a key is stable until that key is deleted.
	FileConfig []Config

	// Name is the name of this sample, without the "Sample"
	// prefix.
	Name []byte

	// Counts is this sample's feature counts, in file order. A
	// feature may appear more than once.
	Counts []Count

	// configPos, if non-nil, maps from Config.Key to index in
	// FileConfig.
	configPos map[string]int

	// permConfig indicates that FileConfig[:permConfig] cannot be
	// overridden.
	permConfig int
}

// Config is a single key/value configuration pair.
type Config struct {
	Key, Value string
}

// Count is the number of times a feature was observed.
type Count struct {
	Value   float64
	Feature string
}

// setFileConfig sets file configuration key to value, overriding or
// adding the configuration as necessary. perm indicates that this is
// a permanent config value that cannot be overridden by a file.
func (s *Sample) setFileConfig(key, value string, perm bool) {
	pos, ok := s.FileConfigIndex(key)
	if ok {
		if !perm && pos < s.permConfig {
			// Cannot override permanent config.
			return
		}
		s.FileConfig[pos].Value = value
		return
	}
	pos = len(s.FileConfig)
	if perm {
		if pos != s.permConfig {
			panic("setting permanent file config after reading file")
		}
		s.permConfig = pos + 1
	}
	s.FileConfig = append(s.FileConfig, Config{key, value})
	s.configPos[key] = pos
}

// deleteFileConfig removes key from the file configuration unless it
// is permanent.
func (s *Sample) deleteFileConfig(key string) {
	pos, ok := s.FileConfigIndex(key)
	if !ok || pos < s.permConfig {
		return
	}
	s.FileConfig = append(s.FileConfig[:pos], s.FileConfig[pos+1:]...)
	for _, cfg := range s.FileConfig[pos:] {
		s.configPos[cfg.Key]--
	}
	delete(s.configPos, key)
}

// FileConfigIndex returns the index in s.FileConfig of key.
func (s *Sample) FileConfigIndex(key string) (pos int, ok bool) {
	if s.configPos == nil {
		s.configPos = make(map[string]int)
		for i, cfg := range s.FileConfig {
			s.configPos[cfg.Key] = i
		}
	}
	pos, ok = s.configPos[key]
	return
}

// GetFileConfig returns the value of file configuration key, or "".
func (s *Sample) GetFileConfig(key string) string {
	if pos, ok := s.FileConfigIndex(key); ok {
		return s.FileConfig[pos].Value
	}
	return ""
}

// Total returns the sum of all counts in s.
func (s *Sample) Total() float64 {
	var total float64
	for _, c := range s.Counts {
		total += c.Value
	}
	return total
}
