// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proffmt

import "os"

// Files reads samples from a sequence of input files.
//
// This reader adds a ".file" configuration key to the output Samples
// containing the name of the file read in, exactly as it appears in
// the Paths list.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line flags.
	AllowStdin bool

	// pos is the position of the next file to read from in Paths
	// when the current file is exhausted.
	pos int

	reader  Reader
	file    *os.File
	isStdin bool
	err     error
}

// Scan advances the reader to the next sample in the sequence of
// files and returns true if a sample was read. The caller should use
// the Result method to get the sample. If an I/O error occurs, or
// this reaches the end of the file sequence, it returns false and the
// caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	for {
		if f.file == nil {
			var path string
			if f.AllowStdin && len(f.Paths) == 0 && f.pos == 0 {
				path = "-"
			} else if f.pos < len(f.Paths) {
				path = f.Paths[f.pos]
			} else {
				return false
			}
			f.pos++
			if f.AllowStdin && path == "-" {
				f.isStdin, f.file = true, os.Stdin
			} else {
				file, err := os.Open(path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}

			// ".file" is not valid syntax for a key in the
			// file itself, so it cannot be overwritten.
			f.reader.Reset(f.file, path, ".file", path)
		}

		if f.reader.Scan() {
			return true
		}
		err := f.reader.Err()
		if !f.isStdin {
			f.file.Close()
		}
		f.file = nil
		if err != nil {
			f.err = err
			return false
		}
	}
}

// Result returns the last sample read, or an error if the sample was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Sample, as it will be overwritten
// by the next call to Scan.
func (f *Files) Result() (*Sample, error) {
	return f.reader.Result()
}

// Err returns the first non-EOF I/O error that was encountered by the
// Files.
func (f *Files) Err() error {
	return f.err
}
