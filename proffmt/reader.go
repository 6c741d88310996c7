// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proffmt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// A Reader reads the profile sample format.
//
// Its API is modeled on bufio.Scanner. To minimize allocation, a
// Reader retains ownership of everything it creates; a caller should
// copy anything it needs to retain.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	err      error // current I/O error

	sample    Sample
	sampleErr error

	interns map[string]string
}

// SyntaxError represents a syntax error on a particular line of a
// sample file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noSample = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse samples from r. fileName is
// used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input. This
// also resets all of the file-level configuration values.
//
// fileConfig is a list of key/value pairs that are set as permanent
// file configuration for every sample read. Keys in the file cannot
// override them.
func (r *Reader) Reset(ior io.Reader, fileName string, fileConfig ...string) {
	if len(fileConfig)%2 != 0 {
		panic("fileConfig must be a list of key/value pairs")
	}
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.sampleErr = noSample
	if r.interns == nil {
		r.interns = make(map[string]string)
	}

	// Wipe the Sample.
	r.sample.FileConfig = r.sample.FileConfig[:0]
	r.sample.Name = r.sample.Name[:0]
	r.sample.Counts = r.sample.Counts[:0]
	r.sample.permConfig = 0
	if r.sample.configPos == nil {
		r.sample.configPos = make(map[string]int)
	}
	clear(r.sample.configPos)

	for i := 0; i < len(fileConfig); i += 2 {
		r.sample.setFileConfig(fileConfig[i], fileConfig[i+1], true)
	}
}

var samplePrefix = []byte("Sample")

// Scan advances the reader to the next sample and returns true if a
// sample was read. The caller should use the Result method to get the
// sample. If an I/O error occurs, or this reaches the end of the
// file, it returns false and the caller should use the Err method to
// check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.lineNum++
		line := r.s.Bytes()
		if bytes.HasPrefix(line, samplePrefix) {
			// At this point we commit to this being a
			// sample line. If it's malformed, we treat that
			// as an error.
			r.sampleErr = r.parseSampleLine(line)
			return true
		} else if key, val, ok := parseKeyValueLine(line); ok {
			keyStr := r.intern(key)
			if len(val) == 0 {
				r.sample.deleteFileConfig(keyStr)
			} else {
				r.sample.setFileConfig(keyStr, string(val), false)
			}
		}
		// Ignore the line.
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum, err)
		return false
	}
	r.err = nil
	return false
}

// parseKeyValueLine attempts to parse line as a key: value pair. ok
// indicates whether the line could be parsed.
func parseKeyValueLine(line []byte) (key, val []byte, ok bool) {
	for i := 0; i < len(line); {
		r, n := utf8.DecodeRune(line[i:])
		// key begins with a lower case character ...
		if i == 0 && !unicode.IsLower(r) {
			return
		}
		// and contains no space characters nor upper case
		// characters.
		if unicode.IsSpace(r) || unicode.IsUpper(r) {
			return
		}
		if i > 0 && r == ':' {
			key = line[:i]
			val = line[i+1:]
			break
		}
		i += n
	}
	if len(key) == 0 {
		return
	}
	// Value can be omitted entirely, in which case the colon must
	// still be present, but need not be followed by a space.
	if len(val) == 0 {
		ok = true
		return
	}
	// One or more ASCII space or tab characters separate "key:"
	// from "value."
	for len(val) > 0 && (val[0] == ' ' || val[0] == '\t') {
		val = val[1:]
		ok = true
	}
	return
}

// parseSampleLine parses line as a sample and updates r.sample. The
// caller must have already checked that it begins with "Sample".
func (r *Reader) parseSampleLine(line []byte) error {
	var f []byte

	line = line[len(samplePrefix):]
	f, line = splitField(line)
	r.sample.Name = append(r.sample.Name[:0], f...)

	// Read count/feature pairs.
	r.sample.Counts = r.sample.Counts[:0]
	for {
		f, line = splitField(line)
		if len(f) == 0 {
			if len(r.sample.Counts) > 0 {
				break
			}
			return &SyntaxError{r.fileName, r.lineNum, "missing counts"}
		}
		val, err := strconv.ParseFloat(string(f), 64)
		if err != nil {
			if nerr, ok := err.(*strconv.NumError); ok {
				err = nerr.Err
			}
			return &SyntaxError{r.fileName, r.lineNum, "parsing count: " + err.Error()}
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return &SyntaxError{r.fileName, r.lineNum, "parsing count: not a finite number"}
		}
		if val < 0 {
			return &SyntaxError{r.fileName, r.lineNum, "negative count"}
		}
		f, line = splitField(line)
		if len(f) == 0 {
			return &SyntaxError{r.fileName, r.lineNum, "missing feature"}
		}
		r.sample.Counts = append(r.sample.Counts, Count{val, r.intern(f)})
	}
	return nil
}

func (r *Reader) intern(x []byte) string {
	const maxIntern = 1024
	if s, ok := r.interns[string(x)]; ok {
		return s
	}
	if len(r.interns) >= maxIntern {
		// Evict a random item from the interns table.
		for k := range r.interns {
			delete(r.interns, k)
			break
		}
	}
	s := string(x)
	r.interns[s] = s
	return s
}

// Result returns the last sample read, or an error if the sample was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Sample, as it will be overwritten
// by the next call to Scan.
func (r *Reader) Result() (*Sample, error) {
	if r.sampleErr != nil {
		return nil, r.sampleErr
	}
	return &r.sample, nil
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

const isSpace uint64 = 1<<'\t' | 1<<'\n' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining bytes of x.
func splitField(x []byte) (field, rest []byte) {
	var i int
	for i = 0; i < len(x); {
		if x[i] < utf8.RuneSelf {
			if (isSpace>>x[i])&1 != 0 {
				rest = x[i+1:]
				break
			}
			i++
		} else {
			r, n := utf8.DecodeRune(x[i:])
			if unicode.IsSpace(r) {
				rest = x[i+n:]
				break
			}
			i += n
		}
	}
	field = x[:i]

	// Strip whitespace from rest.
	for len(rest) > 0 {
		if rest[0] < utf8.RuneSelf {
			if (isSpace>>rest[0])&1 == 0 {
				break
			}
			rest = rest[1:]
		} else {
			r, n := utf8.DecodeRune(rest)
			if !unicode.IsSpace(r) {
				break
			}
			rest = rest[n:]
		}
	}
	return
}
