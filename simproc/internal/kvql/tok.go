// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvql

import (
	"unicode"
	"unicode/utf8"
)

// Tok is a single token in the kvql lexical syntax.
type Tok struct {
	// Kind specifies the category of this token. It is either 'w'
	// or 'q' for an unquoted or quoted word, respectively, an
	// operator character, or 0 for the end-of-string token.
	Kind byte
	Off  int    // Byte offset of the beginning of this token
	Tok  string // Literal token contents; quoted words are unquoted
}

func isOp(ch rune) bool {
	return ch == '(' || ch == ')' || ch == ':' || ch == '@'
}

// Tokenize splits q into a stream of tokens, ending with a token of
// Kind 0. Each token is either a quoted or unquoted word, or a single
// character operator. Quoted words are enclosed in double quotes and
// may contain any character but a double quote.
//
// "-" and "*" are operators at the start of a word and ordinary
// characters inside one, so "foo-bar" is a single word.
func Tokenize(q string) ([]Tok, error) {
	var toks []Tok
	for off := 0; off < len(q); {
		rest := q[off:]
		r, size := utf8.DecodeRuneInString(rest)
		switch {
		case unicode.IsSpace(r):
			off += size

		case isOp(r) || r == '-' || r == '*':
			toks = append(toks, Tok{rest[0], off, rest[:1]})
			off++

		case r == '"':
			end := 1
			for end < len(rest) && rest[end] != '"' {
				end++
			}
			if end == len(rest) {
				return nil, &SyntaxError{q, off, "missing end quote"}
			}
			toks = append(toks, Tok{'q', off, rest[1:end]})
			off += end + 1

		default:
			end := len(rest)
			for i, r := range rest {
				if unicode.IsSpace(r) || isOp(r) {
					end = i
					break
				}
			}
			toks = append(toks, Tok{'w', off, rest[:end]})
			off += end
		}
	}
	// The end token saves the parser bounds checks and gives the
	// end of the query a position.
	return append(toks, Tok{0, len(q), ""}), nil
}
