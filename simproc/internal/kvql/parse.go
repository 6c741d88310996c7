// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kvql implements a key-value query language.
//
// Syntax:
//
//	expr    = andExpr {"OR" andExpr} .
//	andExpr = phrase {"AND" phrase} .
//	phrase  = match {match} .
//	match   = "(" expr ")"
//	        | "-" match
//	        | "*"
//	        | word ":" (word | "(" {word} ")") .
//	word    = [^ ():@]* | "\"" [^"]* "\""
//
// The value word of a match is a regular expression that must match
// the whole value of the key.
package kvql

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
)

// Parse parses a query string into a Query tree.
func Parse(q string) (Query, error) {
	toks, err := Tokenize(q)
	if err != nil {
		return nil, err
	}
	// Recognize operators. After this, quoted and unquoted words
	// are the same.
	for i, tok := range toks {
		switch {
		case tok.Kind == 'w' && tok.Tok == "AND":
			toks[i].Kind = 'A'
		case tok.Kind == 'w' && tok.Tok == "OR":
			toks[i].Kind = 'O'
		case tok.Kind == 'q':
			toks[i].Kind = 'w'
		}
	}

	p := &parser{q: q, toks: toks}
	query := p.expr()
	if p.peek().Kind != 0 {
		p.fail("unexpected " + strconv.Quote(p.peek().Tok))
	}
	if p.err != nil {
		return nil, p.err
	}
	return query, nil
}

// SyntaxError is an error produced by parsing a malformed query
// string.
type SyntaxError struct {
	Query string // The query string
	Off   int    // Byte offset of the error in Query
	Msg   string // Error message
}

func (e *SyntaxError) Error() string {
	// Point at the error by rune, not by byte.
	col := 0
	for i, r := range e.Query {
		if i >= e.Off {
			break
		}
		if unicode.IsGraphic(r) {
			col++
		}
	}
	return fmt.Sprintf("syntax error: %s\n\t%s\n\t%*s^", e.Msg, e.Query, col, "")
}

type parser struct {
	q    string
	toks []Tok
	pos  int
	err  *SyntaxError
}

func (p *parser) peek() Tok {
	return p.toks[p.pos]
}

// fail records a syntax error at the current token and skips to the
// end token. Only the leftmost error is kept.
func (p *parser) fail(msg string) {
	off := p.toks[p.pos].Off
	if p.err == nil || off < p.err.Off {
		p.err = &SyntaxError{p.q, off, msg}
	}
	p.pos = len(p.toks) - 1
}

func (p *parser) expr() Query {
	return p.binary('O', OpOr, p.andExpr)
}

func (p *parser) andExpr() Query {
	return p.binary('A', OpAnd, p.phrase)
}

// binary parses a list of operands separated by the operator token
// kind.
func (p *parser) binary(kind byte, op Op, operand func() Query) Query {
	q := operand()
	if p.peek().Kind != kind {
		return q
	}
	terms := []Query{q}
	for p.peek().Kind == kind {
		p.pos++
		terms = append(terms, operand())
	}
	return &QueryOp{op, terms}
}

func (p *parser) phrase() Query {
	var terms []Query
	for {
		switch p.peek().Kind {
		case '(', '-', 'w', '*':
			terms = append(terms, p.match())
			continue
		case ')', 'A', 'O', 0:
		default:
			p.fail("unexpected " + strconv.Quote(p.peek().Tok))
			return nil
		}
		break
	}
	switch len(terms) {
	case 0:
		p.fail("nothing to match")
		return nil
	case 1:
		return terms[0]
	}
	return &QueryOp{OpAnd, terms}
}

func (p *parser) match() Query {
	tok := p.peek()
	switch tok.Kind {
	case '(':
		p.pos++
		q := p.expr()
		if p.peek().Kind != ')' {
			p.fail(`missing ")"`)
			return nil
		}
		p.pos++
		return q
	case '-':
		p.pos++
		return &QueryOp{OpNot, []Query{p.match()}}
	case '*':
		p.pos++
		return &QueryOp{OpAnd, nil}
	case 'w':
		if p.toks[p.pos+1].Kind != ':' {
			p.fail("expected key:value")
			return nil
		}
		switch p.toks[p.pos+2].Kind {
		case 'w':
			p.pos += 2
			return p.matchWord(tok)
		case '(':
			p.pos += 3
			terms := []Query{}
			for p.peek().Kind == 'w' {
				terms = append(terms, p.matchWord(tok))
			}
			if p.peek().Kind != ')' {
				p.fail("expected value")
				return nil
			}
			if len(terms) == 0 {
				p.fail("nothing to match")
				return nil
			}
			p.pos++
			return &QueryOp{OpOr, terms}
		}
		p.fail("expected key:value")
		return nil
	}
	p.fail("expected key:value or subexpression")
	return nil
}

// matchWord consumes a value word and returns a match of key against
// it.
func (p *parser) matchWord(key Tok) Query {
	pat := p.peek().Tok
	// Check the pattern alone so errors refer to what the user
	// wrote.
	if _, err := regexp.Compile(pat); err != nil {
		p.fail(err.Error())
		return nil
	}
	p.pos++
	re := regexp.MustCompile("^(?:" + pat + ")$")
	return &QueryMatch{Off: key.Off, Key: key.Tok, re: re, pat: pat}
}
