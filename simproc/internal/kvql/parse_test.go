// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvql

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	check := func(query string, want string) {
		t.Helper()
		q, err := Parse(query)
		if err != nil {
			t.Errorf("%s: unexpected error %s", query, err)
		} else if got := q.String(); got != want {
			t.Errorf("%s: got %s, want %s", query, got, want)
		}
	}
	checkErr := func(query, error string, pos int) {
		t.Helper()
		_, err := Parse(query)
		if se, _ := err.(*SyntaxError); se == nil || !strings.Contains(se.Msg, error) || se.Off != pos {
			t.Errorf("%s: want error %s at %d; got %v", query, error, pos, err)
		}
	}
	check(`*`, `*`)
	check(`a:b`, `a:b`)
	checkErr(`a`, "expected key:value", 0)
	checkErr(`a :`, "expected key:value", 0)
	checkErr(`:b`, `unexpected ":"`, 0)
	checkErr(``, "nothing to match", 0)
	checkErr(`()`, "nothing to match", 1)
	checkErr(`AND`, "nothing to match", 0)
	check(`"a":"b c"`, `a:"b c"`)
	checkErr(`a "b`, "missing end quote", 2)
	check(`(a:b)`, `a:b`)
	checkErr(`(a:b`, `missing ")"`, 4)
	checkErr(`(a:b))`, `unexpected ")"`, 5)
	check(`a:b c:d e:f`, `(a:b AND c:d AND e:f)`)
	check(`-a:b`, `-a:b`)
	check(`-*`, `-*`)
	check(`a-b:c-d`, `a-b:c-d`)
	check(`a:b AND c:d`, `(a:b AND c:d)`)
	check(`-a:b AND c:d`, `(-a:b AND c:d)`)
	check(`-(a:b AND c:d)`, `-(a:b AND c:d)`)
	check(`a:b AND * AND c:d`, `(a:b AND * AND c:d)`)
	check(`a:b OR c:d`, `(a:b OR c:d)`)
	check(`a:b AND c:d OR e:f AND g:h`, `((a:b AND c:d) OR (e:f AND g:h))`)
	check(`a:b AND (c:d OR e:f) AND g:h`, `(a:b AND (c:d OR e:f) AND g:h)`)
	check(`a:(b c d)`, `(a:b OR a:c OR a:d)`)
	checkErr(`a:(b AND c)`, "expected value", 5)
	checkErr(`a:()`, "nothing to match", 3)
	checkErr(`a:b x:[`, "missing closing ]", 6)
	checkErr(`a:b@c`, `unexpected "@"`, 3)
}

func TestMatch(t *testing.T) {
	check := func(query, value string, want bool) {
		t.Helper()
		q, err := Parse(query)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := q.(*QueryMatch)
		if !ok {
			t.Fatalf("%s: got %T, want *QueryMatch", query, q)
		}
		if got := m.Match(value); got != want {
			t.Errorf("%s against %q: got %v, want %v", query, value, got, want)
		}
	}
	check(`k:abc`, "abc", true)
	// Patterns match whole values.
	check(`k:abc`, "xabcx", false)
	check(`k:ab.*`, "abcd", true)
	check(`k:a|b`, "b", true)
	check(`k:""`, "", true)
	check(`k:""`, "x", false)
}

func TestWalk(t *testing.T) {
	q, err := Parse(`a:1 OR -(b:2 c:(3 4))`)
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	Walk(q, func(m *QueryMatch) error {
		keys = append(keys, m.Key)
		return nil
	})
	if got, want := strings.Join(keys, " "), "a b c c"; got != want {
		t.Errorf("got keys %q, want %q", got, want)
	}
}
