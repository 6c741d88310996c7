// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

// OMap is an insertion-ordered map.
//
// The zero value of OMap is a usable map.
type OMap[K comparable, V any] struct {
	// Keys is the keys of this map in insertion order.
	Keys []K

	vals map[K]V
}

// Load returns the value associated with key, or the zero value if
// key is not in the map.
func (m *OMap[K, V]) Load(key K) V {
	return m.vals[key]
}

// LoadOK returns the value associated with key and whether or not it
// is in the map.
func (m *OMap[K, V]) LoadOK(key K) (V, bool) {
	val, ok := m.vals[key]
	return val, ok
}

// Store sets key's value to value. If this is the first time key has
// been stored, it adds key to the insertion order.
func (m *OMap[K, V]) Store(key K, value V) {
	if m.vals == nil {
		m.vals = make(map[K]V)
	}
	if _, ok := m.vals[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.vals[key] = value
}
