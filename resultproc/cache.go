// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultproc

import "io"

// A Cache lazily constructs one value per key.
//
// A Cache is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	// New constructs the value for a key on its first use.
	New func(K) (V, error)

	m    map[K]V
	keys []K
}

// NewCache returns a cache that constructs values with newValue.
func NewCache[K comparable, V any](newValue func(K) (V, error)) *Cache[K, V] {
	return &Cache[K, V]{New: newValue}
}

// Get returns the value for key, constructing and storing it if this
// is the first use of key. If construction fails, nothing is stored
// and a later Get retries.
func (c *Cache[K, V]) Get(key K) (V, error) {
	if v, ok := c.m[key]; ok {
		return v, nil
	}
	v, err := c.New(key)
	if err != nil {
		var zero V
		return zero, err
	}
	if c.m == nil {
		c.m = make(map[K]V)
	}
	c.m[key] = v
	c.keys = append(c.keys, key)
	return v, nil
}

// Lookup returns the value for key without constructing it.
func (c *Cache[K, V]) Lookup(key K) (V, bool) {
	v, ok := c.m[key]
	return v, ok
}

// Keys returns the keys of c in the order they were first used.
func (c *Cache[K, V]) Keys() []K {
	return append([]K(nil), c.keys...)
}

// Len returns the number of values in c.
func (c *Cache[K, V]) Len() int {
	return len(c.keys)
}

// Close closes every value that implements io.Closer, in key order,
// and empties c. It returns the first error.
func (c *Cache[K, V]) Close() error {
	var first error
	for _, k := range c.keys {
		if cl, ok := any(c.m[k]).(io.Closer); ok {
			if err := cl.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	c.m, c.keys = nil, nil
	return first
}
