// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultproc

import (
	"errors"
	"reflect"
	"testing"
)

type closeCounter struct {
	name   string
	closed *[]string
}

func (c *closeCounter) Close() error {
	*c.closed = append(*c.closed, c.name)
	return nil
}

func TestCache(t *testing.T) {
	var made, closed []string
	c := NewCache(func(k string) (*closeCounter, error) {
		if k == "" {
			return nil, errors.New("empty key")
		}
		made = append(made, k)
		return &closeCounter{k, &closed}, nil
	})

	for _, k := range []string{"den520d", "brc202d", "den520d", "ost003d", "brc202d"} {
		v, err := c.Get(k)
		if err != nil {
			t.Fatal(err)
		}
		if v.name != k {
			t.Errorf("Get(%q) returned value for %q", k, v.name)
		}
	}
	if _, err := c.Get(""); err == nil {
		t.Errorf("Get(\"\") succeeded")
	}

	want := []string{"den520d", "brc202d", "ost003d"}
	if !reflect.DeepEqual(made, want) {
		t.Errorf("constructed %v, want %v", made, want)
	}
	if got := c.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Errorf("Lookup constructed a value")
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(closed, want) {
		t.Errorf("closed %v, want %v", closed, want)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Close = %d", c.Len())
	}
}

func TestCacheNonCloser(t *testing.T) {
	n := 0
	c := NewCache(func(k int) (int, error) {
		n++
		return k * k, nil
	})
	for i := 0; i < 3; i++ {
		if v, _ := c.Get(4); v != 16 {
			t.Errorf("Get(4) = %d", v)
		}
	}
	if n != 1 {
		t.Errorf("factory called %d times, want 1", n)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
