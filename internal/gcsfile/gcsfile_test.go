// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcsfile

import (
	"io"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		path, bucket, object string
		ok                   bool
	}{
		{"gs://results/runs/a.csv", "results", "runs/a.csv", true},
		{"gs://results/a.csv", "results", "a.csv", true},
		{"gs://results", "", "", false},
		{"gs://results/", "", "", false},
		{"gs:///a.csv", "", "", false},
		{"results/a.csv", "", "", false},
	} {
		b, o, err := Parse(test.path)
		if (err == nil) != test.ok {
			t.Errorf("Parse(%q) error = %v, want ok=%v", test.path, err, test.ok)
			continue
		}
		if b != test.bucket || o != test.object {
			t.Errorf("Parse(%q) = %q, %q; want %q, %q", test.path, b, o, test.bucket, test.object)
		}
	}
}

func TestLocal(t *testing.T) {
	var o Opener
	path := filepath.Join(t.TempDir(), "sub", "out.csv")

	w, err := o.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "a,b\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := o.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("read %q", data)
	}

	if o.client != nil {
		t.Errorf("local access created a storage client")
	}
	if err := o.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
