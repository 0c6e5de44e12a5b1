// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"os/exec"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	if d := Diff("want", "a\nb\n", "got", "a\nb\n"); d != "" {
		t.Errorf("equal strings: got diff %q", d)
	}
	if _, err := exec.LookPath("diff"); err != nil {
		t.Skip("diff command unavailable")
	}
	d := Diff("want", "a\nb\n", "got", "a\nc\n")
	for _, line := range []string{"--- want", "+++ got", "\n-b\n", "\n+c\n"} {
		if !strings.Contains(d, line) {
			t.Errorf("diff missing %q:\n%s", line, d)
		}
	}
}
