// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares expected and actual test output.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Diff returns a unified diff from want to got, labeled with the given
// names. It returns "" if the strings are equal. If the diff command
// is not available, it returns both strings quoted.
func Diff(wantName, want, gotName, got string) string {
	if want == got {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("diff command unavailable\n%s: %q\n%s: %q", wantName, want, gotName, got)
	}

	f1, err := writeTemp(want)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(f1)
	f2, err := writeTemp(got)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(f2)

	data, err := exec.Command(cmd, "-u", "--label", wantName, "--label", gotName, f1, f2).CombinedOutput()
	if len(data) > 0 {
		// diff exits non-zero when the files differ.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}

func writeTemp(s string) (string, error) {
	f, err := os.CreateTemp("", "mapf_diff")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(s); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
