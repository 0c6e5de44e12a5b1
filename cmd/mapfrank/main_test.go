// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRank(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "den520d.csv")
	input := "Instance Id,A Runtime,B Runtime,C Runtime\n" +
		"0,10,5,irrelevant\n" +
		"1,x,5,1\n" +
		"2,4,8,2\n"
	if err := os.WriteFile(in, []byte(input), 0666); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := mapfrank(&stdout, &stderr, []string{in}); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "den520d with analysis.csv")
	if stdout.String() != out+"\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), out+"\n")
	}
	if want := in + `:3: column "A Runtime": cannot parse "x": strconv.ParseFloat: parsing "x": invalid syntax` + "\n"; stderr.String() != want {
		t.Errorf("stderr = %q, want %q", stderr.String(), want)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "Instance Id,A Runtime,B Runtime,C Runtime,1 place,2 place,3 place\n" +
		"0,10,5,irrelevant,B runtime=5.000000 speedup=2.000000,A runtime=10.000000 speedup=1.000000,\n" +
		"2,4,8,2,C runtime=2.000000 speedup=2.000000,A runtime=4.000000 speedup=2.000000,B runtime=8.000000 speedup=1.000000\n"
	if string(got) != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nope.csv")

	var stdout, stderr bytes.Buffer
	if err := mapfrank(&stdout, &stderr, []string{in}); err == nil {
		t.Fatal("ranking a missing input succeeded")
	}
	if _, err := os.Stat(OutputPath(in)); !os.IsNotExist(err) {
		t.Errorf("output of a missing input was created: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestOutputPath(t *testing.T) {
	if got, want := OutputPath("runs/den520d.csv"), "runs/den520d with analysis.csv"; got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}
