// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCollect(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ost003d-5-0_output.txt": "reLOC\nCost: 120\nTotal time (seconds): 1.5",
		"ost003d-5-1_output.txt": "reLOC\nCost: 0\nTotal time (seconds): 3",
		"den520d-10-2_output.txt": "reLOC\nCost: 0\nTotal time (seconds): 300",
		"broken-5-3_output.txt":   "reLOC crashed",
		"notes.txt":               "not an output",
	})

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("y\n")
	if err := mapfcollect(stdin, &stdout, &stderr, []string{dir}); err != nil {
		t.Fatal(err)
	}

	want := "Grid Name,Grid Rows,Grid Columns,Num Of Agents,Num Of Obstacles,Instance Id," +
		"mdd-sat Success,mdd-sat Runtime,mdd-sat Solution Cost,mdd-sat Generated (HL)," +
		"mdd-sat Look Ahead Nodes Created (HL),mdd-sat Adoptions (HL)," +
		"mdd-sat Nodes Expanded With Goal Cost (HL),mdd-sat Conflicts Bypassed With Adoption (HL)," +
		"mdd-sat Expanded (HL)\n" +
		"den520d,-1,-1,10,-1,2,0,300000,-2,-1,-1,-1,-1,-1,-1\n" +
		"ost003d,-1,-1,5,-1,0,1,1500,120,-1,-1,-1,-1,-1,-1\n" +
		"ost003d,-1,-1,5,-1,1,0,3000,-2,-1,-1,-1,-1,-1,-1\n"
	if stdout.String() != want {
		t.Errorf("table:\n%s\nwant:\n%s", stdout.String(), want)
	}

	log := stderr.String()
	for _, want := range []string{
		"problem with " + filepath.Join(dir, "broken-5-3_output.txt"),
		"content: reLOC crashed",
		"delete? (y/n)",
		"failed fast for " + filepath.Join(dir, "ost003d-5-1_output.txt"),
	} {
		if !strings.Contains(log, want) {
			t.Errorf("stderr missing %q:\n%s", want, log)
		}
	}
	if strings.Contains(log, "notes.txt") {
		t.Errorf("read a file that is not a solver output:\n%s", log)
	}
	if strings.Contains(log, "failed fast for "+filepath.Join(dir, "den520d")) {
		t.Errorf("timeout reported as fast failure:\n%s", log)
	}
	if _, err := os.Stat(filepath.Join(dir, "broken-5-3_output.txt")); !os.IsNotExist(err) {
		t.Errorf("malformed file not deleted: %v", err)
	}
}

func TestCollectNoPrompt(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken-5-3_output.txt": "reLOC crashed",
	})
	out := filepath.Join(t.TempDir(), "collected.csv")

	var stdout, stderr bytes.Buffer
	args := []string{"-prompt=false", "-solver", "sat", "-o", out, dir}
	if err := mapfcollect(strings.NewReader("y\n"), &stdout, &stderr, args); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr.String(), "delete?") {
		t.Errorf("prompted with -prompt=false")
	}
	if _, err := os.Stat(filepath.Join(dir, "broken-5-3_output.txt")); err != nil {
		t.Errorf("malformed file removed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Grid Name,") || strings.Count(string(data), "\n") != 1 {
		t.Errorf("output = %q, want only a header", data)
	}
	if !strings.Contains(string(data), "sat Success") {
		t.Errorf("output header does not use -solver: %q", data)
	}
}

func TestCollectRunDir(t *testing.T) {
	// mapfrun leaves each instance input next to its output.
	dir := writeFiles(t, map[string]string{
		"ost003d-5-0":            "instance input",
		"ost003d-5-0_output.txt": "reLOC\nCost: 7\nTotal time (seconds): 2",
		"ost003d-5-1":            "instance input",
	})

	var stdout, stderr bytes.Buffer
	if err := mapfcollect(strings.NewReader("y\ny\n"), &stdout, &stderr, []string{dir}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(stdout.String(), "\n"); got != 2 {
		t.Errorf("table has %d lines, want header and one row:\n%s", got, stdout.String())
	}
	if !strings.Contains(stdout.String(), "ost003d,-1,-1,5,-1,0,1,2000,7,") {
		t.Errorf("table missing solved instance:\n%s", stdout.String())
	}
	if strings.Contains(stderr.String(), "delete?") {
		t.Errorf("prompted about an instance input:\n%s", stderr.String())
	}
	for _, name := range []string{"ost003d-5-0", "ost003d-5-1"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("instance input %s: %v", name, err)
		}
	}
}
