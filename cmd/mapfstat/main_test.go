// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eli-b/mapf/internal/diff"
	"github.com/eli-b/mapf/summarydb"
)

func TestText(t *testing.T) {
	golden(t, "two", "two.csv")
}

func TestSorted(t *testing.T) {
	// Y failed instance 1 of category 5, so it is listed and left
	// out of the averages.
	golden(t, "twoSorted", "-format", "sorted", "-v", "two.csv")
}

func TestCSV(t *testing.T) {
	golden(t, "twoCSV", "-format", "csv", "two.csv")
	// Malformed rows are reported and skipped.
	golden(t, "badCSV", "-format", "csv", "bad.csv")
}

func TestHTML(t *testing.T) {
	out := run(t, "-format", "html", "two.csv")
	for _, want := range []string{
		"<h2>success rate</h2>",
		"<h2>average Runtime</h2>",
		"<tr><th>Num Of Agents<th>X<th>Y",
		"<tr><td>10<td>30.00<td>n/a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q:\n%s", want, out)
		}
	}
}

func TestOverview(t *testing.T) {
	out := run(t, "-overview", "two.csv")
	if !strings.Contains(out, "mean runtime") {
		t.Errorf("output has no overview:\n%s", out)
	}
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	run(t, "-svg", dir, "-png", dir, "two.csv")
	for _, name := range []string{"success-rate.svg", "average-runtime.svg", "success-rate.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "summaries.db")
	run(t, "-driver", "sqlite3", "-dsn", dsn, "-label", "nightly", "two.csv")

	db, err := summarydb.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	info, err := db.FindSummary(ctx, "nightly")
	if err != nil {
		t.Fatal(err)
	}
	rates, err := db.SuccessRates(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 4 {
		t.Errorf("stored %d success rates, want 4: %+v", len(rates), rates)
	}
}

func TestConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "mapf.yaml")
	if err := os.WriteFile(cfg, []byte("threshold: 0.6\n"), 0666); err != nil {
		t.Fatal(err)
	}
	// With threshold 0.6, Y is not relevant in category 5, so the
	// instance it failed is averaged for X.
	out := run(t, "-config", cfg, "-format", "csv", "two.csv")
	if !strings.Contains(out, "5,X,2,2,1,12.5\n") {
		t.Errorf("config threshold not applied:\n%s", out)
	}
	// Command-line flags override the configuration.
	out = run(t, "-config", cfg, "-threshold", "0", "-format", "csv", "two.csv")
	if !strings.Contains(out, "5,X,2,2,1,10\n") {
		t.Errorf("-threshold did not override config:\n%s", out)
	}
}

func TestErrors(t *testing.T) {
	for _, test := range []struct {
		args []string
		want string
	}{
		{[]string{"missing.csv"}, "missing.csv"},
		{[]string{"-format", "latex", "two.csv"}, "unknown -format"},
		{[]string{"-threshold", "1.5", "two.csv"}, "not in [0, 1]"},
		{[]string{"-families", "Bogus", "two.csv"}, "unknown metric family"},
		{[]string{"-driver", "sqlite3", "two.csv"}, "given together"},
		{[]string{"-cloudsql", "proj:mapf", "two.csv"}, "want project:region:instance"},
		{[]string{"-cloudsql", "proj:us-central1:mapf", "-dsn", "x", "two.csv"}, "mutually exclusive"},
		{[]string{"-cloudsql", "proj:us-central1:mapf", "-driver", "sqlite3", "two.csv"}, "requires the mysql driver"},
		{[]string{"-group", "Grid Name", "two.csv"}, "no results"},
	} {
		err := inTestdata(t, func() error {
			var stdout, stderr bytes.Buffer
			return mapfstat(&stdout, &stderr, test.args)
		})
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("mapfstat %v: error %v, want %q", test.args, err, test.want)
		}
	}
}

func inTestdata(t *testing.T, f func() error) error {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")
	return f()
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := inTestdata(t, func() error {
		return mapfstat(&stdout, &stderr, args)
	})
	if err != nil {
		t.Fatalf("mapfstat %s: %v\n%s", strings.Join(args, " "), err, stderr.Bytes())
	}
	return stdout.String()
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	var got, gotErr bytes.Buffer
	t.Logf("mapfstat %s", strings.Join(args, " "))
	err := inTestdata(t, func() error {
		return mapfstat(&got, &gotErr, args)
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	compare(t, name, "stdout", got.String())
	compare(t, name, "stderr", gotErr.String())
}

func compare(t *testing.T, name, sub, got string) {
	t.Helper()
	wantPath := filepath.Join("testdata", name+"."+sub)
	want, err := os.ReadFile(wantPath)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if d := diff.Diff(wantPath, string(want), "got", got); d != "" {
		t.Errorf("%s", d)
	}
}
