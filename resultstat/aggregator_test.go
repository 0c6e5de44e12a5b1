// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"errors"
	"io"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultproc"
)

const twoRecords = `Num Of Agents,Instance Id,X Success,X Runtime,X Solution Cost,Y Success,Y Runtime,Y Solution Cost,Z Success,Z Runtime,Z Solution Cost
5,0,1,10,40,1,20,40,0,irrelevant,irrelevant
5,1,1,15,41,0,irrelevant,-2,0,irrelevant,irrelevant
`

func aggregate(t *testing.T, cfg Config, input string) *Aggregator {
	t.Helper()
	a := NewAggregator(cfg)
	r := resultfmt.NewReader(strings.NewReader(input), "test")
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *resultfmt.Row:
			if err := a.Add(rec); err != nil {
				t.Fatal(err)
			}
		case *resultfmt.SyntaxError:
			t.Fatal(rec)
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	return a
}

func checkRate(t *testing.T, s *Summary, c int, solver string, want float64, wantOK bool) {
	t.Helper()
	got, ok := s.SuccessRate(c, solver)
	if got != want || ok != wantOK {
		t.Errorf("SuccessRate(%d, %s) = %v, %v; want %v, %v", c, solver, got, ok, want, wantOK)
	}
}

func checkAverage(t *testing.T, s *Summary, c int, solver string, f resultproc.Family, want float64, wantOK bool) {
	t.Helper()
	got, ok := s.Average(c, solver, f)
	if got != want || ok != wantOK {
		t.Errorf("Average(%d, %s, %v) = %v, %v; want %v, %v", c, solver, f, got, ok, want, wantOK)
	}
}

func TestTwoRecords(t *testing.T) {
	s := aggregate(t, Config{}, twoRecords).Summary()

	checkRate(t, s, 5, "X", 1, true)
	checkRate(t, s, 5, "Y", 0.5, true)
	// Z was never run, so it has no rate rather than a zero rate.
	checkRate(t, s, 5, "Z", 0, false)
	if s.Runs(5, "Z") != 0 || s.Successes(5, "Z") != 0 {
		t.Errorf("Z counted: runs %d, successes %d", s.Runs(5, "Z"), s.Successes(5, "Z"))
	}

	checkAverage(t, s, 5, "X", resultproc.Runtime, 10, true)
	checkAverage(t, s, 5, "Y", resultproc.Runtime, 20, true)
	checkAverage(t, s, 5, "Z", resultproc.Runtime, 0, false)

	want := []Exclusion{{Category: 5, Instance: "1", Label: "test", Line: 3, Failed: []string{"Y"}}}
	if !reflect.DeepEqual(s.Exclusions, want) {
		t.Errorf("Exclusions = %+v, want %+v", s.Exclusions, want)
	}
	if got, want := s.Exclusions[0].String(), "id=1 - Y didn't solve it"; got != want {
		t.Errorf("Exclusion.String() = %q, want %q", got, want)
	}

	// Unfiltered averages include the excluded instance.
	if got, ok := s.AllAverage(5, "X", resultproc.Runtime); got != 12.5 || !ok {
		t.Errorf("AllAverage(5, X) = %v, %v; want 12.5", got, ok)
	}

	if want := []int{5}; !reflect.DeepEqual(s.Categories, want) {
		t.Errorf("Categories = %v, want %v", s.Categories, want)
	}
	if want := []string{"X", "Y", "Z"}; !reflect.DeepEqual(s.Solvers, want) {
		t.Errorf("Solvers = %v, want %v", s.Solvers, want)
	}
	if want := []resultproc.Family{resultproc.Runtime}; !reflect.DeepEqual(s.Families, want) {
		t.Errorf("Families = %v, want %v", s.Families, want)
	}
}

func TestThreshold(t *testing.T) {
	// With a threshold of 0.5, Y is not relevant in category 5 and
	// both instances count for X.
	s := aggregate(t, Config{Threshold: 0.5}, twoRecords).Summary()
	if s.Relevant(5, "Y") {
		t.Errorf("Y relevant at threshold 0.5")
	}
	checkAverage(t, s, 5, "X", resultproc.Runtime, 12.5, true)
	checkAverage(t, s, 5, "Y", resultproc.Runtime, 0, false)
	if len(s.Exclusions) != 0 {
		t.Errorf("Exclusions = %v, want none", s.Exclusions)
	}
}

func TestIrrelevantSolverIgnored(t *testing.T) {
	// A solver that never succeeds in a category is not relevant
	// there and does not exclude instances.
	const input = `Num Of Agents,Instance Id,X Success,X Runtime,X Solution Cost,Y Success,Y Runtime,Y Solution Cost
10,0,1,100,50,0,300000,-2
10,1,1,200,52,0,300000,-2
`
	s := aggregate(t, Config{}, input).Summary()
	checkRate(t, s, 10, "Y", 0, true)
	checkAverage(t, s, 10, "X", resultproc.Runtime, 150, true)
	checkAverage(t, s, 10, "Y", resultproc.Runtime, 0, false)
	if len(s.Exclusions) != 0 {
		t.Errorf("Exclusions = %v, want none", s.Exclusions)
	}
}

func TestSummaryIdempotent(t *testing.T) {
	a := aggregate(t, Config{}, twoRecords)
	s1, s2 := a.Summary(), a.Summary()
	for _, solver := range s1.Solvers {
		a1, ok1 := s1.Average(5, solver, resultproc.Runtime)
		a2, ok2 := s2.Average(5, solver, resultproc.Runtime)
		if a1 != a2 || ok1 != ok2 {
			t.Errorf("%s: first %v, %v; second %v, %v", solver, a1, ok1, a2, ok2)
		}
	}
	if !reflect.DeepEqual(s1.Exclusions, s2.Exclusions) {
		t.Errorf("exclusions differ: %v vs %v", s1.Exclusions, s2.Exclusions)
	}
}

func TestRateBounds(t *testing.T) {
	const input = `Num Of Agents,Instance Id,A Success,A Solution Cost,B Success,B Solution Cost
5,0,1,10,0,-2
5,1,1,10,1,12
5,2,0,-2,1,12
10,0,0,-2,irrelevant,irrelevant
`
	s := aggregate(t, Config{}, input).Summary()
	for _, c := range s.Categories {
		for _, solver := range s.Solvers {
			if r, ok := s.SuccessRate(c, solver); ok && (r < 0 || r > 1 || math.IsNaN(r)) {
				t.Errorf("SuccessRate(%d, %s) = %v out of range", c, solver, r)
			}
		}
	}
	checkRate(t, s, 5, "A", 2.0/3, true)
	checkRate(t, s, 10, "A", 0, true)
	checkRate(t, s, 10, "B", 0, false)

	got := s.RankSuccess(5)
	want := []Ranked{{"A", 2.0 / 3}, {"B", 2.0 / 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankSuccess(5) = %v, want %v", got, want)
	}
}

func TestRankAverage(t *testing.T) {
	const input = `Num Of Agents,Instance Id,A Success,A Runtime,A Solution Cost,B Success,B Runtime,B Solution Cost,C Success,C Runtime,C Solution Cost
5,0,1,30,10,1,10,10,0,irrelevant,irrelevant
`
	s := aggregate(t, Config{}, input).Summary()
	got := s.RankAverage(5, resultproc.Runtime)
	want := []Ranked{{"B", 10}, {"A", 30}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankAverage = %v, want %v", got, want)
	}
}

func TestMalformedRows(t *testing.T) {
	const input = `Num Of Agents,Instance Id,X Success,X Runtime,X Solution Cost
5,0,1,10,40
many,1,1,10,40
5,2,maybe,10,40
5,3,1,fast,40
"5,4,1,10,40
`
	a := NewAggregator(Config{})
	files := &resultfmt.Files{
		Paths: []string{"in.csv"},
		Open: func(string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(input)), nil
		},
	}
	var warnings []error
	if err := a.AddFiles(files, func(err error) { warnings = append(warnings, err) }); err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 4 {
		t.Fatalf("got %d warnings, want 4: %v", len(warnings), warnings)
	}
	var (
		merr *resultproc.MalformedRecordError
		verr *resultproc.ValueConversionError
		serr *resultfmt.SyntaxError
	)
	if !errors.As(warnings[0], &merr) {
		t.Errorf("warning 0 = %v, want MalformedRecordError", warnings[0])
	}
	if !errors.As(warnings[1], &verr) || verr.Column != "X Success" {
		t.Errorf("warning 1 = %v, want bad X Success", warnings[1])
	}
	if !errors.As(warnings[2], &verr) || verr.Column != "X Runtime" {
		t.Errorf("warning 2 = %v, want bad X Runtime", warnings[2])
	}
	if !errors.As(warnings[3], &serr) {
		t.Errorf("warning 3 = %v, want SyntaxError", warnings[3])
	}
	if want := "in.csv:3: instance 1: "; !strings.HasPrefix(warnings[0].Error(), want) {
		t.Errorf("warning 0 = %q, want prefix %q", warnings[0], want)
	}

	// Malformed rows contribute nothing.
	s := a.Summary()
	if s.Runs(5, "X") != 1 {
		t.Errorf("Runs(5, X) = %d, want 1", s.Runs(5, "X"))
	}
	checkAverage(t, s, 5, "X", resultproc.Runtime, 10, true)
}

func TestMissingFile(t *testing.T) {
	a := NewAggregator(Config{})
	err := a.AddFiles(&resultfmt.Files{Paths: []string{"testdata/does-not-exist.csv"}}, nil)
	if err == nil {
		t.Fatal("missing file did not fail")
	}
}
