// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"math"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestMetric(t *testing.T) {
	var m *Metric
	if _, ok := m.Mean(); ok {
		t.Errorf("nil Metric has a mean")
	}

	m = new(Metric)
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		m.Add(x)
	}
	if m.Count() != 8 || m.Sum != 40 {
		t.Errorf("Count, Sum = %d, %v; want 8, 40", m.Count(), m.Sum)
	}
	if mean, ok := m.Mean(); mean != 5 || !ok {
		t.Errorf("Mean = %v, %v; want 5", mean, ok)
	}
	if sd, ok := m.StdDev(); !ok || math.Abs(sd-math.Sqrt(32.0/7)) > 1e-9 {
		t.Errorf("StdDev = %v, %v; want %v", sd, ok, math.Sqrt(32.0/7))
	}
	if lo, hi, ok := m.Bounds(); lo != 2 || hi != 9 || !ok {
		t.Errorf("Bounds = %v, %v, %v; want 2, 9", lo, hi, ok)
	}

	one := new(Metric)
	one.Add(3)
	if _, ok := one.StdDev(); ok {
		t.Errorf("StdDev of one value reported ok")
	}
}

func TestOverview(t *testing.T) {
	const input = `Num Of Agents,Instance Id,X Success,X Runtime,X Solution Cost,Y Success,Y Runtime,Y Solution Cost
10,0,1,100,50,0,300,-2
10,1,1,200,52,1,100,52
5,0,1,10,40,1,20,40
5,1,1,15,41,0,irrelevant,-2
`
	g := aggregate(t, Config{}, input).Overview()
	if g == nil {
		t.Fatal("Overview returned nil")
	}
	var buf strings.Builder
	if err := table.Fprint(&buf, g); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"category solver runs mean success mean runtime",
		"5        X         2            1         12.5",
		"5        Y         1            1           20",
		"10       X         2            1          150",
		"10       Y         2          0.5          200",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got:\n%s\nwant %d lines", buf.String(), len(want))
	}
	for i := range want {
		if strings.Join(strings.Fields(got[i]), " ") != strings.Join(strings.Fields(want[i]), " ") {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if g := NewAggregator(Config{}).Overview(); g != nil {
		t.Errorf("empty Overview = %v, want nil", g)
	}
}
