// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultproc

import (
	"fmt"
	"strings"
)

// A Family is a group of columns that measure the same quantity for
// different solvers. Each column of a family is named
// "<Solver><suffix>".
type Family int

const (
	Success Family = iota
	Runtime
	SolutionCost
	Generated
	LookAheadNodesCreated
	Adoptions
	ConflictsBypassedWithAdoption
	NodesExpandedWithGoalCost
	Expanded
	SolutionDepth

	numFamilies
)

// suffixes is indexed by Family.
var suffixes = [numFamilies]string{
	Success:                       " Success",
	Runtime:                       " Runtime",
	SolutionCost:                  " Solution Cost",
	Generated:                     " Generated (HL)",
	LookAheadNodesCreated:         " Look Ahead Nodes Created (HL)",
	Adoptions:                     " Adoptions (HL)",
	ConflictsBypassedWithAdoption: " Conflicts Bypassed With Adoption (HL)",
	NodesExpandedWithGoalCost:     " Nodes Expanded With Goal Cost (HL)",
	Expanded:                      " Expanded (HL)",
	SolutionDepth:                 " Solution Depth",
}

// averageRuntimeSuffix marks precomputed averages, which are not
// per-instance runtimes.
const averageRuntimeSuffix = " Average Runtime"

// byLength lists families in decreasing suffix length.
var byLength = []Family{
	ConflictsBypassedWithAdoption,
	NodesExpandedWithGoalCost,
	LookAheadNodesCreated,
	Generated,
	Adoptions,
	Expanded,
	SolutionDepth,
	SolutionCost,
	Success,
	Runtime,
}

// Families returns all families in declaration order.
func Families() []Family {
	fs := make([]Family, numFamilies)
	for i := range fs {
		fs[i] = Family(i)
	}
	return fs
}

// Counters returns the numeric families that are averaged by default:
// Runtime and the high-level search counters.
func Counters() []Family {
	return []Family{
		Runtime,
		Generated,
		LookAheadNodesCreated,
		Adoptions,
		ConflictsBypassedWithAdoption,
		NodesExpandedWithGoalCost,
		Expanded,
	}
}

// Suffix returns the column name suffix of f, including the leading
// space.
func (f Family) Suffix() string {
	if f < 0 || f >= numFamilies {
		return ""
	}
	return suffixes[f]
}

// String returns the name of f, which is its suffix without the
// leading space.
func (f Family) String() string {
	if f < 0 || f >= numFamilies {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return suffixes[f][1:]
}

// ParseFamily returns the family with the given name, as returned by
// Family.String. Matching ignores case.
func ParseFamily(name string) (Family, error) {
	name = strings.TrimSpace(name)
	for i, s := range suffixes {
		if strings.EqualFold(s[1:], name) {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric family %q", name)
}

// FamilyOf classifies a single column name. It returns the column's
// family and the solver name, which is the column name with the
// family suffix removed. ok is false for columns that belong to no
// family.
func FamilyOf(col string) (fam Family, solver string, ok bool) {
	if strings.HasSuffix(col, averageRuntimeSuffix) {
		return 0, "", false
	}
	for _, f := range byLength {
		suffix := suffixes[f]
		if strings.HasSuffix(col, suffix) && len(col) > len(suffix) {
			return f, col[:len(col)-len(suffix)], true
		}
	}
	return 0, "", false
}
