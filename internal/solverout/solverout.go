// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solverout parses the output files written by an external
// SAT-based MAPF solver and the instance names they are keyed by.
//
// An output file has the solution cost after a colon on its second
// line, with 0 meaning no solution was found, and ends with the total
// wall-clock time in seconds as its last whitespace-separated token.
package solverout

import (
	"fmt"
	"strconv"
	"strings"
)

// A Result is the outcome of one solver run.
type Result struct {
	Seconds float64
	Cost    int
}

// Success reports whether the solver found a solution.
func (r Result) Success() bool {
	return r.Cost != 0
}

// A FormatError reports an output file that does not have the expected
// shape. Such a file is neither a success nor a failure.
type FormatError struct {
	Msg     string
	Content string
}

func (e *FormatError) Error() string {
	return "malformed solver output: " + e.Msg
}

// Parse parses the content of one output file.
func Parse(content string) (Result, error) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return Result{}, &FormatError{"empty output", content}
	}
	secs, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return Result{}, &FormatError{"last token is not a time in seconds", content}
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return Result{}, &FormatError{"no cost line", content}
	}
	parts := strings.Split(lines[1], ":")
	if len(parts) < 2 {
		return Result{}, &FormatError{"cost line has no colon", content}
	}
	cost, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Result{}, &FormatError{fmt.Sprintf("bad cost %q", strings.TrimSpace(parts[1])), content}
	}
	return Result{Seconds: secs, Cost: cost}, nil
}

// An Instance identifies a problem instance by map, agent count and
// index within that map and agent count.
type Instance struct {
	Map    string
	Agents int
	Index  int
}

func (i Instance) String() string {
	return fmt.Sprintf("%s-%d-%d", i.Map, i.Agents, i.Index)
}

// ParseInstanceName parses a file base name of the form
// "<map>-<agents>-<index>", optionally followed by "_" and a suffix
// such as "_output.txt". Map names may themselves contain dashes.
func ParseInstanceName(name string) (Instance, error) {
	stem := name
	if i := strings.IndexByte(stem, '_'); i >= 0 {
		stem = stem[:i]
	}
	j := strings.LastIndexByte(stem, '-')
	if j < 0 {
		return Instance{}, fmt.Errorf("instance name %q: want <map>-<agents>-<index>", name)
	}
	i := strings.LastIndexByte(stem[:j], '-')
	if i <= 0 {
		return Instance{}, fmt.Errorf("instance name %q: want <map>-<agents>-<index>", name)
	}
	agents, err := strconv.Atoi(stem[i+1 : j])
	if err != nil {
		return Instance{}, fmt.Errorf("instance name %q: bad agent count: %w", name, err)
	}
	index, err := strconv.Atoi(stem[j+1:])
	if err != nil {
		return Instance{}, fmt.Errorf("instance name %q: bad instance index: %w", name, err)
	}
	return Instance{Map: stem[:i], Agents: agents, Index: index}, nil
}
