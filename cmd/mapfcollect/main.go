// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapfcollect converts the output files of an external MAPF solver
// into a result table that mapfstat can read.
//
// Usage:
//
//	mapfcollect [-solver name] [-o output.csv] paths...
//
// Each path is a solver output file or a directory of them, named
// after the instance they solve, as in "ost003d-20-7_output.txt". In a
// directory, only files ending in "_output.txt" are read, so a mapfrun
// instance directory can be given directly. The
// table has one row per file, with the instance columns "Grid Name",
// "Grid Rows", "Grid Columns", "Num Of Agents", "Num Of Obstacles" and
// "Instance Id", followed by the solver's "Success", "Runtime" (in
// milliseconds), "Solution Cost" and high-level search counter
// columns. Values the solver does not report are -1, and the solution
// cost of a failed run is -2.
//
// A file that does not have the shape of a solver output is printed
// with its content, and mapfcollect asks whether to delete it. Such
// files are never counted as a success or a failure. With -prompt=false
// they are only reported.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/eli-b/mapf/internal/batch"
	"github.com/eli-b/mapf/internal/gcsfile"
	"github.com/eli-b/mapf/internal/solverout"
	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultproc"
)

func main() {
	log.SetPrefix("mapfcollect: ")
	log.SetFlags(0)
	if err := mapfcollect(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// solverFamilies are the per-solver columns written, in order.
var solverFamilies = []resultproc.Family{
	resultproc.Success,
	resultproc.Runtime,
	resultproc.SolutionCost,
	resultproc.Generated,
	resultproc.LookAheadNodesCreated,
	resultproc.Adoptions,
	resultproc.NodesExpandedWithGoalCost,
	resultproc.ConflictsBypassedWithAdoption,
	resultproc.Expanded,
}

var instanceColumns = []string{"Grid Name", "Grid Rows", "Grid Columns", "Num Of Agents", "Num Of Obstacles", "Instance Id"}

// failedCost is the solution cost recorded for failed runs.
const failedCost = -2

func mapfcollect(stdin io.Reader, w, wErr io.Writer, args []string) (err error) {
	flags := flag.NewFlagSet("mapfcollect", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: mapfcollect [flags] paths...\n\nFlags:\n")
		flags.PrintDefaults()
	}
	flagSolver := flags.String("solver", "mdd-sat", "solver `name` for the result columns")
	flagOut := flags.String("o", "", "write the table to `file` instead of standard output")
	flagFast := flags.Float64("fast", 50, "report failures faster than `seconds`")
	flagPrompt := flags.Bool("prompt", true, "offer to delete malformed output files")
	flagCreds := flags.String("gcs-credentials", "", "service account key `file` for a gs:// output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("no inputs")
	}

	paths, err := expand(flags.Args())
	if err != nil {
		return err
	}

	out := w
	if *flagOut != "" {
		opener := &gcsfile.Opener{Ctx: context.Background(), Credentials: *flagCreds}
		defer opener.Close()
		var wc io.WriteCloser
		wc, err = opener.Create(*flagOut)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := wc.Close(); err == nil {
				err = cerr
			}
		}()
		out = wc
	}

	names := append([]string(nil), instanceColumns...)
	for _, f := range solverFamilies {
		names = append(names, *flagSolver+f.Suffix())
	}
	cw := resultfmt.NewWriter(out)
	if err := cw.WriteHeader(resultfmt.NewHeader(names)); err != nil {
		return err
	}

	answers := bufio.NewScanner(stdin)
	for _, path := range paths {
		inst, err := solverout.ParseInstanceName(filepath.Base(path))
		if err != nil {
			fmt.Fprintf(wErr, "skipping %s: %v\n", path, err)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res, err := solverout.Parse(string(data))
		if err != nil {
			var ferr *solverout.FormatError
			if !errors.As(err, &ferr) {
				return err
			}
			fmt.Fprintf(wErr, "problem with %s: %v\ncontent: %s\n", path, err, ferr.Content)
			if *flagPrompt {
				if err := offerDelete(answers, wErr, path); err != nil {
					return err
				}
			}
			continue
		}
		if !res.Success() && res.Seconds < *flagFast {
			fmt.Fprintf(wErr, "failed fast for %s\n", path)
		}
		if err := cw.WriteFields(row(inst, res)); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func row(inst solverout.Instance, res solverout.Result) []string {
	success, cost := "0", strconv.Itoa(failedCost)
	if res.Success() {
		success, cost = "1", strconv.Itoa(res.Cost)
	}
	fields := []string{
		inst.Map, "-1", "-1", strconv.Itoa(inst.Agents), "-1", strconv.Itoa(inst.Index),
		success,
		strconv.FormatFloat(res.Seconds*1000, 'f', -1, 64),
		cost,
	}
	for len(fields) < len(instanceColumns)+len(solverFamilies) {
		fields = append(fields, "-1")
	}
	return fields
}

func offerDelete(answers *bufio.Scanner, wErr io.Writer, path string) error {
	fmt.Fprintf(wErr, "delete? (y/n) ")
	if !answers.Scan() {
		fmt.Fprintln(wErr)
		return answers.Err()
	}
	if strings.TrimSpace(answers.Text()) != "y" {
		return nil
	}
	return os.Remove(path)
}

// expand replaces directories in paths with the solver outputs they
// contain, and returns the result sorted. Other files in a directory,
// such as the instance inputs, are left out.
func expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), batch.OutputSuffix) {
				out = append(out, filepath.Join(p, e.Name()))
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
