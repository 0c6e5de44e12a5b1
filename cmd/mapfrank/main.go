// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapfrank adds per-instance solver rankings to MAPF result tables.
//
// Usage:
//
//	mapfrank inputs...
//
// For each input table with N "<solver> Runtime" columns, mapfrank
// writes "<input without extension> with analysis.csv", a copy of the
// table with columns "1 place" through "N place" appended. On each row,
// the cell of place i reads
//
//	<solver> runtime=<runtime> speedup=<speedup>
//
// for the i'th fastest solver, where the speedup is the runtime of the
// next slower solver divided by the solver's own. Solvers with no
// runtime on a row are not ranked.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/eli-b/mapf/internal/gcsfile"
	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultproc"
)

func main() {
	log.SetPrefix("mapfrank: ")
	log.SetFlags(0)
	if err := mapfrank(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func mapfrank(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("mapfrank", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: mapfrank [flags] inputs...\n\nFlags:\n")
		flags.PrintDefaults()
	}
	flagCreds := flags.String("gcs-credentials", "", "service account key `file` for gs:// paths")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("no inputs")
	}

	opener := &gcsfile.Opener{Ctx: context.Background(), Credentials: *flagCreds}
	defer opener.Close()

	for _, path := range flags.Args() {
		out := OutputPath(path)
		if err := rank(path, out, opener, wErr); err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	}
	return nil
}

// OutputPath returns the path mapfrank writes the ranking of path to.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + " with analysis.csv"
}

func rank(in, out string, opener *gcsfile.Opener, wErr io.Writer) (err error) {
	// The output is created only once the input is known to exist.
	rc, err := opener.Open(in)
	if err != nil {
		return err
	}
	defer rc.Close()
	reader := resultfmt.NewReader(rc, in)

	wc, err := opener.Create(out)
	if err != nil {
		return err
	}
	cw := resultfmt.NewWriter(wc)
	defer func() {
		if ferr := cw.Flush(); err == nil {
			err = ferr
		}
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()

	// Inputs have one header, but a Ranker is specific to it.
	rankers := resultproc.NewCache(func(h *resultfmt.Header) (*resultproc.Ranker, error) {
		return resultproc.NewRanker(h), nil
	})
	for reader.Scan() {
		switch rec := reader.Result().(type) {
		case *resultfmt.SyntaxError:
			fmt.Fprintln(wErr, rec)
		case *resultfmt.Row:
			r, _ := rankers.Get(rec.Header)
			ranked, err := r.Rank(rec)
			if err != nil {
				file, line := rec.Pos()
				fmt.Fprintf(wErr, "%s:%d: %v\n", file, line, err)
				continue
			}
			if err := cw.Write(ranked); err != nil {
				return err
			}
		}
	}
	return reader.Err()
}
