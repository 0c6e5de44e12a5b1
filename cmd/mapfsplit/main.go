// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapfsplit splits MAPF result tables into one table per value of a
// column.
//
// Usage:
//
//	mapfsplit [-column name | -depth] inputs...
//
// With -column, the rows of input.csv are written to
// input_<value>.csv, one file per distinct value of the column. The
// default column is "Grid Name". With -depth, rows are keyed by their
// solution depth, the first "<solver> Solution Depth" value that is
// not -1, and written to input_depth<d>.csv.
//
// Every output starts with the input's header. The paths written are
// printed on standard output. Inputs and outputs may be Cloud Storage
// objects named gs://bucket/object.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"github.com/eli-b/mapf/internal/gcsfile"
	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultproc"
)

func main() {
	log.SetPrefix("mapfsplit: ")
	log.SetFlags(0)
	if err := mapfsplit(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func mapfsplit(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("mapfsplit", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: mapfsplit [flags] inputs...\n\nFlags:\n")
		flags.PrintDefaults()
	}
	flagColumn := flags.String("column", "Grid Name", "split by the value of `column`")
	flagDepth := flags.Bool("depth", false, "split by solution depth instead of a column")
	flagComma := flags.String("comma", ",", "field `delimiter`")
	flagCreds := flags.String("gcs-credentials", "", "service account key `file` for gs:// paths")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("no inputs")
	}
	comma, n := utf8.DecodeRuneInString(*flagComma)
	if n == 0 || n != len(*flagComma) {
		return fmt.Errorf("-comma must be a single character")
	}

	opener := &gcsfile.Opener{Ctx: context.Background(), Credentials: *flagCreds}
	defer opener.Close()

	for _, path := range flags.Args() {
		key, prefix := resultproc.ByColumn(*flagColumn), ""
		if *flagDepth {
			key, prefix = resultproc.BySolutionDepth(), "depth"
		}
		paths, err := split(path, key, prefix, comma, opener, wErr)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(w, p)
		}
	}
	return nil
}

// split splits one input and returns the paths it wrote, in the order
// their keys first appeared.
func split(path string, key resultproc.KeyFunc, prefix string, comma rune, opener *gcsfile.Opener, wErr io.Writer) (paths []string, err error) {
	s := resultproc.NewSplitter(key, func(k string) (io.WriteCloser, error) {
		p := resultproc.SplitPath(path, prefix, k)
		paths = append(paths, p)
		return opener.Create(p)
	})
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	files := &resultfmt.Files{Paths: []string{path}, Comma: comma, Open: opener.Open}
	for files.Scan() {
		switch rec := files.Result().(type) {
		case *resultfmt.SyntaxError:
			fmt.Fprintln(wErr, rec)
		case *resultfmt.Row:
			if err := s.Write(rec); err != nil {
				var merr *resultproc.MalformedRecordError
				if !errors.As(err, &merr) {
					return paths, err
				}
				file, line := rec.Pos()
				fmt.Fprintf(wErr, "%s:%d: %v\n", file, line, err)
			}
		}
	}
	return paths, files.Err()
}
