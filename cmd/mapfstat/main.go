// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapfstat computes and compares per-solver statistics of MAPF
// experiment results.
//
// Usage:
//
//	mapfstat [flags] inputs...
//
// Each input is a CSV file with a header row, as written by the
// experiment runner: one row per problem instance, and for each solver
// a group of columns named "<solver> Success", "<solver> Runtime",
// "<solver> Solution Cost" and so on. Inputs may be local files, "-"
// for standard input, or Cloud Storage objects named gs://bucket/object.
// An input may be given a label with label=path.
//
// Rows are grouped into categories by the integer column named by
// -group, which defaults to "Num Of Agents". For every category and
// solver, mapfstat reports the success rate: the fraction of the
// instances the solver was run on that it solved. A solver counts as
// run on an instance unless its solution cost is missing or
// "irrelevant".
//
// Averages are taken fairly. A solver is relevant in a category if its
// success rate there is above -threshold. An instance contributes to
// the averages of its category only if every relevant solver that ran
// on it solved it, so all solvers are compared on the same instances.
// With -v, the instances left out are listed on standard error.
//
// The -format flag selects the output:
//
//	text    one table per metric, with categories as rows and solvers as columns
//	sorted  for each category, solvers from best to worst for each metric
//	csv     one row per category and solver
//	html    one HTML table per metric
//
// The -overview flag appends a table of naive statistics that ignore
// fairness: for each category and solver, the number of runs, the mean
// success and the mean runtime.
//
// The -png, -svg, and -pdf flags write charts of the success rate and
// of each average against category into the given directory, which may
// be a gs://bucket/prefix.
//
// With -driver and -dsn, the summary is also stored in a SQL database
// under -label. The drivers are sqlite3 and mysql; a mysql DSN may use
// the cloudsql(project:region:instance) address form. Alternatively,
// -cloudsql=project:region:instance stores it in the -database database
// of that Cloud SQL instance.
//
// Flags not given on the command line are taken from the YAML file
// named by -config, if any.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/aclements/go-gg/table"
	_ "github.com/go-sql-driver/mysql"

	"github.com/eli-b/mapf/internal/config"
	"github.com/eli-b/mapf/internal/gcsfile"
	"github.com/eli-b/mapf/resultchart"
	"github.com/eli-b/mapf/resultfmt"
	"github.com/eli-b/mapf/resultproc"
	"github.com/eli-b/mapf/resultstat"
	"github.com/eli-b/mapf/summarydb"
	_ "github.com/eli-b/mapf/summarydb/sqlite3"
)

func main() {
	log.SetPrefix("mapfstat: ")
	log.SetFlags(0)
	if err := mapfstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func mapfstat(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("mapfstat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: mapfstat [flags] inputs...

mapfstat computes fair per-solver statistics of MAPF experiment
results. See https://pkg.go.dev/github.com/eli-b/mapf/cmd/mapfstat
for details.

Flags:
`)
		flags.PrintDefaults()
	}
	var (
		flagConfig    = flags.String("config", "", "read default flag values from YAML `file`")
		flagGroup     = flags.String("group", resultstat.DefaultGroupBy, "group rows into categories by integer `column`")
		flagInstance  = flags.String("instance", resultstat.DefaultInstance, "`column` identifying the instance in a category")
		flagThreshold = flags.Float64("threshold", 0, "average over solvers whose success rate exceeds `rate`")
		flagFamilies  = flags.String("families", "", "comma-separated metric `families` to average (default Runtime and high-level counters)")
		flagComma     = flags.String("comma", ",", "input field `delimiter`")
		flagFormat    = flags.String("format", "text", "print results in `format`: text, sorted, csv, html")
		flagOverview  = flags.Bool("overview", false, "also print naive per-solver statistics")
		flagVerbose   = flags.Bool("v", false, "list instances left out of averaging")
		flagDriver    = flags.String("driver", "", "store the summary in a SQL database using `driver` (sqlite3, mysql)")
		flagDSN       = flags.String("dsn", "", "data source `name` of the summary database")
		flagCloudSQL  = flags.String("cloudsql", "", "store the summary on the Cloud SQL `instance` (project:region:instance)")
		flagDatabase  = flags.String("database", "mapf", "`name` of the Cloud SQL database")
		flagLabel     = flags.String("label", "", "store the summary under `label` (default the input names)")
		flagCreds     = flags.String("gcs-credentials", "", "service account key `file` for gs:// paths")
		flagToken     = flags.String("gcs-token", "", "OAuth2 access `token` for gs:// paths")
		flagAnonymous = flags.Bool("gcs-anonymous", false, "access gs:// paths without credentials")
	)
	chartDirs := make(map[string]*string)
	for _, format := range []string{"png", "svg", "pdf"} {
		chartDirs[format] = flags.String(format, "", "write "+strings.ToUpper(format)+" charts to `dir`")
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *flagConfig != "" {
		cfg, err := config.Load(*flagConfig)
		if err != nil {
			return err
		}
		values := map[string]string{
			"group":           cfg.GroupBy,
			"instance":        cfg.Instance,
			"threshold":       config.Ftoa(cfg.Threshold),
			"families":        config.Join(cfg.Families),
			"comma":           cfg.Comma,
			"driver":          cfg.Database.Driver,
			"dsn":             cfg.Database.DSN,
			"cloudsql":        cfg.Database.CloudSQL,
			"database":        cfg.Database.Name,
			"label":           cfg.Database.Label,
			"gcs-credentials": cfg.GCS.Credentials,
			"gcs-token":       cfg.GCS.Token,
		}
		if cfg.GCS.Anonymous {
			values["gcs-anonymous"] = "true"
		}
		for _, format := range cfg.Charts.Formats {
			values[format] = cfg.Charts.Dir
		}
		if err := config.Apply(flags, values); err != nil {
			return err
		}
	}

	if *flagThreshold < 0 || *flagThreshold > 1 {
		return fmt.Errorf("-threshold %v not in [0, 1]", *flagThreshold)
	}
	var fams []resultproc.Family
	if *flagFamilies != "" {
		var err error
		fams, err = config.ParseFamilies(strings.Split(*flagFamilies, ","))
		if err != nil {
			return err
		}
	}
	comma, n := utf8.DecodeRuneInString(*flagComma)
	if n == 0 || n != len(*flagComma) {
		return fmt.Errorf("-comma must be a single character")
	}
	var format func(io.Writer, *resultstat.Summary) error
	switch *flagFormat {
	case "text":
		format = formatText
	case "sorted":
		format = formatSorted
	case "csv":
		format = formatCSV
	case "html":
		format = formatHTML
	default:
		return fmt.Errorf("unknown -format %q", *flagFormat)
	}
	driver, dsn := *flagDriver, *flagDSN
	if *flagCloudSQL != "" {
		if dsn != "" {
			return fmt.Errorf("-cloudsql and -dsn are mutually exclusive")
		}
		if driver != "" && driver != "mysql" {
			return fmt.Errorf("-cloudsql requires the mysql driver, not %q", driver)
		}
		var err error
		driver = "mysql"
		dsn, err = summarydb.CloudSQLDSN("", *flagCloudSQL, *flagDatabase)
		if err != nil {
			return err
		}
	}
	if (driver == "") != (dsn == "") {
		return fmt.Errorf("-driver and -dsn must be given together")
	}

	ctx := context.Background()
	opener := &gcsfile.Opener{
		Ctx:         ctx,
		Credentials: *flagCreds,
		Token:       *flagToken,
		Anonymous:   *flagAnonymous,
	}
	defer opener.Close()

	agg := resultstat.NewAggregator(resultstat.Config{
		GroupBy:   *flagGroup,
		Instance:  *flagInstance,
		Threshold: *flagThreshold,
		Families:  fams,
	})
	files := &resultfmt.Files{
		Paths:       flags.Args(),
		AllowStdin:  true,
		AllowLabels: true,
		Comma:       comma,
		Open:        opener.Open,
	}
	err := agg.AddFiles(files, func(err error) {
		fmt.Fprintf(wErr, "%v\n", err)
	})
	if err != nil {
		return err
	}

	s := agg.Summary()
	if len(s.Categories) == 0 {
		return fmt.Errorf("no results")
	}
	if *flagVerbose {
		for _, ex := range s.Exclusions {
			fmt.Fprintf(wErr, "%s:%d: %s=%d: %s\n", ex.Label, ex.Line, s.GroupBy, ex.Category, ex)
		}
	}

	if err := format(w, s); err != nil {
		return err
	}
	if *flagOverview {
		if g := agg.Overview(); g != nil {
			fmt.Fprintf(w, "\n")
			if err := table.Fprint(w, g); err != nil {
				return err
			}
		}
	}

	for _, f := range []string{"png", "svg", "pdf"} {
		dir := *chartDirs[f]
		if dir == "" {
			continue
		}
		charts, err := resultchart.All(s)
		if err != nil {
			return err
		}
		if err := resultchart.Save(dir, f, charts, opener.Create); err != nil {
			return err
		}
	}

	if driver != "" {
		label := *flagLabel
		if label == "" {
			label = strings.Join(flags.Args(), " ")
		}
		if err := store(ctx, driver, dsn, label, s); err != nil {
			return err
		}
	}
	return nil
}

func store(ctx context.Context, driver, dsn, label string, s *resultstat.Summary) error {
	db, err := summarydb.OpenSQL(driver, dsn)
	if err != nil {
		return fmt.Errorf("opening summary database: %w", err)
	}
	defer db.Close()
	if _, err := db.InsertSummary(ctx, label, s); err != nil {
		return fmt.Errorf("storing summary: %w", err)
	}
	return nil
}
