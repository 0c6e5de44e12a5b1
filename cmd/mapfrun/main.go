// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mapfrun runs a SAT-based MAPF solver over a grid of problem
// instances.
//
// Usage:
//
//	mapfrun [flags]
//
// Instances are files named "<dir>/<map>-<agents>-<index>", for every
// map in -maps, agent count from -min to -max in steps of -step, and
// index below -instances. The solver writes the solution of instance
// to "<instance>_output.txt", and mapfrun appends the total wall-clock
// time. Instances that are missing or already have an output are
// skipped, so an interrupted run can be resumed.
//
// To split a run among machines, give each machine the same -shards
// count and a different -shard index; a machine runs the instances
// whose index modulo -shards is -shard.
//
// Interrupting mapfrun stops the running solvers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/eli-b/mapf/internal/batch"
	"github.com/eli-b/mapf/internal/config"
)

func main() {
	log.SetPrefix("mapfrun: ")
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := mapfrun(ctx, os.Stdout, os.Stderr, os.Args[1:], batch.ExecRun); err != nil {
		log.Fatal(err)
	}
}

func mapfrun(ctx context.Context, w, wErr io.Writer, args []string, run batch.RunFunc) error {
	flags := flag.NewFlagSet("mapfrun", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: mapfrun [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	var (
		flagConfig    = flags.String("config", "", "read default flag values from YAML `file`")
		flagSolver    = flags.String("solver", "./solver_reLOC", "solver `binary`")
		flagDir       = flags.String("dir", ".", "instance `directory`")
		flagMaps      = flags.String("maps", "ost003d,den520d,brc202d", "comma-separated `maps`")
		flagMin       = flags.Int("min", 5, "minimum number of `agents`")
		flagMax       = flags.Int("max", 80, "maximum number of `agents`")
		flagStep      = flags.Int("step", 5, "agent count `step`")
		flagInstances = flags.Int("instances", 100, "`number` of instances per map and agent count")
		flagShard     = flags.Int("shard", 0, "run only instances whose index modulo -shards is `n`")
		flagShards    = flags.Int("shards", 1, "number of `shards`")
		flagWorkers   = flags.Int("j", runtime.NumCPU(), "run `n` solvers at once")
		flagTimeout   = flags.Duration("timeout", 300*time.Second, "solver time `limit` per instance")
		flagEncoding  = flags.String("encoding", "mdd", "solver `encoding`")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *flagConfig != "" {
		cfg, err := config.Load(*flagConfig)
		if err != nil {
			return err
		}
		s := cfg.Solver
		values := map[string]string{
			"solver":    s.Binary,
			"dir":       s.InstancesDir,
			"maps":      config.Join(s.Maps),
			"min":       config.Itoa(s.MinAgents),
			"max":       config.Itoa(s.MaxAgents),
			"step":      config.Itoa(s.AgentStep),
			"instances": config.Itoa(s.Instances),
			"shard":     config.Itoa(s.Shard),
			"shards":    config.Itoa(s.Shards),
			"j":         config.Itoa(s.Workers),
			"encoding":  s.Encoding,
		}
		if s.TimeoutSec > 0 {
			values["timeout"] = (time.Duration(s.TimeoutSec) * time.Second).String()
		}
		if err := config.Apply(flags, values); err != nil {
			return err
		}
	}
	if *flagShards < 1 || *flagShard < 0 || *flagShard >= *flagShards {
		return fmt.Errorf("-shard %d out of range for %d shards", *flagShard, *flagShards)
	}
	if *flagTimeout < time.Second {
		return fmt.Errorf("-timeout must be at least 1s")
	}

	plan := &batch.Plan{
		Dir:       *flagDir,
		Maps:      strings.Split(*flagMaps, ","),
		MinAgents: *flagMin,
		MaxAgents: *flagMax,
		AgentStep: *flagStep,
		Instances: *flagInstances,
		Shard:     *flagShard,
		Shards:    *flagShards,
	}
	r := &batch.Runner{
		Binary:   *flagSolver,
		Timeout:  *flagTimeout,
		Encoding: *flagEncoding,
		Workers:  *flagWorkers,
		Run:      run,
		Logf: func(format string, args ...interface{}) {
			fmt.Fprintf(wErr, format+"\n", args...)
		},
	}
	st, err := r.RunAll(ctx, plan.Inputs())
	fmt.Fprintf(w, "ran %d instances, skipped %d\n", st.Ran, st.Skipped)
	return err
}
