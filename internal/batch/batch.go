// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch runs an external MAPF solver over a grid of problem
// instances, writing one output file per instance.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eli-b/mapf/internal/pool"
	"github.com/eli-b/mapf/internal/solverout"
)

// A Plan describes a set of instance files named
// "<Dir>/<map>-<agents>-<index>".
type Plan struct {
	Dir       string
	Maps      []string
	MinAgents int
	MaxAgents int
	AgentStep int
	Instances int

	// If Shards > 1, only instances whose index modulo Shards is Shard
	// are included, so that several machines can split one plan.
	Shard, Shards int
}

// Inputs returns the instance file paths of p, grouped by agent count
// and index, and then by map.
func (p *Plan) Inputs() []string {
	step := p.AgentStep
	if step < 1 {
		step = 1
	}
	var out []string
	for agents := p.MinAgents; agents <= p.MaxAgents; agents += step {
		for i := 0; i < p.Instances; i++ {
			if p.Shards > 1 && i%p.Shards != p.Shard {
				continue
			}
			for _, m := range p.Maps {
				name := solverout.Instance{Map: m, Agents: agents, Index: i}.String()
				out = append(out, filepath.Join(p.Dir, name))
			}
		}
	}
	return out
}

// OutputSuffix is appended to an instance path to name its solver output.
const OutputSuffix = "_output.txt"

// OutputPath returns the path of the solver output for input.
func OutputPath(input string) string {
	return input + OutputSuffix
}

// A RunFunc runs binary with args. It should stop when ctx is done.
type RunFunc func(ctx context.Context, binary string, args []string) error

// ExecRun runs binary as a subprocess, discarding its standard output.
func ExecRun(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// A Runner runs a solver binary on many inputs.
type Runner struct {
	Binary   string
	Timeout  time.Duration // per-instance solver timeout; 0 means 300s
	Encoding string        // solver encoding; "" means "mdd"
	Workers  int

	// Run runs the solver. If nil, ExecRun is used.
	Run RunFunc

	// Logf, if non-nil, is called before each solver run.
	Logf func(format string, args ...interface{})

	now func() time.Time
}

// limit is passed for every search limit the solver would otherwise
// cap below the sizes of the benchmark instances.
const limit = 65536

// Args returns the solver arguments for one input.
func (r *Runner) Args(input string) []string {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	secs := strconv.Itoa(int(timeout / time.Second))
	enc := r.Encoding
	if enc == "" {
		enc = "mdd"
	}
	return []string{
		"--output-file=" + OutputPath(input),
		"--bgu-input=" + input,
		"--cost-limit=" + strconv.Itoa(limit),
		"--layer-limit=" + strconv.Itoa(limit),
		"--makespan-limit=" + strconv.Itoa(limit),
		"--minisat-timeout=" + secs,
		"--total-timeout=" + secs,
		"--encoding=" + enc,
	}
}

// Stats counts what RunAll did.
type Stats struct {
	Ran, Skipped int
}

// RunAll runs the solver on every input that exists and has no output
// yet. It returns the joined errors of failed runs.
func (r *Runner) RunAll(ctx context.Context, inputs []string) (Stats, error) {
	var jobs []pool.Job
	var st Stats
	for _, in := range inputs {
		if !exists(in) || exists(OutputPath(in)) {
			st.Skipped++
			continue
		}
		in := in
		jobs = append(jobs, func(ctx context.Context) error {
			return r.runOne(ctx, in)
		})
	}
	st.Ran = len(jobs)
	errs := pool.Run(ctx, r.Workers, jobs)
	return st, errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, input string) error {
	// Another worker or machine may have finished this input since
	// the plan was made.
	if exists(OutputPath(input)) {
		return nil
	}
	run := r.Run
	if run == nil {
		run = ExecRun
	}
	now := r.now
	if now == nil {
		now = time.Now
	}
	if r.Logf != nil {
		r.Logf("running %s on %s", r.Binary, input)
	}
	start := now()
	if err := run(ctx, r.Binary, r.Args(input)); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	elapsed := now().Sub(start)

	f, err := os.OpenFile(OutputPath(input), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "\nTotal time (seconds): %s", strconv.FormatFloat(elapsed.Seconds(), 'f', -1, 64))
	if err1 := f.Close(); err == nil {
		err = err1
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
