// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the YAML configuration shared by the mapf
// commands. Every setting has a command-line flag; a configuration
// file supplies defaults for flags that are not given.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eli-b/mapf/resultproc"
	"github.com/eli-b/mapf/summarydb"
)

type Config struct {
	GroupBy   string   `yaml:"group_by"`
	Instance  string   `yaml:"instance"`
	Threshold float64  `yaml:"threshold"`
	Families  []string `yaml:"families"`
	Comma     string   `yaml:"comma"`
	Charts    Charts   `yaml:"charts"`
	Database  Database `yaml:"database"`
	GCS       GCS      `yaml:"gcs"`
	Solver    Solver   `yaml:"solver"`
}

type Charts struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

type Database struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	CloudSQL string `yaml:"cloudsql"`
	Name     string `yaml:"name"`
	Label    string `yaml:"label"`
}

type GCS struct {
	Credentials string `yaml:"credentials"`
	Token       string `yaml:"token"`
	Anonymous   bool   `yaml:"anonymous"`
}

// Solver configures batch runs of an external solver.
type Solver struct {
	Binary       string   `yaml:"binary"`
	InstancesDir string   `yaml:"instances_dir"`
	Maps         []string `yaml:"maps"`
	MinAgents    int      `yaml:"min_agents"`
	MaxAgents    int      `yaml:"max_agents"`
	AgentStep    int      `yaml:"agent_step"`
	Instances    int      `yaml:"instances"`
	Workers      int      `yaml:"workers"`
	Shard        int      `yaml:"shard"`
	Shards       int      `yaml:"shards"`
	TimeoutSec   int      `yaml:"timeout_seconds"`
	Encoding     string   `yaml:"encoding"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return fmt.Errorf("threshold %v not in [0, 1]", cfg.Threshold)
	}
	if _, err := cfg.ParseFamilies(); err != nil {
		return err
	}
	if len([]rune(cfg.Comma)) > 1 {
		return fmt.Errorf("comma %q must be a single character", cfg.Comma)
	}
	for _, f := range cfg.Charts.Formats {
		switch f {
		case "png", "svg", "pdf":
		default:
			return fmt.Errorf("charts: unsupported format %q", f)
		}
	}
	if db := cfg.Database; db.CloudSQL != "" {
		if db.DSN != "" {
			return fmt.Errorf("database: cloudsql and dsn are mutually exclusive")
		}
		if _, err := summarydb.CloudSQLDSN("", db.CloudSQL, db.Name); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	} else if db.Driver != "" && db.DSN == "" {
		return fmt.Errorf("database: dsn is required with driver %q", db.Driver)
	}
	s := &cfg.Solver
	if s.MinAgents < 0 || s.MaxAgents < s.MinAgents {
		return fmt.Errorf("solver: bad agent range %d..%d", s.MinAgents, s.MaxAgents)
	}
	if s.AgentStep < 0 || s.Instances < 0 || s.Workers < 0 || s.TimeoutSec < 0 {
		return fmt.Errorf("solver: counts must not be negative")
	}
	if s.Shards < 0 || s.Shard < 0 || (s.Shards > 0 && s.Shard >= s.Shards) {
		return fmt.Errorf("solver: shard %d out of range for %d shards", s.Shard, s.Shards)
	}
	return nil
}

// ParseFamilies returns the metric families named in cfg.Families, or
// nil if none are named.
func (cfg *Config) ParseFamilies() ([]resultproc.Family, error) {
	return ParseFamilies(cfg.Families)
}

// ParseFamilies parses a list of family names, as printed by
// resultproc.Family.String.
func ParseFamilies(names []string) ([]resultproc.Family, error) {
	var out []resultproc.Family
	for _, name := range names {
		f, err := resultproc.ParseFamily(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Apply sets every flag of fs that was not set on the command line
// and has a value in values, keyed by flag name. Empty values are
// skipped.
func Apply(fs *flag.FlagSet, values map[string]string) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, v := range values {
		if set[name] || v == "" || fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("config value for -%s: %w", name, err)
		}
	}
	return nil
}

// Itoa formats n for Apply, mapping 0 to "" so that unset integers
// leave flag defaults alone.
func Itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Ftoa is Itoa for floats.
func Ftoa(x float64) string {
	if x == 0 {
		return ""
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Join formats a list for Apply.
func Join(list []string) string {
	return strings.Join(list, ",")
}
