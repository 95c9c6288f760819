// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 SourceArgs describes where batch files come from
type SourceArgs struct {
	Provider string   `json:"provider,omitempty" yaml:"provider,omitempty" hcl:"provider,optional"` // Source provider name (local/github)
	Path     string   `json:"path,omitempty" yaml:"path,omitempty" hcl:"path,optional"`             // Local directory, or path within repo
	Repo     string   `json:"repo,omitempty" yaml:"repo,omitempty" hcl:"repo,optional"`             // Repo URL for the github provider
	Ref      string   `json:"ref,omitempty" yaml:"ref,omitempty" hcl:"ref,optional"`                // Branch or tag for the github provider
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"` // Glob patterns selecting files to submit
}

// 📚 Config represents the complete configuration
type Config struct {
	Source      SourceArgs `json:"source" yaml:"source" hcl:"source,block"`
	OutputDir   string     `json:"output_dir,omitempty" yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
	StagingDir  string     `json:"staging_dir,omitempty" yaml:"staging_dir,omitempty" hcl:"staging_dir,optional"`
	Direction   string     `json:"direction,omitempty" yaml:"direction,omitempty" hcl:"direction,optional"`
	Shift       int        `json:"shift,omitempty" yaml:"shift,omitempty" hcl:"shift,optional"`
	Strategy    string     `json:"strategy,omitempty" yaml:"strategy,omitempty" hcl:"strategy,optional"`
	Parallelism int        `json:"parallelism,omitempty" yaml:"parallelism,omitempty" hcl:"parallelism,optional"`
	JoinTimeout string     `json:"join_timeout,omitempty" yaml:"join_timeout,omitempty" hcl:"join_timeout,optional"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

var validStrategies = map[string]bool{
	"sequential":  true,
	"threadpool":  true,
	"processpool": true,
}

var validDirections = map[string]bool{
	"encrypt": true,
	"decrypt": true,
}

// 🔍 Validate checks if the configuration is valid and applies defaults
func (cfg *Config) Validate() error {
	// Set provider defaults
	if cfg.Source.Provider == "" {
		cfg.Source.Provider = "local"
	}
	switch cfg.Source.Provider {
	case "local":
		if cfg.Source.Path == "" {
			return errors.Errorf("source.path is required for the local provider")
		}
		cfg.Source.Path = filepath.Clean(cfg.Source.Path)
	case "github":
		if cfg.Source.Repo == "" {
			return errors.Errorf("source.repo is required for the github provider")
		}
		if cfg.Source.Ref == "" {
			cfg.Source.Ref = "main"
		}
	default:
		return errors.Errorf("unknown source provider: %q", cfg.Source.Provider)
	}

	if len(cfg.Source.Patterns) == 0 {
		cfg.Source.Patterns = []string{"**/*.txt"}
	}

	// Directory defaults
	if cfg.OutputDir == "" {
		cfg.OutputDir = "processed"
	}
	if cfg.StagingDir == "" {
		cfg.StagingDir = "uploads"
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	cfg.StagingDir = filepath.Clean(cfg.StagingDir)

	// Cipher defaults
	if cfg.Direction == "" {
		cfg.Direction = "encrypt"
	}
	if !validDirections[cfg.Direction] {
		return errors.Errorf("direction must be encrypt or decrypt, got %q", cfg.Direction)
	}
	if cfg.Shift == 0 {
		cfg.Shift = 3
	}

	// Execution defaults
	if cfg.Strategy == "" {
		cfg.Strategy = "sequential"
	}
	if !validStrategies[cfg.Strategy] {
		return errors.Errorf("strategy must be one of sequential, threadpool, processpool, got %q", cfg.Strategy)
	}
	if cfg.Parallelism < 0 {
		return errors.Errorf("parallelism must not be negative")
	}

	if cfg.JoinTimeout != "" {
		if _, err := time.ParseDuration(cfg.JoinTimeout); err != nil {
			return errors.Errorf("parsing join_timeout: %w", err)
		}
	}

	return nil
}

// ⏲️ JoinTimeoutOrDefault returns the parsed join ceiling, defaulting to 10m
func (cfg *Config) JoinTimeoutOrDefault() time.Duration {
	if cfg.JoinTimeout == "" {
		return 10 * time.Minute
	}
	d, err := time.ParseDuration(cfg.JoinTimeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	src := cfg.Source.Path
	if cfg.Source.Provider == "github" {
		src = fmt.Sprintf("%s@%s:%s", cfg.Source.Repo, cfg.Source.Ref, cfg.Source.Path)
	}
	return fmt.Sprintf("%s:%s -> %s (%s+%d, %s)", cfg.Source.Provider, src, cfg.OutputDir, cfg.Direction, cfg.Shift, cfg.Strategy)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
