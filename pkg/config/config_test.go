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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, ".parcrypt.yaml", `
source:
  provider: local
  path: ./uploads
  patterns:
    - "*.txt"
    - "docs/**/*.md"
output_dir: ./processed
direction: encrypt
shift: 7
strategy: threadpool
parallelism: 4
join_timeout: 2m
`)

	cfg, err := Load(testContext(), path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Source.Provider)
	assert.Equal(t, "uploads", cfg.Source.Path)
	assert.Equal(t, []string{"*.txt", "docs/**/*.md"}, cfg.Source.Patterns)
	assert.Equal(t, "processed", cfg.OutputDir)
	assert.Equal(t, "encrypt", cfg.Direction)
	assert.Equal(t, 7, cfg.Shift)
	assert.Equal(t, "threadpool", cfg.Strategy)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Equal(t, 2*time.Minute, cfg.JoinTimeoutOrDefault())
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, ".parcrypt.hcl", `
source {
  provider = "github"
  repo     = "github.com/walteh/parcrypt"
  ref      = "v1.0.0"
  path     = "testdata"
  patterns = ["*.txt"]
}

output_dir = "out"
direction  = "decrypt"
shift      = 13
strategy   = "processpool"
`)

	cfg, err := Load(testContext(), path)
	require.NoError(t, err)

	assert.Equal(t, "github", cfg.Source.Provider)
	assert.Equal(t, "github.com/walteh/parcrypt", cfg.Source.Repo)
	assert.Equal(t, "v1.0.0", cfg.Source.Ref)
	assert.Equal(t, "decrypt", cfg.Direction)
	assert.Equal(t, 13, cfg.Shift)
	assert.Equal(t, "processpool", cfg.Strategy)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "parcrypt.json", `{
  "source": {"provider": "local", "path": "in"},
  "output_dir": "out",
  "strategy": "sequential"
}`)

	cfg, err := Load(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, "in", cfg.Source.Path)
	assert.Equal(t, "sequential", cfg.Strategy)
}

func TestLoad_NoParser(t *testing.T) {
	path := writeConfig(t, "config.toml", "whatever")
	_, err := Load(testContext(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults_applied",
			cfg:  Config{Source: SourceArgs{Path: "in"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "local", cfg.Source.Provider)
				assert.Equal(t, []string{"**/*.txt"}, cfg.Source.Patterns)
				assert.Equal(t, "processed", cfg.OutputDir)
				assert.Equal(t, "uploads", cfg.StagingDir)
				assert.Equal(t, "encrypt", cfg.Direction)
				assert.Equal(t, 3, cfg.Shift)
				assert.Equal(t, "sequential", cfg.Strategy)
				assert.Equal(t, 10*time.Minute, cfg.JoinTimeoutOrDefault())
			},
		},
		{
			name:    "local_requires_path",
			cfg:     Config{Source: SourceArgs{Provider: "local"}},
			wantErr: "source.path is required",
		},
		{
			name:    "github_requires_repo",
			cfg:     Config{Source: SourceArgs{Provider: "github"}},
			wantErr: "source.repo is required",
		},
		{
			name: "github_defaults_ref",
			cfg:  Config{Source: SourceArgs{Provider: "github", Repo: "github.com/a/b"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "main", cfg.Source.Ref)
			},
		},
		{
			name:    "unknown_provider",
			cfg:     Config{Source: SourceArgs{Provider: "ftp", Path: "in"}},
			wantErr: "unknown source provider",
		},
		{
			name:    "bad_direction",
			cfg:     Config{Source: SourceArgs{Path: "in"}, Direction: "sideways"},
			wantErr: "direction must be",
		},
		{
			name:    "bad_strategy",
			cfg:     Config{Source: SourceArgs{Path: "in"}, Strategy: "forkbomb"},
			wantErr: "strategy must be",
		},
		{
			name:    "bad_join_timeout",
			cfg:     Config{Source: SourceArgs{Path: "in"}, JoinTimeout: "soon"},
			wantErr: "parsing join_timeout",
		},
		{
			name:    "negative_parallelism",
			cfg:     Config{Source: SourceArgs{Path: "in"}, Parallelism: -1},
			wantErr: "parallelism",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, &tt.cfg)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := Config{Source: SourceArgs{Path: "in"}, Strategy: "threadpool", Shift: 5}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "local:in -> processed (encrypt+5, threadpool)", cfg.String())
}
