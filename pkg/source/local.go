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

package source

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register("local", NewLocal)
}

// 🎯 LocalProvider collects files from a directory on disk
type LocalProvider struct{}

// 🏭 NewLocal creates a new local directory provider
func NewLocal(ctx context.Context) (Provider, error) {
	return &LocalProvider{}, nil
}

// 📂 Collect walks the source directory and keeps files matching any of the
// configured glob patterns. Files are read in place, so stagingDir is unused.
func (p *LocalProvider) Collect(ctx context.Context, args config.SourceArgs, stagingDir string) ([]StagedFile, error) {
	logger := zerolog.Ctx(ctx)

	root := filepath.Clean(args.Path)

	var files []StagedFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(args.Patterns, rel) {
			return nil
		}

		files = append(files, StagedFile{
			Path: path,
			Name: batchName(rel),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking source dir %s: %w", root, err)
	}

	logger.Debug().
		Str("dir", root).
		Strs("patterns", args.Patterns).
		Int("files", len(files)).
		Msg("collected local files")

	return files, nil
}

// matchesAny reports whether a slash-separated relative path matches at least
// one doublestar pattern
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// batchName flattens a relative path into a collision-free original name.
// Names key the report lookup, so "docs/a.txt" and "notes/a.txt" must differ.
func batchName(rel string) string {
	return strings.ReplaceAll(rel, "/", "__")
}
