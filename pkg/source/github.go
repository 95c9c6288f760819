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
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register("github", NewGitHub)
}

// 🎯 GitHubProvider stages files from a GitHub repository path
type GitHubProvider struct {
	client *github.Client
}

// 🏭 NewGitHub creates a new GitHub provider. GITHUB_TOKEN is optional but
// raises the API rate limit and unlocks private repositories.
func NewGitHub(ctx context.Context) (Provider, error) {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	return &GitHubProvider{client: client}, nil
}

// 🔍 parseRepo splits a repository reference into owner and name
func parseRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSuffix(repo, "/"), "/")
	if len(parts) < 2 {
		return "", "", errors.Errorf("invalid repository format: %s", repo)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// 📂 Collect lists the repository tree at the configured ref, keeps blobs
// under the configured path matching the patterns, and downloads each one
// into stagingDir so jobs read local files only.
func (p *GitHubProvider) Collect(ctx context.Context, args config.SourceArgs, stagingDir string) ([]StagedFile, error) {
	logger := zerolog.Ctx(ctx)

	owner, name, err := parseRepo(args.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	tree, _, err := p.client.Git.GetTree(ctx, owner, name, args.Ref, true)
	if err != nil {
		return nil, errors.Errorf("getting repository tree: %w", err)
	}

	prefix := strings.Trim(args.Path, "/")

	var wanted []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}

		entryPath := entry.GetPath()
		rel := entryPath
		if prefix != "" {
			if !strings.HasPrefix(entryPath, prefix+"/") {
				continue
			}
			rel = strings.TrimPrefix(entryPath, prefix+"/")
		}

		if matchesAny(args.Patterns, rel) {
			wanted = append(wanted, entryPath)
		}
	}

	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return nil, errors.Errorf("creating staging dir: %w", err)
	}

	files := make([]StagedFile, 0, len(wanted))
	for _, entryPath := range wanted {
		staged, err := p.stageFile(ctx, owner, name, args.Ref, prefix, entryPath, stagingDir)
		if err != nil {
			return nil, errors.Errorf("staging %s: %w", entryPath, err)
		}
		files = append(files, staged)
	}

	logger.Debug().
		Str("repo", args.Repo).
		Str("ref", args.Ref).
		Int("files", len(files)).
		Msg("staged github files")

	return files, nil
}

// 📥 stageFile downloads one repository blob into the staging directory
func (p *GitHubProvider) stageFile(ctx context.Context, owner, name, ref, prefix, entryPath, stagingDir string) (StagedFile, error) {
	reader, _, err := p.client.Repositories.DownloadContents(ctx, owner, name, entryPath, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		return StagedFile{}, errors.Errorf("downloading contents: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return StagedFile{}, errors.Errorf("reading contents: %w", err)
	}

	rel := entryPath
	if prefix != "" {
		rel = strings.TrimPrefix(entryPath, prefix+"/")
	}
	originalName := batchName(path.Clean(rel))

	localPath := filepath.Join(stagingDir, originalName)
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return StagedFile{}, errors.Errorf("writing staged file: %w", err)
	}

	return StagedFile{Path: localPath, Name: originalName}, nil
}
