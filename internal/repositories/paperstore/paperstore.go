// Package paperstore persists generated paper artifacts on the filesystem.
// Artifacts are immutable: written once under a timestamp-qualified name,
// read many times, never mutated.
package paperstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

// timestampLayout has microsecond precision so concurrent generations never
// collide on a path; no locking is needed because every write owns its name.
const timestampLayout = "20060102T150405.000000"

type Store struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

func New(root string, logger *slog.Logger) *Store {
	return &Store{root: root, logger: logger, now: time.Now}
}

// Save validates the raw model output against the paper contract and only
// then writes it, verbatim, under the family's directory. Nothing is
// persisted for invalid papers.
func (s *Store) Save(ctx context.Context, spec models.ExamSpec, rawJSON []byte) (*models.PaperArtifact, error) {
	var paper models.Paper
	if err := json.Unmarshal(rawJSON, &paper); err != nil {
		return nil, fmt.Errorf("paper does not parse as a question list: %w", err)
	}
	if err := paper.Validate(); err != nil {
		return nil, fmt.Errorf("paper violates artifact contract: %w", err)
	}

	dir := filepath.Join(s.root, string(spec.Family))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	createdAt := s.now().UTC()
	name := fmt.Sprintf("%s_%s.json", artifactStem(spec), createdAt.Format(timestampLayout))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create artifact file: %w", err)
	}
	if _, err := f.Write(rawJSON); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close artifact: %w", err)
	}

	s.logger.Info("paper artifact saved",
		"family", spec.Family,
		"path", path,
		"questions", len(paper))

	return &models.PaperArtifact{
		Family:    spec.Family,
		Path:      path,
		CreatedAt: createdAt,
	}, nil
}

// Load reads an artifact and re-validates it at the boundary; a stored file
// that no longer satisfies the contract is rejected, not trusted.
func (s *Store) Load(ctx context.Context, path string) (models.Paper, error) {
	if !strings.HasSuffix(path, ".json") {
		return nil, fmt.Errorf("%s: %w", path, repositories.ErrNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var paper models.Paper
	if err := json.Unmarshal(data, &paper); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	if err := paper.Validate(); err != nil {
		return nil, fmt.Errorf("artifact %s violates contract: %w", path, err)
	}
	return paper, nil
}

func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// List returns artifact paths for a family, newest last. Artifacts are never
// deleted here; accumulation is accepted.
func (s *Store) List(ctx context.Context, family models.ExamFamily) ([]string, error) {
	dir := filepath.Join(s.root, string(family))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

func artifactStem(spec models.ExamSpec) string {
	if spec.Family.IsSchool() {
		return fmt.Sprintf("%s_%s_%s_%s",
			spec.Family, strings.ToUpper(spec.Subject), spec.Grade, strings.ToUpper(spec.Board))
	}
	return fmt.Sprintf("%s_%s_%s", spec.Family, spec.Difficulty, spec.Format)
}
