package paperstore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

const validPaperJSON = `[
	{"question_number": 1, "question": "2+2?", "options": ["3", "4"], "answer": "4"},
	{"question_number": 2, "question": "Symbol for water?", "answer": "H2O"}
]`

func newTestStore(t *testing.T) *Store {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return New(t.TempDir(), logger)
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	spec := models.ExamSpec{Family: models.JEEMains, Difficulty: "hard", Format: "full"}

	artifact, err := store.Save(context.Background(), spec, []byte(validPaperJSON))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if artifact.Family != models.JEEMains {
		t.Errorf("got family %s, want %s", artifact.Family, models.JEEMains)
	}
	if !strings.Contains(artifact.Path, string(models.JEEMains)) {
		t.Errorf("artifact path %s missing family directory", artifact.Path)
	}

	// Saved verbatim
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("artifact unreadable: %v", err)
	}
	if string(data) != validPaperJSON {
		t.Error("artifact bytes differ from the model output")
	}

	paper, err := store.Load(context.Background(), artifact.Path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(paper) != 2 {
		t.Errorf("got %d questions, want 2", len(paper))
	}
	if !store.Exists(artifact.Path) {
		t.Error("Exists is false for a saved artifact")
	}
}

func TestSaveRejectsInvalidPapers(t *testing.T) {
	store := newTestStore(t)
	spec := models.ExamSpec{Family: models.JEEMains, Difficulty: "hard"}

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "oops"},
		{name: "empty paper", raw: "[]"},
		{name: "missing answer", raw: `[{"question_number": 1, "question": "q?"}]`},
		{name: "duplicate numbers", raw: `[
			{"question_number": 1, "question": "a?", "answer": "x"},
			{"question_number": 1, "question": "b?", "answer": "y"}
		]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Save(context.Background(), spec, []byte(tt.raw)); err == nil {
				t.Fatal("expected save to fail")
			}
		})
	}

	// Nothing persisted for any of the rejected papers
	entries, _ := os.ReadDir(filepath.Join(store.root, string(models.JEEMains)))
	if len(entries) != 0 {
		t.Errorf("rejected papers left %d files behind", len(entries))
	}
}

func TestSavePathsNeverCollide(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Microsecond)
	}
	spec := models.ExamSpec{Family: models.NEETUG, Difficulty: "medium"}

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		artifact, err := store.Save(context.Background(), spec, []byte(validPaperJSON))
		if err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
		if seen[artifact.Path] {
			t.Fatalf("path %s reused", artifact.Path)
		}
		seen[artifact.Path] = true
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), filepath.Join(store.root, "JEE_MAINS", "missing.json"))
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Non-JSON paths are treated as unknown artifacts
	if _, err := store.Load(context.Background(), "/etc/passwd"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-json path, got %v", err)
	}
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	spec := models.ExamSpec{Family: models.SchoolQuiz, Subject: "physics", Grade: "10", Board: "cbse"}

	if paths, err := store.List(context.Background(), models.SchoolQuiz); err != nil || len(paths) != 0 {
		t.Fatalf("empty store should list nothing, got %v, %v", paths, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Save(context.Background(), spec, []byte(validPaperJSON)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	paths, err := store.List(context.Background(), models.SchoolQuiz)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 3 {
		t.Errorf("got %d artifacts, want 3", len(paths))
	}

	// Other families are not mixed in
	paths, err = store.List(context.Background(), models.JEEAdvanced)
	if err != nil || len(paths) != 0 {
		t.Errorf("unexpected artifacts for another family: %v, %v", paths, err)
	}
}
