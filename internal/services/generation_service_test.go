package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

const validPaperJSON = `[
	{"question_number": 1, "question": "2+2?", "options": ["3", "4"], "answer": "4", "subject": "Mathematics"},
	{"question_number": "2", "question": "Symbol for water?", "options": ["H2O", "CO2"], "answer": "H2O", "subject": "Chemistry"}
]`

func newGenerationServiceForTest(repo *mockRepository, gen *mockGenerator) *generationService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &generationService{
		repo:        repo,
		generator:   gen,
		model:       "paper-model",
		contextRoot: "testdata/books",
		logger:      logger,
		validator:   validator.New(),
	}
}

func TestGenerate(t *testing.T) {
	competitiveReq := &GeneratePaperRequest{Family: models.JEEMains, Difficulty: "hard"}

	t.Run("valid competitive paper", func(t *testing.T) {
		repo := newMockRepository()
		var savedRaw []byte
		repo.paper.SaveFunc = func(ctx context.Context, spec models.ExamSpec, rawJSON []byte) (*models.PaperArtifact, error) {
			savedRaw = rawJSON
			return &models.PaperArtifact{Family: spec.Family, Path: "JEE_MAINS/paper.json"}, nil
		}
		gen := &mockGenerator{Response: validPaperJSON}
		service := newGenerationServiceForTest(repo, gen)

		resp, err := service.Generate(context.Background(), competitiveReq)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(resp.Paper) != 2 {
			t.Errorf("got %d questions, want 2", len(resp.Paper))
		}
		// String-encoded question numbers in model output are tolerated
		if int(resp.Paper[1].QuestionNumber) != 2 {
			t.Errorf("got question number %d, want 2", resp.Paper[1].QuestionNumber)
		}
		if resp.Artifact.Path != "JEE_MAINS/paper.json" {
			t.Errorf("unexpected artifact path %s", resp.Artifact.Path)
		}
		if string(savedRaw) != validPaperJSON {
			t.Error("raw model output was not persisted verbatim")
		}
	})

	t.Run("school paper requires school parameters", func(t *testing.T) {
		service := newGenerationServiceForTest(newMockRepository(), &mockGenerator{Response: validPaperJSON})

		_, err := service.Generate(context.Background(), &GeneratePaperRequest{Family: models.SchoolQuiz})
		var valErrs ValidationErrors
		if !errors.As(err, &valErrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("competitive paper requires difficulty", func(t *testing.T) {
		service := newGenerationServiceForTest(newMockRepository(), &mockGenerator{Response: validPaperJSON})

		_, err := service.Generate(context.Background(), &GeneratePaperRequest{Family: models.NEETUG})
		var valErrs ValidationErrors
		if !errors.As(err, &valErrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("model failure wrapped as generation error", func(t *testing.T) {
		gen := &mockGenerator{Err: fmt.Errorf("quota exceeded")}
		service := newGenerationServiceForTest(newMockRepository(), gen)

		_, err := service.Generate(context.Background(), competitiveReq)
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("expected GenerationError, got %v", err)
		}
		if genErr.Stage != "model" {
			t.Errorf("got stage %q, want model", genErr.Stage)
		}
	})

	t.Run("malformed model output keeps the raw response", func(t *testing.T) {
		gen := &mockGenerator{Response: "not json at all"}
		service := newGenerationServiceForTest(newMockRepository(), gen)

		_, err := service.Generate(context.Background(), competitiveReq)
		var parseErr *ResponseParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ResponseParseError, got %v", err)
		}
		if parseErr.Raw != "not json at all" {
			t.Errorf("raw response not preserved: %q", parseErr.Raw)
		}
	})

	t.Run("structurally invalid paper rejected before persisting", func(t *testing.T) {
		repo := newMockRepository()
		saved := false
		repo.paper.SaveFunc = func(ctx context.Context, spec models.ExamSpec, rawJSON []byte) (*models.PaperArtifact, error) {
			saved = true
			return nil, nil
		}
		// Duplicate question numbers
		gen := &mockGenerator{Response: `[
			{"question_number": 1, "question": "a?", "answer": "x"},
			{"question_number": 1, "question": "b?", "answer": "y"}
		]`}
		service := newGenerationServiceForTest(repo, gen)

		_, err := service.Generate(context.Background(), competitiveReq)
		var parseErr *ResponseParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ResponseParseError, got %v", err)
		}
		if saved {
			t.Error("invalid paper must not be persisted")
		}
	})
}

func TestGenerationLoad(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		service := newGenerationServiceForTest(newMockRepository(), &mockGenerator{})
		if _, err := service.Load(context.Background(), "JEE_MAINS/missing.json"); !errors.Is(err, ErrPaperNotFound) {
			t.Fatalf("expected ErrPaperNotFound, got %v", err)
		}
	})
}
