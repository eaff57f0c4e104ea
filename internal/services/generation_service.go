package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adityasasidhar/quizproject/internal/llm"
	"github.com/adityasasidhar/quizproject/internal/llm/prompts"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

type generationService struct {
	repo        repositories.Repository
	generator   llm.Generator
	model       string
	contextRoot string
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewGenerationService(repo repositories.Repository, generator llm.Generator, model, contextRoot string, logger *slog.Logger, v *validator.Validator) GenerationService {
	return &generationService{
		repo:        repo,
		generator:   generator,
		model:       model,
		contextRoot: contextRoot,
		logger:      logger,
		validator:   v,
	}
}

func (s *generationService) Generate(ctx context.Context, req *GeneratePaperRequest) (*PaperResponse, error) {
	spec := req.ToExamSpec()
	s.logger.Info("Generating paper", "family", spec.Family, "subject", spec.Subject, "difficulty", spec.Difficulty)

	if errs := s.validator.GetBusinessValidator().ValidateExamSpec(spec); len(errs) > 0 {
		return nil, errs
	}

	prompt := prompts.ForFamily(spec)
	if prompt == "" {
		return nil, NewGenerationError("prompt", fmt.Errorf("no prompt for family %s", spec.Family))
	}

	llmReq := llm.Request{
		Model:     s.model,
		Prompt:    prompt,
		Schema:    prompts.PaperSchema(spec.Family),
		FilePaths: s.chapterFiles(spec),
	}

	raw, err := s.generator.GenerateStructured(ctx, llmReq)
	if err != nil {
		return nil, NewGenerationError("model", err)
	}

	var paper models.Paper
	if err := json.Unmarshal([]byte(raw), &paper); err != nil {
		return nil, &ResponseParseError{Raw: raw, Err: err}
	}
	if err := paper.Validate(); err != nil {
		return nil, &ResponseParseError{Raw: raw, Err: err}
	}

	artifact, err := s.repo.Paper().Save(ctx, spec, []byte(raw))
	if err != nil {
		return nil, NewGenerationError("persist", err)
	}

	s.logger.Info("Paper generated", "family", spec.Family, "path", artifact.Path, "questions", len(paper))
	return &PaperResponse{Artifact: artifact, Paper: paper}, nil
}

func (s *generationService) Load(ctx context.Context, path string) (models.Paper, error) {
	paper, err := s.repo.Paper().Load(ctx, path)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaperNotFound
		}
		return nil, err
	}
	return paper, nil
}

func (s *generationService) ListArtifacts(ctx context.Context, family models.ExamFamily) ([]string, error) {
	return s.repo.Paper().List(ctx, family)
}

// chapterFiles resolves reference chapter documents for school exams. Papers
// for chapters without a local document are still generated, just without
// attachments.
func (s *generationService) chapterFiles(spec models.ExamSpec) []string {
	if !spec.Family.IsSchool() || len(spec.Chapters) == 0 {
		return nil
	}

	dir := filepath.Join(s.contextRoot,
		strings.ToUpper(spec.Board),
		fmt.Sprintf("grade_%s", spec.Grade),
		strings.ToUpper(spec.Subject))

	var paths []string
	for _, chapter := range spec.Chapters {
		p := filepath.Join(dir, chapter+".pdf")
		if _, err := os.Stat(p); err != nil {
			s.logger.Warn("Chapter document missing, generating without it", "chapter", chapter, "path", p)
			continue
		}
		paths = append(paths, p)
	}
	return paths
}
