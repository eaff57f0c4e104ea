package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adityasasidhar/quizproject/internal/llm"
	"github.com/adityasasidhar/quizproject/internal/llm/prompts"
	"github.com/adityasasidhar/quizproject/internal/models"
)

type scoringService struct {
	generator llm.Generator
	model     string
	logger    *slog.Logger
}

func NewScoringService(generator llm.Generator, model string, logger *slog.Logger) ScoringService {
	return &scoringService{
		generator: generator,
		model:     model,
		logger:    logger,
	}
}

// answersMatch compares a given answer to the key, ignoring case and
// surrounding whitespace. An empty given answer never matches.
func answersMatch(expected, given string) bool {
	g := strings.TrimSpace(given)
	if g == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(expected), g)
}

func (s *scoringService) ScoreObjective(paper models.Paper, answers map[string]string) (*ScoreResult, error) {
	if len(paper) == 0 {
		return nil, fmt.Errorf("cannot score an empty paper")
	}

	result := &ScoreResult{
		Total:   len(paper),
		Details: make([]QuestionResult, 0, len(paper)),
	}

	for _, q := range paper {
		given := answers[strconv.Itoa(int(q.QuestionNumber))]
		correct := answersMatch(q.Answer, given)
		if correct {
			result.Score++
		}
		result.Details = append(result.Details, QuestionResult{
			QuestionNumber: int(q.QuestionNumber),
			Expected:       q.Answer,
			Given:          strings.TrimSpace(given),
			Correct:        correct,
		})
	}

	result.Percentage = float64(result.Score) / float64(result.Total) * 100
	return result, nil
}

// extractedAnswer mirrors the extraction schema declared in the prompts
// package.
type extractedAnswer struct {
	QuestionNumber models.QuestionNumber `json:"question_number"`
	Extracted      string                `json:"extracted_answer"`
	CorrectAnswer  string                `json:"correct_answer"`
	IsCorrect      bool                  `json:"is_correct"`
	Explanation    string                `json:"explanation"`
}

func (s *scoringService) ScoreUpload(ctx context.Context, paper models.Paper, sheet *UploadedAnswerSheet) (*ScoreResult, error) {
	if len(paper) == 0 {
		return nil, fmt.Errorf("cannot score an empty paper")
	}
	if sheet == nil || len(sheet.Data) == 0 {
		return nil, fmt.Errorf("empty answer sheet upload")
	}

	prompt, err := prompts.Extraction(paper)
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		Model:  s.model,
		Prompt: prompt,
		Schema: prompts.ExtractionSchema(),
	}
	if strings.HasPrefix(sheet.MIMEType, "image/") {
		// Images go straight into the request as an inline part.
		req.Inline = []llm.InlineData{{Data: sheet.Data, MIMEType: sheet.MIMEType}}
	} else {
		// PDFs go through the provider's file API, which wants a path, so
		// the upload is staged in a temp file that is removed whether or
		// not extraction succeeds.
		tmp, err := os.CreateTemp("", "answersheet-*"+filepath.Ext(sheet.Filename))
		if err != nil {
			return nil, fmt.Errorf("stage answer sheet: %w", err)
		}
		tmpPath := tmp.Name()
		defer func() {
			if err := os.Remove(tmpPath); err != nil {
				s.logger.Warn("Failed to remove staged answer sheet", "path", tmpPath, "error", err)
			}
		}()

		if _, err := tmp.Write(sheet.Data); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("stage answer sheet: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return nil, fmt.Errorf("stage answer sheet: %w", err)
		}
		req.FilePaths = []string{tmpPath}
	}

	raw, err := s.generator.GenerateStructured(ctx, req)
	if err != nil {
		return nil, NewGenerationError("extraction", err)
	}

	var extracted []extractedAnswer
	if err := json.Unmarshal([]byte(raw), &extracted); err != nil {
		return nil, &ResponseParseError{Raw: raw, Err: err}
	}

	byNumber := make(map[int]extractedAnswer, len(extracted))
	for _, e := range extracted {
		byNumber[int(e.QuestionNumber)] = e
	}

	// Questions the model produced no verdict for count as unanswered.
	result := &ScoreResult{
		Total:   len(paper),
		Details: make([]QuestionResult, 0, len(paper)),
	}
	for _, q := range paper {
		e, ok := byNumber[int(q.QuestionNumber)]
		correct := ok && e.IsCorrect
		if correct {
			result.Score++
		}
		result.Details = append(result.Details, QuestionResult{
			QuestionNumber: int(q.QuestionNumber),
			Expected:       q.Answer,
			Given:          e.Extracted,
			Correct:        correct,
			Explanation:    e.Explanation,
		})
	}

	result.Percentage = float64(result.Score) / float64(result.Total) * 100
	s.logger.Info("Answer sheet scored", "questions", result.Total, "score", result.Score)
	return result, nil
}
