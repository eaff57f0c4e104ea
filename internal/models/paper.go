package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ExamFamily string

const (
	JEEMains    ExamFamily = "JEE_MAINS"
	JEEAdvanced ExamFamily = "JEE_ADVANCED"
	NEETUG      ExamFamily = "NEET_UG"
	SchoolQuiz  ExamFamily = "SCHOOL_QUIZ"
	SchoolTest  ExamFamily = "SCHOOL_TEST"
)

// IsCompetitive reports whether the family is one of the entrance exams
// (parameterized by difficulty/format rather than school metadata).
func (f ExamFamily) IsCompetitive() bool {
	switch f {
	case JEEMains, JEEAdvanced, NEETUG:
		return true
	}
	return false
}

func (f ExamFamily) IsSchool() bool {
	return f == SchoolQuiz || f == SchoolTest
}

// ExamSpec identifies which kind of paper to generate. Immutable once built;
// it only selects a prompt template and output schema.
type ExamSpec struct {
	Family     ExamFamily `json:"family" validate:"required,exam_family"`
	Difficulty string     `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Format     string     `json:"format" validate:"omitempty,max=50"`

	// School exam parameters; validated against closed enumerations.
	Subject  string   `json:"subject,omitempty"`
	Grade    string   `json:"grade,omitempty"`
	Board    string   `json:"board,omitempty"`
	Language string   `json:"language,omitempty"`
	Chapters []string `json:"chapters,omitempty"`
}

// QuestionNumber tolerates both integer and numeric-string encodings, which
// both appear in model output.
type QuestionNumber int

func (n *QuestionNumber) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*n = QuestionNumber(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("question_number must be an integer or numeric string")
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("question_number %q is not numeric", s)
	}
	*n = QuestionNumber(i)
	return nil
}

func (n QuestionNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(n))
}

// PaperQuestion is one record in the paper artifact format, the interchange
// contract shared by generation, rendering and scoring.
type PaperQuestion struct {
	QuestionNumber QuestionNumber `json:"question_number"`
	Question       string         `json:"question"`
	Options        []string       `json:"options,omitempty"`
	Answer         string         `json:"answer"`
	Solution       string         `json:"solution,omitempty"`
	Subject        string         `json:"subject,omitempty"`
}

// Paper is an ordered sequence of questions representing one generated exam.
type Paper []PaperQuestion

// Validate enforces the minimum-field contract: at least one question, a
// non-empty question and answer per record, and unique question numbers so
// answer-keyed lookups are unambiguous.
func (p Paper) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("paper contains no questions")
	}
	seen := make(map[int]bool, len(p))
	for i, q := range p {
		n := int(q.QuestionNumber)
		if n < 1 {
			return fmt.Errorf("question %d: question_number must be >= 1, got %d", i+1, n)
		}
		if seen[n] {
			return fmt.Errorf("duplicate question_number %d", n)
		}
		seen[n] = true
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d: empty question text", n)
		}
		if strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("question %d: empty answer", n)
		}
	}
	return nil
}

// PaperArtifact is the persisted, immutable representation of a generated
// paper: the file plus its generation metadata.
type PaperArtifact struct {
	Family    ExamFamily `json:"family"`
	Path      string     `json:"path"`
	CreatedAt time.Time  `json:"created_at"`
}
