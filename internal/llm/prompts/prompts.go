// Package prompts is the catalog of prompt templates and output schemas for
// every supported exam family.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/adityasasidhar/quizproject/internal/models"
)

const jeeMainsContext = `
The JEE Mains paper typically consists of three sections: Physics, Chemistry, and Mathematics. Each section contains multiple-choice questions (MCQs) and numerical value-based questions. The exam is conducted in a computer-based format.
Generate a full length JEE Mains question paper.
It should have a total of 90 questions, with 30 questions from each subject (Physics, Chemistry, Mathematics). Candidates can attempt a maximum of 75 questions. The questions should be a mix of MCQs and numerical value-based questions.
- Total Questions: 90 (30 per subject; candidates can attempt 75)
- Question Types:
  - MCQs (with four options, one correct)
  - Numerical value-based questions (no options, answer is a number)
Tag every question with its "subject".`

const jeeAdvancedContext = `
The JEE Advanced paper is designed for admission to the prestigious Indian Institutes of Technology (IITs). It consists of two papers, each with three sections: Physics, Chemistry, and Mathematics. The questions include multiple-choice questions (MCQs), numerical value-based questions, and matching-type questions. The exam is conducted in a computer-based format.
Generate a full length JEE Advanced question paper.
Each paper should have a total of 54 questions, with 18 questions from each subject (Physics, Chemistry, Mathematics). The questions should be a mix of MCQs, numerical value-based, and matching-type questions.
- Total Questions per paper: 54 (18 per subject)
- Question Types:
  - MCQs (with four options, one or more correct; encode multi-select answers as a comma-separated option list, e.g. "A,C")
  - Numerical value-based questions (no options, answer is a number)
  - Matching-type questions (match the following)
Tag every question with its "subject".`

const neetUGContext = `
The NEET (National Eligibility cum Entrance Test) paper is for admission to medical courses in India. It consists of four sections: Physics, Chemistry, Botany, and Zoology. Each section contains multiple-choice questions (MCQs) with four options and one correct answer. The exam is conducted in a pen-and-paper format.
Generate a full length NEET question paper.
It should have a total of 200 questions, with 50 questions from each subject (Physics, Chemistry, Botany, Zoology). Candidates can attempt a maximum of 180 questions. All questions should be MCQs.
- Total Questions: 200 (50 per subject; candidates can attempt 180)
- Question Types:
  - MCQs (with four options, one correct)
Tag every question with its "subject".`

const schoolContext = `
You are an intelligent AI whose main job is to generate tests for school students.
You will be given their textbook chapters as attached documents; take them as
context and generate questions based on them. Mind the grade of the student,
make sure the questions are of good quality and adhere to safety standards,
and reply in the proper format. Base your questions on the activity sections
of the chapters. Generate about 20 questions.`

// School parameter enumerations. Requests outside these sets are rejected
// before any model call.
var (
	SchoolSubjects  = []string{"BIOLOGY", "CHEMISTRY", "ENGLISH", "MATHEMATICS", "PHYSICS", "SOCIAL_SCIENCE"}
	SchoolGrades    = []string{"6", "7", "8", "9", "10", "11", "12"}
	SchoolBoards    = []string{"CBSE", "ICSE", "STATE", "TSBIE"}
	SchoolLanguages = []string{"ENG", "HIN", "TEL"}
)

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func IsSchoolSubject(v string) bool  { return contains(SchoolSubjects, strings.ToUpper(v)) }
func IsSchoolGrade(v string) bool    { return contains(SchoolGrades, v) }
func IsSchoolBoard(v string) bool    { return contains(SchoolBoards, strings.ToUpper(v)) }
func IsSchoolLanguage(v string) bool { return contains(SchoolLanguages, strings.ToUpper(v)) }

// ForFamily returns the generation prompt for the given exam spec, or an
// empty string for unsupported families.
func ForFamily(spec models.ExamSpec) string {
	switch spec.Family {
	case models.JEEMains:
		return competitivePrompt(spec, jeeMainsContext)
	case models.JEEAdvanced:
		return competitivePrompt(spec, jeeAdvancedContext)
	case models.NEETUG:
		return competitivePrompt(spec, neetUGContext)
	case models.SchoolQuiz, models.SchoolTest:
		return schoolPrompt(spec)
	}
	return ""
}

func competitivePrompt(spec models.ExamSpec, context string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert in creating high-quality exam papers for competitive exams like ")
	sb.WriteString(string(spec.Family))
	sb.WriteString(".\n")
	fmt.Fprintf(&sb, "Generate a paper with %s difficulty level and format %s.\n", spec.Difficulty, spec.Format)
	sb.WriteString(context)
	return sb.String()
}

func schoolPrompt(spec models.ExamSpec) string {
	var sb strings.Builder
	sb.WriteString(schoolContext)
	kind := "quiz"
	if spec.Family == models.SchoolTest {
		kind = "test"
	}
	fmt.Fprintf(&sb, "\nYou are generating a school %s for %s grade %s board %s in language %s.\n",
		kind, strings.ToUpper(spec.Subject), spec.Grade, strings.ToUpper(spec.Board), strings.ToUpper(spec.Language))
	return sb.String()
}

// PaperSchema declares the structured output contract for paper generation.
// School quizzes allow nullable options so the model can emit open-response
// items.
func PaperSchema(family models.ExamFamily) *genai.Schema {
	optionsSchema := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
	if family == models.SchoolQuiz {
		optionsSchema.Nullable = genai.Ptr(true)
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question_number": {Type: genai.TypeInteger},
				"question":        {Type: genai.TypeString},
				"options":         optionsSchema,
				"answer":          {Type: genai.TypeString},
				"solution":        {Type: genai.TypeString},
				"subject":         {Type: genai.TypeString},
			},
			Required: []string{"question_number", "question", "answer"},
		},
	}
}

// ExtractionSchema declares the per-question verdict contract for AI-assisted
// grading of uploaded answer sheets.
func ExtractionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question_number":  {Type: genai.TypeInteger},
				"extracted_answer": {Type: genai.TypeString},
				"correct_answer":   {Type: genai.TypeString},
				"is_correct":       {Type: genai.TypeBoolean},
				"explanation":      {Type: genai.TypeString},
			},
			Required: []string{"question_number", "extracted_answer", "is_correct"},
		},
	}
}

// Extraction builds the grading instruction carrying the question and
// correct-answer context for an uploaded answer artifact.
func Extraction(paper models.Paper) (string, error) {
	type questionContext struct {
		QuestionNumber models.QuestionNumber `json:"question_number"`
		Question       string                `json:"question"`
		Answer         string                `json:"answer"`
	}
	ctx := make([]questionContext, 0, len(paper))
	for _, q := range paper {
		ctx = append(ctx, questionContext{
			QuestionNumber: q.QuestionNumber,
			Question:       q.Question,
			Answer:         q.Answer,
		})
	}
	encoded, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode question context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("I have an exam with the following questions:\n\n")
	sb.Write(encoded)
	sb.WriteString("\n\nThe attached document contains handwritten or typed answers to these questions.\n")
	sb.WriteString("Extract the answers from the document and match them to the questions.\n")
	sb.WriteString("For every question return the extracted answer, whether it matches the correct answer, ")
	sb.WriteString("and a short explanation of your judgement.\n")
	sb.WriteString(`If you can't find an answer for a question, use an empty string for "extracted_answer" and set "is_correct" to false.`)
	sb.WriteString("\n")
	return sb.String(), nil
}
