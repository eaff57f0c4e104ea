package models

import (
	"encoding/json"
	"testing"
)

func TestQuestionNumberDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "integer", input: `7`, want: 7},
		{name: "numeric string", input: `"12"`, want: 12},
		{name: "padded string", input: `" 3 "`, want: 3},
		{name: "non-numeric string", input: `"three"`, wantErr: true},
		{name: "object", input: `{"n":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n QuestionNumber
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected decode error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if int(n) != tt.want {
				t.Errorf("got %d, want %d", n, tt.want)
			}
		})
	}
}

func TestQuestionNumberEncode(t *testing.T) {
	out, err := json.Marshal(QuestionNumber(5))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "5" {
		t.Errorf("got %s, want 5", out)
	}
}

func TestPaperValidate(t *testing.T) {
	valid := func() Paper {
		return Paper{
			{QuestionNumber: 1, Question: "What is 2+2?", Answer: "4"},
			{QuestionNumber: 2, Question: "Chemical formula of water?", Answer: "H2O"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(Paper) Paper
		wantErr bool
	}{
		{name: "valid", mutate: func(p Paper) Paper { return p }},
		{name: "empty paper", mutate: func(Paper) Paper { return Paper{} }, wantErr: true},
		{name: "zero question number", mutate: func(p Paper) Paper { p[0].QuestionNumber = 0; return p }, wantErr: true},
		{name: "duplicate numbers", mutate: func(p Paper) Paper { p[1].QuestionNumber = 1; return p }, wantErr: true},
		{name: "blank question", mutate: func(p Paper) Paper { p[0].Question = "   "; return p }, wantErr: true},
		{name: "blank answer", mutate: func(p Paper) Paper { p[1].Answer = ""; return p }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid()).Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExamFamilyKind(t *testing.T) {
	for _, f := range []ExamFamily{JEEMains, JEEAdvanced, NEETUG} {
		if !f.IsCompetitive() || f.IsSchool() {
			t.Errorf("%s should be competitive only", f)
		}
	}
	for _, f := range []ExamFamily{SchoolQuiz, SchoolTest} {
		if f.IsCompetitive() || !f.IsSchool() {
			t.Errorf("%s should be school only", f)
		}
	}
	if ExamFamily("OLYMPIAD").IsCompetitive() {
		t.Error("unknown family treated as competitive")
	}
}
