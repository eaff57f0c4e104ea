package validator

import (
	"reflect"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/adityasasidhar/quizproject/internal/llm/prompts"
	"github.com/adityasasidhar/quizproject/internal/models"
)

// BusinessValidator handles domain rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateExamSpec checks a generation request beyond struct tags: school
// families need the full school parameter set, competitive families need a
// difficulty.
func (bv *BusinessValidator) ValidateExamSpec(spec models.ExamSpec) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(spec)...)

	if spec.Family.IsCompetitive() {
		if spec.Difficulty == "" {
			errors = append(errors, ValidationError{
				Field:   "difficulty",
				Message: "is required for competitive exam papers",
				Rule:    "business_logic",
			})
		}
		return errors
	}

	if spec.Family.IsSchool() {
		if !prompts.IsSchoolSubject(spec.Subject) {
			errors = append(errors, ValidationError{
				Field:   "subject",
				Message: "is not a recognized school subject",
				Value:   spec.Subject,
				Rule:    "school_subject",
			})
		}
		if !prompts.IsSchoolGrade(spec.Grade) {
			errors = append(errors, ValidationError{
				Field:   "grade",
				Message: "must be a grade between 6 and 12",
				Value:   spec.Grade,
				Rule:    "school_grade",
			})
		}
		if !prompts.IsSchoolBoard(spec.Board) {
			errors = append(errors, ValidationError{
				Field:   "board",
				Message: "is not a recognized board",
				Value:   spec.Board,
				Rule:    "school_board",
			})
		}
		if spec.Language != "" && !prompts.IsSchoolLanguage(spec.Language) {
			errors = append(errors, ValidationError{
				Field:   "language",
				Message: "is not a recognized language",
				Value:   spec.Language,
				Rule:    "school_language",
			})
		}
	}

	return errors
}

// ValidateAssignmentCreate validates assignment creation business rules
func (bv *BusinessValidator) ValidateAssignmentCreate(req *AssignmentCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// The window must be ordered when both ends are set
	if req.OpensAt != nil && req.DueAt != nil && !req.OpensAt.Before(*req.DueAt) {
		errors = append(errors, ValidationError{
			Field:   "opens_at",
			Message: "must be before due_at",
			Value:   req.OpensAt,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateScoreOverride checks a manual grade adjustment
func (bv *BusinessValidator) ValidateScoreOverride(req *ScoreOverrideRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Score > req.Total {
		errors = append(errors, ValidationError{
			Field:   "score",
			Message: "cannot exceed total",
			Value:   req.Score,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Exam family must be one of the known paper kinds
	bv.validate.RegisterValidation("exam_family", func(fl validator.FieldLevel) bool {
		family := models.ExamFamily(fl.Field().String())
		return family.IsCompetitive() || family.IsSchool()
	})

	// School enumerations
	bv.validate.RegisterValidation("school_subject", func(fl validator.FieldLevel) bool {
		return prompts.IsSchoolSubject(fl.Field().String())
	})
	bv.validate.RegisterValidation("school_grade", func(fl validator.FieldLevel) bool {
		return prompts.IsSchoolGrade(fl.Field().String())
	})
	bv.validate.RegisterValidation("school_board", func(fl validator.FieldLevel) bool {
		return prompts.IsSchoolBoard(fl.Field().String())
	})
	bv.validate.RegisterValidation("school_language", func(fl validator.FieldLevel) bool {
		return prompts.IsSchoolLanguage(fl.Field().String())
	})

	// Join codes are 6 uppercase letters or digits
	bv.validate.RegisterValidation("join_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != models.JoinCodeLength {
			return false
		}
		for _, r := range code {
			if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	})

	// Optional timestamps that must lie in the future
	bv.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()

		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true
		}

		var ts time.Time
		if field.Kind() == reflect.Ptr {
			ts = field.Elem().Interface().(time.Time)
		} else {
			ts = field.Interface().(time.Time)
		}

		return ts.After(time.Now())
	})
}
