package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LatePolicy string

const (
	LateAllow LatePolicy = "allow"
	LateBlock LatePolicy = "block"
)

// AssignmentState is derived from (OpensAt, DueAt, LatePolicy) against a
// point in time; it is never stored.
type AssignmentState string

const (
	AssignmentNotYetOpen  AssignmentState = "not_yet_open"
	AssignmentOpen        AssignmentState = "open"
	AssignmentLateAllowed AssignmentState = "late_allowed"
	AssignmentClosed      AssignmentState = "closed"
)

type Assignment struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ClassroomID uint    `json:"classroom_id" gorm:"not null;index"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Reference to the generated paper artifact on disk.
	PaperPath string `json:"paper_path" gorm:"not null;size:500"`

	OpensAt    *time.Time `json:"opens_at"`
	DueAt      *time.Time `json:"due_at"`
	LatePolicy LatePolicy `json:"late_policy" gorm:"not null;default:allow" validate:"omitempty,oneof=allow block"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Classroom   Classroom    `json:"-" gorm:"foreignKey:ClassroomID"`
	Creator     User         `json:"creator" gorm:"foreignKey:CreatedBy"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`

	// Computed fields (not stored)
	SubmissionCount int     `json:"submission_count" gorm:"-"`
	AverageScore    float64 `json:"average_score" gorm:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// StateAt derives the assignment's scheduling state at the given time.
func (a *Assignment) StateAt(now time.Time) AssignmentState {
	if a.OpensAt != nil && now.Before(*a.OpensAt) {
		return AssignmentNotYetOpen
	}
	if a.DueAt == nil || !now.After(*a.DueAt) {
		return AssignmentOpen
	}
	if a.LatePolicy == LateAllow {
		return AssignmentLateAllowed
	}
	return AssignmentClosed
}

type Submission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;uniqueIndex:idx_assignment_user"`
	UserID       uint `json:"user_id" gorm:"not null;uniqueIndex:idx_assignment_user;index"`

	Score      int     `json:"score" gorm:"not null"`
	Total      int     `json:"total" gorm:"not null"`
	Percentage float64 `json:"percentage" gorm:"not null"`

	// Per-question results as returned by the scoring service.
	Details datatypes.JSON `json:"details" gorm:"type:jsonb"`

	Late        bool      `json:"late" gorm:"not null;default:false"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assignment Assignment `json:"-" gorm:"foreignKey:AssignmentID"`
	User       User       `json:"user" gorm:"foreignKey:UserID"`
}

func (Submission) TableName() string {
	return "submissions"
}
