package models

import (
	"time"

	"gorm.io/gorm"
)

// JoinCodeLength is the fixed length of classroom join codes.
const JoinCodeLength = 6

type Classroom struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	JoinCode    string  `json:"join_code" gorm:"uniqueIndex;not null;size:6"`
	OwnerID     uint    `json:"owner_id" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Owner       User         `json:"owner" gorm:"foreignKey:OwnerID"`
	Memberships []Membership `json:"memberships,omitempty" gorm:"foreignKey:ClassroomID"`
	Assignments []Assignment `json:"assignments,omitempty" gorm:"foreignKey:ClassroomID"`

	// Computed fields (not stored)
	StudentCount    int `json:"student_count" gorm:"-"`
	AssignmentCount int `json:"assignment_count" gorm:"-"`
}

func (Classroom) TableName() string {
	return "classrooms"
}

type Membership struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	ClassroomID uint     `json:"classroom_id" gorm:"not null;uniqueIndex:idx_classroom_user"`
	UserID      uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_classroom_user;index"`
	Role        UserRole `json:"role" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Classroom Classroom `json:"-" gorm:"foreignKey:ClassroomID"`
	User      User      `json:"user" gorm:"foreignKey:UserID"`
}

func (Membership) TableName() string {
	return "memberships"
}
