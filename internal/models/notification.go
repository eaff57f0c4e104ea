package models

import "time"

type NotificationKind string

const (
	NotificationAssignmentCreated NotificationKind = "assignment_created"
	NotificationDueSoon           NotificationKind = "due_soon"
)

type Notification struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	UserID       uint             `json:"user_id" gorm:"not null;index"`
	AssignmentID uint             `json:"assignment_id" gorm:"not null;index"`
	Kind         NotificationKind `json:"kind" gorm:"not null;index"`
	Message      string           `json:"message" gorm:"not null;type:text"`
	ReadAt       *time.Time       `json:"read_at"`
	CreatedAt    time.Time        `json:"created_at"`

	// Relations
	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Assignment Assignment `json:"-" gorm:"foreignKey:AssignmentID"`
}

func (Notification) TableName() string {
	return "notifications"
}
