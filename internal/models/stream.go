package models

import (
	"time"

	"gorm.io/gorm"
)

// Classroom stream entities. Plain CRUD; no business rules beyond membership
// and the teacher-only gate on posting.

type Post struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ClassroomID uint   `json:"classroom_id" gorm:"not null;index"`
	AuthorID    uint   `json:"author_id" gorm:"not null;index"`
	Body        string `json:"body" gorm:"not null;type:text" validate:"required,max=5000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author    User       `json:"author" gorm:"foreignKey:AuthorID"`
	Comments  []Comment  `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	Reactions []Reaction `json:"reactions,omitempty" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

type Comment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PostID   uint   `json:"post_id" gorm:"not null;index"`
	AuthorID uint   `json:"author_id" gorm:"not null;index"`
	Body     string `json:"body" gorm:"not null;type:text" validate:"required,max=2000"`

	CreatedAt time.Time `json:"created_at"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

func (Comment) TableName() string {
	return "comments"
}

type Reaction struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	PostID uint   `json:"post_id" gorm:"not null;uniqueIndex:idx_post_user_reaction"`
	UserID uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user_reaction"`
	Emoji  string `json:"emoji" gorm:"not null;size:16" validate:"required,max=16"`

	CreatedAt time.Time `json:"created_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}
