package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type streamRepository struct {
	db *gorm.DB
}

func NewStreamPostgreSQL(db *gorm.DB) repositories.StreamRepository {
	return &streamRepository{db: db}
}

func (r *streamRepository) CreatePost(ctx context.Context, tx *gorm.DB, post *models.Post) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return handleDBError(err, "create post")
	}
	return nil
}

func (r *streamRepository) GetPost(ctx context.Context, tx *gorm.DB, id uint) (*models.Post, error) {
	db := getDB(r.db, tx)
	var post models.Post
	if err := db.WithContext(ctx).
		Preload("Author").
		Preload("Comments").
		Preload("Comments.Author").
		Preload("Reactions").
		First(&post, id).Error; err != nil {
		return nil, handleDBError(err, "get post")
	}
	return &post, nil
}

func (r *streamRepository) GetPostsByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Post, error) {
	db := getDB(r.db, tx)
	var posts []*models.Post
	if err := db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Preload("Author").
		Preload("Comments").
		Preload("Comments.Author").
		Preload("Reactions").
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, handleDBError(err, "get posts by classroom")
	}
	return posts, nil
}

func (r *streamRepository) DeletePost(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return handleDBError(err, "delete post")
	}
	return nil
}

func (r *streamRepository) CreateComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(comment).Error; err != nil {
		return handleDBError(err, "create comment")
	}
	return nil
}

// UpsertReaction keeps one reaction per (post, user). Re-reacting with a
// different emoji replaces the old one.
func (r *streamRepository) UpsertReaction(ctx context.Context, tx *gorm.DB, reaction *models.Reaction) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"emoji"}),
	}).Create(reaction).Error; err != nil {
		return handleDBError(err, "upsert reaction")
	}
	return nil
}

func (r *streamRepository) DeleteReaction(ctx context.Context, tx *gorm.DB, postID, userID uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Reaction{}).Error; err != nil {
		return handleDBError(err, "delete reaction")
	}
	return nil
}
