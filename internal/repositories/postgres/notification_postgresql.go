package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(notification).Error; err != nil {
		return handleDBError(err, "create notification")
	}
	return nil
}

func (r *notificationRepository) CreateBatch(ctx context.Context, tx *gorm.DB, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(&notifications).Error; err != nil {
		return handleDBError(err, "create notifications batch")
	}
	return nil
}

func (r *notificationRepository) Exists(ctx context.Context, tx *gorm.DB, userID, assignmentID uint, kind models.NotificationKind) (bool, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND assignment_id = ? AND kind = ?", userID, assignmentID, kind).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check notification exists")
	}
	return count > 0, nil
}

func (r *notificationRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	db := getDB(r.db, tx)
	query := db.WithContext(ctx).Model(&models.Notification{})

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.Unread {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count notifications")
	}

	var notifications []*models.Notification
	if err := applyPagination(query, filters.Pagination).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, 0, handleDBError(err, "list notifications")
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return handleDBError(result.Error, "mark notification read")
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
