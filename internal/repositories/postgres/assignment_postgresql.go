package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/cache"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type assignmentRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewAssignmentPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.AssignmentRepository {
	return &assignmentRepository{db: db, cache: cm}
}

func (r *assignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(assignment).Error; err != nil {
		return handleDBError(err, "create assignment")
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	if tx == nil && r.cache != nil {
		var cached models.Assignment
		if err := r.cache.Assignment.Get(ctx, fmt.Sprintf("id:%d", id), &cached); err == nil {
			return &cached, nil
		}
	}

	db := getDB(r.db, tx)
	var assignment models.Assignment
	if err := db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, handleDBError(err, "get assignment by id")
	}

	if tx == nil && r.cache != nil {
		_ = r.cache.Assignment.Set(ctx, fmt.Sprintf("id:%d", id), &assignment, cache.AssignmentCacheConfig.TTL)
	}
	return &assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	db := getDB(r.db, tx)
	query := db.WithContext(ctx).Model(&models.Assignment{})

	if filters.ClassroomID != nil {
		query = query.Where("classroom_id = ?", *filters.ClassroomID)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DueBefore != nil {
		query = query.Where("due_at IS NOT NULL AND due_at < ?", *filters.DueBefore)
	}
	if filters.DueAfter != nil {
		query = query.Where("due_at IS NOT NULL AND due_at > ?", *filters.DueAfter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count assignments")
	}

	var assignments []*models.Assignment
	if err := applyPagination(query, filters.Pagination).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, 0, handleDBError(err, "list assignments")
	}
	return assignments, total, nil
}

func (r *assignmentRepository) GetByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Assignment, error) {
	db := getDB(r.db, tx)
	var assignments []*models.Assignment
	if err := db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, handleDBError(err, "get assignments by classroom")
	}
	return assignments, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Assignment{}, id).Error; err != nil {
		return handleDBError(err, "delete assignment")
	}
	if r.cache != nil {
		cache.SafeDelete(ctx, r.cache.Assignment, fmt.Sprintf("id:%d", id))
	}
	return nil
}
