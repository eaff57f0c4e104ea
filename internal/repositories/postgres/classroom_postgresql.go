package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/cache"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type classroomRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewClassroomPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.ClassroomRepository {
	return &classroomRepository{db: db, cache: cm}
}

func (r *classroomRepository) Create(ctx context.Context, tx *gorm.DB, classroom *models.Classroom) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(classroom).Error; err != nil {
		return handleDBError(err, "create classroom")
	}
	return nil
}

func (r *classroomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Classroom, error) {
	// Cache only on the untransacted read path
	if tx == nil && r.cache != nil {
		var cached models.Classroom
		if err := r.cache.Classroom.Get(ctx, fmt.Sprintf("id:%d", id), &cached); err == nil {
			return &cached, nil
		}
	}

	db := getDB(r.db, tx)
	var classroom models.Classroom
	if err := db.WithContext(ctx).
		Preload("Owner").
		First(&classroom, id).Error; err != nil {
		return nil, handleDBError(err, "get classroom by id")
	}

	if tx == nil && r.cache != nil {
		_ = r.cache.Classroom.Set(ctx, fmt.Sprintf("id:%d", id), &classroom, cache.ClassroomCacheConfig.TTL)
	}
	return &classroom, nil
}

func (r *classroomRepository) GetByJoinCode(ctx context.Context, tx *gorm.DB, code string) (*models.Classroom, error) {
	db := getDB(r.db, tx)
	var classroom models.Classroom
	if err := db.WithContext(ctx).
		Where("join_code = ?", code).
		First(&classroom).Error; err != nil {
		return nil, handleDBError(err, "get classroom by join code")
	}
	return &classroom, nil
}

func (r *classroomRepository) GetByMember(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Classroom, error) {
	db := getDB(r.db, tx)
	var classrooms []*models.Classroom
	if err := db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.classroom_id = classrooms.id").
		Where("memberships.user_id = ?", userID).
		Preload("Owner").
		Order("classrooms.created_at DESC").
		Find(&classrooms).Error; err != nil {
		return nil, handleDBError(err, "get classrooms by member")
	}
	return classrooms, nil
}

func (r *classroomRepository) ExistsByJoinCode(ctx context.Context, tx *gorm.DB, code string) (bool, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Classroom{}).
		Where("join_code = ?", code).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check join code exists")
	}
	return count > 0, nil
}

func (r *classroomRepository) Update(ctx context.Context, tx *gorm.DB, classroom *models.Classroom) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(classroom).Error; err != nil {
		return handleDBError(err, "update classroom")
	}
	r.invalidate(ctx, classroom.ID)
	return nil
}

func (r *classroomRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Classroom{}, id).Error; err != nil {
		return handleDBError(err, "delete classroom")
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *classroomRepository) invalidate(ctx context.Context, id uint) {
	if r.cache != nil {
		cache.SafeDelete(ctx, r.cache.Classroom, fmt.Sprintf("id:%d", id))
	}
}
