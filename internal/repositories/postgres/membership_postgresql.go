package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipPostgreSQL(db *gorm.DB) repositories.MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, tx *gorm.DB, membership *models.Membership) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(membership).Error; err != nil {
		return handleDBError(err, "create membership")
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, tx *gorm.DB, classroomID, userID uint) (*models.Membership, error) {
	db := getDB(r.db, tx)
	var membership models.Membership
	if err := db.WithContext(ctx).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		First(&membership).Error; err != nil {
		return nil, handleDBError(err, "get membership")
	}
	return &membership, nil
}

func (r *membershipRepository) GetByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Membership, error) {
	db := getDB(r.db, tx)
	var memberships []*models.Membership
	if err := db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Preload("User").
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, handleDBError(err, "get memberships by classroom")
	}
	return memberships, nil
}

func (r *membershipRepository) GetStudents(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Membership, error) {
	db := getDB(r.db, tx)
	var memberships []*models.Membership
	if err := db.WithContext(ctx).
		Where("classroom_id = ? AND role = ?", classroomID, models.RoleStudent).
		Preload("User").
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, handleDBError(err, "get student memberships")
	}
	return memberships, nil
}

func (r *membershipRepository) Exists(ctx context.Context, tx *gorm.DB, classroomID, userID uint) (bool, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check membership exists")
	}
	return count > 0, nil
}

func (r *membershipRepository) Delete(ctx context.Context, tx *gorm.DB, classroomID, userID uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		Delete(&models.Membership{}).Error; err != nil {
		return handleDBError(err, "delete membership")
	}
	return nil
}
