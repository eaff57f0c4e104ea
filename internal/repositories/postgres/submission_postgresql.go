package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Upsert relies on the unique index over (assignment_id, user_id). A
// resubmission replaces the stored score and details wholesale.
func (r *submissionRepository) Upsert(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "total", "percentage", "details", "late", "submitted_at", "updated_at",
		}),
	}).Create(submission).Error; err != nil {
		return handleDBError(err, "upsert submission")
	}
	return nil
}

func (r *submissionRepository) Get(ctx context.Context, tx *gorm.DB, assignmentID, userID uint) (*models.Submission, error) {
	db := getDB(r.db, tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		First(&submission).Error; err != nil {
		return nil, handleDBError(err, "get submission")
	}
	return &submission, nil
}

func (r *submissionRepository) GetByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Submission, error) {
	db := getDB(r.db, tx)
	var submissions []*models.Submission
	if err := db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Preload("User").
		Order("submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, handleDBError(err, "get submissions by assignment")
	}
	return submissions, nil
}

func (r *submissionRepository) GetByUserInClassroom(ctx context.Context, tx *gorm.DB, classroomID, userID uint) ([]*models.Submission, error) {
	db := getDB(r.db, tx)
	var submissions []*models.Submission
	if err := db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("assignments.classroom_id = ? AND submissions.user_id = ?", classroomID, userID).
		Order("submissions.submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, handleDBError(err, "get submissions by user in classroom")
	}
	return submissions, nil
}

func (r *submissionRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	db := getDB(r.db, tx)
	query := db.WithContext(ctx).Model(&models.Submission{})

	if filters.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filters.AssignmentID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Late != nil {
		query = query.Where("late = ?", *filters.Late)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count submissions")
	}

	var submissions []*models.Submission
	if err := applyPagination(query, filters.Pagination).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, 0, handleDBError(err, "list submissions")
	}
	return submissions, total, nil
}

func (r *submissionRepository) Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(submission).Error; err != nil {
		return handleDBError(err, "update submission")
	}
	return nil
}
