package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/repositories"
)

// getDB prefers the transaction handle when one is active.
func getDB(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// handleDBError normalizes gorm errors to the repository error contract.
func handleDBError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func applyPagination(query *gorm.DB, p repositories.Pagination) *gorm.DB {
	if p.Limit > 0 {
		query = query.Limit(p.Limit)
	}
	if p.Offset > 0 {
		query = query.Offset(p.Offset)
	}
	return query
}
