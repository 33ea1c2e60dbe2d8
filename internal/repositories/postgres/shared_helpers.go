package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
)

const pgUniqueViolation = "23505"

// normalizeError maps driver-specific unique violations onto
// gorm.ErrDuplicatedKey for drivers opened without TranslateError
func normalizeError(err error) error {
	if err == nil || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", gorm.ErrDuplicatedKey, pgErr.ConstraintName)
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", gorm.ErrDuplicatedKey, err.Error())
	}

	return err
}

// completedStatuses are the statuses counted as completed and worth points
func completedStatuses() []string {
	return []string{string(models.StatusCompleted), string(models.StatusReviewed)}
}

// applyUserFilters applies common filters to user queries
func applyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(hacker_name, '')) LIKE ?", like, like, like)
	}
	return query
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
