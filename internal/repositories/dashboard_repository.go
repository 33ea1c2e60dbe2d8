package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

// DashboardRepository computes aggregates straight from the ledger. Nothing
// here is cached.
type DashboardRepository interface {
	// Counts over the user's existing records only
	GetUserStats(ctx context.Context, tx *gorm.DB, userID uint) (*models.UserStats, error)

	// Every student crossed with every catalog node
	GetGradebook(ctx context.Context, tx *gorm.DB) ([]models.GradebookRow, error)

	// One row per student, including students with no records
	GetAllStudentStats(ctx context.Context, tx *gorm.DB) ([]models.StudentStats, error)
	GetEarnedPoints(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)

	// Completed records in the tree over the tree's catalog size
	GetTreeProgress(ctx context.Context, tx *gorm.DB, userID, treeID uint) (*models.TreeProgress, error)

	// Trees in display order, read from the database rather than the catalog cache
	ListTrees(ctx context.Context, tx *gorm.DB) ([]models.SkillTree, error)
}
