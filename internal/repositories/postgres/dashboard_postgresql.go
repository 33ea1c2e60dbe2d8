package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== PER USER =====

// GetUserStats counts the user's existing records. Nodes without a record
// contribute nothing, so total_nodes is the record count.
func (r *dashboardRepository) GetUserStats(ctx context.Context, tx *gorm.DB, userID uint) (*models.UserStats, error) {
	db := r.getDB(tx)
	var stats models.UserStats

	if err := db.WithContext(ctx).
		Model(&models.SkillProgress{}).
		Select(`COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS unlocked,
			COUNT(*) AS total_nodes`,
			completedStatuses(), string(models.StatusInProgress), string(models.StatusUnlocked)).
		Where("user_id = ?", userID).
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return &stats, nil
}

func (r *dashboardRepository) GetEarnedPoints(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	db := r.getDB(tx)
	var points int64

	if err := db.WithContext(ctx).
		Table("skill_progress AS sp").
		Select("COALESCE(SUM(sn.points), 0)").
		Joins("JOIN skill_nodes sn ON sn.id = sp.skill_node_id").
		Where("sp.user_id = ? AND sp.status IN ?", userID, completedStatuses()).
		Scan(&points).Error; err != nil {
		return 0, fmt.Errorf("failed to get earned points: %w", err)
	}

	return points, nil
}

// GetTreeProgress uses the tree's catalog size as the denominator
func (r *dashboardRepository) GetTreeProgress(ctx context.Context, tx *gorm.DB, userID, treeID uint) (*models.TreeProgress, error) {
	db := r.getDB(tx)
	progress := models.TreeProgress{TreeID: treeID}

	if err := db.WithContext(ctx).
		Model(&models.SkillNode{}).
		Where("tree_id = ?", treeID).
		Count(&progress.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tree nodes: %w", err)
	}

	if err := db.WithContext(ctx).
		Table("skill_progress AS sp").
		Joins("JOIN skill_nodes sn ON sn.id = sp.skill_node_id").
		Where("sp.user_id = ? AND sn.tree_id = ? AND sp.status IN ?", userID, treeID, completedStatuses()).
		Count(&progress.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed tree nodes: %w", err)
	}

	return &progress, nil
}

func (r *dashboardRepository) ListTrees(ctx context.Context, tx *gorm.DB) ([]models.SkillTree, error) {
	db := r.getDB(tx)
	var trees []models.SkillTree
	if err := db.WithContext(ctx).Order("display_order, name").Find(&trees).Error; err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	return trees, nil
}

// ===== GRADEBOOK =====

// GetGradebook returns one row per (student, catalog node). Students with
// no record for a node get a row with a nil status.
func (r *dashboardRepository) GetGradebook(ctx context.Context, tx *gorm.DB) ([]models.GradebookRow, error) {
	db := r.getDB(tx)
	var rows []models.GradebookRow

	query := `
		SELECT u.id AS user_id, u.username, u.email, u.hacker_name,
			st.id AS tree_id, st.name AS tree_name,
			sn.id AS node_id, sn.title AS node_title, sn.level AS node_level, sn.points AS max_points,
			sp.status, sp.submission_payload, sp.submitted_at, sp.review_notes, sp.reviewed_at
		FROM users u
		CROSS JOIN skill_nodes sn
		JOIN skill_trees st ON st.id = sn.tree_id
		LEFT JOIN skill_progress sp ON sp.user_id = u.id AND sp.skill_node_id = sn.id
		WHERE u.role = ?
		ORDER BY u.username, st.display_order, st.name, sn.level, sn.id`

	if err := db.WithContext(ctx).Raw(query, string(models.RoleStudent)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build gradebook: %w", err)
	}

	return rows, nil
}

// GetAllStudentStats returns one summary per student, zeros included
func (r *dashboardRepository) GetAllStudentStats(ctx context.Context, tx *gorm.DB) ([]models.StudentStats, error) {
	db := r.getDB(tx)
	var rows []models.StudentStats

	query := `
		SELECT u.id AS user_id, u.username, u.hacker_name, u.email,
			COALESCE(SUM(CASE WHEN sp.status IN ? THEN 1 ELSE 0 END), 0) AS completed_nodes,
			COALESCE(SUM(CASE WHEN sp.status = ? THEN 1 ELSE 0 END), 0) AS in_progress_nodes,
			COUNT(sp.id) AS total_started,
			COALESCE(SUM(CASE WHEN sp.status IN ? THEN sn.points ELSE 0 END), 0) AS earned_points
		FROM users u
		LEFT JOIN skill_progress sp ON sp.user_id = u.id
		LEFT JOIN skill_nodes sn ON sn.id = sp.skill_node_id
		WHERE u.role = ?
		GROUP BY u.id, u.username, u.hacker_name, u.email
		ORDER BY u.username`

	if err := db.WithContext(ctx).
		Raw(query, completedStatuses(), string(models.StatusInProgress), completedStatuses(), string(models.RoleStudent)).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get student stats: %w", err)
	}

	return rows, nil
}
