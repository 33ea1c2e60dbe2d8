package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

var progressConflictColumns = []clause.Column{{Name: "user_id"}, {Name: "skill_node_id"}}

// upsert inserts row or applies set to the existing (user, node) record in
// one statement, then reads back the resulting record
func (p *ProgressPostgreSQL) upsert(ctx context.Context, db *gorm.DB, row *models.SkillProgress, set clause.Set) (*models.SkillProgress, error) {
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: progressConflictColumns, DoUpdates: set}).
		Create(row).Error; err != nil {
		return nil, normalizeError(err)
	}

	return p.GetByUserAndNode(ctx, db, row.UserID, row.SkillNodeID)
}

// Unlock creates an unlocked record or advances a locked one. Any other
// status is left untouched.
func (p *ProgressPostgreSQL) Unlock(ctx context.Context, tx *gorm.DB, userID, nodeID uint, now time.Time) (*models.SkillProgress, error) {
	db := p.getDB(tx)

	locked, unlocked := string(models.StatusLocked), string(models.StatusUnlocked)
	set := clause.Set{
		{
			Column: clause.Column{Name: "status"},
			Value:  gorm.Expr("CASE WHEN skill_progress.status = ? THEN ? ELSE skill_progress.status END", locked, unlocked),
		},
		{
			Column: clause.Column{Name: "updated_at"},
			Value:  gorm.Expr("CASE WHEN skill_progress.status = ? THEN ? ELSE skill_progress.updated_at END", locked, now),
		},
	}

	record, err := p.upsert(ctx, db, &models.SkillProgress{
		UserID:      userID,
		SkillNodeID: nodeID,
		Status:      models.StatusUnlocked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, set)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock node: %w", err)
	}
	return record, nil
}

// Start moves the record to in_progress whatever its current status
func (p *ProgressPostgreSQL) Start(ctx context.Context, tx *gorm.DB, userID, nodeID uint, now time.Time) (*models.SkillProgress, error) {
	db := p.getDB(tx)

	record, err := p.upsert(ctx, db, &models.SkillProgress{
		UserID:      userID,
		SkillNodeID: nodeID,
		Status:      models.StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, clause.AssignmentColumns([]string{"status", "updated_at"}))
	if err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}
	return record, nil
}

// Submit marks the record completed and replaces the previous submission
func (p *ProgressPostgreSQL) Submit(ctx context.Context, tx *gorm.DB, userID, nodeID uint, submission repositories.SubmissionWrite, now time.Time) (*models.SkillProgress, error) {
	db := p.getDB(tx)

	record, err := p.upsert(ctx, db, &models.SkillProgress{
		UserID:          userID,
		SkillNodeID:     nodeID,
		Status:          models.StatusCompleted,
		Submission:      submission.Payload,
		SubmissionNotes: submission.Notes,
		SubmittedAt:     &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, clause.AssignmentColumns([]string{"status", "submission_payload", "submission_notes", "submitted_at", "updated_at"}))
	if err != nil {
		return nil, fmt.Errorf("failed to submit node: %w", err)
	}
	return record, nil
}

// Review stamps the reviewer and sets the status exactly as given
func (p *ProgressPostgreSQL) Review(ctx context.Context, tx *gorm.DB, id uint, review repositories.ReviewWrite, now time.Time) (bool, error) {
	db := p.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.SkillProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(review.Status),
			"reviewed_by":  review.ReviewerID,
			"review_notes": review.Notes,
			"reviewed_at":  now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to review progress %d: %w", id, result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (p *ProgressPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SkillProgress, error) {
	db := p.getDB(tx)
	var record models.SkillProgress
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get progress %d: %w", id, err)
	}
	return &record, nil
}

func (p *ProgressPostgreSQL) GetByUserAndNode(ctx context.Context, tx *gorm.DB, userID, nodeID uint) (*models.SkillProgress, error) {
	db := p.getDB(tx)
	var record models.SkillProgress
	if err := db.WithContext(ctx).
		Where("user_id = ? AND skill_node_id = ?", userID, nodeID).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to get progress for user %d node %d: %w", userID, nodeID, err)
	}
	return &record, nil
}

// ListByUser returns the user's records with node and tree details, in
// catalog order
func (p *ProgressPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.ProgressDetail, error) {
	db := p.getDB(tx)
	var rows []models.ProgressDetail

	if err := db.WithContext(ctx).
		Table("skill_progress AS sp").
		Select(`sp.id, sp.user_id, sp.skill_node_id, sp.status, sp.submission_payload, sp.submission_notes,
			sp.submitted_at, sp.reviewed_by, sp.review_notes, sp.reviewed_at,
			sn.title AS node_title, sn.level AS node_level, sn.points, st.id AS tree_id, st.name AS tree_name`).
		Joins("JOIN skill_nodes sn ON sn.id = sp.skill_node_id").
		Joins("JOIN skill_trees st ON st.id = sn.tree_id").
		Where("sp.user_id = ?", userID).
		Order("st.display_order, st.name, sn.level, sn.id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress for user %d: %w", userID, err)
	}

	return rows, nil
}

func (p *ProgressPostgreSQL) ListByUserAndTree(ctx context.Context, tx *gorm.DB, userID, treeID uint) ([]models.SkillProgress, error) {
	db := p.getDB(tx)
	var rows []models.SkillProgress

	if err := db.WithContext(ctx).
		Select("skill_progress.*").
		Joins("JOIN skill_nodes ON skill_nodes.id = skill_progress.skill_node_id").
		Where("skill_progress.user_id = ? AND skill_nodes.tree_id = ?", userID, treeID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress for tree %d: %w", treeID, err)
	}

	return rows, nil
}

// ListPendingReviews returns completed records, most recent submission first
func (p *ProgressPostgreSQL) ListPendingReviews(ctx context.Context, tx *gorm.DB) ([]models.PendingReview, error) {
	db := p.getDB(tx)
	var rows []models.PendingReview

	if err := db.WithContext(ctx).
		Table("skill_progress AS sp").
		Select(`sp.id AS progress_id, sp.user_id, u.username, u.hacker_name, sp.skill_node_id,
			sn.title AS node_title, sn.level AS node_level, st.name AS tree_name,
			sp.submission_payload, sp.submission_notes, sp.submitted_at`).
		Joins("JOIN users u ON u.id = sp.user_id").
		Joins("JOIN skill_nodes sn ON sn.id = sp.skill_node_id").
		Joins("JOIN skill_trees st ON st.id = sn.tree_id").
		Where("sp.status = ?", string(models.StatusCompleted)).
		Order("sp.submitted_at DESC, sp.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending reviews: %w", err)
	}

	return rows, nil
}
