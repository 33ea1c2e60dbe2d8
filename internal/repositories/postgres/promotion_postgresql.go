package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
)

type PromotionPostgreSQL struct {
	db *gorm.DB
}

func NewPromotionPostgreSQL(db *gorm.DB) repositories.PromotionRepository {
	return &PromotionPostgreSQL{db: db}
}

func (p *PromotionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Create inserts a request. The partial unique index on pending requests
// surfaces as gorm.ErrDuplicatedKey.
func (p *PromotionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, request *models.PromotionRequest) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create promotion request: %w", normalizeError(err))
	}
	return nil
}

func (p *PromotionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PromotionRequest, error) {
	db := p.getDB(tx)
	var request models.PromotionRequest
	if err := db.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get promotion request %d: %w", id, err)
	}
	return &request, nil
}

func (p *PromotionPostgreSQL) HasPending(ctx context.Context, tx *gorm.DB, targetUserID uint) (bool, error) {
	db := p.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.PromotionRequest{}).
		Where("target_user_id = ? AND status = ?", targetUserID, string(models.PromotionPending)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check pending promotions: %w", err)
	}
	return count > 0, nil
}

// Resolve is a compare-and-set on status = pending, so of two concurrent
// resolvers exactly one sees true
func (p *PromotionPostgreSQL) Resolve(ctx context.Context, tx *gorm.DB, id, approverID uint, status models.PromotionStatus, now time.Time) (bool, error) {
	db := p.getDB(tx)

	result := db.WithContext(ctx).
		Model(&models.PromotionRequest{}).
		Where("id = ? AND status = ?", id, string(models.PromotionPending)).
		Updates(map[string]interface{}{
			"status":      string(status),
			"approved_by": approverID,
			"resolved_at": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to resolve promotion request %d: %w", id, result.Error)
	}

	return result.RowsAffected == 1, nil
}

// ListPending returns pending requests newest first, joined with both users
func (p *PromotionPostgreSQL) ListPending(ctx context.Context, tx *gorm.DB) ([]models.PendingPromotion, error) {
	db := p.getDB(tx)
	var rows []models.PendingPromotion

	if err := db.WithContext(ctx).
		Table("promotion_requests AS pr").
		Select(`pr.id, pr.target_user_id, t.username AS target_username, t.email AS target_email,
			t.role AS target_role, pr.requested_by, r.username AS requester_username, pr.created_at`).
		Joins("JOIN users t ON t.id = pr.target_user_id").
		Joins("JOIN users r ON r.id = pr.requested_by").
		Where("pr.status = ?", string(models.PromotionPending)).
		Order("pr.created_at DESC, pr.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending promotions: %w", err)
	}

	return rows, nil
}

func (p *PromotionPostgreSQL) ListByTarget(ctx context.Context, tx *gorm.DB, targetUserID uint) ([]models.PromotionRequest, error) {
	db := p.getDB(tx)
	var rows []models.PromotionRequest
	if err := db.WithContext(ctx).
		Where("target_user_id = ?", targetUserID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list promotion requests: %w", err)
	}
	return rows, nil
}
