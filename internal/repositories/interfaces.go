package repositories

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches username, email or alias
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED WRITE STRUCTS =====

// SubmissionWrite is the payload written by a Submit transition
type SubmissionWrite struct {
	Payload datatypes.JSON
	Notes   *string
}

// ReviewWrite is the payload written by a Review transition
type ReviewWrite struct {
	ReviewerID uint
	Notes      string
	Status     models.ProgressStatus
}

// ===== CATALOG =====

// SkillTreeRepository covers trees and nodes. Reads are served through the
// catalog cache.
type SkillTreeRepository interface {
	CreateTree(ctx context.Context, tx *gorm.DB, tree *models.SkillTree) error
	CreateNode(ctx context.Context, tx *gorm.DB, node *models.SkillNode) error

	GetTreeByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SkillTree, error)
	GetTreeByName(ctx context.Context, tx *gorm.DB, name string) (*models.SkillTree, error)
	ListTrees(ctx context.Context, tx *gorm.DB) ([]models.TreeSummary, error)

	GetNodeByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SkillNode, error)
	ListNodesByTree(ctx context.Context, tx *gorm.DB, treeID uint) ([]models.SkillNode, error)
	CountNodes(ctx context.Context, tx *gorm.DB) (int64, error)
}

// ===== LEDGER =====

// ProgressRepository persists ledger records. Unlock, Start and Submit are
// single insert-or-update statements keyed by (user_id, skill_node_id).
type ProgressRepository interface {
	Unlock(ctx context.Context, tx *gorm.DB, userID, nodeID uint, now time.Time) (*models.SkillProgress, error)
	Start(ctx context.Context, tx *gorm.DB, userID, nodeID uint, now time.Time) (*models.SkillProgress, error)
	Submit(ctx context.Context, tx *gorm.DB, userID, nodeID uint, submission SubmissionWrite, now time.Time) (*models.SkillProgress, error)

	// Review returns false when no record has the given id
	Review(ctx context.Context, tx *gorm.DB, id uint, review ReviewWrite, now time.Time) (bool, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SkillProgress, error)
	GetByUserAndNode(ctx context.Context, tx *gorm.DB, userID, nodeID uint) (*models.SkillProgress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.ProgressDetail, error)
	ListByUserAndTree(ctx context.Context, tx *gorm.DB, userID, treeID uint) ([]models.SkillProgress, error)
	ListPendingReviews(ctx context.Context, tx *gorm.DB) ([]models.PendingReview, error)
}

// ===== PROMOTION WORKFLOW =====

type PromotionRepository interface {
	// Create fails with gorm.ErrDuplicatedKey when the target already has a
	// pending request
	Create(ctx context.Context, tx *gorm.DB, request *models.PromotionRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.PromotionRequest, error)
	HasPending(ctx context.Context, tx *gorm.DB, targetUserID uint) (bool, error)

	// Resolve flips a pending request; false means it was not pending
	Resolve(ctx context.Context, tx *gorm.DB, id, approverID uint, status models.PromotionStatus, now time.Time) (bool, error)

	ListPending(ctx context.Context, tx *gorm.DB) ([]models.PendingPromotion, error)
	ListByTarget(ctx context.Context, tx *gorm.DB, targetUserID uint) ([]models.PromotionRequest, error)
}
