package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type UpdateProfileRequest = validator.UpdateProfileRequest
type ChangePasswordRequest = validator.ChangePasswordRequest
type CreateTreeRequest = validator.CreateTreeRequest
type CreateNodeRequest = validator.CreateNodeRequest
type SubmitRequest = validator.SubmitRequest
type ReviewRequest = validator.ReviewRequest

// ===== IDENTITY =====

type IdentityService interface {
	// Authentication
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// Lookups
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Roles. UpdateRole is the raw store operation; AssignRole applies the
	// direct assignment rules for a calling admin.
	UpdateRole(ctx context.Context, id uint, role models.UserRole) (bool, error)
	AssignRole(ctx context.Context, callerID, targetID uint, role models.UserRole) (*models.User, error)

	// Account management
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id uint, req *ChangePasswordRequest) error
}

// ===== PROGRESS LEDGER =====

type ProgressService interface {
	// Reads
	GetByUser(ctx context.Context, userID uint) ([]models.ProgressDetail, error)
	GetByUserAndNode(ctx context.Context, userID, nodeID uint) (*models.SkillProgress, error)
	GetPendingReviews(ctx context.Context) ([]models.PendingReview, error)
	GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error)

	// Transitions
	UnlockNode(ctx context.Context, userID, nodeID uint) (*models.SkillProgress, error)
	StartNode(ctx context.Context, userID, nodeID uint) (*models.SkillProgress, error)
	SubmitNode(ctx context.Context, userID, nodeID uint, req *SubmitRequest) (*models.SkillProgress, error)
	ReviewSubmission(ctx context.Context, progressID, reviewerID uint, req *ReviewRequest) (*models.SkillProgress, error)
}

// ===== PROMOTION WORKFLOW =====

type PromotionService interface {
	RequestPromotion(ctx context.Context, targetUserID, requesterID uint) (*models.PromotionRequest, error)
	GetPendingPromotions(ctx context.Context) ([]models.PendingPromotion, error)
	ResolvePromotion(ctx context.Context, requestID, approverID uint, approve bool) (*models.PromotionRequest, error)
}

// ===== AGGREGATION =====

// AggregationService is read only and always computed from the ledger
type AggregationService interface {
	GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error)
	GetGradebook(ctx context.Context) ([]models.GradebookRow, error)
	GetAllStudentStats(ctx context.Context) ([]models.StudentStats, error)
	GetTreeProgress(ctx context.Context, userID, treeID uint) (*models.TreeProgress, error)
	GetUserDashboard(ctx context.Context, userID uint) (*models.Dashboard, error)
	GetStudentPoints(ctx context.Context, userID uint) (int64, error)
}

// ===== CATALOG =====

type CatalogService interface {
	ListTrees(ctx context.Context) ([]models.TreeSummary, error)
	GetTree(ctx context.Context, id uint) (*models.SkillTree, error)
	GetTreeWithNodes(ctx context.Context, id uint) (*models.TreeWithNodes, error)
	GetTreeWithProgress(ctx context.Context, userID, treeID uint) (*models.TreeWithProgress, error)

	// Admin only
	CreateTree(ctx context.Context, callerID uint, req *CreateTreeRequest) (*models.SkillTree, error)
	CreateNode(ctx context.Context, callerID uint, req *CreateNodeRequest) (*models.SkillNode, error)
}

// ===== IMPORT/EXPORT =====

type ImportExportService interface {
	// ExportGradebook writes an XLSX workbook with Summary and Gradebook sheets
	ExportGradebook(ctx context.Context, w io.Writer) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Identity() IdentityService
	Progress() ProgressService
	Promotion() PromotionService
	Aggregation() AggregationService
	Catalog() CatalogService

	// Additional service getters
	ImportExport() ImportExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
