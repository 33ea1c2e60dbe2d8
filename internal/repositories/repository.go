package repositories

import "context"

// Repository groups every repository behind one handle
type Repository interface {
	// Identity
	User() UserRepository

	// Catalog
	SkillTree() SkillTreeRepository

	// Ledger
	Progress() ProgressRepository

	// Promotion workflow
	Promotion() PromotionRepository

	// Read-only aggregates over the ledger
	Dashboard() DashboardRepository

	// Transaction support. The Repository passed to fn is bound to the
	// transaction; its methods may be called with a nil tx.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
