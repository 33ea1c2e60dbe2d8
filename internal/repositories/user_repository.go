package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

// UserRepository interface for identity records
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error

	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)

	// Updates report whether a row was changed
	UpdateRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) (bool, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, id uint, email, hackerName *string) (bool, error)
	UpdatePasswordHash(ctx context.Context, tx *gorm.DB, id uint, hash string) (bool, error)

	ExistsByUsernameOrEmail(ctx context.Context, tx *gorm.DB, username, email string) (bool, error)
}
