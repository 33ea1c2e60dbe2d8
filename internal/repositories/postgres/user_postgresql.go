package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", normalizeError(err))
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// List returns users newest first
func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	db := u.getDB(tx)
	query := applyUserFilters(db.WithContext(ctx).Model(&models.User{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Order("created_at DESC, id DESC").
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (u *UserPostgreSQL) UpdateRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) (bool, error) {
	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update user role: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (u *UserPostgreSQL) UpdateProfile(ctx context.Context, tx *gorm.DB, id uint, email, hackerName *string) (bool, error) {
	db := u.getDB(tx)

	updates := map[string]interface{}{}
	if email != nil {
		updates["email"] = *email
	}
	if hackerName != nil {
		updates["hacker_name"] = *hackerName
	}
	if len(updates) == 0 {
		return false, nil
	}

	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update user profile: %w", normalizeError(result.Error))
	}
	return result.RowsAffected > 0, nil
}

func (u *UserPostgreSQL) UpdatePasswordHash(ctx context.Context, tx *gorm.DB, id uint, hash string) (bool, error) {
	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update password: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (u *UserPostgreSQL) ExistsByUsernameOrEmail(ctx context.Context, tx *gorm.DB, username, email string) (bool, error) {
	db := u.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
