package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/skilltree-service/internal/auth"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

type identityService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
	verifier  auth.CredentialVerifier
	clock     Clock
}

func NewIdentityService(repo repositories.Repository, logger utils.Logger, validator *validator.Validator, verifier auth.CredentialVerifier, clock Clock) IdentityService {
	return &identityService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		verifier:  verifier,
		clock:     clock,
	}
}

// ===== AUTHENTICATION =====

// Authenticate never reveals whether the username or the password was wrong
func (s *identityService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, strings.TrimSpace(username))
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.verifier.Verify(user.PasswordHash, password)
	if err != nil {
		s.logger.Warn("Stored credential could not be verified", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials.Wrap("authenticate", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ===== LOOKUPS =====

func (s *identityService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return loadUser(ctx, s.repo, id, "find user")
}

func (s *identityService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound.Wrap("find user", err)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (s *identityService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, _, err := s.repo.User().List(ctx, nil, repositories.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ===== ROLES =====

// UpdateRole returns false when no user has the given id. It has no effect
// on ledger records or promotion requests.
func (s *identityService) UpdateRole(ctx context.Context, id uint, role models.UserRole) (bool, error) {
	if !role.IsValid() {
		return false, ErrInvalidRole
	}

	updated, err := s.repo.User().UpdateRole(ctx, nil, id, role)
	if err != nil {
		return false, fmt.Errorf("failed to update role: %w", err)
	}
	return updated, nil
}

// AssignRole lets an admin set another user's role to student or
// instructor. Admin is only reachable through the promotion workflow.
func (s *identityService) AssignRole(ctx context.Context, callerID, targetID uint, role models.UserRole) (*models.User, error) {
	s.logger.Info("Assigning role", "caller_id", callerID, "target_id", targetID, "role", role)

	if _, err := requireAdmin(ctx, s.repo, callerID, "assign role"); err != nil {
		return nil, err
	}
	if targetID == callerID {
		return nil, ErrSelfRoleChange
	}
	if role == models.RoleAdmin {
		return nil, ErrAdminPromotionRequiresWorkflow
	}
	if role != models.RoleStudent && role != models.RoleInstructor {
		return nil, ErrInvalidRole
	}

	if _, err := loadUser(ctx, s.repo, targetID, "assign role"); err != nil {
		return nil, err
	}

	updated, err := s.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrUserNotFound
	}

	s.logger.Info("Role assigned", "target_id", targetID, "role", role)
	return loadUser(ctx, s.repo, targetID, "assign role")
}

// ===== ACCOUNT MANAGEMENT =====

func (s *identityService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := s.validator.ValidateRegister(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	exists, err := s.repo.User().ExistsByUsernameOrEmail(ctx, nil, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		HackerName:   req.HackerName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateUser.Wrap("register", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *identityService) UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) (*models.User, error) {
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	if _, err := loadUser(ctx, s.repo, id, "update profile"); err != nil {
		return nil, err
	}

	if _, err := s.repo.User().UpdateProfile(ctx, nil, id, req.Email, req.HackerName); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateUser.Wrap("update profile", err)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return loadUser(ctx, s.repo, id, "update profile")
}

func (s *identityService) ChangePassword(ctx context.Context, id uint, req *ChangePasswordRequest) error {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return newValidationError(errs)
	}

	user, err := loadUser(ctx, s.repo, id, "change password")
	if err != nil {
		return err
	}

	ok, err := s.verifier.Verify(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return ErrInvalidCredentials.Wrap("change password", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := s.verifier.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if _, err := s.repo.User().UpdatePasswordHash(ctx, nil, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", id, "at", s.clock.Now().Format(time.RFC3339))
	return nil
}
