package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.userWithPassword(t, "alice", "s3cret!", models.RoleStudent)
	identity := env.services.Identity()

	user, err := identity.Authenticate(env.ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "alice", password: "nope"},
		{name: "unknown user", username: "mallory", password: "s3cret!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := identity.Authenticate(env.ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAssignRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", models.RoleAdmin)
	alice := env.user(t, "alice", models.RoleStudent)
	ivan := env.user(t, "ivan", models.RoleInstructor)
	identity := env.services.Identity()

	tests := []struct {
		name     string
		callerID uint
		targetID uint
		role     models.UserRole
		wantErr  error
		wantKind error
	}{
		{name: "non admin caller", callerID: ivan.ID, targetID: alice.ID, role: models.RoleInstructor, wantErr: ErrAdminRequired, wantKind: ErrForbidden},
		{name: "self change", callerID: admin.ID, targetID: admin.ID, role: models.RoleStudent, wantErr: ErrSelfRoleChange, wantKind: ErrForbidden},
		{name: "direct admin grant", callerID: admin.ID, targetID: alice.ID, role: models.RoleAdmin, wantErr: ErrAdminPromotionRequiresWorkflow, wantKind: ErrForbidden},
		{name: "unknown role", callerID: admin.ID, targetID: alice.ID, role: "root", wantErr: ErrInvalidRole, wantKind: ErrValidationFailed},
		{name: "missing target", callerID: admin.ID, targetID: 9999, role: models.RoleInstructor, wantErr: ErrUserNotFound, wantKind: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := identity.AssignRole(env.ctx, tt.callerID, tt.targetID, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}

	updated, err := identity.AssignRole(env.ctx, admin.ID, alice.ID, models.RoleInstructor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, updated.Role)
}

func TestUpdateRoleReportsMissingUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	identity := env.services.Identity()

	ok, err := identity.UpdateRole(env.ctx, alice.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = identity.UpdateRole(env.ctx, 4242, models.RoleInstructor)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = identity.UpdateRole(env.ctx, alice.ID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	identity := env.services.Identity()

	user, err := identity.Register(env.ctx, &RegisterRequest{
		Username:   "alice",
		Email:      "  Alice@Example.COM ",
		Password:   "s3cret!",
		HackerName: strPtr("zero_cool"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "zero_cool", user.DisplayName())
	assert.NotEqual(t, "s3cret!", user.PasswordHash)

	authed, err := identity.Authenticate(env.ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = identity.Register(env.ctx, &RegisterRequest{Username: "alice", Email: "other@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
	assert.Equal(t, ErrConflict, KindOf(err))

	_, err = identity.Register(env.ctx, &RegisterRequest{Username: "b", Email: "not-an-email", Password: "x"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Errors.HasErrors())
	assert.Equal(t, ErrValidationFailed, KindOf(err))
}

func TestUpdateProfileAndChangePassword(t *testing.T) {
	env := newTestEnv(t)
	alice := env.userWithPassword(t, "alice", "s3cret!", models.RoleStudent)
	env.user(t, "bob", models.RoleStudent)
	identity := env.services.Identity()

	updated, err := identity.UpdateProfile(env.ctx, alice.ID, &UpdateProfileRequest{HackerName: strPtr("acid_burn")})
	require.NoError(t, err)
	assert.Equal(t, "acid_burn", updated.DisplayName())
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = identity.UpdateProfile(env.ctx, alice.ID, &UpdateProfileRequest{Email: strPtr("BOB@example.com")})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	err = identity.ChangePassword(env.ctx, alice.ID, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "n3w-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, identity.ChangePassword(env.ctx, alice.ID, &ChangePasswordRequest{CurrentPassword: "s3cret!", NewPassword: "n3w-pass"}))

	_, err = identity.Authenticate(env.ctx, "alice", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = identity.Authenticate(env.ctx, "alice", "n3w-pass")
	assert.NoError(t, err)
}

func TestFindAndListUsers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	env.user(t, "ivan", models.RoleInstructor)
	identity := env.services.Identity()

	found, err := identity.FindByUsername(env.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = identity.FindByID(env.ctx, 777)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = identity.FindByUsername(env.ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := identity.ListUsers(env.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
