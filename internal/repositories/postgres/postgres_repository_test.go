package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
)

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: db, Logger: testutil.Logger(t)})

	target := testutil.SeedUser(t, ctx, db, "ivan", models.RoleInstructor)
	admin := testutil.SeedUser(t, ctx, db, "root", models.RoleAdmin)

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		require.NoError(t, tx.Promotion().Create(ctx, nil, &models.PromotionRequest{
			TargetUserID: target.ID, RequestedBy: admin.ID, Status: models.PromotionPending, CreatedAt: testutil.Epoch,
		}))
		ok, err := tx.User().UpdateRole(ctx, nil, target.ID, models.RoleAdmin)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	user, err := repo.User().GetByID(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, user.Role)

	pending, err := repo.Promotion().HasPending(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestRepositoryManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	rm := NewRepositoryManager(RepositoryConfig{DB: testutil.DB(t), RedisClient: client})
	assert.Error(t, rm.HealthCheck(ctx), "not initialized yet")

	require.NoError(t, rm.Initialize())
	require.NotNil(t, rm.GetRepository())
	assert.NoError(t, rm.HealthCheck(ctx))
	assert.NoError(t, rm.Shutdown(ctx))
}

func TestRepositoryManagerRequiresDB(t *testing.T) {
	assert.Error(t, NewRepositoryManager(RepositoryConfig{}).Initialize())
}
