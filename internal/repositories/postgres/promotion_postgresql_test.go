package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
)

func TestPromotionCreateRejectsSecondPending(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewPromotionPostgreSQL(db)

	admin := testutil.SeedUser(t, ctx, db, "root", models.RoleAdmin)
	other := testutil.SeedUser(t, ctx, db, "root2", models.RoleAdmin)
	target := testutil.SeedUser(t, ctx, db, "ivan", models.RoleInstructor)

	first := &models.PromotionRequest{TargetUserID: target.ID, RequestedBy: admin.ID, Status: models.PromotionPending, CreatedAt: testutil.Epoch}
	require.NoError(t, repo.Create(ctx, nil, first))

	pending, err := repo.HasPending(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.True(t, pending)

	err = repo.Create(ctx, nil, &models.PromotionRequest{TargetUserID: target.ID, RequestedBy: other.ID, Status: models.PromotionPending, CreatedAt: testutil.Epoch})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestPromotionResolveIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewPromotionPostgreSQL(db)

	admin := testutil.SeedUser(t, ctx, db, "root", models.RoleAdmin)
	approver := testutil.SeedUser(t, ctx, db, "root2", models.RoleAdmin)
	target := testutil.SeedUser(t, ctx, db, "ivan", models.RoleInstructor)
	request := testutil.SeedPromotion(t, ctx, db, target.ID, admin.ID, models.PromotionPending)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Resolve(ctx, nil, request.ID, approver.ID, models.PromotionApproved, testutil.Epoch.Add(time.Hour))
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	got, err := repo.GetByID(ctx, nil, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PromotionApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approver.ID, *got.ApprovedBy)
	assert.NotNil(t, got.ResolvedAt)

	pending, err := repo.HasPending(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestPromotionListPending(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewPromotionPostgreSQL(db)

	admin := testutil.SeedUser(t, ctx, db, "root", models.RoleAdmin)
	ivan := testutil.SeedUser(t, ctx, db, "ivan", models.RoleInstructor)
	sam := testutil.SeedUser(t, ctx, db, "sam", models.RoleStudent)

	older := &models.PromotionRequest{TargetUserID: ivan.ID, RequestedBy: admin.ID, Status: models.PromotionPending, CreatedAt: testutil.Epoch}
	newer := &models.PromotionRequest{TargetUserID: sam.ID, RequestedBy: admin.ID, Status: models.PromotionPending, CreatedAt: testutil.Epoch.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, nil, older))
	require.NoError(t, repo.Create(ctx, nil, newer))
	testutil.SeedPromotion(t, ctx, db, ivan.ID, admin.ID, models.PromotionRejected)

	rows, err := repo.ListPending(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sam", rows[0].TargetUsername)
	assert.Equal(t, models.RoleStudent, rows[0].TargetRole)
	assert.Equal(t, "root", rows[0].RequesterUsername)
	assert.Equal(t, "ivan", rows[1].TargetUsername)
	assert.Equal(t, "ivan@example.com", rows[1].TargetEmail)

	history, err := repo.ListByTarget(ctx, nil, ivan.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
