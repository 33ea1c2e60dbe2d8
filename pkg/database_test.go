package pkg

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/config"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		},
	}
}

func TestInitDatabaseAndMigrate(t *testing.T) {
	db, err := InitDatabase(sqliteConfig(t))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "skill_trees", "skill_nodes", "skill_progress", "promotion_requests"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestPendingPromotionIndex(t *testing.T) {
	db, err := InitDatabase(sqliteConfig(t))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	now := time.Now()
	first := &models.PromotionRequest{TargetUserID: 5, RequestedBy: 1, Status: models.PromotionPending, CreatedAt: now}
	require.NoError(t, db.Create(first).Error)

	second := &models.PromotionRequest{TargetUserID: 5, RequestedBy: 2, Status: models.PromotionPending, CreatedAt: now}
	err = db.Create(second).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// resolved requests do not count against the target
	require.NoError(t, db.Model(first).Update("status", models.PromotionRejected).Error)
	require.NoError(t, db.Create(&models.PromotionRequest{TargetUserID: 5, RequestedBy: 2, Status: models.PromotionPending, CreatedAt: now}).Error)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(&config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}})
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(&config.Config{Redis: config.RedisConfig{URL: "not a url"}})
	assert.Error(t, err)
}
