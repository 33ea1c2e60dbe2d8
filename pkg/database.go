package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/skilltree-service/internal/config"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

// InitDatabase opens the configured database and tunes the pool
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Database.URL)
	default:
		dialector = postgres.Open(cfg.Database.URL)
	}

	logLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the schema, including the partial unique index
// that allows one pending promotion per target
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.SkillTree{},
		&models.SkillNode{},
		&models.SkillProgress{},
		&models.PromotionRequest{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	const pendingIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_promotion_pending_target
		ON promotion_requests (target_user_id) WHERE status = 'pending'`
	if err := db.Exec(pendingIndex).Error; err != nil {
		return fmt.Errorf("failed to create pending promotion index: %w", err)
	}

	return nil
}
