package testutil

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/skilltree-service/internal/config"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
	"github.com/SAP-F-2025/skilltree-service/pkg"
)

// Logger returns a logger that writes through t.Log
func Logger(tb testing.TB) utils.Logger {
	tb.Helper()
	return utils.NewLoggerFromZap(zaptest.NewLogger(tb))
}

// DB opens a fresh migrated in-memory SQLite database private to the test
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name()) + "_" + uuid.NewString()
	cfg := &config.Config{
		LogLevel: "error",
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			URL:    "file:" + name + "?mode=memory&cache=shared",
		},
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	db.Logger = gormLogger.Default.LogMode(gormLogger.Silent)

	if err := pkg.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
