package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerKeyValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewLoggerFromZap(zap.New(core)).With("component", "ledger")

	logger.Info("Submitting node", "user_id", uint(7), "node_id", uint(3))
	logger.Debug("Cache miss")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Submitting node", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "ledger", fields["component"])
	assert.EqualValues(t, 7, fields["user_id"])
}

func TestNewZapLoggerWithFile(t *testing.T) {
	path := t.TempDir() + "/service.log"
	logger, err := NewZapLogger(LoggerOptions{Level: "debug", Environment: "production", FilePath: path})
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	logger.Sync()
	assert.FileExists(t, path)
}

func TestNewZapLoggerBadLevelFallsBack(t *testing.T) {
	logger, err := NewZapLogger(LoggerOptions{Level: "loud"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
