package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

// watermillLogger routes watermill's internal logs into the service logger
type watermillLogger struct {
	logger utils.Logger
}

func NewWatermillLogger(logger utils.Logger) watermill.LoggerAdapter {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &watermillLogger{logger: logger}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error(msg, append(flatten(fields), "error", err)...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info(msg, flatten(fields)...)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, flatten(fields)...)
}

// Trace is too chatty for anything above debug
func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, flatten(fields)...)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{logger: l.logger.With(flatten(fields)...)}
}

func flatten(fields watermill.LogFields) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}
