package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/observability"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

// loadUser fetches a user, mapping a missing row to ErrUserNotFound
func loadUser(ctx context.Context, repo repositories.Repository, id uint, op string) (*models.User, error) {
	user, err := repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound.Wrap(op, err)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

// requireAdmin loads the caller and checks the admin role
func requireAdmin(ctx context.Context, repo repositories.Repository, callerID uint, op string) (*models.User, error) {
	caller, err := loadUser(ctx, repo, callerID, op)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return caller, nil
}

// publishEvent runs after the write has committed. Failures are logged and
// counted but never returned.
func publishEvent(ctx context.Context, publisher events.EventPublisher, metrics *observability.Metrics, logger utils.Logger, topic string, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, topic, event); err != nil {
		metrics.ObservePublishFailure(topic)
		logger.Warn("Failed to publish event", "topic", topic, "event_type", event.Type, "error", err)
	}
}
