package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/observability"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

type promotionService struct {
	repo      repositories.Repository
	logger    utils.Logger
	clock     Clock
	publisher events.EventPublisher
	metrics   *observability.Metrics
}

func NewPromotionService(repo repositories.Repository, logger utils.Logger, clock Clock, publisher events.EventPublisher, metrics *observability.Metrics) PromotionService {
	return &promotionService{
		repo:      repo,
		logger:    logger,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
	}
}

// RequestPromotion opens a pending request to make target an admin. The
// pending check runs in the same transaction as the insert, and the partial
// unique index rejects whichever concurrent insert comes second.
func (s *promotionService) RequestPromotion(ctx context.Context, targetUserID, requesterID uint) (request *models.PromotionRequest, err error) {
	defer s.metrics.ObserveOperation("request_promotion", time.Now(), &err)

	s.logger.Info("Requesting promotion", "target_id", targetUserID, "requester_id", requesterID)

	if _, err := requireAdmin(ctx, s.repo, requesterID, "request promotion"); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		target, err := loadUser(ctx, tx, targetUserID, "request promotion")
		if err != nil {
			return err
		}
		if target.IsAdmin() {
			return ErrAlreadyAdmin
		}

		pending, err := tx.Promotion().HasPending(ctx, nil, targetUserID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicatePendingRequest
		}

		request = &models.PromotionRequest{
			TargetUserID: targetUserID,
			RequestedBy:  requesterID,
			Status:       models.PromotionPending,
			CreatedAt:    now,
		}
		if err := tx.Promotion().Create(ctx, nil, request); err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicatePendingRequest.Wrap("request promotion", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObservePromotion("requested")
	publishEvent(ctx, s.publisher, s.metrics, s.logger, events.TopicPromotions, events.NewEvent(events.EventPromotionRequested, events.PromotionRequestedData{
		RequestID:    request.ID,
		TargetUserID: targetUserID,
		RequestedBy:  requesterID,
	}, now))

	s.logger.Info("Promotion requested", "request_id", request.ID, "target_id", targetUserID)
	return request, nil
}

func (s *promotionService) GetPendingPromotions(ctx context.Context) ([]models.PendingPromotion, error) {
	return s.repo.Promotion().ListPending(ctx, nil)
}

// ResolvePromotion approves or rejects a pending request. The approver must
// be an admin other than the requester. On approval the status flip and the
// role update commit together or not at all.
func (s *promotionService) ResolvePromotion(ctx context.Context, requestID, approverID uint, approve bool) (request *models.PromotionRequest, err error) {
	defer s.metrics.ObserveOperation("resolve_promotion", time.Now(), &err)

	s.logger.Info("Resolving promotion", "request_id", requestID, "approver_id", approverID, "approve", approve)

	if _, err := requireAdmin(ctx, s.repo, approverID, "resolve promotion"); err != nil {
		return nil, err
	}

	status := models.PromotionRejected
	if approve {
		status = models.PromotionApproved
	}

	now := s.clock.Now()
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		existing, err := tx.Promotion().GetByID(ctx, nil, requestID)
		if err != nil {
			if isRecordNotFound(err) {
				return ErrRequestNotFound.Wrap("resolve promotion", err)
			}
			return err
		}
		if !existing.IsPending() {
			return ErrRequestNotFound
		}
		if existing.RequestedBy == approverID {
			return ErrSelfApprovalForbidden
		}

		resolved, err := tx.Promotion().Resolve(ctx, nil, requestID, approverID, status, now)
		if err != nil {
			return err
		}
		if !resolved {
			// another admin got there first
			return ErrRequestNotFound
		}

		if approve {
			updated, err := tx.User().UpdateRole(ctx, nil, existing.TargetUserID, models.RoleAdmin)
			if err != nil {
				return ErrPromotionRoleUpdate.Wrap("resolve promotion", err)
			}
			if !updated {
				return ErrPromotionRoleUpdate.Wrap("resolve promotion", fmt.Errorf("target user %d no longer exists", existing.TargetUserID))
			}
		}

		request, err = tx.Promotion().GetByID(ctx, nil, requestID)
		return err
	})
	if err != nil {
		if KindOf(err) == ErrPartialFailure {
			s.metrics.ObservePromotion("role_update_failed")
			s.logger.Error("Promotion rolled back", "request_id", requestID, "error", err)
		}
		return nil, err
	}

	s.metrics.ObservePromotion(string(status))
	publishEvent(ctx, s.publisher, s.metrics, s.logger, events.TopicPromotions, events.NewEvent(events.EventPromotionResolved, events.PromotionResolvedData{
		RequestID:    request.ID,
		TargetUserID: request.TargetUserID,
		ApprovedBy:   approverID,
		Status:       string(request.Status),
	}, now))

	s.logger.Info("Promotion resolved", "request_id", requestID, "status", status)
	return request, nil
}
