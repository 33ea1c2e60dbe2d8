package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/observability"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/storage"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

type progressService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
	clock     Clock
	publisher events.EventPublisher
	metrics   *observability.Metrics
	blobs     storage.BlobResolver
}

func NewProgressService(repo repositories.Repository, logger utils.Logger, validator *validator.Validator, clock Clock,
	publisher events.EventPublisher, metrics *observability.Metrics, blobs storage.BlobResolver) ProgressService {
	if blobs == nil {
		blobs = storage.PassthroughResolver{}
	}
	return &progressService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
		blobs:     blobs,
	}
}

// ===== TRANSITIONS =====

// UnlockNode creates an unlocked record or advances a locked one. Records
// past locked come back unchanged. Prerequisites are not checked.
func (s *progressService) UnlockNode(ctx context.Context, userID, nodeID uint) (record *models.SkillProgress, err error) {
	defer s.metrics.ObserveOperation("unlock_node", time.Now(), &err)

	if err := s.checkTarget(ctx, userID, nodeID, "unlock node"); err != nil {
		return nil, err
	}

	record, err = s.repo.Progress().Unlock(ctx, nil, userID, nodeID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition("unlock", string(record.Status))
	s.logger.Info("Node unlocked", "user_id", userID, "node_id", nodeID, "status", record.Status)
	return record, nil
}

// StartNode sets in_progress unconditionally, including over completed and
// reviewed records, so a learner can rework a node
func (s *progressService) StartNode(ctx context.Context, userID, nodeID uint) (record *models.SkillProgress, err error) {
	defer s.metrics.ObserveOperation("start_node", time.Now(), &err)

	if err := s.checkTarget(ctx, userID, nodeID, "start node"); err != nil {
		return nil, err
	}

	record, err = s.repo.Progress().Start(ctx, nil, userID, nodeID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition("start", string(record.Status))
	s.logger.Info("Node started", "user_id", userID, "node_id", nodeID)
	return record, nil
}

// SubmitNode marks the node completed and replaces any earlier submission.
// A link or notes is required; a file alone is not enough.
func (s *progressService) SubmitNode(ctx context.Context, userID, nodeID uint, req *SubmitRequest) (record *models.SkillProgress, err error) {
	defer s.metrics.ObserveOperation("submit_node", time.Now(), &err)

	s.logger.Info("Submitting node", "user_id", userID, "node_id", nodeID)

	req.Link = strings.TrimSpace(req.Link)
	req.Notes = strings.TrimSpace(req.Notes)

	if errs := s.validator.ValidateSubmission(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}
	if req.Link == "" && req.Notes == "" {
		return nil, ErrInvalidSubmission
	}

	if err := s.checkTarget(ctx, userID, nodeID, "submit node"); err != nil {
		return nil, err
	}

	bundle := models.SubmissionBundle{Link: req.Link, FileRef: req.FileRef, FileName: req.FileName}
	var payload datatypes.JSON
	if !bundle.IsEmpty() {
		if payload, err = bundle.Encode(); err != nil {
			return nil, fmt.Errorf("failed to encode submission: %w", err)
		}
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	now := s.clock.Now()
	record, err = s.repo.Progress().Submit(ctx, nil, userID, nodeID, repositories.SubmissionWrite{
		Payload: payload,
		Notes:   notes,
	}, now)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition("submit", string(record.Status))
	publishEvent(ctx, s.publisher, s.metrics, s.logger, events.TopicProgress, events.NewEvent(events.EventNodeSubmitted, events.NodeSubmittedData{
		ProgressID:  record.ID,
		UserID:      userID,
		SkillNodeID: nodeID,
		HasLink:     bundle.Link != "",
		HasFile:     bundle.FileRef != "",
		SubmittedAt: now,
	}, now))

	s.logger.Info("Node submitted", "user_id", userID, "node_id", nodeID, "progress_id", record.ID)
	return record, nil
}

// ReviewSubmission sets the record to exactly the requested status, which
// defaults to reviewed. Reviewers need the instructor or admin role and
// cannot review their own records.
func (s *progressService) ReviewSubmission(ctx context.Context, progressID, reviewerID uint, req *ReviewRequest) (record *models.SkillProgress, err error) {
	defer s.metrics.ObserveOperation("review_submission", time.Now(), &err)

	s.logger.Info("Reviewing submission", "progress_id", progressID, "reviewer_id", reviewerID)

	req.Notes = strings.TrimSpace(req.Notes)
	if req.Notes == "" {
		return nil, ErrMissingReviewNotes
	}

	target := models.StatusReviewed
	if req.TargetStatus != "" {
		target = models.ProgressStatus(req.TargetStatus)
	}
	if !target.IsReviewTarget() {
		return nil, ErrInvalidReviewStatus
	}

	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	reviewer, err := loadUser(ctx, s.repo, reviewerID, "review submission")
	if err != nil {
		return nil, err
	}
	if !reviewer.Role.CanReview() {
		return nil, ErrReviewerRequired
	}

	existing, err := s.repo.Progress().GetByID(ctx, nil, progressID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrProgressNotFound.Wrap("review submission", err)
		}
		return nil, err
	}
	if existing.UserID == reviewerID {
		return nil, ErrSelfReview
	}

	now := s.clock.Now()
	updated, err := s.repo.Progress().Review(ctx, nil, progressID, repositories.ReviewWrite{
		ReviewerID: reviewerID,
		Notes:      req.Notes,
		Status:     target,
	}, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrProgressNotFound
	}

	record, err = s.repo.Progress().GetByID(ctx, nil, progressID)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition("review", string(record.Status))
	publishEvent(ctx, s.publisher, s.metrics, s.logger, events.TopicProgress, events.NewEvent(events.EventSubmissionReviewed, events.SubmissionReviewedData{
		ProgressID: record.ID,
		UserID:     record.UserID,
		ReviewerID: reviewerID,
		Status:     string(record.Status),
		ReviewedAt: now,
	}, now))

	s.logger.Info("Submission reviewed", "progress_id", progressID, "status", record.Status)
	return record, nil
}

// ===== READS =====

func (s *progressService) GetByUser(ctx context.Context, userID uint) ([]models.ProgressDetail, error) {
	return s.repo.Progress().ListByUser(ctx, nil, userID)
}

func (s *progressService) GetByUserAndNode(ctx context.Context, userID, nodeID uint) (*models.SkillProgress, error) {
	record, err := s.repo.Progress().GetByUserAndNode(ctx, nil, userID, nodeID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrProgressNotFound.Wrap("get progress", err)
		}
		return nil, err
	}
	return record, nil
}

// GetPendingReviews lists completed records, newest submission first, with
// file references resolved to viewable URLs
func (s *progressService) GetPendingReviews(ctx context.Context) ([]models.PendingReview, error) {
	reviews, err := s.repo.Progress().ListPendingReviews(ctx, nil)
	if err != nil {
		return nil, err
	}

	for i := range reviews {
		ref := models.ParseSubmission(reviews[i].Submission).FileRef
		if ref == "" {
			continue
		}
		url, err := s.blobs.ResolveURL(ctx, ref)
		if err != nil {
			s.logger.Warn("Failed to resolve submission file", "progress_id", reviews[i].ProgressID, "error", err)
			continue
		}
		reviews[i].FileURL = url
	}

	return reviews, nil
}

func (s *progressService) GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	return s.repo.Dashboard().GetUserStats(ctx, nil, userID)
}

// checkTarget verifies the user and node exist before a transition
func (s *progressService) checkTarget(ctx context.Context, userID, nodeID uint, op string) error {
	if _, err := loadUser(ctx, s.repo, userID, op); err != nil {
		return err
	}

	if _, err := s.repo.SkillTree().GetNodeByID(ctx, nil, nodeID); err != nil {
		if isRecordNotFound(err) {
			return ErrNodeNotFound.Wrap(op, err)
		}
		return fmt.Errorf("failed to load node %d: %w", nodeID, err)
	}

	return nil
}
