package services

import (
	"errors"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/skilltree-service/internal/events"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
)

func TestTransitionsRequireExistingUserAndNode(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	progress := env.services.Progress()

	_, err := progress.UnlockNode(env.ctx, 999, node.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = progress.StartNode(env.ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = progress.SubmitNode(env.ctx, alice.ID, 999, &SubmitRequest{Link: "https://example.com"})
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, ErrNotFound, KindOf(err))
}

func TestUnlockStartSubmitLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	progress := env.services.Progress()

	record, err := progress.UnlockNode(env.ctx, alice.ID, node.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnlocked, record.Status)

	record, err = progress.StartNode(env.ctx, alice.ID, node.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, record.Status)

	// unlock never moves a record backwards
	record, err = progress.UnlockNode(env.ctx, alice.ID, node.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, record.Status)

	env.clock.Advance(time.Hour)
	record, err = progress.SubmitNode(env.ctx, alice.ID, node.ID, &SubmitRequest{
		Link:     "  https://github.com/alice/xss  ",
		FileRef:  "uploads/alice/xss.pdf",
		FileName: "xss.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	require.NotNil(t, record.SubmittedAt)
	assert.True(t, record.SubmittedAt.Equal(testutil.Epoch.Add(time.Hour)))
	assert.Nil(t, record.SubmissionNotes)

	bundle := record.Bundle()
	assert.Equal(t, "https://github.com/alice/xss", bundle.Link)
	assert.Equal(t, "uploads/alice/xss.pdf", bundle.FileRef)

	submitted := env.publisher.EventsOfType(events.EventNodeSubmitted)
	require.Len(t, submitted, 1)
	data, ok := submitted[0].Data.(events.NodeSubmittedData)
	require.True(t, ok)
	assert.Equal(t, record.ID, data.ProgressID)
	assert.True(t, data.HasLink)
	assert.True(t, data.HasFile)
	assert.Equal(t, []string{events.TopicProgress}, env.publisher.GetTopics())

	assert.Equal(t, 1.0, promtest.ToFloat64(env.metrics.LedgerTransitions.WithLabelValues("submit", "completed")))
}

func TestSubmitNodeRequiresLinkOrNotes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	progress := env.services.Progress()

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{name: "empty", req: SubmitRequest{}},
		{name: "whitespace only", req: SubmitRequest{Link: "   ", Notes: "\n\t"}},
		{name: "file without link or notes", req: SubmitRequest{FileRef: "uploads/a.pdf", FileName: "a.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := progress.SubmitNode(env.ctx, alice.ID, node.ID, &req)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
			assert.Equal(t, ErrValidationFailed, KindOf(err))
		})
	}

	_, err := progress.GetByUserAndNode(env.ctx, alice.ID, node.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound, "rejected submissions write nothing")

	record, err := progress.SubmitNode(env.ctx, alice.ID, node.ID, &SubmitRequest{Notes: "explained in person"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Empty(t, record.Submission)
	require.NotNil(t, record.SubmissionNotes)
	assert.Equal(t, "explained in person", *record.SubmissionNotes)
}

func TestStartNodeReopensReviewedWork(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, node.ID, models.StatusReviewed)

	record, err := env.services.Progress().StartNode(env.ctx, alice.ID, node.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, record.Status)
}

func TestReviewSubmission(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	bob := env.user(t, "bob", models.RoleStudent)
	ivan := env.user(t, "ivan", models.RoleInstructor)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	other := env.node(t, tree.ID, 2, 20)

	record := testutil.SeedProgress(t, env.ctx, env.db, alice.ID, node.ID, models.StatusCompleted)
	own := testutil.SeedProgress(t, env.ctx, env.db, ivan.ID, other.ID, models.StatusCompleted)
	progress := env.services.Progress()

	tests := []struct {
		name       string
		progressID uint
		reviewerID uint
		req        ReviewRequest
		wantErr    error
	}{
		{name: "missing notes", progressID: record.ID, reviewerID: ivan.ID, req: ReviewRequest{Notes: "  "}, wantErr: ErrMissingReviewNotes},
		{name: "locked is not a review target", progressID: record.ID, reviewerID: ivan.ID, req: ReviewRequest{Notes: "ok", TargetStatus: "locked"}, wantErr: ErrInvalidReviewStatus},
		{name: "student reviewer", progressID: record.ID, reviewerID: bob.ID, req: ReviewRequest{Notes: "ok"}, wantErr: ErrReviewerRequired},
		{name: "unknown reviewer", progressID: record.ID, reviewerID: 999, req: ReviewRequest{Notes: "ok"}, wantErr: ErrUserNotFound},
		{name: "own record", progressID: own.ID, reviewerID: ivan.ID, req: ReviewRequest{Notes: "ok"}, wantErr: ErrSelfReview},
		{name: "unknown record", progressID: 999, reviewerID: ivan.ID, req: ReviewRequest{Notes: "ok"}, wantErr: ErrProgressNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := progress.ReviewSubmission(env.ctx, tt.progressID, tt.reviewerID, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, env.publisher.EventsOfType(events.EventSubmissionReviewed))

	env.clock.Advance(2 * time.Hour)
	reviewed, err := progress.ReviewSubmission(env.ctx, record.ID, ivan.ID, &ReviewRequest{Notes: "Solid payload"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, ivan.ID, *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewNotes)
	assert.Equal(t, "Solid payload", *reviewed.ReviewNotes)
	assert.True(t, reviewed.ReviewedAt.Equal(testutil.Epoch.Add(2*time.Hour)))

	// send back for rework
	reopened, err := progress.ReviewSubmission(env.ctx, record.ID, ivan.ID, &ReviewRequest{Notes: "Missing the writeup", TargetStatus: string(models.StatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, reopened.Status)

	reviewedEvents := env.publisher.EventsOfType(events.EventSubmissionReviewed)
	require.Len(t, reviewedEvents, 2)
	assert.Equal(t, string(models.StatusInProgress), reviewedEvents[1].Data.(events.SubmissionReviewedData).Status)
}

func TestPendingReviewsResolveFileURLs(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	progress := env.services.Progress()

	_, err := progress.SubmitNode(env.ctx, alice.ID, node.ID, &SubmitRequest{Link: "https://example.com/a", FileRef: "uploads/a.pdf"})
	require.NoError(t, err)

	pending, err := progress.GetPendingReviews(env.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].UserID)
	assert.Equal(t, "uploads/a.pdf", pending[0].FileURL)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	node := env.node(t, tree.ID, 1, 10)
	env.publisher.FailWith(errors.New("broker down"))

	record, err := env.services.Progress().SubmitNode(env.ctx, alice.ID, node.ID, &SubmitRequest{Link: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Equal(t, 1.0, promtest.ToFloat64(env.metrics.EventPublishFailures.WithLabelValues(events.TopicProgress)))
}

func TestProgressReads(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	first := env.node(t, tree.ID, 1, 10)
	second := env.node(t, tree.ID, 2, 20)
	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, first.ID, models.StatusCompleted)
	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, second.ID, models.StatusUnlocked)
	progress := env.services.Progress()

	details, err := progress.GetByUser(env.ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, details, 2)

	stats, err := progress.GetUserStats(env.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Completed: 1, Unlocked: 1, TotalNodes: 2}, *stats)
}
