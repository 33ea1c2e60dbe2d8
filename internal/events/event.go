package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "skilltree-service"
	EventVersion = "1.0"
)

// Topics
const (
	TopicProgress   = "skilltree.progress"
	TopicPromotions = "skilltree.promotions"
)

// Event types
const (
	EventNodeSubmitted      = "progress.node_submitted"
	EventSubmissionReviewed = "progress.submission_reviewed"
	EventPromotionRequested = "promotion.requested"
	EventPromotionResolved  = "promotion.resolved"
)

// Event is the envelope published for every domain event
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id
func NewEvent(eventType string, data interface{}, at time.Time) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: at.UTC(),
		Data:      data,
	}
}

// ===== PAYLOADS =====

type NodeSubmittedData struct {
	ProgressID  uint      `json:"progress_id"`
	UserID      uint      `json:"user_id"`
	SkillNodeID uint      `json:"skill_node_id"`
	HasLink     bool      `json:"has_link"`
	HasFile     bool      `json:"has_file"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SubmissionReviewedData struct {
	ProgressID uint      `json:"progress_id"`
	UserID     uint      `json:"user_id"`
	ReviewerID uint      `json:"reviewer_id"`
	Status     string    `json:"status"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type PromotionRequestedData struct {
	RequestID    uint `json:"request_id"`
	TargetUserID uint `json:"target_user_id"`
	RequestedBy  uint `json:"requested_by"`
}

type PromotionResolvedData struct {
	RequestID    uint   `json:"request_id"`
	TargetUserID uint   `json:"target_user_id"`
	ApprovedBy   uint   `json:"approved_by"`
	Status       string `json:"status"`
}
