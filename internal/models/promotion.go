package models

import "time"

type PromotionStatus string

const (
	PromotionPending  PromotionStatus = "pending"
	PromotionApproved PromotionStatus = "approved"
	PromotionRejected PromotionStatus = "rejected"
)

// PromotionRequest is one entry of the dual-control admin escalation log.
// At most one pending request may exist per target; the partial unique
// index idx_promotion_pending_target enforces it.
type PromotionRequest struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	TargetUserID uint            `json:"target_user_id" gorm:"not null;index"`
	RequestedBy  uint            `json:"requested_by" gorm:"not null"`
	ApprovedBy   *uint           `json:"approved_by,omitempty"`
	Status       PromotionStatus `json:"status" gorm:"not null;size:20;index"`
	CreatedAt    time.Time       `json:"created_at"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
}

func (PromotionRequest) TableName() string {
	return "promotion_requests"
}

func (p *PromotionRequest) IsPending() bool {
	return p.Status == PromotionPending
}
