package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ProgressStatus string

const (
	StatusLocked     ProgressStatus = "locked"
	StatusUnlocked   ProgressStatus = "unlocked"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
	StatusReviewed   ProgressStatus = "reviewed"
)

// IsValid reports whether s is a known ledger status
func (s ProgressStatus) IsValid() bool {
	switch s {
	case StatusLocked, StatusUnlocked, StatusInProgress, StatusCompleted, StatusReviewed:
		return true
	}
	return false
}

// IsReviewTarget reports whether a reviewer may set a record to s
func (s ProgressStatus) IsReviewTarget() bool {
	switch s {
	case StatusReviewed, StatusCompleted, StatusInProgress:
		return true
	}
	return false
}

// CountsAsCompleted reports whether s contributes to completion counts and points
func (s ProgressStatus) CountsAsCompleted() bool {
	return s == StatusCompleted || s == StatusReviewed
}

// SkillProgress is the ledger record for one (user, node) pair
type SkillProgress struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_node"`
	SkillNodeID uint           `json:"skill_node_id" gorm:"not null;uniqueIndex:idx_progress_user_node;index"`
	Status      ProgressStatus `json:"status" gorm:"not null;size:20;index"`

	// Submission bundle stored as one serialized value
	Submission      datatypes.JSON `json:"submission,omitempty" gorm:"column:submission_payload;type:text"`
	SubmissionNotes *string        `json:"submission_notes,omitempty" gorm:"type:text"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty" gorm:"index"`

	// Review
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`
	ReviewNotes *string    `json:"review_notes,omitempty" gorm:"type:text"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SkillProgress) TableName() string {
	return "skill_progress"
}

// Bundle decodes the stored submission payload
func (p *SkillProgress) Bundle() SubmissionBundle {
	return ParseSubmission(p.Submission)
}

// SubmissionBundle is the proof a learner attaches to a completed node.
// FileRef is an opaque blob reference; the ledger never reads file bytes.
type SubmissionBundle struct {
	Link     string `json:"link,omitempty"`
	FileRef  string `json:"file_ref,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

func (b SubmissionBundle) IsEmpty() bool {
	return b.Link == "" && b.FileRef == "" && b.FileName == ""
}

// Encode serializes the bundle for storage
func (b SubmissionBundle) Encode() (datatypes.JSON, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// ParseSubmission decodes a stored payload. Payloads that are not a JSON
// object are legacy plain links.
func ParseSubmission(raw []byte) SubmissionBundle {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return SubmissionBundle{}
	}

	var bundle SubmissionBundle
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &bundle); err == nil {
			return bundle
		}
	}

	var str string
	if err := json.Unmarshal([]byte(trimmed), &str); err == nil {
		return SubmissionBundle{Link: str}
	}

	return SubmissionBundle{Link: trimmed}
}
