package models

import (
	"time"

	"gorm.io/datatypes"
)

// ===== LEDGER PROJECTIONS =====

// ProgressDetail is a ledger record joined with its node and tree
type ProgressDetail struct {
	ID              uint           `json:"id"`
	UserID          uint           `json:"user_id"`
	SkillNodeID     uint           `json:"skill_node_id"`
	Status          ProgressStatus `json:"status"`
	Submission      datatypes.JSON `json:"submission,omitempty" gorm:"column:submission_payload"`
	SubmissionNotes *string        `json:"submission_notes,omitempty"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`
	ReviewedBy      *uint          `json:"reviewed_by,omitempty"`
	ReviewNotes     *string        `json:"review_notes,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	NodeTitle       string         `json:"node_title"`
	NodeLevel       int            `json:"node_level"`
	Points          int            `json:"points"`
	TreeID          uint           `json:"tree_id"`
	TreeName        string         `json:"tree_name"`
}

// PendingReview is a completed record awaiting an instructor
type PendingReview struct {
	ProgressID      uint           `json:"progress_id"`
	UserID          uint           `json:"user_id"`
	Username        string         `json:"username"`
	HackerName      *string        `json:"hacker_name,omitempty"`
	SkillNodeID     uint           `json:"skill_node_id"`
	NodeTitle       string         `json:"node_title"`
	NodeLevel       int            `json:"node_level"`
	TreeName        string         `json:"tree_name"`
	Submission      datatypes.JSON `json:"submission,omitempty" gorm:"column:submission_payload"`
	SubmissionNotes *string        `json:"submission_notes,omitempty"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`

	// Filled by the blob resolver, never stored
	FileURL string `json:"file_url,omitempty" gorm:"-"`
}

// ===== PROMOTION PROJECTIONS =====

type PendingPromotion struct {
	ID                uint      `json:"id"`
	TargetUserID      uint      `json:"target_user_id"`
	TargetUsername    string    `json:"target_username"`
	TargetEmail       string    `json:"target_email"`
	TargetRole        UserRole  `json:"target_role"`
	RequestedBy       uint      `json:"requested_by"`
	RequesterUsername string    `json:"requester_username"`
	CreatedAt         time.Time `json:"created_at"`
}

// ===== AGGREGATES =====

// UserStats counts existing ledger records only, never the catalog
type UserStats struct {
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"in_progress"`
	Unlocked   int64 `json:"unlocked"`
	TotalNodes int64 `json:"total_nodes"`
}

type StudentStats struct {
	UserID          uint    `json:"user_id"`
	Username        string  `json:"username"`
	HackerName      *string `json:"hacker_name,omitempty"`
	Email           string  `json:"email"`
	CompletedNodes  int64   `json:"completed_nodes"`
	InProgressNodes int64   `json:"in_progress_nodes"`
	TotalStarted    int64   `json:"total_started"`
	EarnedPoints    int64   `json:"earned_points"`
}

// GradebookRow is one (student, node) pair. Status is nil when the student
// has no record for the node.
type GradebookRow struct {
	UserID      uint            `json:"user_id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	HackerName  *string         `json:"hacker_name,omitempty"`
	TreeID      uint            `json:"tree_id"`
	TreeName    string          `json:"tree_name"`
	NodeID      uint            `json:"node_id"`
	NodeTitle   string          `json:"node_title"`
	NodeLevel   int             `json:"node_level"`
	MaxPoints   int             `json:"max_points"`
	Status      *ProgressStatus `json:"status"`
	Submission  datatypes.JSON  `json:"submission,omitempty" gorm:"column:submission_payload"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	ReviewNotes *string         `json:"review_notes,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
}

// StatusLabel renders the row status for reports
func (r *GradebookRow) StatusLabel() string {
	if r.Status == nil {
		return "Not Started"
	}
	return string(*r.Status)
}

type TreeProgress struct {
	TreeID    uint  `json:"tree_id"`
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
}

// ===== CATALOG PROJECTIONS =====

type TreeSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	DisplayOrder int    `json:"display_order"`
	NodeCount    int64  `json:"node_count"`
}

type TreeWithNodes struct {
	Tree  SkillTree   `json:"tree"`
	Nodes []SkillNode `json:"nodes"`
}

// NodeWithProgress annotates a catalog node with one user's record.
// Status is locked when the user has no record.
type NodeWithProgress struct {
	Node     SkillNode      `json:"node"`
	Status   ProgressStatus `json:"status"`
	Progress *SkillProgress `json:"progress,omitempty"`
}

type TreeWithProgress struct {
	Tree  SkillTree          `json:"tree"`
	Nodes []NodeWithProgress `json:"nodes"`
}

type TreeDashboardEntry struct {
	TreeID         uint   `json:"tree_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	DisplayOrder   int    `json:"display_order"`
	CompletedNodes int64  `json:"completed_nodes"`
	TotalNodes     int64  `json:"total_nodes"`
}

type Dashboard struct {
	Trees []TreeDashboardEntry `json:"trees"`
	Stats UserStats            `json:"stats"`
}
