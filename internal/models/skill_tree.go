package models

import "time"

// SkillTree groups ordered skill nodes under one category
type SkillTree struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null;size:200"`
	Description  string    `json:"description" gorm:"type:text"`
	Category     string    `json:"category" gorm:"size:100;index"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

func (SkillTree) TableName() string {
	return "skill_trees"
}

// SkillNode is a single gradable unit within a tree. Level is the sort key
// and is not required to be unique.
type SkillNode struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	TreeID                 uint      `json:"tree_id" gorm:"not null;index"`
	Level                  int       `json:"level" gorm:"not null;default:1"`
	Title                  string    `json:"title" gorm:"not null;size:200"`
	Description            string    `json:"description" gorm:"type:text"`
	SubmissionRequirements string    `json:"submission_requirements" gorm:"type:text"`
	Points                 int       `json:"points" gorm:"not null;default:0"`
	CreatedAt              time.Time `json:"created_at"`
}

func (SkillNode) TableName() string {
	return "skill_nodes"
}
