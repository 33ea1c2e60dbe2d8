package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
)

// Epoch is the fixed time used by fixtures
var Epoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// SeedUser creates a user whose password hash is the literal "pw"
func SeedUser(tb testing.TB, ctx context.Context, db *gorm.DB, username string, role models.UserRole) *models.User {
	tb.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "pw",
		Role:         role,
		CreatedAt:    Epoch,
		UpdatedAt:    Epoch,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTree(tb testing.TB, ctx context.Context, db *gorm.DB, name string, displayOrder int) *models.SkillTree {
	tb.Helper()
	tree := &models.SkillTree{
		Name:         name,
		Description:  name + " tree",
		Category:     "general",
		DisplayOrder: displayOrder,
		CreatedAt:    Epoch,
	}
	if err := db.WithContext(ctx).Create(tree).Error; err != nil {
		tb.Fatalf("seed tree: %v", err)
	}
	return tree
}

func SeedNode(tb testing.TB, ctx context.Context, db *gorm.DB, treeID uint, level, points int) *models.SkillNode {
	tb.Helper()
	node := &models.SkillNode{
		TreeID:    treeID,
		Level:     level,
		Title:     fmt.Sprintf("Node %d-%d", treeID, level),
		Points:    points,
		CreatedAt: Epoch,
	}
	if err := db.WithContext(ctx).Create(node).Error; err != nil {
		tb.Fatalf("seed node: %v", err)
	}
	return node
}

// SeedProgress writes a ledger record directly, bypassing the state machine
func SeedProgress(tb testing.TB, ctx context.Context, db *gorm.DB, userID, nodeID uint, status models.ProgressStatus) *models.SkillProgress {
	tb.Helper()
	p := &models.SkillProgress{
		UserID:      userID,
		SkillNodeID: nodeID,
		Status:      status,
		CreatedAt:   Epoch,
		UpdatedAt:   Epoch,
	}
	if status.CountsAsCompleted() {
		p.Submission = datatypes.JSON(`{"link":"https://example.com/proof"}`)
		submitted := Epoch
		p.SubmittedAt = &submitted
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

// SeedPromotion writes a promotion request directly
func SeedPromotion(tb testing.TB, ctx context.Context, db *gorm.DB, targetID, requesterID uint, status models.PromotionStatus) *models.PromotionRequest {
	tb.Helper()
	r := &models.PromotionRequest{
		TargetUserID: targetID,
		RequestedBy:  requesterID,
		Status:       status,
		CreatedAt:    Epoch,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed promotion: %v", err)
	}
	return r
}
