package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/auth"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

const (
	BootstrapAdminUsername = "admin"
	BootstrapAdminEmail    = "admin@skilltree.edu"
)

// Result counts what a seed run inserted
type Result struct {
	TreesCreated int
	NodesCreated int
	AdminCreated bool
}

// Seeder installs the default catalog and the bootstrap admin. Running it
// again only fills in what is missing.
type Seeder struct {
	repo     repositories.Repository
	verifier auth.CredentialVerifier
	logger   utils.Logger
	now      func() time.Time
}

func NewSeeder(repo repositories.Repository, verifier auth.CredentialVerifier, logger utils.Logger) *Seeder {
	return &Seeder{
		repo:     repo,
		verifier: verifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run seeds catalog in one transaction. The admin is skipped when
// adminPassword is empty.
func (s *Seeder) Run(ctx context.Context, catalog []TreeSpec, adminPassword string) (*Result, error) {
	var adminHash string
	if adminPassword != "" {
		hash, err := s.verifier.Hash(adminPassword)
		if err != nil {
			return nil, err
		}
		adminHash = hash
	}

	result := &Result{}
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, spec := range catalog {
			if err := s.seedTree(ctx, tx, spec, result); err != nil {
				return err
			}
		}
		if adminHash == "" {
			s.logger.Warn("No bootstrap admin password configured, skipping admin account")
			return nil
		}
		return s.seedAdmin(ctx, tx, adminHash, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed: %w", err)
	}

	s.logger.Info("Seed completed",
		"trees_created", result.TreesCreated,
		"nodes_created", result.NodesCreated,
		"admin_created", result.AdminCreated)
	return result, nil
}

func (s *Seeder) seedTree(ctx context.Context, tx repositories.Repository, spec TreeSpec, result *Result) error {
	tree, err := tx.SkillTree().GetTreeByName(ctx, nil, spec.Name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		tree = &models.SkillTree{
			Name:         spec.Name,
			Description:  spec.Description,
			Category:     spec.Category,
			DisplayOrder: spec.DisplayOrder,
			CreatedAt:    s.now(),
		}
		if err := tx.SkillTree().CreateTree(ctx, nil, tree); err != nil {
			return err
		}
		result.TreesCreated++
	case err != nil:
		return err
	}

	existing, err := tx.SkillTree().ListNodesByTree(ctx, nil, tree.ID)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[nodeKey(n.Level, n.Title)] = true
	}

	for _, ns := range spec.Nodes {
		if seen[nodeKey(ns.Level, ns.Title)] {
			continue
		}
		node := &models.SkillNode{
			TreeID:                 tree.ID,
			Level:                  ns.Level,
			Title:                  ns.Title,
			Description:            ns.Description,
			SubmissionRequirements: ns.Requirements,
			Points:                 ns.Points,
			CreatedAt:              s.now(),
		}
		if err := tx.SkillTree().CreateNode(ctx, nil, node); err != nil {
			return err
		}
		result.NodesCreated++
	}

	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, tx repositories.Repository, hash string, result *Result) error {
	_, err := tx.User().GetByUsername(ctx, nil, BootstrapAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := s.now()
	admin := &models.User{
		Username:     BootstrapAdminUsername,
		Email:        BootstrapAdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.User().Create(ctx, nil, admin); err != nil {
		return err
	}

	result.AdminCreated = true
	s.logger.Info("Bootstrap admin created", "username", admin.Username)
	return nil
}

func nodeKey(level int, title string) string {
	return fmt.Sprintf("%d/%s", level, title)
}
