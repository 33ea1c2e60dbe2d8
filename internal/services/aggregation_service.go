package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

// dashboardConcurrency bounds the per-tree queries issued by GetUserDashboard
const dashboardConcurrency = 4

type aggregationService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewAggregationService(repo repositories.Repository, logger utils.Logger) AggregationService {
	return &aggregationService{
		repo:   repo,
		logger: logger,
	}
}

// GetUserStats counts the user's existing records. A node without a record
// counts nowhere, so TotalNodes is not the catalog size.
func (s *aggregationService) GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	return s.repo.Dashboard().GetUserStats(ctx, nil, userID)
}

// GetGradebook is catalog complete: one row per student and node
func (s *aggregationService) GetGradebook(ctx context.Context) ([]models.GradebookRow, error) {
	return s.repo.Dashboard().GetGradebook(ctx, nil)
}

func (s *aggregationService) GetAllStudentStats(ctx context.Context) ([]models.StudentStats, error) {
	return s.repo.Dashboard().GetAllStudentStats(ctx, nil)
}

func (s *aggregationService) GetTreeProgress(ctx context.Context, userID, treeID uint) (*models.TreeProgress, error) {
	if _, err := s.repo.SkillTree().GetTreeByID(ctx, nil, treeID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrTreeNotFound.Wrap("tree progress", err)
		}
		return nil, err
	}
	return s.repo.Dashboard().GetTreeProgress(ctx, nil, userID, treeID)
}

func (s *aggregationService) GetStudentPoints(ctx context.Context, userID uint) (int64, error) {
	return s.repo.Dashboard().GetEarnedPoints(ctx, nil, userID)
}

// GetUserDashboard returns every tree with the user's completed count next
// to the tree size, plus the user's stats
func (s *aggregationService) GetUserDashboard(ctx context.Context, userID uint) (*models.Dashboard, error) {
	if _, err := loadUser(ctx, s.repo, userID, "user dashboard"); err != nil {
		return nil, err
	}

	trees, err := s.repo.Dashboard().ListTrees(ctx, nil)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{Trees: make([]models.TreeDashboardEntry, len(trees))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)

	g.Go(func() error {
		stats, err := s.repo.Dashboard().GetUserStats(gctx, nil, userID)
		if err != nil {
			return err
		}
		dashboard.Stats = *stats
		return nil
	})

	for i, tree := range trees {
		g.Go(func() error {
			progress, err := s.repo.Dashboard().GetTreeProgress(gctx, nil, userID, tree.ID)
			if err != nil {
				return fmt.Errorf("tree %d: %w", tree.ID, err)
			}
			dashboard.Trees[i] = models.TreeDashboardEntry{
				TreeID:         tree.ID,
				Name:           tree.Name,
				Category:       tree.Category,
				DisplayOrder:   tree.DisplayOrder,
				CompletedNodes: progress.Completed,
				TotalNodes:     progress.Total,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	s.logger.Debug("Dashboard built", "user_id", userID, "trees", len(trees))
	return dashboard, nil
}
