package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
	"github.com/SAP-F-2025/skilltree-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *validator.Validator
	clock     Clock
}

func NewCatalogService(repo repositories.Repository, logger utils.Logger, validator *validator.Validator, clock Clock) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		clock:     clock,
	}
}

// ===== READS =====

func (s *catalogService) ListTrees(ctx context.Context) ([]models.TreeSummary, error) {
	return s.repo.SkillTree().ListTrees(ctx, nil)
}

func (s *catalogService) GetTree(ctx context.Context, id uint) (*models.SkillTree, error) {
	tree, err := s.repo.SkillTree().GetTreeByID(ctx, nil, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrTreeNotFound.Wrap("get tree", err)
		}
		return nil, err
	}
	return tree, nil
}

func (s *catalogService) GetTreeWithNodes(ctx context.Context, id uint) (*models.TreeWithNodes, error) {
	tree, err := s.GetTree(ctx, id)
	if err != nil {
		return nil, err
	}

	nodes, err := s.repo.SkillTree().ListNodesByTree(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	return &models.TreeWithNodes{Tree: *tree, Nodes: nodes}, nil
}

// GetTreeWithProgress annotates each node with the user's record. Nodes the
// user never touched report locked.
func (s *catalogService) GetTreeWithProgress(ctx context.Context, userID, treeID uint) (*models.TreeWithProgress, error) {
	withNodes, err := s.GetTreeWithNodes(ctx, treeID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Progress().ListByUserAndTree(ctx, nil, userID, treeID)
	if err != nil {
		return nil, err
	}

	byNode := make(map[uint]*models.SkillProgress, len(records))
	for i := range records {
		byNode[records[i].SkillNodeID] = &records[i]
	}

	result := &models.TreeWithProgress{
		Tree:  withNodes.Tree,
		Nodes: make([]models.NodeWithProgress, 0, len(withNodes.Nodes)),
	}
	for _, node := range withNodes.Nodes {
		entry := models.NodeWithProgress{Node: node, Status: models.StatusLocked}
		if record, ok := byNode[node.ID]; ok {
			entry.Status = record.Status
			entry.Progress = record
		}
		result.Nodes = append(result.Nodes, entry)
	}

	return result, nil
}

// ===== ADMIN WRITES =====

func (s *catalogService) CreateTree(ctx context.Context, callerID uint, req *CreateTreeRequest) (*models.SkillTree, error) {
	s.logger.Info("Creating skill tree", "caller_id", callerID, "name", req.Name)

	if _, err := requireAdmin(ctx, s.repo, callerID, "create tree"); err != nil {
		return nil, err
	}

	if errs := s.validator.ValidateTreeCreate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	tree := &models.SkillTree{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.SkillTree().CreateTree(ctx, nil, tree); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateTree.Wrap("create tree", err)
		}
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	s.logger.Info("Skill tree created", "tree_id", tree.ID)
	return tree, nil
}

func (s *catalogService) CreateNode(ctx context.Context, callerID uint, req *CreateNodeRequest) (*models.SkillNode, error) {
	s.logger.Info("Creating skill node", "caller_id", callerID, "tree_id", req.TreeID, "title", req.Title)

	if _, err := requireAdmin(ctx, s.repo, callerID, "create node"); err != nil {
		return nil, err
	}

	if errs := s.validator.ValidateNodeCreate(req); errs.HasErrors() {
		return nil, newValidationError(errs)
	}

	if _, err := s.GetTree(ctx, req.TreeID); err != nil {
		return nil, err
	}

	node := &models.SkillNode{
		TreeID:                 req.TreeID,
		Level:                  req.Level,
		Title:                  req.Title,
		Description:            req.Description,
		SubmissionRequirements: req.SubmissionRequirements,
		Points:                 req.Points,
		CreatedAt:              s.clock.Now(),
	}

	if err := s.repo.SkillTree().CreateNode(ctx, nil, node); err != nil {
		return nil, fmt.Errorf("failed to create node: %w", err)
	}

	s.logger.Info("Skill node created", "node_id", node.ID, "tree_id", node.TreeID)
	return node, nil
}
