package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/skilltree-service/internal/cache"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/repositories"
)

type SkillTreePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSkillTreePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SkillTreeRepository {
	return &SkillTreePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (s *SkillTreePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// ===== WRITES =====

// CreateTree creates a tree and invalidates catalog listings
func (s *SkillTreePostgreSQL) CreateTree(ctx context.Context, tx *gorm.DB, tree *models.SkillTree) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(tree).Error; err != nil {
		return fmt.Errorf("failed to create skill tree: %w", normalizeError(err))
	}

	cache.InvalidateTreeCache(ctx, s.cacheManager, tree.ID)
	return nil
}

// CreateNode creates a node and invalidates its tree's cached entries
func (s *SkillTreePostgreSQL) CreateNode(ctx context.Context, tx *gorm.DB, node *models.SkillNode) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(node).Error; err != nil {
		return fmt.Errorf("failed to create skill node: %w", normalizeError(err))
	}

	cache.InvalidateTreeCache(ctx, s.cacheManager, node.TreeID)
	return nil
}

// ===== READS =====

// GetTreeByID retrieves a tree by ID with caching
func (s *SkillTreePostgreSQL) GetTreeByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SkillTree, error) {
	db := s.getDB(tx)
	var tree models.SkillTree

	err := s.cacheManager.Catalog.CacheOrExecute(ctx, fmt.Sprintf("tree:%d", id), &tree, s.cacheManager.CatalogTTL(), func() (interface{}, error) {
		var dbTree models.SkillTree
		if err := db.WithContext(ctx).First(&dbTree, id).Error; err != nil {
			return nil, fmt.Errorf("failed to get skill tree %d: %w", id, err)
		}
		return &dbTree, nil
	})
	if err != nil {
		return nil, err
	}

	return &tree, nil
}

func (s *SkillTreePostgreSQL) GetTreeByName(ctx context.Context, tx *gorm.DB, name string) (*models.SkillTree, error) {
	db := s.getDB(tx)
	var tree models.SkillTree
	if err := db.WithContext(ctx).Where("name = ?", name).First(&tree).Error; err != nil {
		return nil, fmt.Errorf("failed to get skill tree by name: %w", err)
	}
	return &tree, nil
}

// ListTrees returns every tree with its node count, in display order
func (s *SkillTreePostgreSQL) ListTrees(ctx context.Context, tx *gorm.DB) ([]models.TreeSummary, error) {
	db := s.getDB(tx)
	var trees []models.TreeSummary

	err := s.cacheManager.Catalog.CacheOrExecute(ctx, "list:trees", &trees, s.cacheManager.CatalogTTL(), func() (interface{}, error) {
		var rows []models.TreeSummary
		if err := db.WithContext(ctx).
			Table("skill_trees AS st").
			Select("st.id, st.name, st.description, st.category, st.display_order, COUNT(sn.id) AS node_count").
			Joins("LEFT JOIN skill_nodes sn ON sn.tree_id = st.id").
			Group("st.id, st.name, st.description, st.category, st.display_order").
			Order("st.display_order, st.name").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list skill trees: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return trees, nil
}

func (s *SkillTreePostgreSQL) GetNodeByID(ctx context.Context, tx *gorm.DB, id uint) (*models.SkillNode, error) {
	db := s.getDB(tx)
	var node models.SkillNode

	err := s.cacheManager.Catalog.CacheOrExecute(ctx, fmt.Sprintf("node:%d", id), &node, s.cacheManager.CatalogTTL(), func() (interface{}, error) {
		var dbNode models.SkillNode
		if err := db.WithContext(ctx).First(&dbNode, id).Error; err != nil {
			return nil, fmt.Errorf("failed to get skill node %d: %w", id, err)
		}
		return &dbNode, nil
	})
	if err != nil {
		return nil, err
	}

	return &node, nil
}

// ListNodesByTree returns the tree's nodes ordered by level
func (s *SkillTreePostgreSQL) ListNodesByTree(ctx context.Context, tx *gorm.DB, treeID uint) ([]models.SkillNode, error) {
	db := s.getDB(tx)
	var nodes []models.SkillNode

	err := s.cacheManager.Catalog.CacheOrExecute(ctx, fmt.Sprintf("tree:%d:nodes", treeID), &nodes, s.cacheManager.CatalogTTL(), func() (interface{}, error) {
		var rows []models.SkillNode
		if err := db.WithContext(ctx).
			Where("tree_id = ?", treeID).
			Order("level, id").
			Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list skill nodes: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return nodes, nil
}

func (s *SkillTreePostgreSQL) CountNodes(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.SkillNode{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count skill nodes: %w", err)
	}
	return count, nil
}
