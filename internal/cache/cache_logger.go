package cache

import (
	"context"
	"fmt"
)

// SafeInvalidatePattern invalidates a pattern and logs instead of failing
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		helper.logger.Error("Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes keys and logs instead of failing
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		helper.logger.Error("Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateTreeCache drops a tree, its node list and every catalog listing
func InvalidateTreeCache(ctx context.Context, cm *CacheManager, treeID uint) {
	SafeDelete(ctx, cm.Catalog,
		fmt.Sprintf("tree:%d", treeID),
		fmt.Sprintf("tree:%d:nodes", treeID))
	SafeInvalidatePattern(ctx, cm.Catalog, "list:*")
}
