package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
)

// seedTenNodeCatalog builds two five node trees. Alice has completed web
// levels 1 and 2 (5 + 10 points, the second one reviewed) and is working on
// level 3. Bob has not started anything.
func seedTenNodeCatalog(t *testing.T, env *testEnv) (alice, bob *models.User, web, crypto *models.SkillTree) {
	t.Helper()

	alice = env.user(t, "alice", models.RoleStudent)
	bob = env.user(t, "bob", models.RoleStudent)
	env.user(t, "ivan", models.RoleInstructor)

	web = env.tree(t, "Web", 1)
	crypto = env.tree(t, "Crypto", 2)

	var nodes []*models.SkillNode
	for level := 1; level <= 5; level++ {
		nodes = append(nodes, env.node(t, web.ID, level, level*5))
	}
	for level := 1; level <= 5; level++ {
		env.node(t, crypto.ID, level, 50)
	}

	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, nodes[0].ID, models.StatusCompleted)
	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, nodes[1].ID, models.StatusReviewed)
	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, nodes[2].ID, models.StatusInProgress)
	return alice, bob, web, crypto
}

func TestAggregationOverTenNodeCatalog(t *testing.T) {
	env := newTestEnv(t)
	alice, bob, web, crypto := seedTenNodeCatalog(t, env)
	agg := env.services.Aggregation()

	stats, err := agg.GetUserStats(env.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Completed: 2, InProgress: 1, Unlocked: 0, TotalNodes: 3}, *stats)

	empty, err := agg.GetUserStats(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{}, *empty)

	points, err := agg.GetStudentPoints(env.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), points)

	webProgress, err := agg.GetTreeProgress(env.ctx, alice.ID, web.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), webProgress.Completed)
	assert.Equal(t, int64(5), webProgress.Total)

	cryptoProgress, err := agg.GetTreeProgress(env.ctx, alice.ID, crypto.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cryptoProgress.Completed)
	assert.Equal(t, int64(5), cryptoProgress.Total)

	_, err = agg.GetTreeProgress(env.ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrTreeNotFound)
}

func TestGradebookIsCatalogComplete(t *testing.T) {
	env := newTestEnv(t)
	alice, bob, _, _ := seedTenNodeCatalog(t, env)
	agg := env.services.Aggregation()

	rows, err := agg.GetGradebook(env.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 20, "two students times ten nodes")

	var aliceRows, bobRows []models.GradebookRow
	for _, row := range rows {
		switch row.UserID {
		case alice.ID:
			aliceRows = append(aliceRows, row)
		case bob.ID:
			bobRows = append(bobRows, row)
		default:
			t.Fatalf("unexpected non-student row for user %d", row.UserID)
		}
	}
	require.Len(t, aliceRows, 10)
	require.Len(t, bobRows, 10)

	for _, row := range bobRows {
		assert.Nil(t, row.Status)
		assert.Equal(t, "Not Started", row.StatusLabel())
	}

	// ordered by tree display order then level
	assert.Equal(t, "Web", aliceRows[0].TreeName)
	assert.Equal(t, 1, aliceRows[0].NodeLevel)
	require.NotNil(t, aliceRows[0].Status)
	assert.Equal(t, models.StatusCompleted, *aliceRows[0].Status)
	assert.Equal(t, "Crypto", aliceRows[9].TreeName)

	all, err := agg.GetAllStudentStats(env.ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(15), all[0].EarnedPoints)
	assert.Equal(t, int64(0), all[1].TotalStarted)
}

func TestUserDashboard(t *testing.T) {
	env := newTestEnv(t)
	alice, _, web, crypto := seedTenNodeCatalog(t, env)

	dashboard, err := env.services.Aggregation().GetUserDashboard(env.ctx, alice.ID)
	require.NoError(t, err)

	require.Len(t, dashboard.Trees, 2)
	assert.Equal(t, models.TreeDashboardEntry{
		TreeID: web.ID, Name: "Web", Category: "general", DisplayOrder: 1, CompletedNodes: 2, TotalNodes: 5,
	}, dashboard.Trees[0])
	assert.Equal(t, crypto.ID, dashboard.Trees[1].TreeID)
	assert.Equal(t, int64(0), dashboard.Trees[1].CompletedNodes)
	assert.Equal(t, models.UserStats{Completed: 2, InProgress: 1, TotalNodes: 3}, dashboard.Stats)

	_, err = env.services.Aggregation().GetUserDashboard(env.ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
