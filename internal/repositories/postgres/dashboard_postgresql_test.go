package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
)

// tenNodeFixture builds a 10 node catalog in which alice has one completed,
// one reviewed and one in-progress record worth 5+10 completed points
func tenNodeFixture(t *testing.T) (context.Context, *dashboardRepository, *models.User, *models.SkillTree) {
	ctx := context.Background()
	db := testutil.DB(t)

	alice := testutil.SeedUser(t, ctx, db, "alice", models.RoleStudent)
	tree := testutil.SeedTree(t, ctx, db, "Web", 1)
	other := testutil.SeedTree(t, ctx, db, "Crypto", 2)

	var nodes []*models.SkillNode
	for level := 1; level <= 5; level++ {
		nodes = append(nodes, testutil.SeedNode(t, ctx, db, tree.ID, level, level*5))
	}
	for level := 1; level <= 5; level++ {
		nodes = append(nodes, testutil.SeedNode(t, ctx, db, other.ID, level, 100))
	}

	testutil.SeedProgress(t, ctx, db, alice.ID, nodes[0].ID, models.StatusCompleted)
	testutil.SeedProgress(t, ctx, db, alice.ID, nodes[1].ID, models.StatusReviewed)
	testutil.SeedProgress(t, ctx, db, alice.ID, nodes[2].ID, models.StatusInProgress)

	return ctx, &dashboardRepository{db: db}, alice, tree
}

func TestGetUserStatsCountsRecordsOnly(t *testing.T) {
	ctx, repo, alice, _ := tenNodeFixture(t)

	stats, err := repo.GetUserStats(ctx, nil, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Completed: 2, InProgress: 1, Unlocked: 0, TotalNodes: 3}, *stats)

	empty, err := repo.GetUserStats(ctx, nil, 4242)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{}, *empty)
}

func TestGetEarnedPointsAndStudentStats(t *testing.T) {
	ctx, repo, alice, _ := tenNodeFixture(t)
	bob := testutil.SeedUser(t, ctx, repo.db, "bob", models.RoleStudent)
	testutil.SeedUser(t, ctx, repo.db, "ivan", models.RoleInstructor)

	points, err := repo.GetEarnedPoints(ctx, nil, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), points)

	rows, err := repo.GetAllStudentStats(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2, "students only, including those without records")

	assert.Equal(t, alice.ID, rows[0].UserID)
	assert.Equal(t, int64(2), rows[0].CompletedNodes)
	assert.Equal(t, int64(1), rows[0].InProgressNodes)
	assert.Equal(t, int64(3), rows[0].TotalStarted)
	assert.Equal(t, int64(15), rows[0].EarnedPoints)

	assert.Equal(t, bob.ID, rows[1].UserID)
	assert.Equal(t, models.StudentStats{UserID: bob.ID, Username: "bob", Email: "bob@example.com"}, rows[1])
}

func TestGetTreeProgressUsesCatalogTotal(t *testing.T) {
	ctx, repo, alice, tree := tenNodeFixture(t)

	progress, err := repo.GetTreeProgress(ctx, nil, alice.ID, tree.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), progress.Completed)
	assert.Equal(t, int64(5), progress.Total)
}

func TestGetGradebookIsCrossJoin(t *testing.T) {
	ctx, repo, _, _ := tenNodeFixture(t)
	testutil.SeedUser(t, ctx, repo.db, "bob", models.RoleStudent)
	testutil.SeedUser(t, ctx, repo.db, "root", models.RoleAdmin)

	rows, err := repo.GetGradebook(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 20, "2 students x 10 nodes")

	// alice first, Web tree first, level order
	first := rows[0]
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, "Web", first.TreeName)
	assert.Equal(t, 1, first.NodeLevel)
	assert.Equal(t, 5, first.MaxPoints)
	require.NotNil(t, first.Status)
	assert.Equal(t, models.StatusCompleted, *first.Status)
	assert.Equal(t, "https://example.com/proof", models.ParseSubmission(first.Submission).Link)

	assert.Nil(t, rows[3].Status)
	assert.Equal(t, "Not Started", rows[3].StatusLabel())

	for _, row := range rows[10:] {
		assert.Equal(t, "bob", row.Username)
		assert.Nil(t, row.Status)
	}
}
