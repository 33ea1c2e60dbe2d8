package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/testutil"
)

func TestCatalogAdminWrites(t *testing.T) {
	env := newTestEnv(t)
	root := env.user(t, "root", models.RoleAdmin)
	ivan := env.user(t, "ivan", models.RoleInstructor)
	catalog := env.services.Catalog()

	_, err := catalog.CreateTree(env.ctx, ivan.ID, &CreateTreeRequest{Name: "Web", Category: "offense"})
	assert.ErrorIs(t, err, ErrAdminRequired)

	_, err = catalog.CreateTree(env.ctx, root.ID, &CreateTreeRequest{Name: "", Category: "offense"})
	assert.Equal(t, ErrValidationFailed, KindOf(err))

	tree, err := catalog.CreateTree(env.ctx, root.ID, &CreateTreeRequest{Name: "Web", Category: "offense", DisplayOrder: 1})
	require.NoError(t, err)
	assert.NotZero(t, tree.ID)

	_, err = catalog.CreateTree(env.ctx, root.ID, &CreateTreeRequest{Name: "Web", Category: "offense"})
	assert.ErrorIs(t, err, ErrDuplicateTree)

	tests := []struct {
		name    string
		req     CreateNodeRequest
		wantErr error
	}{
		{name: "unknown tree", req: CreateNodeRequest{TreeID: 999, Level: 1, Title: "Recon"}, wantErr: ErrTreeNotFound},
		{name: "missing title", req: CreateNodeRequest{TreeID: tree.ID, Level: 1}, wantErr: ErrValidationFailed},
		{name: "level zero", req: CreateNodeRequest{TreeID: tree.ID, Level: 0, Title: "Recon"}, wantErr: ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := catalog.CreateNode(env.ctx, root.ID, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	node, err := catalog.CreateNode(env.ctx, root.ID, &CreateNodeRequest{TreeID: tree.ID, Level: 1, Title: "Recon", Points: 10})
	require.NoError(t, err)
	assert.Equal(t, tree.ID, node.TreeID)

	summaries, err := catalog.ListTrees(env.ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].NodeCount)
}

func TestGetTreeWithProgressDefaultsToLocked(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", models.RoleStudent)
	tree := env.tree(t, "Web", 1)
	first := env.node(t, tree.ID, 1, 10)
	env.node(t, tree.ID, 2, 20)
	env.node(t, tree.ID, 3, 30)
	testutil.SeedProgress(t, env.ctx, env.db, alice.ID, first.ID, models.StatusCompleted)
	catalog := env.services.Catalog()

	view, err := catalog.GetTreeWithProgress(env.ctx, alice.ID, tree.ID)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 3)

	assert.Equal(t, models.StatusCompleted, view.Nodes[0].Status)
	require.NotNil(t, view.Nodes[0].Progress)
	for _, n := range view.Nodes[1:] {
		assert.Equal(t, models.StatusLocked, n.Status)
		assert.Nil(t, n.Progress)
	}

	withNodes, err := catalog.GetTreeWithNodes(env.ctx, tree.ID)
	require.NoError(t, err)
	assert.Len(t, withNodes.Nodes, 3)

	_, err = catalog.GetTree(env.ctx, 999)
	assert.ErrorIs(t, err, ErrTreeNotFound)
}
