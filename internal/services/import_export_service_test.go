package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportGradebook(t *testing.T) {
	env := newTestEnv(t)
	seedTenNodeCatalog(t, env)

	var buf bytes.Buffer
	require.NoError(t, env.services.ImportExport().ExportGradebook(env.ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Gradebook"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3, "header plus two students")
	assert.Equal(t, "Username", summary[0][0])
	assert.Equal(t, "alice", summary[1][0])
	assert.Equal(t, "15", summary[1][6])
	assert.Equal(t, "bob", summary[2][0])

	gradebook, err := f.GetRows("Gradebook")
	require.NoError(t, err)
	require.Len(t, gradebook, 21)
	assert.Equal(t, "Status", gradebook[0][7])
	assert.Equal(t, "completed", gradebook[1][7])
	assert.Equal(t, "https://example.com/proof", gradebook[1][8])
	assert.Equal(t, "Not Started", gradebook[11][7])
}
