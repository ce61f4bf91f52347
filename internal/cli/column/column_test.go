package column

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/kanban/internal/cli"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/testutil"
	clitest "github.com/thenoetrevino/kanban/internal/testutil/cli"
)

func remoteBoard(t *testing.T, env *clitest.Env) models.Board {
	t.Helper()
	b, err := env.NewApp(t).Gateway.List(context.Background())
	require.NoError(t, err)
	return b
}

func TestCreateColumn(t *testing.T) {
	env := clitest.SetupCLITest(t)

	t.Run("json output", func(t *testing.T) {
		output, err := env.ExecuteCLICommand(t, CreateCmd(), []string{"--title", "Review", "--color", "#FF0000", "--json"})
		require.NoError(t, err)

		result := testutil.ParseJSON(t, output)
		assert.Equal(t, true, result["success"])
		data := result["data"].(map[string]any)
		assert.Equal(t, "review", data["id"])
		assert.Equal(t, "Review", data["displayTitle"])
		assert.Equal(t, "#FF0000", data["color"])
		assert.Equal(t, false, data["isFixed"])
	})

	t.Run("quiet output is the id", func(t *testing.T) {
		output, err := env.ExecuteCLICommand(t, CreateCmd(), []string{"--title", "Review", "--quiet"})
		require.NoError(t, err)
		assert.Equal(t, "review-2", strings.TrimSpace(output))
	})

	t.Run("human output", func(t *testing.T) {
		output, err := env.ExecuteCLICommand(t, CreateCmd(), []string{"--title", "Blocked"})
		require.NoError(t, err)
		assert.Contains(t, output, "Blocked")
		assert.Contains(t, output, "created")
		assert.Contains(t, output, "ID: blocked")
	})

	b := remoteBoard(t, env)
	require.Len(t, b.Columns, 6)
	assert.Equal(t, "blocked", b.Columns[5].ID)
	assert.Equal(t, models.DefaultColumnColor, b.Columns[5].Color)
}

func TestCreateColumn_Rejected(t *testing.T) {
	env := clitest.SetupCLITest(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing title", args: []string{}},
		{name: "bad color", args: []string{"--title", "Review", "--color", "red"}},
		{name: "short color", args: []string{"--title", "Review", "--color", "#F00"}},
		{name: "title too long", args: []string{"--title", strings.Repeat("c", models.MaxColumnTitleLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ExecuteCLICommand(t, CreateCmd(), tt.args)
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
			assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))
		})
	}

	assert.Len(t, remoteBoard(t, env).Columns, len(models.FixedColumnIDs))
}

func TestDeleteColumn(t *testing.T) {
	env := clitest.SetupCLITest(t)
	ctx := context.Background()

	gw := env.NewApp(t).Gateway
	col, err := gw.CreateColumn(ctx, "Review", "")
	require.NoError(t, err)
	_, err = gw.CreateTask(ctx, "In review", col.ID)
	require.NoError(t, err)
	_, err = gw.CreateTask(ctx, "Untouched", models.ColumnTodo)
	require.NoError(t, err)

	// by title, tasks go with the column
	output, err := env.ExecuteCLICommand(t, DeleteCmd(), []string{"--id", "review", "--json"})
	require.NoError(t, err)
	data := testutil.ParseJSON(t, output)["data"].(map[string]any)
	assert.Equal(t, col.ID, data["id"])
	assert.Equal(t, float64(1), data["removedTasks"])

	b := remoteBoard(t, env)
	assert.Len(t, b.Columns, len(models.FixedColumnIDs))
	require.Len(t, b.Tasks, 1)
	assert.Equal(t, "Untouched", b.Tasks[0].Title)
}

func TestDeleteColumn_Rejected(t *testing.T) {
	env := clitest.SetupCLITest(t)

	t.Run("fixed column", func(t *testing.T) {
		output, err := env.ExecuteCLICommand(t, DeleteCmd(), []string{"--id", models.ColumnDone, "--json"})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrFixedColumn)
		assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))
		assert.Equal(t, models.CodeFixedColumn, testutil.ParseJSON(t, output)["error"].(map[string]any)["code"])
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := env.ExecuteCLICommand(t, DeleteCmd(), []string{"--id", "nowhere"})
		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCodeFor(err))
	})

	assert.Len(t, remoteBoard(t, env).Columns, len(models.FixedColumnIDs))
}
