package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "refstack.db")
	resultsPath := writeFile(t, dir, "run.json", `{
		"cpid": "cloud-9",
		"duration_seconds": 120,
		"results": [{"name": "t1"}, {"name": "t2"}]
	}`)

	var runID string

	t.Run("store", func(t *testing.T) {
		out, err := execute(t, "--format", "json", "runs", "store", resultsPath, "--db", dbPath)
		require.NoError(t, err)

		var resp struct {
			Status string `json:"status"`
			Data   struct {
				ID      string `json:"id"`
				Results int    `json:"results"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.NotEmpty(t, resp.Data.ID)
		assert.Equal(t, 2, resp.Data.Results)
		runID = resp.Data.ID
	})

	t.Run("show", func(t *testing.T) {
		require.NotEmpty(t, runID)
		out, err := execute(t, "runs", "show", runID, "--db", dbPath)
		require.NoError(t, err)
		assert.Contains(t, out, "run "+runID)
		assert.Contains(t, out, "cpid: cloud-9")
		assert.Contains(t, out, "passed tests: 2")
	})

	t.Run("show unknown id", func(t *testing.T) {
		out, err := execute(t, "runs", "show", "no-such-run", "--db", dbPath)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, ErrCodeRunNotFound)
	})

	t.Run("list", func(t *testing.T) {
		out, err := execute(t, "--format", "json", "runs", "list", "--db", dbPath)
		require.NoError(t, err)

		var resp struct {
			Status string        `json:"status"`
			Data   RunListResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 1, resp.Data.Total)
		assert.Equal(t, 1, resp.Data.TotalPages)
		require.Len(t, resp.Data.Runs, 1)
		assert.Equal(t, runID, resp.Data.Runs[0].ID)
	})

	t.Run("list cpid filter", func(t *testing.T) {
		out, err := execute(t, "--format", "json", "runs", "list", "--db", dbPath, "--cpid", "other-cloud")
		require.NoError(t, err)

		var resp struct {
			Data RunListResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 0, resp.Data.Total)
		assert.Empty(t, resp.Data.Runs)
	})

	t.Run("list page out of range", func(t *testing.T) {
		_, err := execute(t, "runs", "list", "--db", dbPath, "--page", "5")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}
