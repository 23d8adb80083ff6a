package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaneck/refstack/internal/parser"
)

func TestLoadGuideline(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, dir, "guideline.json", testGuideline)
		doc, err := LoadGuideline(path)
		require.NoError(t, err)
		assert.Equal(t, "2026.01", doc.Version)
		assert.Len(t, doc.Components, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGuideline(dir + "/nope.json")
		require.Error(t, err)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	})

	t.Run("malformed guideline", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"version": "2026.01"}`)
		_, err := LoadGuideline(path)
		require.Error(t, err)
		assert.True(t, parser.IsMalformed(err))
	})
}

func TestLoadRunJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare array", func(t *testing.T) {
		path := writeFile(t, dir, "results.json", `["t1", "t2", "t3"]`)
		run, err := LoadRun(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"t1", "t2", "t3"}, run.Results)
		assert.Empty(t, run.CPID)
	})

	t.Run("run object", func(t *testing.T) {
		path := writeFile(t, dir, "run.json", `{
			"cpid": "cloud-42",
			"duration_seconds": 300,
			"results": [{"name": "t1"}, {"name": "t2"}],
			"metadata": {"region": "us-east"}
		}`)
		run, err := LoadRun(path)
		require.NoError(t, err)
		assert.Equal(t, "cloud-42", run.CPID)
		assert.Equal(t, int64(300), run.DurationSeconds)
		assert.Equal(t, []string{"t1", "t2"}, run.Results)
		assert.Equal(t, "us-east", run.Metadata["region"])
	})

	t.Run("garbage", func(t *testing.T) {
		path := writeFile(t, dir, "garbage.json", `not json at all`)
		_, err := LoadRun(path)
		require.Error(t, err)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ErrCodeBadInput, loadErr.Code)
	})
}

func TestLoadRunYAML(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare list", func(t *testing.T) {
		path := writeFile(t, dir, "results.yaml", "- t1\n- t2\n")
		run, err := LoadRun(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"t1", "t2"}, run.Results)
	})

	t.Run("run object", func(t *testing.T) {
		path := writeFile(t, dir, "run.yml", "cpid: cloud-7\nresults:\n  - name: t1\n")
		run, err := LoadRun(path)
		require.NoError(t, err)
		assert.Equal(t, "cloud-7", run.CPID)
		assert.Equal(t, []string{"t1"}, run.Results)
	})
}

func TestLoadRunPlainLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "results.txt", "t1\n\n# a comment\n  t2  \nt3\n")

	run, err := LoadRun(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, run.Results)
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "results.txt", "t1\nt2\n")

	names, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, names)
}
