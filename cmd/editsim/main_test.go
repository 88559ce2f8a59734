package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScoreText(t *testing.T) {
	out, err := execute(t, "score", "--base", "kitten", "--revised", "sitting")
	require.NoError(t, err)
	assert.Contains(t, out, "Edit ratio: 42.9%")
	assert.Contains(t, out, "FLAGGED:")
}

func TestScoreJSONWithDiff(t *testing.T) {
	out, err := execute(t, "score", "--base", "abc", "--revised", "abcd", "--output", "json", "--diff")
	require.NoError(t, err)

	var got jsonOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0.25, got.Ratio)
	assert.Equal(t, 1, got.Distance)
	assert.False(t, got.Flagged)
	require.Len(t, got.Segments, 2)
}

func TestScoreEmptyInlineTexts(t *testing.T) {
	out, err := execute(t, "score", "--base", "", "--revised", "", "--output", "json")
	require.NoError(t, err)

	var got jsonOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0.0, got.Ratio)
}

func TestScoreFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "draft.txt")
	revisedPath := filepath.Join(dir, "final.txt")
	require.NoError(t, os.WriteFile(basePath, []byte("同じ文章です"), 0o600))
	require.NoError(t, os.WriteFile(revisedPath, []byte("同じ文章です"), 0o600))

	out, err := execute(t, "score", "--base-file", basePath, "--revised-file", revisedPath, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "Edit ratio: 0.0%")
	assert.Contains(t, out, "同じ文章です")
}

func TestScoreErrors(t *testing.T) {
	_, err := execute(t, "score", "--revised", "x")
	assert.Error(t, err)

	_, err = execute(t, "score", "--base", "a", "--revised", "b", "--output", "xml")
	assert.Error(t, err)

	_, err = execute(t, "score", "--base", "a", "--revised", "b", "--threshold", "3")
	assert.Error(t, err)

	_, err = execute(t, "score", "--base-file", "/nonexistent/draft.txt", "--revised", "b")
	assert.Error(t, err)
}
