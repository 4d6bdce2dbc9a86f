package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

func writeCommand(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const fixCommand = `---
description: Fix a bug
argument-hint: "<bug description>"
---

# Fix

Investigate and fix: $ARGUMENTS
`

func TestLoader_Load_NamespacedName(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "dev/fix.md", fixCommand)

	loader, err := NewLoader(WithDirs(dir))
	require.NoError(t, err)

	cmd, err := loader.Load(context.Background(), "dev:fix")
	require.NoError(t, err)

	assert.Equal(t, "dev:fix", cmd.Name)
	assert.Equal(t, "Fix a bug", cmd.Meta.Description)
	assert.Equal(t, "<bug description>", cmd.Meta.ArgumentHint)
	assert.Contains(t, cmd.Body, "$ARGUMENTS")
	assert.Equal(t, filepath.Join(dir, "dev/fix.md"), cmd.Path)
}

func TestLoader_Load_TopLevelName(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "commit.md", "---\ndescription: Commit\n---\n\n# Commit\n")

	loader, err := NewLoader(WithDirs(dir))
	require.NoError(t, err)

	cmd, err := loader.Load(context.Background(), "commit")
	require.NoError(t, err)
	assert.Equal(t, "commit", cmd.Name)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader, err := NewLoader(WithDirs(t.TempDir()))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "missing:cmd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command 'missing:cmd' not found")
}

func TestLoader_Load_PackPrefix(t *testing.T) {
	packDir := t.TempDir()
	writeCommand(t, packDir, "dev/fix.md", fixCommand)

	loader, err := NewLoader(WithDirConfigs(packs.DirConfig{
		Dir:    packDir,
		Prefix: "acme/tools/",
	}))
	require.NoError(t, err)

	cmd, err := loader.Load(context.Background(), "acme/tools/dev:fix")
	require.NoError(t, err)
	assert.Equal(t, "acme/tools/dev:fix", cmd.Name)

	// The unprefixed name must not resolve through a prefixed directory.
	_, err = loader.Load(context.Background(), "dev:fix")
	assert.Error(t, err)
}

func TestLoader_List_PrecedenceAndSorting(t *testing.T) {
	high := t.TempDir()
	low := t.TempDir()

	writeCommand(t, high, "dev/fix.md", "---\ndescription: repo-local fix\n---\n\n# Fix\n")
	writeCommand(t, low, "dev/fix.md", "---\ndescription: global fix\n---\n\n# Fix\n")
	writeCommand(t, low, "docs/update.md", "---\ndescription: Update docs\n---\n\n# Update\n")

	loader, err := NewLoader(WithDirs(high, low))
	require.NoError(t, err)

	list, err := loader.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "dev:fix", list[0].Name)
	assert.Equal(t, "repo-local fix", list[0].Meta.Description)
	assert.Equal(t, "docs:update", list[1].Name)
}

func TestLoader_List_SkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "good.md", "---\ndescription: ok\n---\n\n# Good\n")
	writeCommand(t, dir, "bad.md", "---\ndescription: [unclosed\n---\n\n# Bad\n")

	loader, err := NewLoader(WithDirs(dir))
	require.NoError(t, err)

	list, err := loader.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].Name)
}

func TestLoader_List_MissingDirIsNotAnError(t *testing.T) {
	loader, err := NewLoader(WithDirs(filepath.Join(t.TempDir(), "does-not-exist")))
	require.NoError(t, err)

	list, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewLoader_OptionErrors(t *testing.T) {
	_, err := NewLoader(WithDirs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one command directory")
}
