package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

const featureWorkflow = `---
name: feature-development
description: End-to-end feature development playbook
agents:
  - scout
  - cicd-manager
commands:
  - dev:feature
  - dev:test
skills:
  - prisma
---

# Feature Development

1. Scout the affected area.
2. Run /dev:feature with the requirements.
3. Verify with /dev:test.
`

func writeWorkflow(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "feature-development.md", featureWorkflow)

	loader, err := NewLoader(WithDirs(dir))
	require.NoError(t, err)

	wf, err := loader.Load(context.Background(), "feature-development")
	require.NoError(t, err)

	assert.Equal(t, "feature-development", wf.Name)
	assert.Equal(t, "End-to-end feature development playbook", wf.Meta.Description)

	agentRefs, commandRefs, skillRefs := wf.References()
	assert.Equal(t, []string{"scout", "cicd-manager"}, agentRefs)
	assert.Equal(t, []string{"dev:feature", "dev:test"}, commandRefs)
	assert.Equal(t, []string{"prisma"}, skillRefs)
	assert.Contains(t, wf.Body, "# Feature Development")
}

func TestLoader_Load_Namespaced(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "release/hotfix.md", "---\ndescription: Hotfix flow\n---\n\n# Hotfix\n")

	loader, err := NewLoader(WithDirs(dir))
	require.NoError(t, err)

	wf, err := loader.Load(context.Background(), "release:hotfix")
	require.NoError(t, err)
	assert.Equal(t, "release:hotfix", wf.Name)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader, err := NewLoader(WithDirs(t.TempDir()))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow 'missing' not found")
}

func TestLoader_List(t *testing.T) {
	repo := t.TempDir()
	pack := t.TempDir()

	writeWorkflow(t, repo, "feature-development.md", featureWorkflow)
	writeWorkflow(t, pack, "feature-development.md", "---\ndescription: pack version\n---\n\n# Pack\n")
	writeWorkflow(t, pack, "release/hotfix.md", "---\ndescription: Hotfix\n---\n\n# Hotfix\n")

	loader, err := NewLoader(WithDirConfigs(
		packs.DirConfig{Dir: repo},
		packs.DirConfig{Dir: pack, Prefix: "acme/flows/"},
	))
	require.NoError(t, err)

	list, err := loader.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	names := []string{list[0].Name, list[1].Name, list[2].Name}
	assert.Equal(t, []string{
		"acme/flows/feature-development",
		"acme/flows/release:hotfix",
		"feature-development",
	}, names)
}
