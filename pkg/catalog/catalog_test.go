package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

// writePackRoot lays out a content tree under dir the way a pack root is
// structured on disk.
func writePackRoot(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"commands/dev/fix.md":              "---\ndescription: Fix a bug\n---\n\n# Fix\n\n$ARGUMENTS\n",
		"commands/commit.md":               "---\ndescription: Write a commit\n---\n\n# Commit\n",
		"agents/scout.md":                  "---\nname: scout\ndescription: Explorer\n---\n\nYou are Scout.\n",
		"skills/prisma/SKILL.md":           "---\nname: prisma\ndescription: Prisma patterns\n---\n\n# Prisma\n",
		"workflows/feature-development.md": "---\ndescription: Playbook\nagents: [scout]\ncommands: [dev:fix]\nskills: [prisma]\n---\n\n# Feature\n",
	}

	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestBuilder_Build(t *testing.T) {
	base := t.TempDir()
	home := t.TempDir()
	writePackRoot(t, base)

	discovery, err := packs.NewDiscovery(packs.WithBaseDir(base), packs.WithHomeDir(home))
	require.NoError(t, err)

	builder, err := NewBuilder(discovery)
	require.NoError(t, err)

	idx, err := builder.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, idx.Commands, 2)
	assert.True(t, idx.HasCommand("dev:fix"))
	assert.True(t, idx.HasCommand("commit"))
	assert.False(t, idx.HasCommand("dev:unknown"))

	require.Len(t, idx.Agents, 1)
	assert.True(t, idx.HasAgent("scout"))

	assert.True(t, idx.HasSkill("prisma"))
	assert.False(t, idx.HasSkill("tailwind"))

	require.Len(t, idx.Workflows, 1)
	wf := idx.Workflow("feature-development")
	require.NotNil(t, wf)
	assert.Equal(t, []string{"scout"}, wf.Meta.Agents)

	cmd := idx.Command("dev:fix")
	require.NotNil(t, cmd)
	assert.Equal(t, "Fix a bug", cmd.Meta.Description)

	agent := idx.Agent("scout")
	require.NotNil(t, agent)
	assert.Equal(t, "Explorer", agent.Meta.Description)
}

func TestBuilder_Build_IncludesInstalledPacks(t *testing.T) {
	base := t.TempDir()
	home := t.TempDir()

	packRoot := filepath.Join(base, packs.PacksSubdir, "acme@tools")
	require.NoError(t, os.MkdirAll(filepath.Join(packRoot, "commands"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(packRoot, "commands", "deploy.md"),
		[]byte("---\ndescription: Deploy\n---\n\n# Deploy\n"), 0o644))

	discovery, err := packs.NewDiscovery(packs.WithBaseDir(base), packs.WithHomeDir(home))
	require.NoError(t, err)

	builder, err := NewBuilder(discovery)
	require.NoError(t, err)

	idx, err := builder.Build(context.Background())
	require.NoError(t, err)

	assert.True(t, idx.HasCommand("acme/tools/deploy"))
}
