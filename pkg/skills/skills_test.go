package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

func writeSkill(t *testing.T, baseDir, dirName, content string) {
	t.Helper()
	dir := filepath.Join(baseDir, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SkillFileName), []byte(content), 0o644))
}

const prismaSkill = `---
name: prisma
description: Prisma ORM schema and query patterns
tags:
  - database
  - orm
---

# Prisma

Common schema patterns and query recipes.
`

func TestDiscovery_Discover(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "prisma", prismaSkill)
	writeSkill(t, dir, "tailwind", "---\nname: tailwind\ndescription: Tailwind utility reference\n---\n\n# Tailwind\n")

	discovery, err := NewDiscovery(WithDirs(dir))
	require.NoError(t, err)

	skills, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 2)

	prisma := skills["prisma"]
	require.NotNil(t, prisma)
	assert.Equal(t, "Prisma ORM schema and query patterns", prisma.Description)
	assert.Equal(t, []string{"database", "orm"}, prisma.Meta.Tags)
	assert.Equal(t, filepath.Join(dir, "prisma"), prisma.Directory)
	assert.Contains(t, prisma.Content, "# Prisma")
}

func TestDiscovery_Discover_SkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "good", prismaSkill)
	writeSkill(t, dir, "no-name", "---\ndescription: missing name\n---\n\nbody\n")
	writeSkill(t, dir, "no-frontmatter", "# Just markdown\n")

	// A plain file in the skills dir is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("readme"), 0o644))

	discovery, err := NewDiscovery(WithDirs(dir))
	require.NoError(t, err)

	skills, err := discovery.Discover()
	require.NoError(t, err)
	assert.Len(t, skills, 1)
	assert.Contains(t, skills, "prisma")
}

func TestDiscovery_Precedence(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()

	writeSkill(t, repo, "prisma", "---\nname: prisma\ndescription: repo version\n---\n\nrepo\n")
	writeSkill(t, home, "prisma", "---\nname: prisma\ndescription: home version\n---\n\nhome\n")

	discovery, err := NewDiscovery(WithDirs(repo, home))
	require.NoError(t, err)

	skill, err := discovery.Get("prisma")
	require.NoError(t, err)
	assert.Equal(t, "repo version", skill.Description)
}

func TestDiscovery_PackPrefix(t *testing.T) {
	packDir := t.TempDir()
	writeSkill(t, packDir, "prisma", prismaSkill)

	discovery, err := NewDiscovery(WithDirConfigs(packs.DirConfig{Dir: packDir, Prefix: "acme/skills/"}))
	require.NoError(t, err)

	names, err := discovery.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/skills/prisma"}, names)
}

func TestDiscovery_Get_NotFound(t *testing.T) {
	discovery, err := NewDiscovery(WithDirs(t.TempDir()))
	require.NoError(t, err)

	_, err = discovery.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill 'missing' not found")
}

func TestFilterByAllowlist(t *testing.T) {
	all := map[string]*Skill{
		"prisma":   {Name: "prisma"},
		"tailwind": {Name: "tailwind"},
	}

	assert.Len(t, FilterByAllowlist(all, nil), 2)

	filtered := FilterByAllowlist(all, []string{"prisma", "unknown"})
	assert.Len(t, filtered, 1)
	assert.Contains(t, filtered, "prisma")
}
