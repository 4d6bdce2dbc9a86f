package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

func writeFile(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newLinter(t *testing.T, base string, opts ...Option) *Linter {
	t.Helper()
	discovery, err := packs.NewDiscovery(packs.WithBaseDir(base), packs.WithHomeDir(t.TempDir()))
	require.NoError(t, err)
	l, err := New(discovery, opts...)
	require.NoError(t, err)
	return l
}

func findingRules(report *Report) []string {
	var rules []string
	for _, f := range report.Findings {
		rules = append(rules, f.Rule)
	}
	return rules
}

func TestRun_CleanContent(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "commands/dev/fix.md",
		"---\ndescription: Fix a bug\nargument-hint: \"<bug>\"\nallowed-tools:\n  - Read\n  - Bash(git commit:*)\n---\n\n# Fix\n\nFix: $ARGUMENTS\n")
	writeFile(t, base, "agents/scout.md",
		"---\nname: scout\ndescription: Explorer\n---\n\nYou are Scout.\n")
	writeFile(t, base, "skills/prisma/SKILL.md",
		"---\nname: prisma\ndescription: Prisma patterns\n---\n\n# Prisma\n")
	writeFile(t, base, "workflows/feature.md",
		"---\ndescription: Playbook\nagents: [scout]\ncommands: [dev:fix]\nskills: [prisma]\n---\n\n# Feature\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Findings)
	assert.Equal(t, 4, report.Checked)
	assert.False(t, report.HasErrors())
	assert.NoError(t, report.Err())
}

func TestRun_ArgumentHintWithoutPlaceholder(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "commands/fix.md",
		"---\ndescription: Fix\nargument-hint: \"<bug>\"\n---\n\n# Fix\n\nNo placeholder here.\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, "argument-hint", f.Rule)
	assert.Equal(t, SeverityError, f.Severity)
	assert.True(t, report.HasErrors())
	assert.Error(t, report.Err())
}

func TestRun_PlaceholderWithoutHintWarns(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "commands/fix.md",
		"---\ndescription: Fix\n---\n\n# Fix\n\nDo $ARGUMENTS\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, SeverityWarning, report.Findings[0].Severity)
	assert.False(t, report.HasErrors())
}

func TestRun_InvalidFrontmatterYAML(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "commands/bad.md", "---\ndescription: [unclosed\n---\n\n# Bad\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "frontmatter", report.Findings[0].Rule)
	assert.Equal(t, SeverityError, report.Findings[0].Severity)
}

func TestRun_MalformedAllowedTools(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "commands/fix.md",
		"---\ndescription: Fix\nallowed-tools:\n  - \"Bash(git [:*)\"\n  - \"(no-name)\"\n---\n\n# Fix\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	rules := findingRules(report)
	assert.Equal(t, []string{"allowed-tools", "allowed-tools"}, rules)
	assert.True(t, report.HasErrors())
}

func TestRun_AgentRequirements(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "agents/empty.md", "---\nname: empty\n---\n\n\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	rules := findingRules(report)
	assert.Contains(t, rules, "description")
	assert.Contains(t, rules, "body")
	assert.Equal(t, 2, report.Errors())
}

func TestRun_SkillNameMismatch(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "skills/prisma/SKILL.md",
		"---\nname: postgres\ndescription: Something else\n---\n\n# Postgres\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "name", report.Findings[0].Rule)
	assert.Equal(t, SeverityWarning, report.Findings[0].Severity)
}

func TestRun_UnresolvedWorkflowReferences(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "workflows/feature.md",
		"---\ndescription: Playbook\nagents: [ghost]\ncommands: [missing:cmd]\nskills: [nope]\n---\n\n# Feature\n")

	report, err := newLinter(t, base).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Warnings())
	assert.False(t, report.HasErrors())
}

func TestRun_PatternFilter(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "commands/dev/fix.md", "---\ndescription: Fix\n---\n\n# Fix\n")
	writeFile(t, base, "commands/docs/update.md", "no frontmatter, would warn")

	linter := newLinter(t, base, WithPatterns("**/commands/dev/*.md"))
	report, err := linter.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Checked)
	assert.Empty(t, report.Findings)
}

func TestValidateToolRef(t *testing.T) {
	assert.NoError(t, ValidateToolRef("Read"))
	assert.NoError(t, ValidateToolRef("Bash(git commit:*)"))
	assert.NoError(t, ValidateToolRef("mcp_server-tool(arg)"))

	assert.Error(t, ValidateToolRef(""))
	assert.Error(t, ValidateToolRef("(pattern)"))
	assert.Error(t, ValidateToolRef("Bash(git [:*)"))
	assert.Error(t, ValidateToolRef("123tool"))
}
