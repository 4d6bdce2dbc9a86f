package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doanchienthangdev/omgkit/pkg/lint"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

func writeContent(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestLinter(t *testing.T, base string) *lint.Linter {
	t.Helper()
	discovery, err := packs.NewDiscovery(packs.WithBaseDir(base), packs.WithHomeDir(t.TempDir()))
	require.NoError(t, err)
	linter, err := lint.New(discovery)
	require.NoError(t, err)
	return linter
}

func TestLintOnceAggregatesErrors(t *testing.T) {
	base := t.TempDir()
	writeContent(t, base, "commands/fix.md",
		"---\ndescription: Fix\nargument-hint: \"<bug>\"\n---\n\n# Fix\n\nNo placeholder here.\n")
	writeContent(t, base, "agents/empty.md",
		"---\nname: empty\n---\n\n\n")

	err := lintOnce(context.Background(), newTestLinter(t, base))
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), "argument-hint")
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "body")
}

func TestLintOnceCleanContent(t *testing.T) {
	base := t.TempDir()
	writeContent(t, base, "commands/fix.md",
		"---\ndescription: Fix a bug\nargument-hint: \"<bug>\"\n---\n\n# Fix\n\nFix: $ARGUMENTS\n")

	assert.NoError(t, lintOnce(context.Background(), newTestLinter(t, base)))
}
