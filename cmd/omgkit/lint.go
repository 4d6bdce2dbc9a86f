package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/lint"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
	"github.com/doanchienthangdev/omgkit/pkg/presenter"
	"github.com/doanchienthangdev/omgkit/pkg/watcher"
)

type LintConfig struct {
	Patterns []string
	Watch    bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint content front-matter and cross-references",
	Long: `Check commands, agents, skills, and workflows for invalid front-matter,
malformed tool references, and unresolved cross-references.

Exits non-zero when any error-severity finding is reported; warnings do not
affect the exit code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := &LintConfig{}
		config.Patterns, _ = cmd.Flags().GetStringSlice("pattern")
		config.Watch, _ = cmd.Flags().GetBool("watch")

		return runLint(cmd.Context(), config)
	},
}

func init() {
	lintCmd.Flags().StringSlice("pattern", []string{}, "Only lint files matching these glob patterns")
	lintCmd.Flags().Bool("watch", false, "Re-lint whenever content changes")
}

func runLint(ctx context.Context, config *LintConfig) error {
	discovery, err := packs.NewDiscovery()
	if err != nil {
		return errors.Wrap(err, "failed to create pack discovery")
	}

	linter, err := lint.New(discovery, lint.WithPatterns(config.Patterns...))
	if err != nil {
		return err
	}

	if !config.Watch {
		return lintOnce(ctx, linter)
	}

	return watchLint(ctx, discovery, linter)
}

// lintOnce runs a single lint pass. Error-severity findings come back as one
// aggregated error so the process exits non-zero with every problem listed.
func lintOnce(ctx context.Context, linter *lint.Linter) error {
	report, err := linter.Run(ctx)
	if err != nil {
		return err
	}
	printReport(report)
	return report.Err()
}

func watchLint(ctx context.Context, discovery *packs.Discovery, linter *lint.Linter) error {
	w, err := watcher.New(0)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(contentRoots(discovery)...); err != nil {
		return err
	}

	runOnce := func() {
		report, err := linter.Run(ctx)
		if err != nil {
			presenter.Error(err, "lint failed")
			return
		}
		printReport(report)
	}

	runOnce()
	presenter.Info("Watching for content changes (ctrl-c to stop)...")

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := w.Watch(ctx, func() {
		presenter.Separator()
		runOnce()
	}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// contentRoots collects every configured content directory for watching.
func contentRoots(discovery *packs.Discovery) []string {
	var roots []string
	for _, group := range [][]packs.DirConfig{
		discovery.CommandDirs(),
		discovery.AgentDirs(),
		discovery.SkillDirs(),
		discovery.WorkflowDirs(),
	} {
		for _, dc := range group {
			roots = append(roots, dc.Dir)
		}
	}
	return roots
}

func printReport(report *lint.Report) {
	for _, finding := range report.Findings {
		message := fmt.Sprintf("%s: [%s] %s", finding.Path, finding.Rule, finding.Message)
		if finding.Severity == lint.SeverityError {
			presenter.Error(errors.New(message), "")
		} else {
			presenter.Warning(message)
		}
	}

	summary := fmt.Sprintf("%d files checked, %d errors, %d warnings",
		report.Checked, report.Errors(), report.Warnings())
	if report.HasErrors() {
		presenter.Error(errors.New(summary), "")
	} else {
		presenter.Success(summary)
	}
}
