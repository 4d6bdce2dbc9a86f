// Package lint validates prompt pack content: front-matter schema, argument
// placeholder usage, allowed-tools patterns, and cross-references between
// commands, agents, skills, and workflows.
package lint

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/agents"
	"github.com/doanchienthangdev/omgkit/pkg/catalog"
	"github.com/doanchienthangdev/omgkit/pkg/commands"
	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
	"github.com/doanchienthangdev/omgkit/pkg/logger"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
	"github.com/doanchienthangdev/omgkit/pkg/skills"
)

// Severity classifies a finding.
type Severity string

// Finding severities. Errors fail a lint run; warnings do not.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single lint result.
type Finding struct {
	Path     string   `json:"path"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Report is the outcome of a lint run.
type Report struct {
	Findings []Finding `json:"findings"`
	Checked  int       `json:"checked"`
}

// Errors counts error-severity findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning-severity findings.
func (r *Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// HasErrors reports whether the run produced any error-severity finding.
func (r *Report) HasErrors() bool {
	return r.Errors() > 0
}

// Err aggregates error-severity findings into a single error, or nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			result = multierror.Append(result, errors.Errorf("%s: %s: %s", f.Path, f.Rule, f.Message))
		}
	}
	return result.ErrorOrNil()
}

// Linter walks content directories and checks every file.
type Linter struct {
	discovery *packs.Discovery
	patterns  []string
}

// Option configures a Linter.
type Option func(*Linter)

// WithPatterns restricts linting to files whose slash path matches any of
// the doublestar patterns (e.g. "**/commands/dev/*.md").
func WithPatterns(patterns ...string) Option {
	return func(l *Linter) { l.patterns = patterns }
}

// New creates a linter. A nil discovery means default pack discovery.
func New(discovery *packs.Discovery, opts ...Option) (*Linter, error) {
	if discovery == nil {
		d, err := packs.NewDiscovery()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create pack discovery")
		}
		discovery = d
	}

	l := &Linter{discovery: discovery}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run lints all discoverable content and returns the report. The catalog is
// built first so cross-reference checks can resolve names across packs.
func (l *Linter) Run(ctx context.Context) (*Report, error) {
	builder, err := catalog.NewBuilder(l.discovery)
	if err != nil {
		return nil, err
	}
	index, err := builder.Build(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build catalog")
	}

	report := &Report{}

	l.lintCommandDirs(ctx, index, report)
	l.lintAgentDirs(ctx, index, report)
	l.lintSkillDirs(ctx, index, report)
	l.lintWorkflowDirs(ctx, index, report)

	logger.G(ctx).WithFields(map[string]interface{}{
		"checked":  report.Checked,
		"errors":   report.Errors(),
		"warnings": report.Warnings(),
	}).Debug("lint run complete")

	return report, nil
}

func (l *Linter) matches(path string) bool {
	if len(l.patterns) == 0 {
		return true
	}
	slashPath := filepath.ToSlash(path)
	for _, pattern := range l.patterns {
		if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
			return true
		}
	}
	return false
}

func (l *Linter) lintCommandDirs(ctx context.Context, index *catalog.Index, report *Report) {
	for _, cfg := range l.discovery.CommandDirs() {
		walkMarkdown(cfg.Dir, func(path string) {
			if !l.matches(path) {
				return
			}
			report.Checked++
			lintCommandFile(path, index, report)
		})
	}
}

func (l *Linter) lintAgentDirs(ctx context.Context, index *catalog.Index, report *Report) {
	for _, cfg := range l.discovery.AgentDirs() {
		entries, err := os.ReadDir(cfg.Dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			path := filepath.Join(cfg.Dir, entry.Name())
			if !l.matches(path) {
				continue
			}
			report.Checked++
			lintAgentFile(path, report)
		}
	}
}

func (l *Linter) lintSkillDirs(ctx context.Context, index *catalog.Index, report *Report) {
	for _, cfg := range l.discovery.SkillDirs() {
		entries, err := os.ReadDir(cfg.Dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(cfg.Dir, entry.Name(), skills.SkillFileName)
			if !l.matches(path) {
				continue
			}
			report.Checked++
			lintSkillFile(path, entry.Name(), index, report)
		}
	}
}

func (l *Linter) lintWorkflowDirs(ctx context.Context, index *catalog.Index, report *Report) {
	for _, cfg := range l.discovery.WorkflowDirs() {
		walkMarkdown(cfg.Dir, func(path string) {
			if !l.matches(path) {
				return
			}
			report.Checked++
			lintWorkflowFile(path, index, report)
		})
	}
}

func walkMarkdown(dir string, fn func(path string)) {
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}
		fn(path)
		return nil
	})
}

func add(report *Report, path, rule string, severity Severity, message string) {
	report.Findings = append(report.Findings, Finding{
		Path:     path,
		Rule:     rule,
		Severity: severity,
		Message:  message,
	})
}

// parseFile reads and parses a content file, recording findings for files
// that cannot be parsed. The returned document is nil when parsing failed.
func parseFile(path string, report *Report) *frontmatter.Document {
	content, err := os.ReadFile(path)
	if err != nil {
		add(report, path, "read", SeverityError, err.Error())
		return nil
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		add(report, path, "frontmatter", SeverityError, err.Error())
		return nil
	}
	return doc
}

func lintCommandFile(path string, index *catalog.Index, report *Report) {
	doc := parseFile(path, report)
	if doc == nil {
		return
	}

	if !doc.HasFrontmatter() {
		add(report, path, "frontmatter", SeverityWarning, "command has no frontmatter block")
	} else if doc.Meta.Description == "" {
		add(report, path, "description", SeverityWarning, "command has no description")
	}

	hasPlaceholders := commands.HasPlaceholders(doc.Body)
	if doc.Meta.ArgumentHint != "" && !hasPlaceholders {
		add(report, path, "argument-hint", SeverityError,
			"argument-hint is declared but the body contains no $ARGUMENTS or positional placeholder")
	}
	if hasPlaceholders && doc.Meta.ArgumentHint == "" {
		add(report, path, "argument-hint", SeverityWarning,
			"body uses argument placeholders but no argument-hint is declared")
	}

	checkAllowedTools(path, doc.Meta.AllowedTools, report)
	checkHeading(path, doc.Body, report)
	checkRelated(path, doc.Meta, index, report)
}

func lintAgentFile(path string, report *Report) {
	doc := parseFile(path, report)
	if doc == nil {
		return
	}

	if !doc.HasFrontmatter() {
		add(report, path, "frontmatter", SeverityError, "agent has no frontmatter block")
		return
	}

	agent := &agents.Agent{Meta: doc.Meta, SystemPrompt: doc.Body, Path: path}
	for _, issue := range agents.Check(agent) {
		// The loader falls back to the file name, so a missing name is
		// not a defect here.
		if issue.Field == "name" {
			continue
		}
		add(report, path, issue.Field, SeverityError, issue.Message)
	}

	checkAllowedTools(path, doc.Meta.AllowedTools, report)
}

func lintSkillFile(path, dirName string, index *catalog.Index, report *Report) {
	if _, err := os.Stat(path); err != nil {
		add(report, path, "skill-manifest", SeverityError, "skill directory has no SKILL.md")
		return
	}

	doc := parseFile(path, report)
	if doc == nil {
		return
	}

	if !doc.HasFrontmatter() {
		add(report, path, "frontmatter", SeverityError, "skill has no frontmatter block")
		return
	}
	if doc.Meta.Name == "" {
		add(report, path, "name", SeverityError, "skill name is required")
	} else if doc.Meta.Name != dirName {
		add(report, path, "name", SeverityWarning,
			"skill name '"+doc.Meta.Name+"' does not match its directory '"+dirName+"'")
	}
	if doc.Meta.Description == "" {
		add(report, path, "description", SeverityError, "skill description is required")
	}

	checkRelated(path, doc.Meta, index, report)
}

func lintWorkflowFile(path string, index *catalog.Index, report *Report) {
	doc := parseFile(path, report)
	if doc == nil {
		return
	}

	if !doc.HasFrontmatter() {
		add(report, path, "frontmatter", SeverityWarning, "workflow has no frontmatter block")
	} else if doc.Meta.Description == "" {
		add(report, path, "description", SeverityWarning, "workflow has no description")
	}

	checkHeading(path, doc.Body, report)

	for _, name := range doc.Meta.Agents {
		if !index.HasAgent(name) {
			add(report, path, "references", SeverityWarning, "unresolved agent reference '"+name+"'")
		}
	}
	for _, name := range doc.Meta.Commands {
		if !index.HasCommand(name) {
			add(report, path, "references", SeverityWarning, "unresolved command reference '"+name+"'")
		}
	}
	for _, name := range doc.Meta.Skills {
		if !index.HasSkill(name) {
			add(report, path, "references", SeverityWarning, "unresolved skill reference '"+name+"'")
		}
	}
}

func checkRelated(path string, meta frontmatter.Metadata, index *catalog.Index, report *Report) {
	for _, name := range meta.RelatedCommands {
		if !index.HasCommand(name) {
			add(report, path, "related", SeverityWarning, "unresolved related command '"+name+"'")
		}
	}
	for _, name := range meta.RelatedSkills {
		if !index.HasSkill(name) {
			add(report, path, "related", SeverityWarning, "unresolved related skill '"+name+"'")
		}
	}
}

// toolRefPattern matches "Tool" or "Tool(pattern)" entries such as
// "Bash(git commit:*)".
var toolRefPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)(?:\((.+)\))?$`)

func checkAllowedTools(path string, tools []string, report *Report) {
	for _, ref := range tools {
		if err := ValidateToolRef(ref); err != nil {
			add(report, path, "allowed-tools", SeverityError, err.Error())
		}
	}
}

// ValidateToolRef checks a single allowed-tools entry. The optional
// parenthesized part must compile as a glob pattern.
func ValidateToolRef(ref string) error {
	m := toolRefPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return errors.Errorf("malformed tool reference %q: expected 'Tool' or 'Tool(pattern)'", ref)
	}
	if m[2] != "" {
		if _, err := glob.Compile(m[2]); err != nil {
			return errors.Wrapf(err, "invalid pattern in tool reference %q", ref)
		}
	}
	return nil
}

func checkHeading(path, body string, report *Report) {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return
		}
		break
	}
	add(report, path, "heading", SeverityWarning, "body does not open with a level-1 heading")
}
