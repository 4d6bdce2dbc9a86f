// Package agents loads agent persona definitions. An agent is a markdown
// file whose front-matter describes the persona (name, description, model,
// allowed tools) and whose body is the system prompt the assistant adopts.
package agents

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
	"github.com/doanchienthangdev/omgkit/pkg/logger"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

// Agent is a loaded persona definition.
type Agent struct {
	// Name is the invocation name, prefixed with "org/repo/" for
	// pack-installed agents.
	Name         string
	Meta         frontmatter.Metadata
	SystemPrompt string
	Path         string
}

// Loader discovers and loads agents from configured directories.
type Loader struct {
	dirs []packs.DirConfig
}

// Option configures a Loader.
type Option func(*Loader) error

// WithDirs sets unprefixed agent directories.
func WithDirs(dirs ...string) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one agent directory must be specified")
		}
		l.dirs = l.dirs[:0]
		for _, dir := range dirs {
			l.dirs = append(l.dirs, packs.DirConfig{Dir: dir})
		}
		return nil
	}
}

// WithDirConfigs sets agent directories with explicit name prefixes.
func WithDirConfigs(dirs ...packs.DirConfig) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one agent directory must be specified")
		}
		l.dirs = dirs
		return nil
	}
}

// WithDefaultDirs resolves directories through pack discovery.
func WithDefaultDirs() Option {
	return func(l *Loader) error {
		discovery, err := packs.NewDiscovery()
		if err != nil {
			return err
		}
		l.dirs = discovery.AgentDirs()
		return nil
	}
}

// NewLoader creates an agent loader, defaulting to pack discovery when no
// options are given.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply agent loader option")
		}
	}

	if len(l.dirs) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply default agent directories")
		}
	}

	return l, nil
}

// Load resolves and parses a single agent by name.
func (l *Loader) Load(ctx context.Context, name string) (*Agent, error) {
	logger.G(ctx).WithField("agent", name).Debug("loading agent")

	for _, cfg := range l.dirs {
		local := name
		if cfg.Prefix != "" {
			if !strings.HasPrefix(name, cfg.Prefix) {
				continue
			}
			local = strings.TrimPrefix(name, cfg.Prefix)
		}

		path := filepath.Join(cfg.Dir, local+".md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return l.loadFile(path, name)
	}

	return nil, errors.Errorf("agent '%s' not found", name)
}

func (l *Loader) loadFile(path, name string) (*Agent, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read agent file '%s'", path)
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse agent '%s'", path)
	}

	agent := &Agent{
		Name:         name,
		Meta:         doc.Meta,
		SystemPrompt: doc.Body,
		Path:         path,
	}
	if agent.Meta.Name == "" {
		// File name is the fallback identity.
		agent.Meta.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return agent, nil
}

// List returns all discoverable agents sorted by name. Earlier directories
// win name collisions; unparsable files are skipped with a warning.
func (l *Loader) List(ctx context.Context) ([]*Agent, error) {
	var result []*Agent
	seen := make(map[string]bool)

	for _, cfg := range l.dirs {
		entries, err := os.ReadDir(cfg.Dir)
		if err != nil {
			logger.G(ctx).WithField("dir", cfg.Dir).Debug("agent directory not found, skipping")
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			name := cfg.Prefix + strings.TrimSuffix(entry.Name(), ".md")
			if seen[name] {
				continue
			}

			agent, err := l.loadFile(filepath.Join(cfg.Dir, entry.Name()), name)
			if err != nil {
				logger.G(ctx).WithField("agent", name).WithError(err).Warn("failed to load agent, skipping")
				continue
			}

			result = append(result, agent)
			seen[name] = true
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Issue is a single validation problem, keyed by the front-matter field or
// document part it concerns.
type Issue struct {
	Field   string
	Message string
}

// Check returns every validation problem with an agent definition.
func Check(agent *Agent) []Issue {
	var issues []Issue
	if agent.Meta.Name == "" {
		issues = append(issues, Issue{Field: "name", Message: "agent name is required"})
	}
	if agent.Meta.Description == "" {
		issues = append(issues, Issue{Field: "description", Message: "agent description is required"})
	}
	if strings.TrimSpace(agent.SystemPrompt) == "" {
		issues = append(issues, Issue{Field: "body", Message: "agent system prompt cannot be empty"})
	}
	return issues
}

// Validate checks that an agent definition is complete enough for the host
// assistant to adopt, aggregating every problem into a single error.
func Validate(agent *Agent) error {
	var result *multierror.Error
	for _, issue := range Check(agent) {
		result = multierror.Append(result, errors.Errorf("%s: %s", issue.Field, issue.Message))
	}
	return result.ErrorOrNil()
}
