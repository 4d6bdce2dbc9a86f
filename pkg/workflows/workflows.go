// Package workflows loads workflow playbooks: multi-step markdown documents
// whose front-matter lists the agents, commands, and skills the playbook
// orchestrates.
package workflows

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
	"github.com/doanchienthangdev/omgkit/pkg/logger"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

// Workflow is a loaded playbook.
type Workflow struct {
	// Name is the namespaced name, e.g. "feature-development" or
	// "org/repo/feature-development" for pack-installed workflows.
	Name string
	Meta frontmatter.Metadata
	Body string
	Path string
}

// References returns the agent, command, and skill names this workflow
// declares in its front-matter.
func (w *Workflow) References() (agents, commands, skills []string) {
	return w.Meta.Agents, w.Meta.Commands, w.Meta.Skills
}

// Loader discovers and loads workflows from configured directories.
type Loader struct {
	dirs []packs.DirConfig
}

// Option configures a Loader.
type Option func(*Loader) error

// WithDirs sets unprefixed workflow directories.
func WithDirs(dirs ...string) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one workflow directory must be specified")
		}
		l.dirs = l.dirs[:0]
		for _, dir := range dirs {
			l.dirs = append(l.dirs, packs.DirConfig{Dir: dir})
		}
		return nil
	}
}

// WithDirConfigs sets workflow directories with explicit name prefixes.
func WithDirConfigs(dirs ...packs.DirConfig) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one workflow directory must be specified")
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
		l.dirs = discovery.WorkflowDirs()
		return nil
	}
}

// NewLoader creates a workflow loader, defaulting to pack discovery when no
// options are given.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply workflow loader option")
		}
	}

	if len(l.dirs) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply default workflow directories")
		}
	}

	return l, nil
}

// Load resolves and parses a single workflow by name.
func (l *Loader) Load(ctx context.Context, name string) (*Workflow, error) {
	logger.G(ctx).WithField("workflow", name).Debug("loading workflow")

	for _, cfg := range l.dirs {
		local := name
		if cfg.Prefix != "" {
			if !strings.HasPrefix(name, cfg.Prefix) {
				continue
			}
			local = strings.TrimPrefix(name, cfg.Prefix)
		}

		rel := strings.ReplaceAll(local, ":", string(filepath.Separator))
		path := filepath.Join(cfg.Dir, rel+".md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return l.loadFile(path, name)
	}

	return nil, errors.Errorf("workflow '%s' not found", name)
}

func (l *Loader) loadFile(path, name string) (*Workflow, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read workflow file '%s'", path)
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse workflow '%s'", path)
	}

	return &Workflow{
		Name: name,
		Meta: doc.Meta,
		Body: doc.Body,
		Path: path,
	}, nil
}

// List returns all discoverable workflows sorted by name. Earlier directories
// win name collisions; unparsable files are skipped with a warning.
func (l *Loader) List(ctx context.Context) ([]*Workflow, error) {
	var result []*Workflow
	seen := make(map[string]bool)

	for _, cfg := range l.dirs {
		if _, err := os.Stat(cfg.Dir); err != nil {
			logger.G(ctx).WithField("dir", cfg.Dir).Debug("workflow directory not found, skipping")
			continue
		}

		_ = filepath.WalkDir(cfg.Dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				return nil
			}

			rel, err := filepath.Rel(cfg.Dir, path)
			if err != nil {
				return nil
			}

			name := strings.TrimSuffix(filepath.ToSlash(rel), ".md")
			name = cfg.Prefix + strings.ReplaceAll(name, "/", ":")
			if seen[name] {
				return nil
			}

			wf, err := l.loadFile(path, name)
			if err != nil {
				logger.G(ctx).WithField("workflow", name).WithError(err).Warn("failed to load workflow, skipping")
				return nil
			}

			result = append(result, wf)
			seen[name] = true
			return nil
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
