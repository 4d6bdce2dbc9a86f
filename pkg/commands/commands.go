// Package commands loads slash-command prompt templates from the layered
// content directories. A command is a markdown file with YAML front-matter;
// nested directories map to colon-separated namespaces, so
// commands/dev/fix.md is invoked as "dev:fix".
package commands

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

// Command is a loaded slash-command template.
type Command struct {
	// Name is the namespaced invocation name, e.g. "dev:fix" or
	// "org/repo/dev:fix" for pack-installed commands.
	Name string
	Meta frontmatter.Metadata
	Body string
	Path string
}

// Loader discovers and loads commands from configured directories.
type Loader struct {
	dirs []packs.DirConfig
}

// Option configures a Loader.
type Option func(*Loader) error

// WithDirs sets unprefixed command directories.
func WithDirs(dirs ...string) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one command directory must be specified")
		}
		l.dirs = l.dirs[:0]
		for _, dir := range dirs {
			l.dirs = append(l.dirs, packs.DirConfig{Dir: dir})
		}
		return nil
	}
}

// WithDirConfigs sets command directories with explicit name prefixes.
func WithDirConfigs(dirs ...packs.DirConfig) Option {
	return func(l *Loader) error {
		if len(dirs) == 0 {
			return errors.New("at least one command directory must be specified")
		}
		l.dirs = dirs
		return nil
	}
}

// WithDefaultDirs resolves directories through pack discovery: repo-local,
// installed packs, then user-global.
func WithDefaultDirs() Option {
	return func(l *Loader) error {
		discovery, err := packs.NewDiscovery()
		if err != nil {
			return err
		}
		l.dirs = discovery.CommandDirs()
		return nil
	}
}

// NewLoader creates a command loader, defaulting to pack discovery when no
// options are given.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply command loader option")
		}
	}

	if len(l.dirs) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply default command directories")
		}
	}

	return l, nil
}

// findFile resolves a namespaced command name to a file path, honoring
// directory precedence and pack prefixes.
func (l *Loader) findFile(name string) (string, error) {
	for _, cfg := range l.dirs {
		local := name
		if cfg.Prefix != "" {
			if !strings.HasPrefix(name, cfg.Prefix) {
				continue
			}
			local = strings.TrimPrefix(name, cfg.Prefix)
		}

		rel := strings.ReplaceAll(local, ":", string(filepath.Separator))
		fullPath := filepath.Join(cfg.Dir, rel+".md")
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}

	return "", errors.Errorf("command '%s' not found", name)
}

// Load resolves and parses a single command by name.
func (l *Loader) Load(ctx context.Context, name string) (*Command, error) {
	logger.G(ctx).WithField("command", name).Debug("loading command")

	path, err := l.findFile(name)
	if err != nil {
		return nil, err
	}

	return l.loadFile(path, name)
}

func (l *Loader) loadFile(path, name string) (*Command, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read command file '%s'", path)
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse command '%s'", path)
	}

	return &Command{
		Name: name,
		Meta: doc.Meta,
		Body: doc.Body,
		Path: path,
	}, nil
}

// List returns all discoverable commands sorted by name. Earlier directories
// win name collisions; unparsable files are skipped with a warning.
func (l *Loader) List(ctx context.Context) ([]*Command, error) {
	var result []*Command
	seen := make(map[string]bool)

	for _, cfg := range l.dirs {
		names, err := commandNamesInDir(cfg)
		if err != nil {
			logger.G(ctx).WithField("dir", cfg.Dir).Debug("command directory not found, skipping")
			continue
		}

		for _, entry := range names {
			if seen[entry.name] {
				continue
			}

			cmd, err := l.loadFile(entry.path, entry.name)
			if err != nil {
				logger.G(ctx).WithField("command", entry.name).WithError(err).Warn("failed to load command, skipping")
				continue
			}

			result = append(result, cmd)
			seen[entry.name] = true
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type dirEntry struct {
	name string
	path string
}

func commandNamesInDir(cfg packs.DirConfig) ([]dirEntry, error) {
	if _, err := os.Stat(cfg.Dir); err != nil {
		return nil, err
	}

	var entries []dirEntry
	err := filepath.WalkDir(cfg.Dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(cfg.Dir, path)
		if err != nil {
			return nil
		}

		name := strings.TrimSuffix(filepath.ToSlash(rel), ".md")
		name = cfg.Prefix + strings.ReplaceAll(name, "/", ":")
		entries = append(entries, dirEntry{name: name, path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
