// Package skills discovers skill reference documents. A skill is a directory
// containing a SKILL.md whose front-matter names and describes the
// cheat-sheet content the assistant can draw on.
package skills

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

// SkillFileName is the manifest file every skill directory must carry.
const SkillFileName = "SKILL.md"

// Skill is a discovered skill reference document.
type Skill struct {
	// Name comes from front-matter, prefixed with "org/repo/" for
	// pack-installed skills.
	Name        string
	Description string
	Meta        frontmatter.Metadata
	Directory   string
	Content     string
}

// Discovery finds skills across configured directories.
type Discovery struct {
	dirs []packs.DirConfig
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithDirs sets unprefixed skill directories.
func WithDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one skill directory must be specified")
		}
		d.dirs = d.dirs[:0]
		for _, dir := range dirs {
			d.dirs = append(d.dirs, packs.DirConfig{Dir: dir})
		}
		return nil
	}
}

// WithDirConfigs sets skill directories with explicit name prefixes.
func WithDirConfigs(dirs ...packs.DirConfig) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one skill directory must be specified")
		}
		d.dirs = dirs
		return nil
	}
}

// WithDefaultDirs resolves directories through pack discovery.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		discovery, err := packs.NewDiscovery()
		if err != nil {
			return err
		}
		d.dirs = discovery.SkillDirs()
		return nil
	}
}

// NewDiscovery creates a skill discovery instance, defaulting to pack
// discovery when no options are given.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, errors.Wrap(err, "failed to apply skill discovery option")
		}
	}

	if len(d.dirs) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, errors.Wrap(err, "failed to apply default skill directories")
		}
	}

	return d, nil
}

// Discover finds all available skills keyed by name. Earlier directories win
// name collisions.
func (d *Discovery) Discover() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, cfg := range d.dirs {
		d.discoverFromDir(cfg, skills)
	}

	return skills, nil
}

func (d *Discovery) discoverFromDir(cfg packs.DirConfig, skills map[string]*Skill) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(cfg.Dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := LoadSkillFile(filepath.Join(entryPath, SkillFileName))
		if err != nil {
			continue
		}

		name := cfg.Prefix + skill.Name
		if _, exists := skills[name]; !exists {
			skill.Name = name
			skill.Directory = entryPath
			skills[name] = skill
		}
	}
}

// Get returns a specific skill by name.
func (d *Discovery) Get(name string) (*Skill, error) {
	skills, err := d.Discover()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}
	return skill, nil
}

// Names returns the sorted names of all available skills.
func (d *Discovery) Names() ([]string, error) {
	skills, err := d.Discover()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadSkillFile parses a single SKILL.md. Name and description are required.
func LoadSkillFile(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, err
	}
	if !doc.HasFrontmatter() {
		return nil, errors.New("missing frontmatter")
	}
	if doc.Meta.Name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if doc.Meta.Description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        doc.Meta.Name,
		Description: doc.Meta.Description,
		Meta:        doc.Meta,
		Content:     doc.Body,
	}, nil
}

// FilterByAllowlist keeps only the named skills. An empty allowlist keeps
// everything.
func FilterByAllowlist(skills map[string]*Skill, allowed []string) map[string]*Skill {
	if len(allowed) == 0 {
		return skills
	}

	filtered := make(map[string]*Skill)
	for _, name := range allowed {
		if skill, exists := skills[name]; exists {
			filtered[name] = skill
		}
	}
	return filtered
}
