package packs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Discovery resolves the layered content directories in precedence order:
// repo-local standalone, repo-local packs, user-global standalone,
// user-global packs.
type Discovery struct {
	baseDir string
	homeDir string
}

// DiscoveryOption configures a Discovery instance.
type DiscoveryOption func(*Discovery) error

// WithBaseDir overrides the repo-local base directory.
func WithBaseDir(dir string) DiscoveryOption {
	return func(d *Discovery) error {
		d.baseDir = dir
		return nil
	}
}

// WithHomeDir overrides the user home directory.
func WithHomeDir(dir string) DiscoveryOption {
	return func(d *Discovery) error {
		d.homeDir = dir
		return nil
	}
}

// NewDiscovery creates a pack discovery instance rooted at ".omgkit" and the
// user home directory unless overridden.
func NewDiscovery(opts ...DiscoveryOption) (*Discovery, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user home directory")
	}

	d := &Discovery{
		baseDir: BaseDirName,
		homeDir: homeDir,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// CommandDirs returns command directories in precedence order.
func (d *Discovery) CommandDirs() []DirConfig { return d.contentDirs(CommandsSubdir) }

// AgentDirs returns agent directories in precedence order.
func (d *Discovery) AgentDirs() []DirConfig { return d.contentDirs(AgentsSubdir) }

// SkillDirs returns skill directories in precedence order.
func (d *Discovery) SkillDirs() []DirConfig { return d.contentDirs(SkillsSubdir) }

// WorkflowDirs returns workflow directories in precedence order.
func (d *Discovery) WorkflowDirs() []DirConfig { return d.contentDirs(WorkflowsSubdir) }

func (d *Discovery) contentDirs(subdir string) []DirConfig {
	dirs := []DirConfig{
		{Dir: filepath.Join(d.baseDir, subdir)},
	}

	dirs = append(dirs, d.packContentDirs(d.baseDir, subdir)...)

	globalBase := filepath.Join(d.homeDir, BaseDirName)
	dirs = append(dirs, DirConfig{Dir: filepath.Join(globalBase, subdir)})
	dirs = append(dirs, d.packContentDirs(globalBase, subdir)...)

	return dirs
}

// packContentDirs returns the subdir of every installed pack under baseDir.
// Pack directories use the "org@repo" naming format.
func (d *Discovery) packContentDirs(baseDir, subdir string) []DirConfig {
	packsDir := filepath.Join(baseDir, PacksSubdir)
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		return nil
	}

	var dirs []DirConfig
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		contentDir := filepath.Join(packsDir, entry.Name(), subdir)
		if _, err := os.Stat(contentDir); err == nil {
			dirs = append(dirs, DirConfig{
				Dir:    contentDir,
				Prefix: PackNameToPrefix(entry.Name()),
			})
		}
	}
	return dirs
}

// Installed returns the packs installed at the chosen location with their
// content listings.
func (d *Discovery) Installed(global bool) ([]InstalledPack, error) {
	baseDir := d.baseDir
	if global {
		baseDir = filepath.Join(d.homeDir, BaseDirName)
	}

	packsDir := filepath.Join(baseDir, PacksSubdir)
	entries, err := os.ReadDir(packsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read packs directory")
	}

	var packs []InstalledPack
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		packPath := filepath.Join(packsDir, entry.Name())
		pack := InstalledPack{
			Name: entry.Name(),
			Path: packPath,
		}

		pack.Commands = markdownNames(filepath.Join(packPath, CommandsSubdir), ":")
		pack.Agents = markdownNames(filepath.Join(packPath, AgentsSubdir), "/")
		pack.Workflows = markdownNames(filepath.Join(packPath, WorkflowsSubdir), ":")
		pack.Skills = skillNames(filepath.Join(packPath, SkillsSubdir))

		if len(pack.Commands) == 0 && len(pack.Agents) == 0 &&
			len(pack.Skills) == 0 && len(pack.Workflows) == 0 {
			continue
		}

		packs = append(packs, pack)
	}

	return packs, nil
}

// markdownNames walks dir for .md files and returns their names with the
// extension stripped and path separators replaced by sep.
func markdownNames(dir, sep string) []string {
	var names []string
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".md")
		names = append(names, strings.ReplaceAll(name, "/", sep))
		return nil
	})
	return names
}

// skillNames lists subdirectories of dir that carry a SKILL.md.
func skillNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), "SKILL.md")); err == nil {
			names = append(names, entry.Name())
		}
	}
	return names
}
