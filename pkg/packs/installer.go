package packs

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/logger"
)

// ValidateRepoName checks the "owner/repo" GitHub repository format.
func ValidateRepoName(repo string) error {
	if repo == "" {
		return errors.New("repository name cannot be empty")
	}
	if !strings.Contains(repo, "/") {
		return errors.Errorf("invalid repository format %q: expected 'owner/repo'", repo)
	}
	parts := strings.SplitN(repo, "/", 2)
	if parts[0] == "" || parts[1] == "" {
		return errors.Errorf("invalid repository format %q: owner and repo cannot be empty", repo)
	}
	return nil
}

// Installer installs packs from GitHub repositories.
type Installer struct {
	global    bool
	force     bool
	targetDir string
	homeDir   string
	cloneURL  func(repo string) string
}

// InstallerOption configures an Installer instance.
type InstallerOption func(*Installer)

// WithGlobal installs packs under the user home directory.
func WithGlobal(global bool) InstallerOption {
	return func(i *Installer) { i.global = global }
}

// WithForce overwrites an already installed pack.
func WithForce(force bool) InstallerOption {
	return func(i *Installer) { i.force = force }
}

// WithTargetDir overrides the install base directory (for testing).
func WithTargetDir(dir string) InstallerOption {
	return func(i *Installer) { i.targetDir = dir }
}

// WithCloneURL overrides how a repo spec maps to a git URL (for testing).
func WithCloneURL(f func(repo string) string) InstallerOption {
	return func(i *Installer) { i.cloneURL = f }
}

// NewInstaller creates a pack installer.
func NewInstaller(opts ...InstallerOption) (*Installer, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	i := &Installer{
		homeDir: homeDir,
		cloneURL: func(repo string) string {
			return "https://github.com/" + repo + ".git"
		},
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.targetDir == "" {
		if i.global {
			i.targetDir = filepath.Join(homeDir, BaseDirName)
		} else {
			i.targetDir = BaseDirName
		}
	}

	return i, nil
}

// InstallResult describes the content installed from a pack.
type InstallResult struct {
	PackName  string
	Commands  []string
	Agents    []string
	Skills    []string
	Workflows []string
}

// Install clones a GitHub repository and installs its content directories as
// a pack. The repo spec is "owner/repo" with an optional "@ref" suffix.
func (i *Installer) Install(ctx context.Context, repoSpec string) (*InstallResult, error) {
	repo, ref := splitRepoRef(repoSpec)
	if err := ValidateRepoName(repo); err != nil {
		return nil, err
	}

	tempDir, err := i.cloneRepo(ctx, repo, ref)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	packName := RepoToPackName(repo)
	packDir := filepath.Join(i.targetDir, PacksSubdir, packName)
	if err := i.checkExisting(packDir); err != nil {
		return nil, err
	}

	result := &InstallResult{PackName: packName}

	for _, subdir := range []string{CommandsSubdir, AgentsSubdir, SkillsSubdir, WorkflowsSubdir} {
		srcDir := filepath.Join(tempDir, subdir)
		if _, err := os.Stat(srcDir); err != nil {
			continue
		}
		if err := copyDir(srcDir, filepath.Join(packDir, subdir)); err != nil {
			os.RemoveAll(packDir)
			return nil, errors.Wrapf(err, "failed to install %s", subdir)
		}
	}

	result.Commands = markdownNames(filepath.Join(packDir, CommandsSubdir), ":")
	result.Agents = markdownNames(filepath.Join(packDir, AgentsSubdir), "/")
	result.Workflows = markdownNames(filepath.Join(packDir, WorkflowsSubdir), ":")
	result.Skills = skillNames(filepath.Join(packDir, SkillsSubdir))

	if len(result.Commands) == 0 && len(result.Agents) == 0 &&
		len(result.Skills) == 0 && len(result.Workflows) == 0 {
		os.RemoveAll(packDir)
		return nil, errors.New("no pack content found in repository (expected commands/, agents/, skills/, or workflows/ directories)")
	}

	return result, nil
}

// splitRepoRef splits "owner/repo@ref" into its parts. Ref is empty when not
// given.
func splitRepoRef(spec string) (string, string) {
	if idx := strings.LastIndex(spec, "@"); idx > 0 {
		return spec[:idx], spec[idx+1:]
	}
	return spec, ""
}

// cloneRepo shallow-clones the repository into a temp directory. Transient
// network failures are retried with backoff.
func (i *Installer) cloneRepo(ctx context.Context, repo, ref string) (string, error) {
	tempDir, err := os.MkdirTemp("", "omgkit-pack-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp directory")
	}

	args := []string{"clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, i.cloneURL(repo), tempDir)

	err = retry.Do(
		func() error {
			cmd := exec.CommandContext(ctx, "git", args...)
			if output, err := cmd.CombinedOutput(); err != nil {
				// The clone target must be empty for the next attempt.
				os.RemoveAll(tempDir)
				if mkErr := os.MkdirAll(tempDir, 0o755); mkErr != nil {
					return retry.Unrecoverable(mkErr)
				}
				return errors.Wrapf(err, "git clone failed: %s", strings.TrimSpace(string(output)))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Warn("retrying pack clone")
		}),
	)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	// Git metadata is not part of the pack content.
	os.RemoveAll(filepath.Join(tempDir, ".git"))

	return tempDir, nil
}

func (i *Installer) checkExisting(path string) error {
	if _, err := os.Stat(path); err == nil {
		if !i.force {
			return errors.Errorf("pack already exists at %s (use --force to overwrite)", path)
		}
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrap(err, "failed to remove existing pack")
		}
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}
		return copyFile(path, destPath, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

// Remover removes installed packs.
type Remover struct {
	baseDir string
}

// NewRemover creates a pack remover. It accepts the same options as the
// installer; only the location options are meaningful.
func NewRemover(opts ...InstallerOption) (*Remover, error) {
	i := &Installer{}
	for _, opt := range opts {
		opt(i)
	}

	r := &Remover{baseDir: i.targetDir}
	if r.baseDir == "" {
		if i.global {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(err, "failed to get home directory")
			}
			r.baseDir = filepath.Join(homeDir, BaseDirName)
		} else {
			r.baseDir = BaseDirName
		}
	}

	return r, nil
}

// Remove deletes a pack by name. Both "org/repo" and "org@repo" forms are
// accepted.
func (r *Remover) Remove(name string) error {
	packName := name
	if strings.Contains(name, "/") {
		packName = RepoToPackName(name)
	}

	packPath := filepath.Join(r.baseDir, PacksSubdir, packName)
	if _, err := os.Stat(packPath); os.IsNotExist(err) {
		return errors.Errorf("pack '%s' not found", name)
	}

	if err := os.RemoveAll(packPath); err != nil {
		return errors.Wrap(err, "failed to remove pack")
	}
	return nil
}
