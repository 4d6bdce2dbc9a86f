// Package packs manages prompt pack content: discovery of the layered content
// directories (repo-local, installed packs, user-global) and installation of
// packs from GitHub repositories. A pack is a repository carrying any of the
// commands/, agents/, skills/, workflows/ content directories.
package packs

import "strings"

// Directory layout constants shared across the toolkit.
const (
	// BaseDirName is the per-repo and per-user content directory.
	BaseDirName = ".omgkit"

	PacksSubdir     = "packs"
	CommandsSubdir  = "commands"
	AgentsSubdir    = "agents"
	SkillsSubdir    = "skills"
	WorkflowsSubdir = "workflows"
)

// DirConfig is a content directory paired with the name prefix applied to
// everything discovered inside it. Standalone directories have an empty
// prefix; pack directories use "org/repo/".
type DirConfig struct {
	Dir    string
	Prefix string
}

// InstalledPack describes a pack directory and the content it provides.
type InstalledPack struct {
	Name      string   `json:"name"` // "org@repo" directory name
	Path      string   `json:"path"`
	Commands  []string `json:"commands,omitempty"`
	Agents    []string `json:"agents,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Workflows []string `json:"workflows,omitempty"`
}

// RepoToPackName converts "org/repo" to the "org@repo" directory name.
// Only the first slash is replaced so nested refs stay intact.
func RepoToPackName(repo string) string {
	if !strings.Contains(repo, "/") {
		return repo
	}
	return strings.Replace(repo, "/", "@", 1)
}

// PackNameToPrefix converts an "org@repo" directory name to the "org/repo/"
// prefix prepended to content names from that pack.
func PackNameToPrefix(name string) string {
	return strings.Replace(name, "@", "/", 1) + "/"
}

// PackNameToUserFacing converts "org@repo" to the "org/repo" form shown to
// users.
func PackNameToUserFacing(name string) string {
	return strings.Replace(name, "@", "/", 1)
}
