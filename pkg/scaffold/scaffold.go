// Package scaffold creates starter content files: commands, agents, skills,
// and workflows with valid front-matter and a minimal body to fill in.
package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Type is a scaffoldable content type.
type Type string

const (
	TypeCommand  Type = "command"
	TypeAgent    Type = "agent"
	TypeSkill    Type = "skill"
	TypeWorkflow Type = "workflow"
)

// ParseType parses a user-supplied content type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(s)) {
	case TypeCommand:
		return TypeCommand, nil
	case TypeAgent:
		return TypeAgent, nil
	case TypeSkill:
		return TypeSkill, nil
	case TypeWorkflow:
		return TypeWorkflow, nil
	}
	return "", errors.Errorf("unknown content type %q: expected command, agent, skill, or workflow", s)
}

// Command names may carry colon-separated namespaces; the other types are
// flat names.
var (
	commandNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*(:[a-z0-9][a-z0-9_-]*)*$`)
	flatNamePattern    = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// Scaffolder creates content files under a base directory.
type Scaffolder struct {
	baseDir string
}

// Option configures a Scaffolder.
type Option func(*Scaffolder) error

// WithBaseDir overrides the target base directory.
func WithBaseDir(dir string) Option {
	return func(s *Scaffolder) error {
		s.baseDir = dir
		return nil
	}
}

// New creates a scaffolder targeting ".omgkit" unless overridden.
func New(opts ...Option) (*Scaffolder, error) {
	s := &Scaffolder{baseDir: packs.BaseDirName}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Create writes a starter file for the given type and name and returns its
// path. Existing files are never overwritten.
func (s *Scaffolder) Create(typ Type, name string) (string, error) {
	if err := validateName(typ, name); err != nil {
		return "", err
	}

	path := s.targetPath(typ, name)
	if _, err := os.Stat(path); err == nil {
		return "", errors.Errorf("%s already exists", path)
	}

	meta := starterMeta(typ, name)
	body, err := renderBody(typ, name)
	if err != nil {
		return "", err
	}

	content, err := compose(meta, body)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create content directory")
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	return path, nil
}

func validateName(typ Type, name string) error {
	pattern := flatNamePattern
	if typ == TypeCommand {
		pattern = commandNamePattern
	}
	if !pattern.MatchString(name) {
		return errors.Errorf("invalid %s name %q: lowercase letters, digits, '-' and '_' only", typ, name)
	}
	return nil
}

func (s *Scaffolder) targetPath(typ Type, name string) string {
	switch typ {
	case TypeCommand:
		rel := strings.ReplaceAll(name, ":", string(filepath.Separator))
		return filepath.Join(s.baseDir, packs.CommandsSubdir, rel+".md")
	case TypeAgent:
		return filepath.Join(s.baseDir, packs.AgentsSubdir, name+".md")
	case TypeSkill:
		return filepath.Join(s.baseDir, packs.SkillsSubdir, name, "SKILL.md")
	default:
		return filepath.Join(s.baseDir, packs.WorkflowsSubdir, name+".md")
	}
}

func starterMeta(typ Type, name string) frontmatter.Metadata {
	meta := frontmatter.Metadata{
		Description: "TODO: describe what this " + string(typ) + " does",
	}
	switch typ {
	case TypeCommand:
		meta.ArgumentHint = "<input>"
		meta.AllowedTools = []string{"Read", "Grep", "Glob"}
	case TypeAgent, TypeSkill:
		meta.Name = baseName(name)
	}
	return meta
}

// baseName strips any command namespace, e.g. "dev:fix" has base name "fix".
func baseName(name string) string {
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func renderBody(typ Type, name string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+string(typ)+".md.tmpl")
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse %s template", typ)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]string{
		"Name":  baseName(name),
		"Title": titleCase(baseName(name)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to render %s template", typ)
	}
	return buf.String(), nil
}

// titleCase turns "fix-issue" into "Fix Issue" for the starter heading.
func titleCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// compose assembles the front-matter fence and the body.
func compose(meta frontmatter.Metadata, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
