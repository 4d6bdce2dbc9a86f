// Package frontmatter parses the YAML front-matter block and markdown body of
// prompt content files (commands, agents, skills, workflows). The metadata is
// decoded into a typed structure while the raw map is kept for lint checks on
// unknown keys.
package frontmatter

import (
	"bytes"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// TestingDefault is the nested testing default carried by some commands.
type TestingDefault struct {
	Enabled      bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Configurable bool `mapstructure:"configurable" json:"configurable" yaml:"configurable"`
}

// TestingConfig wraps the testing configuration block.
type TestingConfig struct {
	Default TestingDefault `mapstructure:"default" json:"default" yaml:"default"`
}

// Metadata is the typed front-matter schema shared by all content kinds.
// Fields that only apply to some kinds stay zero for the others.
type Metadata struct {
	Name            string         `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Description     string         `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	AllowedTools    []string       `mapstructure:"allowed-tools" json:"allowed-tools,omitempty" yaml:"allowed-tools,omitempty"`
	ArgumentHint    string         `mapstructure:"argument-hint" json:"argument-hint,omitempty" yaml:"argument-hint,omitempty"`
	Model           string         `mapstructure:"model" json:"model,omitempty" yaml:"model,omitempty"`
	Category        string         `mapstructure:"category" json:"category,omitempty" yaml:"category,omitempty"`
	Tags            []string       `mapstructure:"tags" json:"tags,omitempty" yaml:"tags,omitempty"`
	RelatedCommands []string       `mapstructure:"related_commands" json:"related_commands,omitempty" yaml:"related_commands,omitempty"`
	RelatedSkills   []string       `mapstructure:"related_skills" json:"related_skills,omitempty" yaml:"related_skills,omitempty"`
	Agents          []string       `mapstructure:"agents" json:"agents,omitempty" yaml:"agents,omitempty"`
	Commands        []string       `mapstructure:"commands" json:"commands,omitempty" yaml:"commands,omitempty"`
	Skills          []string       `mapstructure:"skills" json:"skills,omitempty" yaml:"skills,omitempty"`
	Testing         *TestingConfig `mapstructure:"testing" json:"testing,omitempty" yaml:"testing,omitempty"`
}

// Document is a parsed content file.
type Document struct {
	Meta Metadata
	// Raw is the undecoded front-matter map. Nil when the file has no
	// front-matter block.
	Raw  map[string]interface{}
	Body string
}

// HasFrontmatter reports whether the file carried a front-matter block.
func (d *Document) HasFrontmatter() bool {
	return d.Raw != nil
}

// Parse splits content into front-matter metadata and body. A missing
// front-matter block is not an error; invalid YAML is.
func Parse(content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	doc := &Document{
		Body: ExtractBody(string(content)),
	}

	raw, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid YAML frontmatter")
	}
	if raw == nil {
		return doc, nil
	}

	doc.Raw = raw
	if err := decodeMetadata(raw, &doc.Meta); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}

	return doc, nil
}

// decodeMetadata decodes the raw front-matter map into the typed struct.
// Comma-separated strings are accepted wherever the schema expects a list,
// matching how pack authors commonly write allowed-tools and tags.
func decodeMetadata(raw map[string]interface{}, out *Metadata) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToSliceHook(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	return decoder.Decode(raw)
}

func stringToSliceHook() mapstructure.DecodeHookFuncKind {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from != reflect.String || to != reflect.Slice {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		if strings.TrimSpace(s) == "" {
			return []string{}, nil
		}
		var result []string
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result, nil
	}
}

// ExtractBody returns the markdown body with the leading front-matter block
// removed. Content without a front-matter block is returned unchanged.
func ExtractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
}
