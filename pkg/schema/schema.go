// Package schema emits JSON Schema documents for the front-matter metadata
// so that editors and CI can validate pack content without running omgkit.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
)

// Frontmatter returns the JSON Schema for the front-matter metadata.
func Frontmatter() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	s := reflector.Reflect(&frontmatter.Metadata{})
	s.Title = "omgkit content frontmatter"
	s.Description = "YAML frontmatter schema for commands, agents, skills, and workflows"

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal schema")
	}
	return out, nil
}
