package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontmatter(t *testing.T) {
	out, err := Frontmatter()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "omgkit content frontmatter", decoded["title"])

	props, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok)

	for _, key := range []string{"name", "description", "allowed-tools", "argument-hint", "tags", "testing"} {
		assert.Contains(t, props, key)
	}
}
