package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		args     []string
		expected string
	}{
		{
			name:     "arguments token",
			body:     "Fix this bug: $ARGUMENTS",
			args:     []string{"login", "crashes"},
			expected: "Fix this bug: login crashes",
		},
		{
			name:     "positional tokens",
			body:     "Compare $1 against $2.",
			args:     []string{"main", "release"},
			expected: "Compare main against release.",
		},
		{
			name:     "missing positional expands empty",
			body:     "First: $1, third: $3.",
			args:     []string{"only-one"},
			expected: "First: only-one, third: .",
		},
		{
			name:     "dollar escape",
			body:     "Costs $$5, branch $1.",
			args:     []string{"main"},
			expected: "Costs $5, branch main.",
		},
		{
			name:     "no placeholder appends arguments",
			body:     "# Review\n\nReview the code.\n",
			args:     []string{"src/auth.ts"},
			expected: "# Review\n\nReview the code.\n\nsrc/auth.ts\n",
		},
		{
			name:     "no placeholder no args unchanged",
			body:     "# Review\n\nReview the code.\n",
			args:     nil,
			expected: "# Review\n\nReview the code.\n",
		},
		{
			name:     "arguments token with no args expands empty",
			body:     "Run: $ARGUMENTS.",
			args:     nil,
			expected: "Run: .",
		},
		{
			name:     "mixed tokens",
			body:     "$1 then everything: $ARGUMENTS",
			args:     []string{"a", "b"},
			expected: "a then everything: a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.body, tt.args))
		})
	}
}

func TestHasPlaceholders(t *testing.T) {
	assert.True(t, HasPlaceholders("do $ARGUMENTS"))
	assert.True(t, HasPlaceholders("do $1"))
	assert.False(t, HasPlaceholders("plain text"))
	assert.False(t, HasPlaceholders("escaped $$ only"))
}

func TestCommand_Render(t *testing.T) {
	cmd := &Command{Body: "Do $ARGUMENTS now."}
	assert.Equal(t, "Do it now.", cmd.Render([]string{"it"}))
}
