package commands

import (
	"regexp"
	"strings"
)

// placeholderPattern matches the substitution tokens understood by command
// bodies: $ARGUMENTS, positional $1..$9, and the $$ escape for a literal
// dollar sign.
var placeholderPattern = regexp.MustCompile(`\$(\$|ARGUMENTS|[1-9])`)

// Render substitutes CLI-supplied arguments into a command body. $ARGUMENTS
// expands to the space-joined argument string, $1..$9 expand positionally
// (empty when the position is absent), and $$ yields a literal dollar. When
// the body contains no placeholder and arguments were supplied, they are
// appended after a blank line, which is how the host assistant treats
// un-templated commands.
func Render(body string, args []string) string {
	joined := strings.Join(args, " ")
	substituted := false

	out := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		token := match[1:]
		switch token {
		case "$":
			return "$"
		case "ARGUMENTS":
			substituted = true
			return joined
		default:
			substituted = true
			idx := int(token[0] - '1')
			if idx < len(args) {
				return args[idx]
			}
			return ""
		}
	})

	if !substituted && len(args) > 0 {
		out = strings.TrimRight(out, "\n") + "\n\n" + joined + "\n"
	}

	return out
}

// HasPlaceholders reports whether a body contains any substitution token.
// The $$ escape does not count.
func HasPlaceholders(body string) bool {
	for _, match := range placeholderPattern.FindAllString(body, -1) {
		if match != "$$" {
			return true
		}
	}
	return false
}

// Render substitutes arguments into this command's body.
func (c *Command) Render(args []string) string {
	return Render(c.Body, args)
}
