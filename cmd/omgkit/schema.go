package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for content front-matter",
	Long: `Print the JSON Schema describing the YAML front-matter accepted in
commands, agents, skills, and workflows. Useful for editor validation and CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := schema.Frontmatter()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
