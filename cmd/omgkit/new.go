package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/presenter"
	"github.com/doanchienthangdev/omgkit/pkg/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new <type> <name>",
	Short: "Create a starter content file",
	Long: `Create a starter file with valid front-matter for a command, agent,
skill, or workflow.

Examples:
  omgkit new command dev:fix-issue
  omgkit new agent code-reviewer
  omgkit new skill prisma-expert
  omgkit new workflow feature-development
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := scaffold.ParseType(args[0])
		if err != nil {
			return err
		}

		baseDir, _ := cmd.Flags().GetString("dir")

		scaffolder, err := scaffold.New(scaffold.WithBaseDir(baseDir))
		if err != nil {
			return err
		}

		path, err := scaffolder.Create(typ, args[1])
		if err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Created %s", path))
		return nil
	},
}

func init() {
	newCmd.Flags().String("dir", ".omgkit", "Base directory for the new content file")
}
