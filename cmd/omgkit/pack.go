package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/packs"
	"github.com/doanchienthangdev/omgkit/pkg/presenter"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage content packs",
	Long:  `Install, list, and remove content packs from GitHub repositories.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var packInstallCmd = &cobra.Command{
	Use:   "install <owner/repo>[@ref]...",
	Short: "Install packs from GitHub repositories",
	Long: `Install packs from one or more GitHub repositories.

The repository should contain any of:
  - commands/<name>.md for slash commands
  - agents/<name>.md for agents
  - skills/<name>/SKILL.md for skills
  - workflows/<name>.md for workflows

Examples:
  omgkit pack install acme/prompts              # Install into .omgkit/packs/
  omgkit pack install acme/prompts@v1.2.0       # Install a specific tag
  omgkit pack install acme/prompts -g           # Install globally (~/.omgkit/packs/)
  omgkit pack install acme/prompts --force      # Overwrite an existing pack
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		force, _ := cmd.Flags().GetBool("force")

		installer, err := packs.NewInstaller(
			packs.WithGlobal(global),
			packs.WithForce(force),
		)
		if err != nil {
			return err
		}

		for _, arg := range args {
			presenter.Info(fmt.Sprintf("Installing pack from %s...", arg))

			result, err := installer.Install(cmd.Context(), arg)
			if err != nil {
				return errors.Wrapf(err, "failed to install from %s", arg)
			}

			if len(result.Commands) > 0 {
				presenter.Success(fmt.Sprintf("Installed commands: %s", strings.Join(result.Commands, ", ")))
			}
			if len(result.Agents) > 0 {
				presenter.Success(fmt.Sprintf("Installed agents: %s", strings.Join(result.Agents, ", ")))
			}
			if len(result.Skills) > 0 {
				presenter.Success(fmt.Sprintf("Installed skills: %s", strings.Join(result.Skills, ", ")))
			}
			if len(result.Workflows) > 0 {
				presenter.Success(fmt.Sprintf("Installed workflows: %s", strings.Join(result.Workflows, ", ")))
			}

			location := "local (.omgkit/packs/)"
			if global {
				location = "global (~/.omgkit/packs/)"
			}
			presenter.Info(fmt.Sprintf("Pack '%s' installed to %s",
				packs.PackNameToUserFacing(result.PackName), location))
		}

		return nil
	},
}

var packListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		discovery, err := packs.NewDiscovery()
		if err != nil {
			return errors.Wrap(err, "failed to create pack discovery")
		}

		installed, err := discovery.Installed(global)
		if err != nil {
			return err
		}

		if len(installed) == 0 {
			presenter.Info("No packs installed")
			return nil
		}

		if jsonOutput {
			return renderPackJSON(os.Stdout, installed)
		}
		return renderPackTable(os.Stdout, installed)
	},
}

var packRemoveCmd = &cobra.Command{
	Use:   "remove <owner/repo>...",
	Short: "Remove installed packs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		global, _ := cmd.Flags().GetBool("global")

		remover, err := packs.NewRemover(packs.WithGlobal(global))
		if err != nil {
			return err
		}

		for _, name := range args {
			if err := remover.Remove(name); err != nil {
				return err
			}
			presenter.Success(fmt.Sprintf("Removed pack '%s'", name))
		}
		return nil
	},
}

func init() {
	packCmd.AddCommand(packInstallCmd)
	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packRemoveCmd)

	packInstallCmd.Flags().BoolP("global", "g", false, "Install to ~/.omgkit instead of .omgkit")
	packInstallCmd.Flags().Bool("force", false, "Overwrite an existing pack")

	packListCmd.Flags().BoolP("global", "g", false, "List packs installed in ~/.omgkit")
	packListCmd.Flags().Bool("json", false, "Output in JSON format")

	packRemoveCmd.Flags().BoolP("global", "g", false, "Remove packs installed in ~/.omgkit")
}

func renderPackJSON(w io.Writer, installed []packs.InstalledPack) error {
	type jsonOutput struct {
		Packs []packs.InstalledPack `json:"packs"`
	}

	jsonData, err := json.MarshalIndent(jsonOutput{Packs: installed}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderPackTable(w io.Writer, installed []packs.InstalledPack) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pack\tCommands\tAgents\tSkills\tWorkflows")
	fmt.Fprintln(tw, "----\t--------\t------\t------\t---------")
	for _, pack := range installed {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n",
			packs.PackNameToUserFacing(pack.Name),
			len(pack.Commands), len(pack.Agents), len(pack.Skills), len(pack.Workflows))
	}
	return tw.Flush()
}
