package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/presenter"
	"github.com/doanchienthangdev/omgkit/pkg/skills"
)

type SkillOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Directory   string `json:"directory,omitempty"`
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage skills",
	Long:  `List and inspect skills (reusable knowledge documents).`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		only, _ := cmd.Flags().GetStringSlice("only")
		return runSkillList(jsonOutput, only)
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a skill's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSkillShow(args[0])
	},
}

func init() {
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)

	skillListCmd.Flags().Bool("json", false, "Output in JSON format")
	skillListCmd.Flags().StringSlice("only", []string{}, "Only list the named skills")
}

func runSkillList(jsonOutput bool, only []string) error {
	discovery, err := skills.NewDiscovery()
	if err != nil {
		return errors.Wrap(err, "failed to create skill discovery")
	}

	discovered, err := discovery.Discover()
	if err != nil {
		return errors.Wrap(err, "failed to discover skills")
	}

	outputs := skillOutputs(discovered, only)
	if len(outputs) == 0 {
		presenter.Info("No skills found")
		return nil
	}

	if jsonOutput {
		return renderSkillJSON(os.Stdout, outputs)
	}
	return renderSkillTable(os.Stdout, outputs)
}

// skillOutputs applies the allowlist and sorts the result by name.
func skillOutputs(discovered map[string]*skills.Skill, only []string) []SkillOutput {
	filtered := skills.FilterByAllowlist(discovered, only)

	names := make([]string, 0, len(filtered))
	for name := range filtered {
		names = append(names, name)
	}
	sort.Strings(names)

	outputs := make([]SkillOutput, 0, len(names))
	for _, name := range names {
		skill := filtered[name]
		outputs = append(outputs, SkillOutput{
			Name:        name,
			Description: skill.Description,
			Directory:   skill.Directory,
		})
	}
	return outputs
}

func renderSkillJSON(w io.Writer, outputs []SkillOutput) error {
	type jsonOutput struct {
		Skills []SkillOutput `json:"skills"`
	}

	jsonData, err := json.MarshalIndent(jsonOutput{Skills: outputs}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderSkillTable(w io.Writer, outputs []SkillOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tDescription")
	fmt.Fprintln(tw, "----\t-----------")
	for _, skill := range outputs {
		fmt.Fprintf(tw, "%s\t%s\n", skill.Name, skill.Description)
	}
	return tw.Flush()
}

func runSkillShow(name string) error {
	discovery, err := skills.NewDiscovery()
	if err != nil {
		return errors.Wrap(err, "failed to create skill discovery")
	}

	skill, err := discovery.Get(name)
	if err != nil {
		return errors.Wrapf(err, "failed to load skill '%s'", name)
	}

	presenter.Section("Skill Metadata")
	fmt.Printf("Name: %s\n", skill.Name)
	fmt.Printf("Description: %s\n", skill.Description)
	fmt.Printf("Directory: %s\n", skill.Directory)
	fmt.Println()

	fmt.Println(skill.Content)
	return nil
}
