package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/commands"
	"github.com/doanchienthangdev/omgkit/pkg/presenter"
)

type CommandListConfig struct {
	ShowPath   bool
	JSONOutput bool
}

func NewCommandListConfig() *CommandListConfig {
	return &CommandListConfig{
		ShowPath:   false,
		JSONOutput: false,
	}
}

type OutputFormat int

const (
	TableFormat OutputFormat = iota
	JSONFormat
)

type CommandOutput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ArgumentHint string `json:"argumentHint,omitempty"`
	Path         string `json:"path,omitempty"`
}

type CommandListOutput struct {
	Commands []CommandOutput
	Format   OutputFormat
}

func NewCommandListOutput(cmds []*commands.Command, format OutputFormat, showPath bool) *CommandListOutput {
	output := &CommandListOutput{
		Commands: make([]CommandOutput, 0, len(cmds)),
		Format:   format,
	}

	for _, cmd := range cmds {
		out := CommandOutput{
			Name:         cmd.Name,
			Description:  cmd.Meta.Description,
			ArgumentHint: cmd.Meta.ArgumentHint,
		}
		if showPath || format == JSONFormat {
			out.Path = cmd.Path
		}
		output.Commands = append(output.Commands, out)
	}

	return output
}

func (o *CommandListOutput) Render(w io.Writer) error {
	if o.Format == JSONFormat {
		return o.renderJSON(w)
	}
	return o.renderTable(w)
}

func (o *CommandListOutput) renderJSON(w io.Writer) error {
	type jsonOutput struct {
		Commands []CommandOutput `json:"commands"`
	}

	jsonData, err := json.MarshalIndent(jsonOutput{Commands: o.Commands}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func (o *CommandListOutput) renderTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if o.hasPath() {
		fmt.Fprintln(tw, "Name\tDescription\tArguments\tPath")
		fmt.Fprintln(tw, "----\t-----------\t---------\t----")
	} else {
		fmt.Fprintln(tw, "Name\tDescription\tArguments")
		fmt.Fprintln(tw, "----\t-----------\t---------")
	}

	for _, cmd := range o.Commands {
		if o.hasPath() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cmd.Name, cmd.Description, cmd.ArgumentHint, cmd.Path)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", cmd.Name, cmd.Description, cmd.ArgumentHint)
		}
	}

	return tw.Flush()
}

func (o *CommandListOutput) hasPath() bool {
	for _, cmd := range o.Commands {
		if cmd.Path != "" {
			return true
		}
	}
	return false
}

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Manage slash commands",
	Long:  `List, inspect, and render slash command prompts.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var commandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available commands",
	Long:  `List all available commands across repo-local, pack, and user-global directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := NewCommandListConfig()
		config.ShowPath, _ = cmd.Flags().GetBool("show-path")
		config.JSONOutput, _ = cmd.Flags().GetBool("json")

		return runCommandList(cmd.Context(), config)
	},
}

var commandShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a command's metadata and body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommandShow(cmd.Context(), args[0])
	},
}

var commandRenderCmd = &cobra.Command{
	Use:   "render <name> [args...]",
	Short: "Render a command prompt with arguments",
	Long: `Render a command prompt, substituting $ARGUMENTS and positional
placeholders ($1..$9) with the given arguments.

Examples:
  omgkit command render dev:fix-issue "login button crash"
  omgkit command render deploy staging v2.1.0
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommandRender(cmd.Context(), args[0], args[1:])
	},
}

func init() {
	commandCmd.AddCommand(commandListCmd)
	commandCmd.AddCommand(commandShowCmd)
	commandCmd.AddCommand(commandRenderCmd)

	commandListCmd.Flags().Bool("show-path", false, "Show the file path for each command")
	commandListCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runCommandList(ctx context.Context, config *CommandListConfig) error {
	loader, err := commands.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create command loader")
	}

	cmds, err := loader.List(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list commands")
	}

	if len(cmds) == 0 {
		presenter.Info("No commands found")
		return nil
	}

	format := TableFormat
	if config.JSONOutput {
		format = JSONFormat
	}

	output := NewCommandListOutput(cmds, format, config.ShowPath)
	if err := output.Render(os.Stdout); err != nil {
		return errors.Wrap(err, "failed to render command list")
	}

	return nil
}

func runCommandShow(ctx context.Context, name string) error {
	loader, err := commands.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create command loader")
	}

	command, err := loader.Load(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "failed to load command '%s'", name)
	}

	presenter.Section("Command Metadata")
	fmt.Printf("Name: %s\n", command.Name)
	if command.Meta.Description != "" {
		fmt.Printf("Description: %s\n", command.Meta.Description)
	}
	if command.Meta.ArgumentHint != "" {
		fmt.Printf("Arguments: %s\n", command.Meta.ArgumentHint)
	}
	if len(command.Meta.AllowedTools) > 0 {
		fmt.Printf("Allowed tools: %v\n", command.Meta.AllowedTools)
	}
	fmt.Printf("Path: %s\n", command.Path)
	fmt.Println()

	fmt.Println(command.Body)
	return nil
}

func runCommandRender(ctx context.Context, name string, args []string) error {
	loader, err := commands.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create command loader")
	}

	command, err := loader.Load(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "failed to load command '%s'", name)
	}

	fmt.Print(command.Render(args))
	return nil
}
