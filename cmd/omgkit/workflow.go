package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/doanchienthangdev/omgkit/pkg/presenter"
	"github.com/doanchienthangdev/omgkit/pkg/workflows"
)

type WorkflowOutput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Agents      []string `json:"agents,omitempty"`
	Commands    []string `json:"commands,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Path        string   `json:"path,omitempty"`
}

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Manage workflows",
	Long:  `List and inspect workflows (multi-phase playbooks that reference agents, commands, and skills).`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return runWorkflowList(cmd.Context(), jsonOutput)
	},
}

var workflowShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a workflow's metadata and body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflowShow(cmd.Context(), args[0])
	},
}

func init() {
	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowShowCmd)

	workflowListCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runWorkflowList(ctx context.Context, jsonOutput bool) error {
	loader, err := workflows.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create workflow loader")
	}

	list, err := loader.List(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list workflows")
	}

	if len(list) == 0 {
		presenter.Info("No workflows found")
		return nil
	}

	outputs := make([]WorkflowOutput, 0, len(list))
	for _, wf := range list {
		agents, commands, skills := wf.References()
		outputs = append(outputs, WorkflowOutput{
			Name:        wf.Name,
			Description: wf.Meta.Description,
			Agents:      agents,
			Commands:    commands,
			Skills:      skills,
			Path:        wf.Path,
		})
	}

	if jsonOutput {
		return renderWorkflowJSON(os.Stdout, outputs)
	}
	return renderWorkflowTable(os.Stdout, outputs)
}

func renderWorkflowJSON(w io.Writer, outputs []WorkflowOutput) error {
	type jsonOutput struct {
		Workflows []WorkflowOutput `json:"workflows"`
	}

	jsonData, err := json.MarshalIndent(jsonOutput{Workflows: outputs}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderWorkflowTable(w io.Writer, outputs []WorkflowOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tDescription\tAgents")
	fmt.Fprintln(tw, "----\t-----------\t------")
	for _, wf := range outputs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", wf.Name, wf.Description, strings.Join(wf.Agents, ", "))
	}
	return tw.Flush()
}

func runWorkflowShow(ctx context.Context, name string) error {
	loader, err := workflows.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create workflow loader")
	}

	wf, err := loader.Load(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "failed to load workflow '%s'", name)
	}

	agents, commands, skills := wf.References()

	presenter.Section("Workflow Metadata")
	fmt.Printf("Name: %s\n", wf.Name)
	if wf.Meta.Description != "" {
		fmt.Printf("Description: %s\n", wf.Meta.Description)
	}
	if len(agents) > 0 {
		fmt.Printf("Agents: %s\n", strings.Join(agents, ", "))
	}
	if len(commands) > 0 {
		fmt.Printf("Commands: %s\n", strings.Join(commands, ", "))
	}
	if len(skills) > 0 {
		fmt.Printf("Skills: %s\n", strings.Join(skills, ", "))
	}
	fmt.Printf("Path: %s\n", wf.Path)
	fmt.Println()

	fmt.Println(wf.Body)
	return nil
}
