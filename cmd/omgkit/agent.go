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

	"github.com/doanchienthangdev/omgkit/pkg/agents"
	"github.com/doanchienthangdev/omgkit/pkg/presenter"
)

type AgentOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Model       string `json:"model,omitempty"`
	Path        string `json:"path,omitempty"`
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agent definitions",
	Long:  `List and inspect agent definitions (system prompts with metadata).`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return runAgentList(cmd.Context(), jsonOutput)
	},
}

var agentShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show an agent's metadata and system prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgentShow(cmd.Context(), args[0])
	},
}

func init() {
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentShowCmd)

	agentListCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runAgentList(ctx context.Context, jsonOutput bool) error {
	loader, err := agents.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create agent loader")
	}

	list, err := loader.List(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list agents")
	}

	if len(list) == 0 {
		presenter.Info("No agents found")
		return nil
	}

	outputs := make([]AgentOutput, 0, len(list))
	for _, agent := range list {
		outputs = append(outputs, AgentOutput{
			Name:        agent.Name,
			Description: agent.Meta.Description,
			Model:       agent.Meta.Model,
			Path:        agent.Path,
		})
	}

	if jsonOutput {
		return renderAgentJSON(os.Stdout, outputs)
	}
	return renderAgentTable(os.Stdout, outputs)
}

func renderAgentJSON(w io.Writer, outputs []AgentOutput) error {
	type jsonOutput struct {
		Agents []AgentOutput `json:"agents"`
	}

	jsonData, err := json.MarshalIndent(jsonOutput{Agents: outputs}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderAgentTable(w io.Writer, outputs []AgentOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tDescription\tModel")
	fmt.Fprintln(tw, "----\t-----------\t-----")
	for _, agent := range outputs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", agent.Name, agent.Description, agent.Model)
	}
	return tw.Flush()
}

func runAgentShow(ctx context.Context, name string) error {
	loader, err := agents.NewLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create agent loader")
	}

	agent, err := loader.Load(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "failed to load agent '%s'", name)
	}

	presenter.Section("Agent Metadata")
	fmt.Printf("Name: %s\n", agent.Name)
	if agent.Meta.Description != "" {
		fmt.Printf("Description: %s\n", agent.Meta.Description)
	}
	if agent.Meta.Model != "" {
		fmt.Printf("Model: %s\n", agent.Meta.Model)
	}
	fmt.Printf("Path: %s\n", agent.Path)
	fmt.Println()

	fmt.Println(agent.SystemPrompt)
	return nil
}
