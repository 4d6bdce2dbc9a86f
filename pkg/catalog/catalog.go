// Package catalog builds a unified read-model over all discoverable content:
// commands, agents, skills, and workflows. Lint uses it to resolve
// cross-references and the HTTP server serves it directly.
package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/agents"
	"github.com/doanchienthangdev/omgkit/pkg/commands"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
	"github.com/doanchienthangdev/omgkit/pkg/skills"
	"github.com/doanchienthangdev/omgkit/pkg/workflows"
)

// Index is a snapshot of everything discoverable at build time.
type Index struct {
	Commands  []*commands.Command
	Agents    []*agents.Agent
	Skills    map[string]*skills.Skill
	Workflows []*workflows.Workflow

	commandNames map[string]bool
	agentNames   map[string]bool
}

// Builder constructs catalog snapshots.
type Builder struct {
	discovery *packs.Discovery
}

// NewBuilder creates a catalog builder. A nil discovery means default pack
// discovery.
func NewBuilder(discovery *packs.Discovery) (*Builder, error) {
	if discovery == nil {
		d, err := packs.NewDiscovery()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create pack discovery")
		}
		discovery = d
	}
	return &Builder{discovery: discovery}, nil
}

// Build walks all content directories and assembles the index.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	commandLoader, err := commands.NewLoader(commands.WithDirConfigs(b.discovery.CommandDirs()...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create command loader")
	}
	agentLoader, err := agents.NewLoader(agents.WithDirConfigs(b.discovery.AgentDirs()...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create agent loader")
	}
	skillDiscovery, err := skills.NewDiscovery(skills.WithDirConfigs(b.discovery.SkillDirs()...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create skill discovery")
	}
	workflowLoader, err := workflows.NewLoader(workflows.WithDirConfigs(b.discovery.WorkflowDirs()...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create workflow loader")
	}

	idx := &Index{}

	if idx.Commands, err = commandLoader.List(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to list commands")
	}
	if idx.Agents, err = agentLoader.List(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to list agents")
	}
	if idx.Skills, err = skillDiscovery.Discover(); err != nil {
		return nil, errors.Wrap(err, "failed to discover skills")
	}
	if idx.Workflows, err = workflowLoader.List(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to list workflows")
	}

	idx.commandNames = make(map[string]bool, len(idx.Commands))
	for _, cmd := range idx.Commands {
		idx.commandNames[cmd.Name] = true
	}
	idx.agentNames = make(map[string]bool, len(idx.Agents))
	for _, agent := range idx.Agents {
		idx.agentNames[agent.Name] = true
	}

	return idx, nil
}

// HasCommand reports whether a command name resolves in this index.
func (i *Index) HasCommand(name string) bool { return i.commandNames[name] }

// HasAgent reports whether an agent name resolves in this index.
func (i *Index) HasAgent(name string) bool { return i.agentNames[name] }

// HasSkill reports whether a skill name resolves in this index.
func (i *Index) HasSkill(name string) bool {
	_, ok := i.Skills[name]
	return ok
}

// Command returns a command by name, or nil.
func (i *Index) Command(name string) *commands.Command {
	for _, cmd := range i.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

// Agent returns an agent by name, or nil.
func (i *Index) Agent(name string) *agents.Agent {
	for _, agent := range i.Agents {
		if agent.Name == name {
			return agent
		}
	}
	return nil
}

// Workflow returns a workflow by name, or nil.
func (i *Index) Workflow(name string) *workflows.Workflow {
	for _, wf := range i.Workflows {
		if wf.Name == name {
			return wf
		}
	}
	return nil
}
