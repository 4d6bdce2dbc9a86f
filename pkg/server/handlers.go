package server

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/doanchienthangdev/omgkit/pkg/commands"
	"github.com/doanchienthangdev/omgkit/pkg/frontmatter"
	"github.com/doanchienthangdev/omgkit/pkg/packs"
)

// CommandResponse is the API representation of a command.
type CommandResponse struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	ArgumentHint string   `json:"argumentHint,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
	Body         string   `json:"body,omitempty"`
}

func commandResponse(cmd *commands.Command, withBody bool) CommandResponse {
	resp := CommandResponse{
		Name:         cmd.Name,
		Description:  cmd.Meta.Description,
		ArgumentHint: cmd.Meta.ArgumentHint,
		Category:     cmd.Meta.Category,
		Tags:         cmd.Meta.Tags,
		AllowedTools: cmd.Meta.AllowedTools,
	}
	if withBody {
		resp.Body = cmd.Body
	}
	return resp
}

// AgentResponse is the API representation of an agent.
type AgentResponse struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Model        string `json:"model,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// SkillResponse is the API representation of a skill.
type SkillResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

// WorkflowResponse is the API representation of a workflow.
type WorkflowResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Agents      []string `json:"agents,omitempty"`
	Commands    []string `json:"commands,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Body        string   `json:"body,omitempty"`
}

// RenderResponse is the result of rendering a command with arguments.
type RenderResponse struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// handleListCommands handles GET /api/commands.
func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	idx := s.snapshot()

	responses := make([]CommandResponse, 0, len(idx.Commands))
	for _, cmd := range idx.Commands {
		responses = append(responses, commandResponse(cmd, false))
	}
	s.writeJSONResponse(w, responses)
}

// handleGetCommand handles GET /api/commands/{name}.
func (s *Server) handleGetCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	cmd := s.snapshot().Command(name)
	if cmd == nil {
		s.writeErrorResponse(w, http.StatusNotFound, "command not found", nil)
		return
	}
	s.writeJSONResponse(w, commandResponse(cmd, true))
}

// handleRenderCommand handles GET /api/commands/{name}/render. Arguments are
// passed as repeated "arg" query parameters.
func (s *Server) handleRenderCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	cmd := s.snapshot().Command(name)
	if cmd == nil {
		s.writeErrorResponse(w, http.StatusNotFound, "command not found", nil)
		return
	}

	args := r.URL.Query()["arg"]
	s.writeJSONResponse(w, RenderResponse{
		Name:   cmd.Name,
		Prompt: cmd.Render(args),
	})
}

// handleListAgents handles GET /api/agents.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	idx := s.snapshot()

	responses := make([]AgentResponse, 0, len(idx.Agents))
	for _, agent := range idx.Agents {
		responses = append(responses, AgentResponse{
			Name:        agent.Name,
			Description: agent.Meta.Description,
			Model:       agent.Meta.Model,
		})
	}
	s.writeJSONResponse(w, responses)
}

// handleGetAgent handles GET /api/agents/{name}.
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	agent := s.snapshot().Agent(name)
	if agent == nil {
		s.writeErrorResponse(w, http.StatusNotFound, "agent not found", nil)
		return
	}
	s.writeJSONResponse(w, AgentResponse{
		Name:         agent.Name,
		Description:  agent.Meta.Description,
		Model:        agent.Meta.Model,
		SystemPrompt: agent.SystemPrompt,
	})
}

// handleListSkills handles GET /api/skills.
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	idx := s.snapshot()

	names := make([]string, 0, len(idx.Skills))
	for name := range idx.Skills {
		names = append(names, name)
	}
	sort.Strings(names)

	responses := make([]SkillResponse, 0, len(names))
	for _, name := range names {
		skill := idx.Skills[name]
		responses = append(responses, SkillResponse{
			Name:        skill.Name,
			Description: skill.Description,
		})
	}
	s.writeJSONResponse(w, responses)
}

// handleGetSkill handles GET /api/skills/{name}.
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	skill, ok := s.snapshot().Skills[name]
	if !ok {
		s.writeErrorResponse(w, http.StatusNotFound, "skill not found", nil)
		return
	}
	s.writeJSONResponse(w, SkillResponse{
		Name:        skill.Name,
		Description: skill.Description,
		Content:     skill.Content,
	})
}

func workflowMetaRefs(meta frontmatter.Metadata) (agents, cmds, skills []string) {
	return meta.Agents, meta.Commands, meta.Skills
}

// handleListWorkflows handles GET /api/workflows.
func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	idx := s.snapshot()

	responses := make([]WorkflowResponse, 0, len(idx.Workflows))
	for _, wf := range idx.Workflows {
		agents, cmds, skills := workflowMetaRefs(wf.Meta)
		responses = append(responses, WorkflowResponse{
			Name:        wf.Name,
			Description: wf.Meta.Description,
			Agents:      agents,
			Commands:    cmds,
			Skills:      skills,
		})
	}
	s.writeJSONResponse(w, responses)
}

// handleGetWorkflow handles GET /api/workflows/{name}.
func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	wf := s.snapshot().Workflow(name)
	if wf == nil {
		s.writeErrorResponse(w, http.StatusNotFound, "workflow not found", nil)
		return
	}
	agents, cmds, skills := workflowMetaRefs(wf.Meta)
	s.writeJSONResponse(w, WorkflowResponse{
		Name:        wf.Name,
		Description: wf.Meta.Description,
		Agents:      agents,
		Commands:    cmds,
		Skills:      skills,
		Body:        wf.Body,
	})
}

// handleListPacks handles GET /api/packs. The "global" query parameter
// switches between repo-local and user-global packs.
func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	global := r.URL.Query().Get("global") == "true"

	installed, err := s.discovery.Installed(global)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to list packs", err)
		return
	}
	if installed == nil {
		installed = []packs.InstalledPack{}
	}
	s.writeJSONResponse(w, installed)
}

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, map[string]string{"status": "ok"})
}
