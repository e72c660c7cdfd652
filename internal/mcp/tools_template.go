package mcpserver

import (
	"context"
	"fmt"

	"pagebuilder/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTemplateTools() {
	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List page templates, optionally by category"),
		mcp.WithString("category", mcp.Description("Category (optional, \"all\" or omitted lists every template)")),
	), s.handleListTemplates)

	// ── apply_template ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_template",
		mcp.WithDescription("Replace the page config and components with a template. History restarts from the result."),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleApplyTemplate)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.templates == nil {
		return jsonResult([]any{})
	}
	type templateSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Components  int    `json:"components"`
	}
	list := s.templates.List(req.GetString("category", service.CategoryAll))
	out := make([]templateSummary, len(list))
	for i, t := range list {
		out[i] = templateSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			Components:  len(t.Components),
		}
	}
	return jsonResult(out)
}

func (s *Server) handleApplyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	templateID := req.GetString("templateId", "")
	if templateID == "" {
		return nil, fmt.Errorf("templateId is required")
	}
	pageID, err := s.resolvePageID(args)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Open(ctx, pageID); err != nil {
		return nil, err
	}
	st, err := s.sessions.ApplyTemplate(pageID, templateID)
	if err != nil {
		return nil, fmt.Errorf("apply template: %w", err)
	}
	return jsonResult(summarize(st))
}
