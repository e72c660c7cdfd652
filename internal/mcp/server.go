package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the page builder.
// It exposes tools, resources, and prompts so AI agents can edit campaign pages.
type Server struct {
	mcp      *server.MCPServer
	emitter  service.EventEmitter
	approval *ApprovalQueue
	factory  *editor.Factory

	pages     *service.PageService
	sessions  *service.SessionService
	templates *service.TemplateService

	// Page used when a tool call omits pageId (set by open_page and create_page)
	mu           sync.Mutex
	activePageID string
}

// Deps holds all dependencies passed from the app layer to the MCP server.
type Deps struct {
	Emitter     service.EventEmitter
	Pages       *service.PageService
	Sessions    *service.SessionService
	Templates   *service.TemplateService
	Approvals   *storage.ApprovalStore // When set, approvals are resolved through the database
	AutoApprove bool
	Factory     *editor.Factory // Defaults to editor.NewFactory()
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.Approvals != nil {
		approval.SetStore(deps.Approvals)
	}
	approval.SetAutoApprove(deps.AutoApprove)

	factory := deps.Factory
	if factory == nil {
		factory = editor.NewFactory()
	}

	s := &Server{
		emitter:   deps.Emitter,
		approval:  approval,
		factory:   factory,
		pages:     deps.Pages,
		sessions:  deps.Sessions,
		templates: deps.Templates,
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerEditorTools()
	s.registerTemplateTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) setActivePage(pageID string) {
	s.mu.Lock()
	s.activePageID = pageID
	s.mu.Unlock()
}

func (s *Server) activePage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePageID
}

// resolvePageID returns the pageID from tool args or falls back to the active page.
func (s *Server) resolvePageID(args map[string]any) (string, error) {
	if pid, ok := args["pageId"].(string); ok && pid != "" {
		return pid, nil
	}
	if pid := s.activePage(); pid != "" {
		return pid, nil
	}
	return "", fmt.Errorf("no pageId provided and no active page set (use open_page first)")
}

// edit runs fn against the page's session, opening it on first use.
func (s *Server) edit(ctx context.Context, args map[string]any, fn func(e *editor.Engine)) (domain.EditorState, error) {
	pageID, err := s.resolvePageID(args)
	if err != nil {
		return domain.EditorState{}, err
	}
	if _, err := s.sessions.Open(ctx, pageID); err != nil {
		return domain.EditorState{}, fmt.Errorf("open page: %w", err)
	}
	return s.sessions.Do(pageID, fn)
}

func boolPtr(v bool) *bool { return &v }
