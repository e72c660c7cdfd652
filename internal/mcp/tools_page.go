package mcpserver

import (
	"context"
	"fmt"
	"time"

	"pagebuilder/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── list_campaigns ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_campaigns",
		mcp.WithDescription("List all marketing campaigns"),
	), s.handleListCampaigns)

	// ── create_campaign ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_campaign",
		mcp.WithDescription("Create a marketing campaign that groups landing pages"),
		mcp.WithString("name", mcp.Description("Campaign name"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Campaign description (optional)")),
		mcp.WithString("startTime", mcp.Description("Start time, RFC 3339 (optional)")),
		mcp.WithString("endTime", mcp.Description("End time, RFC 3339 (optional)")),
	), s.handleCreateCampaign)

	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List landing pages, optionally only those of one campaign"),
		mcp.WithString("campaignId", mcp.Description("Campaign ID (optional)")),
	), s.handleListPages)

	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a landing page in a campaign and make it the active page"),
		mcp.WithString("campaignId", mcp.Description("ID of the campaign"), mcp.Required()),
		mcp.WithString("title", mcp.Description("Page title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Page description (optional)")),
	), s.handleCreatePage)

	// ── open_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_page",
		mcp.WithDescription("Open a page in the editor and make it the active page. Editing tools default to the active page."),
		mcp.WithString("pageId", mcp.Description("ID of the page to open"), mcp.Required()),
	), s.handleOpenPage)

	// ── close_page ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_page",
		mcp.WithDescription("Close an open page. Unsaved edits are saved unless discard is true."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithBoolean("discard", mcp.Description("Drop unsaved edits instead of saving them")),
	), s.handleClosePage)

	// ── save_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_page",
		mcp.WithDescription("Save the open page to storage"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleSavePage)

	// ── publish_page (outward-facing) ──────────────────
	s.mcp.AddTool(mcp.NewTool("publish_page",
		mcp.WithDescription("🛑 Publish the page to its public URL. Unsaved edits are saved first. Requires user approval."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true), OpenWorldHint: boolPtr(true)}),
	), s.handlePublishPage)

	// ── delete_page (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a page and its revisions. Requires user approval."),
		mcp.WithString("pageId", mcp.Description("Page ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)

	// ── list_revisions ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_revisions",
		mcp.WithDescription("List the published revisions of a page, newest first"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleListRevisions)

	// ── restore_revision ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("restore_revision",
		mcp.WithDescription("Load a published revision into the open page. The result stays unsaved until save_page."),
		mcp.WithString("revisionId", mcp.Description("Revision ID"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleRestoreRevision)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListCampaigns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaigns, err := s.pages.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return jsonResult(campaigns)
}

func (s *Server) handleCreateCampaign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := service.CreateCampaignInput{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		CreatedBy:   "mcp",
	}
	var err error
	if in.StartTime, err = parseTime(req.GetString("startTime", "")); err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	if in.EndTime, err = parseTime(req.GetString("endTime", "")); err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}
	c, err := s.pages.CreateCampaign(ctx, in)
	if err != nil {
		return nil, err
	}
	return jsonResult(c)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages.ListPages(ctx, req.GetString("campaignId", ""))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	type pageSummary struct {
		ID           string `json:"id"`
		CampaignID   string `json:"campaignId"`
		Title        string `json:"title"`
		Status       string `json:"status"`
		PublishedURL string `json:"publishedUrl,omitempty"`
	}
	out := make([]pageSummary, len(pages))
	for i, p := range pages {
		out[i] = pageSummary{ID: p.ID, CampaignID: p.CampaignID, Title: p.Title, Status: string(p.Status), PublishedURL: p.PublishedURL}
	}
	return jsonResult(out)
}

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	campaignID := req.GetString("campaignId", "")
	title := req.GetString("title", "")
	if campaignID == "" || title == "" {
		return nil, fmt.Errorf("campaignId and title are required")
	}
	page, err := s.pages.CreatePage(ctx, campaignID, title, req.GetString("description", ""))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	// Auto-set as active page
	s.setActivePage(page.ID)
	return jsonResult(page)
}

func (s *Server) handleOpenPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	st, err := s.sessions.Open(ctx, pageID)
	if err != nil {
		return nil, err
	}
	s.setActivePage(pageID)
	return jsonResult(summarize(st))
}

func (s *Server) handleClosePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Close(ctx, pageID, !req.GetBool("discard", false)); err != nil {
		return nil, err
	}
	if s.activePage() == pageID {
		s.setActivePage("")
	}
	return textResult(fmt.Sprintf("Page %s closed", pageID)), nil
}

func (s *Server) handleSavePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Open(ctx, pageID); err != nil {
		return nil, err
	}
	st, err := s.sessions.Save(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handlePublishPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	page, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	meta := fmt.Sprintf(`{"pageId":%q}`, page.ID)
	if err := s.approval.Request("publish_page",
		fmt.Sprintf("Publish %q to %s", page.Title, s.pages.PublicURL(page.ID)), meta); err != nil {
		return textResult("Action rejected: " + err.Error()), nil
	}

	if _, err := s.sessions.Open(ctx, pageID); err != nil {
		return nil, err
	}
	published, err := s.sessions.Publish(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}
	return jsonResult(published)
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	page, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	meta := fmt.Sprintf(`{"pageId":%q}`, page.ID)
	if err := s.approval.Request("delete_page", fmt.Sprintf("Delete page %q", page.Title), meta); err != nil {
		return textResult("Action rejected: " + err.Error()), nil
	}

	// An open editor would otherwise save the page back after deletion
	_ = s.sessions.Close(ctx, pageID, false)
	if s.activePage() == pageID {
		s.setActivePage("")
	}
	if err := s.pages.DeletePage(ctx, pageID); err != nil {
		return nil, fmt.Errorf("delete page: %w", err)
	}
	return textResult(fmt.Sprintf("Page %s deleted", pageID)), nil
}

func (s *Server) handleListRevisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	revs, err := s.pages.ListRevisions(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return jsonResult(revs)
}

func (s *Server) handleRestoreRevision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := s.resolvePageID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	revisionID := req.GetString("revisionId", "")
	if revisionID == "" {
		return nil, fmt.Errorf("revisionId is required")
	}
	if _, err := s.sessions.Open(ctx, pageID); err != nil {
		return nil, err
	}
	st, err := s.sessions.RestoreRevision(ctx, pageID, revisionID)
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
