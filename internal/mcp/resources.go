package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── pagebuilder://campaigns ────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"pagebuilder://campaigns",
		"All Campaigns",
		mcp.WithMIMEType("application/json"),
	), s.handleCampaignsResource)

	// ── page://{pageId}/document ───────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"page://{pageId}/document",
			"Page Document",
		),
		s.handlePageDocumentResource,
	)
}

func (s *Server) handleCampaignsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	campaigns, err := s.pages.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	type campaignSummary struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}

	summaries := make([]campaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		summaries = append(summaries, campaignSummary{ID: c.ID, Name: c.Name, Status: string(c.Status)})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "pagebuilder://campaigns",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// handlePageDocumentResource serves the live document when the page is open
// in the editor and the stored document otherwise.
func (s *Server) handlePageDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := extractPageIDFromURI(uri)
	if pageID == "" {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}

	var doc any
	if st, err := s.sessions.Get(pageID); err == nil {
		doc = st.Document
	} else {
		stored, err := s.pages.LoadDocument(ctx, pageID)
		if err != nil {
			return nil, err
		}
		doc = stored
	}

	data, _ := json.MarshalIndent(doc, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractPageIDFromURI extracts the page ID from "page://{id}/document".
func extractPageIDFromURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, "page://")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/document")
	if !ok || id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
