package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("build_campaign_page",
		mcp.WithPromptDescription("Guide through building a campaign landing page from a template"),
		mcp.WithArgument("campaignId",
			mcp.ArgumentDescription("Campaign the page belongs to"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("theme",
			mcp.ArgumentDescription("Theme or occasion of the page, e.g. summer fruit sale"),
			mcp.RequiredArgument(),
		),
	), s.handleBuildPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("flash_sale",
		mcp.WithPromptDescription("Add a flash sale section with countdown, deals and coupon to the active page"),
		mcp.WithArgument("endTime",
			mcp.ArgumentDescription("When the sale ends, RFC 3339"),
			mcp.RequiredArgument(),
		),
	), s.handleFlashSalePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("review_page",
		mcp.WithPromptDescription("Review the active page for missing share settings and layout problems before publishing"),
	), s.handleReviewPagePrompt)
}

func (s *Server) handleBuildPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	campaignID := req.Params.Arguments["campaignId"]
	theme := req.Params.Arguments["theme"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for: %s", theme),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page about "%s" in campaign %s. Follow these steps:

1. Use create_page with a short title for the page; it becomes the active page
2. Use list_templates and pick the closest match; apply it with apply_template
3. Use get_document to see the components, then adjust text, images and prices with update_component_props
4. Add missing sections with add_component (list_component_types shows the defaults)
5. Set shareTitle, shareDescription and shareImage with update_page_config
6. Save with save_page

Keep the first three components the most important ones: they render before the user scrolls.`, theme, campaignID),
				},
			},
		},
	}, nil
}

func (s *Server) handleFlashSalePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	endTime := req.Params.Arguments["endTime"]
	return &mcp.GetPromptResult{
		Description: "Add a flash sale section",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Add a flash sale section to the active page. Follow these steps:

1. Use add_component with type "countdown" and props {"endTime": "%s"}
2. Use add_component with type "flash-deal" and fill in the deal products with update_component_props
3. Use add_component with type "coupon" for a matching discount
4. Use move_component to place the three right below the banner or nav bar

Check the result with get_document and save with save_page.`, endTime),
				},
			},
		},
	}, nil
}

func (s *Server) handleReviewPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Review the active page",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Review the active page before it is published. Use get_document and check:

1. config.title, shareTitle, shareDescription and shareImage are all set
2. No hidden components are left that should be visible, and nothing is locked by mistake
3. Countdown end times are in the future
4. Buttons with events point to a real URL or component

Report the problems you find and fix them with the editing tools. Do not call publish_page yourself.`,
				},
			},
		},
	}, nil
}
