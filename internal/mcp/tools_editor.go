package mcpserver

import (
	"context"
	"fmt"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerEditorTools() {
	// ── get_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get the full editor state of a page: config, components, selection and history"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleGetDocument)

	// ── list_component_types ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_component_types",
		mcp.WithDescription("List every component type with its default props and style"),
	), s.handleListComponentTypes)

	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Add a component built from the type defaults. Props and style override the defaults key by key. The new component is selected."),
		mcp.WithString("type", mcp.Description("Component type (see list_component_types)"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithObject("props", mcp.Description("Props overrides (optional)")),
		mcp.WithObject("style", mcp.Description("Style overrides (optional)")),
		mcp.WithString("name", mcp.Description("Display name (optional)")),
		mcp.WithNumber("index", mcp.Description("Insert position (optional, appends if omitted or out of range)")),
	), s.handleAddComponent)

	// ── drop_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("drop_component",
		mcp.WithDescription("Drop a new component (type) or an existing one (componentId) over another component, as a drag and drop on the canvas would. New components land before the target; existing ones move to its position. Dropping on the canvas appends."),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
		mcp.WithString("type", mcp.Description("Type of a new component (set this or componentId)")),
		mcp.WithString("componentId", mcp.Description("ID of an existing component (set this or type)")),
		mcp.WithString("overId", mcp.Description("Component ID dropped over, or canvas-drop-zone")),
	), s.handleDropComponent)

	// ── update_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Replace top-level fields of a component: name, props, style, dataBinding, events, loadPriority, visible, locked. Fields not given are kept; props given here replace the whole record."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithObject("patch", mcp.Description("Fields to replace"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleUpdateComponent)

	// ── update_component_props ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component_props",
		mcp.WithDescription("Merge fields into a component's props, keeping props not mentioned. Unknown fields are skipped and listed in rejectedFields."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithObject("props", mcp.Description("Props fields to set"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleUpdateComponentProps)

	// ── update_component_style ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component_style",
		mcp.WithDescription("Merge fields into a component's style, keeping styles not mentioned"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithObject("style", mcp.Description("Style fields to set"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleUpdateComponentStyle)

	// ── remove_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a component from the page. Undo brings it back."),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleRemoveComponent)

	// ── move_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Move a component to a new position, shifting the ones in between. Give either from or componentId."),
		mcp.WithNumber("to", mcp.Description("Target index (clamped to the list)"), mcp.Required()),
		mcp.WithNumber("from", mcp.Description("Current index")),
		mcp.WithString("componentId", mcp.Description("Component ID, instead of from")),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleMoveComponent)

	// ── duplicate_component ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_component",
		mcp.WithDescription("Insert a copy of a component right after it and select the copy"),
		mcp.WithString("componentId", mcp.Description("Component ID"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleDuplicateComponent)

	// ── update_page_config ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_page_config",
		mcp.WithDescription("Update page settings: backgroundColor, title, shareTitle, shareDescription, shareImage, analytics"),
		mcp.WithObject("config", mcp.Description("Config fields to set"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleUpdatePageConfig)

	// ── select_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_component",
		mcp.WithDescription("Select a component, or clear the selection with an empty componentId"),
		mcp.WithString("componentId", mcp.Description("Component ID (empty clears)")),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleSelectComponent)

	// ── set_zoom ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_zoom",
		mcp.WithDescription(fmt.Sprintf("Set the canvas zoom, clamped to [%.1f, %.1f]", editor.MinZoom, editor.MaxZoom)),
		mcp.WithNumber("zoom", mcp.Description("Zoom factor, 1 is actual size"), mcp.Required()),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleSetZoom)

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last edit"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone edit"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to active page)")),
	), s.handleRedo)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.edit(ctx, req.GetArguments(), func(e *editor.Engine) {})
	if err != nil {
		return nil, err
	}
	return jsonResult(st)
}

func (s *Server) handleListComponentTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type typeInfo struct {
		Type  domain.ComponentType `json:"type"`
		Props domain.Props         `json:"props"`
		Style domain.Style         `json:"style"`
	}
	out := make([]typeInfo, 0, len(domain.ComponentTypes))
	for _, t := range domain.ComponentTypes {
		n, err := s.factory.New(t, nil, domain.Style{})
		if err != nil {
			continue
		}
		out = append(out, typeInfo{Type: t, Props: n.Props, Style: n.Style})
	}
	return jsonResult(out)
}

// newNode builds a node from the type, props, style and name arguments.
func (s *Server) newNode(args map[string]any) (domain.ComponentNode, error) {
	typ, _ := args["type"].(string)
	if typ == "" {
		return domain.ComponentNode{}, fmt.Errorf("type is required")
	}
	props, err := fieldsArg(args, "props")
	if err != nil {
		return domain.ComponentNode{}, err
	}
	style, err := styleArg(args, "style")
	if err != nil {
		return domain.ComponentNode{}, err
	}
	node, err := s.factory.New(domain.ComponentType(typ), props, style)
	if err != nil {
		return domain.ComponentNode{}, err
	}
	if name, ok := args["name"].(string); ok && name != "" {
		node.Name = name
	}
	return node, nil
}

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	node, err := s.newNode(args)
	if err != nil {
		return nil, err
	}
	index, _ := getInt(args, "index", -1)
	st, err := s.edit(ctx, args, func(e *editor.Engine) { e.InsertComponent(node, index) })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleDropComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	overID := req.GetString("overId", "")
	activeID := req.GetString("componentId", "")

	var fn func(e *editor.Engine)
	switch {
	case activeID != "":
		fn = func(e *editor.Engine) { e.DropExisting(activeID, overID) }
	case req.GetString("type", "") != "":
		node, err := s.newNode(args)
		if err != nil {
			return nil, err
		}
		fn = func(e *editor.Engine) { e.DropNew(node, overID) }
	default:
		return nil, fmt.Errorf("type or componentId is required")
	}

	st, err := s.edit(ctx, args, fn)
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}

	var patch domain.NodePatch
	if ok, err := decodeArg(args, "patch", &patch); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("patch is required")
	}
	// Props in a patch replace the record whole, so they start from the zero value
	var rawProps struct {
		Props map[string]any `json:"props"`
	}
	if _, err := decodeArg(args, "patch", &rawProps); err != nil {
		return nil, err
	}

	var found bool
	var propsErr error
	st, err := s.edit(ctx, args, func(e *editor.Engine) {
		doc, _ := e.Document()
		node := doc.Find(id)
		if node == nil {
			return
		}
		found = true
		if rawProps.Props != nil {
			p, rejected, err := domain.MergeProps(domain.NewProps(node.Type), rawProps.Props)
			if err == nil && len(rejected) > 0 {
				err = fmt.Errorf("%s does not accept %v", node.Type, rejected)
			}
			if err != nil {
				propsErr = err
				return
			}
			patch.Props = p
		}
		e.UpdateComponent(id, patch)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	if propsErr != nil {
		return nil, fmt.Errorf("patch props: %w", propsErr)
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleUpdateComponentProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	fields, err := fieldsArg(args, "props")
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("props is required")
	}

	var rejected []string
	st, err := s.edit(ctx, args, func(e *editor.Engine) { rejected = e.UpdateComponentProps(id, fields) })
	if err != nil {
		return nil, err
	}
	out := summarize(st)
	out.Rejected = rejected
	return jsonResult(out)
}

func (s *Server) handleUpdateComponentStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	style, err := styleArg(args, "style")
	if err != nil {
		return nil, err
	}
	st, err := s.edit(ctx, args, func(e *editor.Engine) { e.UpdateComponentStyle(id, style) })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleRemoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	st, err := s.edit(ctx, req.GetArguments(), func(e *editor.Engine) { e.RemoveComponent(id) })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	to, ok := getInt(args, "to", 0)
	if !ok {
		return nil, fmt.Errorf("to is required")
	}
	from, hasFrom := getInt(args, "from", -1)
	id := req.GetString("componentId", "")
	if !hasFrom && id == "" {
		return nil, fmt.Errorf("from or componentId is required")
	}

	st, err := s.edit(ctx, args, func(e *editor.Engine) {
		if id != "" {
			doc, _ := e.Document()
			from = doc.IndexOf(id)
		}
		e.MoveComponent(from, to)
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleDuplicateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	if id == "" {
		return nil, fmt.Errorf("componentId is required")
	}
	st, err := s.edit(ctx, req.GetArguments(), func(e *editor.Engine) { e.DuplicateComponent(id) })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleUpdatePageConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var patch domain.ConfigPatch
	if ok, err := decodeArg(args, "config", &patch); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("config is required")
	}
	st, err := s.edit(ctx, args, func(e *editor.Engine) { e.UpdatePageConfig(patch) })
	if err != nil {
		return nil, err
	}
	return jsonResult(st.Document.Config)
}

func (s *Server) handleSelectComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("componentId", "")
	st, err := s.edit(ctx, req.GetArguments(), func(e *editor.Engine) { e.Select(id) })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleSetZoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	zoom, ok := getFloat(args, "zoom", 0)
	if !ok {
		return nil, fmt.Errorf("zoom is required")
	}
	st, err := s.edit(ctx, args, func(e *editor.Engine) { e.SetZoom(zoom) })
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Zoom set to %.2f", st.Zoom)), nil
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.edit(ctx, req.GetArguments(), func(e *editor.Engine) { e.Undo() })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.edit(ctx, req.GetArguments(), func(e *editor.Engine) { e.Redo() })
	if err != nil {
		return nil, err
	}
	return jsonResult(summarize(st))
}
