package mcpserver

import (
	"encoding/json"
	"fmt"

	"pagebuilder/internal/domain"
)

// decodeArg decodes an argument that may arrive as a JSON string or as an
// already-parsed object into target. A missing argument leaves target untouched
// and reports false.
func decodeArg(args map[string]any, key string, target any) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return false, nil
	}
	var data []byte
	switch v := raw.(type) {
	case string:
		if v == "" {
			return false, nil
		}
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		data = b
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

// fieldsArg returns an object argument as a field map.
func fieldsArg(args map[string]any, key string) (map[string]any, error) {
	var fields map[string]any
	if _, err := decodeArg(args, key, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func styleArg(args map[string]any, key string) (domain.Style, error) {
	var style domain.Style
	_, err := decodeArg(args, key, &style)
	return style, err
}

// getFloat reads a numeric argument and reports whether it was present.
func getFloat(args map[string]any, key string, fallback float64) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return fallback, false
}

// getInt reads a whole-number argument. JSON numbers decode as float64.
func getInt(args map[string]any, key string, fallback int) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return fallback, false
}

// componentSummary is the compact form of a node returned to agents.
type componentSummary struct {
	Index   int                  `json:"index"`
	ID      string               `json:"id"`
	Type    domain.ComponentType `json:"type"`
	Name    string               `json:"name"`
	Visible bool                 `json:"visible"`
	Locked  bool                 `json:"locked,omitempty"`
}

// stateSummary is what mutating tools return: enough to plan the next call
// without the full document.
type stateSummary struct {
	PageID       string             `json:"pageId"`
	SelectedID   string             `json:"selectedId,omitempty"`
	CanUndo      bool               `json:"canUndo"`
	CanRedo      bool               `json:"canRedo"`
	HistoryIndex int                `json:"historyIndex"`
	HistoryLen   int                `json:"historyLength"`
	Zoom         float64            `json:"zoom"`
	Dirty        bool               `json:"dirty"`
	Rejected     []string           `json:"rejectedFields,omitempty"`
	Components   []componentSummary `json:"components"`
}

func summarize(st domain.EditorState) stateSummary {
	out := stateSummary{
		PageID:       st.Document.ID,
		SelectedID:   st.SelectedID,
		CanUndo:      st.CanUndo,
		CanRedo:      st.CanRedo,
		HistoryIndex: st.HistoryIndex,
		HistoryLen:   st.HistoryLen,
		Zoom:         st.Zoom,
		Dirty:        st.Dirty,
		Components:   make([]componentSummary, len(st.Document.Components)),
	}
	for i, n := range st.Document.Components {
		out.Components[i] = componentSummary{
			Index:   i,
			ID:      n.ID,
			Type:    n.Type,
			Name:    n.DisplayName(),
			Visible: n.Visible,
			Locked:  n.Locked,
		}
	}
	return out
}
