package domain

// EditorState is the read model of one editing session.
// Returned to clients so they can redraw the canvas and toolbar.
type EditorState struct {
	Document     PageDocument `json:"document"`
	SelectedID   string       `json:"selectedId,omitempty"`
	CanUndo      bool         `json:"canUndo"`
	CanRedo      bool         `json:"canRedo"`
	HistoryIndex int          `json:"historyIndex"`
	HistoryLen   int          `json:"historyLength"`
	Zoom         float64      `json:"zoom"`
	Dirty        bool         `json:"dirty"`
}
