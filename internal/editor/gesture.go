package editor

import "pagebuilder/internal/domain"

// CanvasDropZone is the drop target id of the empty canvas area below the
// last component.
const CanvasDropZone = "canvas-drop-zone"

// DropNew places a node dragged in from the palette. Dropped on a component it
// takes that component's position, pushing it down; dropped on the canvas, on
// nothing or on an unknown id it is appended. The dragging flag is cleared.
func (e *Engine) DropNew(node domain.ComponentNode, overID string) {
	e.SetDragging(false)
	if e.doc == nil {
		return
	}
	if overID == "" || overID == CanvasDropZone {
		e.AddComponent(node)
		return
	}
	e.InsertComponent(node, e.doc.IndexOf(overID))
}

// DropExisting reorders after a canvas drag of activeID released over overID.
// Nothing moves when the node is released over itself, over nothing, or when
// either id is unknown. The dragging flag is cleared.
func (e *Engine) DropExisting(activeID, overID string) {
	e.SetDragging(false)
	if e.doc == nil || overID == "" || activeID == overID {
		return
	}
	from, to := e.doc.IndexOf(activeID), e.doc.IndexOf(overID)
	if from < 0 || to < 0 {
		return
	}
	e.MoveComponent(from, to)
}
