// Package editor is the in-memory state engine behind the page canvas: the live
// document, its undo/redo history and every mutation the canvas can issue.
//
// An Engine is owned by one editing session and is not safe for concurrent
// use. Every mutation first snapshots the current document into history and
// then changes it in place, so a single Undo returns to that snapshot. All
// operations are no-ops when no document is loaded or the target is missing.
package editor

import (
	"pagebuilder/internal/domain"
)

const (
	MinZoom = 0.5
	MaxZoom = 2.0
)

// ChangeKind classifies a Change.
type ChangeKind string

const (
	ChangeLoad      ChangeKind = "load"
	ChangeMutate    ChangeKind = "mutate"
	ChangeUndo      ChangeKind = "undo"
	ChangeRedo      ChangeKind = "redo"
	ChangeSelection ChangeKind = "selection"
	ChangeView      ChangeKind = "view"
)

// Change is delivered to subscribers after the engine state changed.
type Change struct {
	Kind        ChangeKind `json:"kind"`
	Op          string     `json:"op,omitempty"`
	ComponentID string     `json:"componentId,omitempty"`
	Version     uint64     `json:"version"`
}

// Engine holds one live document and its history.
type Engine struct {
	doc      *domain.PageDocument
	history  *History
	selected string
	zoom     float64
	dragging bool
	saving   bool
	version  uint64

	newID     func() string
	listeners map[int]func(Change)
	nextSub   int
}

// New returns an unloaded engine. ids generates identifiers for duplicated
// nodes; nil uses the default factory's source.
func New(ids func() string) *Engine {
	if ids == nil {
		ids = defaultFactory.NewID
	}
	return &Engine{
		history:   NewHistory(),
		zoom:      1,
		newID:     ids,
		listeners: make(map[int]func(Change)),
	}
}

// Subscribe registers fn for every subsequent Change. The returned func
// removes it.
func (e *Engine) Subscribe(fn func(Change)) (cancel func()) {
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Engine) emit(kind ChangeKind, op, componentID string) {
	if kind != ChangeSelection && kind != ChangeView {
		e.version++
	}
	c := Change{Kind: kind, Op: op, ComponentID: componentID, Version: e.version}
	for _, fn := range e.listeners {
		fn(c)
	}
}

// ── Loading ────────────────────────────────────────────────

// Load makes a copy of doc the live document, resets history to that single
// state and clears the selection.
func (e *Engine) Load(doc domain.PageDocument) {
	live := doc.Clone()
	e.doc = &live
	e.history.Reset(doc)
	e.selected = ""
	e.emit(ChangeLoad, "load", "")
}

// ── Read accessors ─────────────────────────────────────────

func (e *Engine) Loaded() bool { return e.doc != nil }

// Document returns a deep copy of the live document.
func (e *Engine) Document() (domain.PageDocument, bool) {
	if e.doc == nil {
		return domain.PageDocument{}, false
	}
	return e.doc.Clone(), true
}

func (e *Engine) SelectedID() string { return e.selected }
func (e *Engine) CanUndo() bool      { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool      { return e.history.CanRedo() }
func (e *Engine) HistoryLen() int    { return e.history.Len() }
func (e *Engine) HistoryIndex() int  { return e.history.Index() }
func (e *Engine) Zoom() float64      { return e.zoom }
func (e *Engine) Dragging() bool     { return e.dragging }
func (e *Engine) Saving() bool       { return e.saving }

// Version increases on every document change (load, mutation, undo, redo).
func (e *Engine) Version() uint64 { return e.version }

// State returns the read model for clients.
func (e *Engine) State() domain.EditorState {
	s := domain.EditorState{
		SelectedID:   e.selected,
		CanUndo:      e.CanUndo(),
		CanRedo:      e.CanRedo(),
		HistoryIndex: e.history.Index(),
		HistoryLen:   e.history.Len(),
		Zoom:         e.zoom,
	}
	if e.doc != nil {
		s.Document = e.doc.Clone()
	}
	return s
}

// ── Mutations ──────────────────────────────────────────────

// snapshot records the pre-mutation state. Callers must have checked e.doc.
func (e *Engine) snapshot() {
	e.history.Push(*e.doc)
}

// AddComponent appends node and selects it.
func (e *Engine) AddComponent(node domain.ComponentNode) {
	e.insert(node, -1)
}

// InsertComponent inserts node at index and selects it. An index outside
// [0, len] appends.
func (e *Engine) InsertComponent(node domain.ComponentNode, index int) {
	e.insert(node, index)
}

func (e *Engine) insert(node domain.ComponentNode, index int) {
	if e.doc == nil || !node.Type.Valid() {
		return
	}
	// Props must be the variant named by Type
	if node.Props != nil && node.Props.ComponentType() != node.Type {
		return
	}
	n := node.Clone()
	if n.Props == nil {
		n.Props = domain.NewProps(n.Type)
	}
	if n.ID == "" {
		n.ID = e.newID()
	}
	if e.doc.IndexOf(n.ID) >= 0 {
		return
	}

	e.snapshot()
	comps := e.doc.Components
	if index < 0 || index > len(comps) {
		index = len(comps)
	}
	comps = append(comps, domain.ComponentNode{})
	copy(comps[index+1:], comps[index:])
	comps[index] = n
	e.doc.Components = comps
	e.selected = n.ID
	e.emit(ChangeMutate, "addComponent", n.ID)
}

// UpdateComponent replaces the top-level fields set in patch.
func (e *Engine) UpdateComponent(id string, patch domain.NodePatch) {
	if e.doc == nil {
		return
	}
	node := e.doc.Find(id)
	if node == nil {
		return
	}
	e.snapshot()
	updated := *node
	patch.Apply(&updated)
	*node = updated.Clone()
	e.emit(ChangeMutate, "updateComponent", id)
}

// UpdateComponentStyle merges the set fields of style into the node style.
func (e *Engine) UpdateComponentStyle(id string, style domain.Style) {
	if e.doc == nil {
		return
	}
	node := e.doc.Find(id)
	if node == nil {
		return
	}
	e.snapshot()
	node.Style = node.Style.Merge(style)
	e.emit(ChangeMutate, "updateComponentStyle", id)
}

// UpdateComponentProps merges fields into the node props, keeping keys that
// are not mentioned. Keys the variant does not accept are returned.
func (e *Engine) UpdateComponentProps(id string, fields map[string]any) (rejected []string) {
	if e.doc == nil {
		return nil
	}
	node := e.doc.Find(id)
	if node == nil {
		return nil
	}
	current := node.Props
	if current == nil || current.ComponentType() != node.Type {
		current = domain.NewProps(node.Type)
	}
	if current == nil {
		return nil
	}
	merged, rejected, err := domain.MergeProps(current, fields)
	if err != nil {
		return rejected
	}
	e.snapshot()
	node.Props = merged
	e.emit(ChangeMutate, "updateComponentProps", id)
	return rejected
}

// RemoveComponent deletes the node and clears the selection if it was selected.
func (e *Engine) RemoveComponent(id string) {
	if e.doc == nil {
		return
	}
	i := e.doc.IndexOf(id)
	if i < 0 {
		return
	}
	e.snapshot()
	kept := make([]domain.ComponentNode, 0, len(e.doc.Components)-1)
	kept = append(kept, e.doc.Components[:i]...)
	kept = append(kept, e.doc.Components[i+1:]...)
	e.doc.Components = kept
	if e.selected == id {
		e.selected = ""
	}
	e.emit(ChangeMutate, "removeComponent", id)
}

// MoveComponent takes the node at from out of the list and reinserts it at
// to, shifting the nodes in between. to is clamped to the list bounds.
func (e *Engine) MoveComponent(from, to int) {
	if e.doc == nil {
		return
	}
	comps := e.doc.Components
	if from < 0 || from >= len(comps) {
		return
	}
	if to < 0 {
		to = 0
	}
	if to > len(comps)-1 {
		to = len(comps) - 1
	}

	e.snapshot()
	moved := comps[from]
	if from < to {
		copy(comps[from:to], comps[from+1:to+1])
	} else {
		copy(comps[to+1:from+1], comps[to:from])
	}
	comps[to] = moved
	e.emit(ChangeMutate, "moveComponent", moved.ID)
}

// DuplicateComponent inserts a deep copy of the node right after it, with a
// new id and " (copy)" appended to its display name, and selects the copy.
func (e *Engine) DuplicateComponent(id string) {
	if e.doc == nil {
		return
	}
	i := e.doc.IndexOf(id)
	if i < 0 {
		return
	}
	e.snapshot()
	dup := e.doc.Components[i].Clone()
	dup.ID = e.newID()
	dup.Name = dup.DisplayName() + " (copy)"

	comps := append(e.doc.Components, domain.ComponentNode{})
	copy(comps[i+2:], comps[i+1:])
	comps[i+1] = dup
	e.doc.Components = comps
	e.selected = dup.ID
	e.emit(ChangeMutate, "duplicateComponent", dup.ID)
}

// UpdatePageConfig merges patch into the page config.
func (e *Engine) UpdatePageConfig(patch domain.ConfigPatch) {
	if e.doc == nil {
		return
	}
	e.snapshot()
	patch.Apply(&e.doc.Config)
	e.emit(ChangeMutate, "updatePageConfig", "")
}

// ── History ────────────────────────────────────────────────

// Undo restores the previous history entry and clears the selection.
func (e *Engine) Undo() {
	doc, ok := e.history.Undo()
	if !ok {
		return
	}
	e.doc = &doc
	e.selected = ""
	e.emit(ChangeUndo, "undo", "")
}

// Redo restores the next history entry and clears the selection.
func (e *Engine) Redo() {
	doc, ok := e.history.Redo()
	if !ok {
		return
	}
	e.doc = &doc
	e.selected = ""
	e.emit(ChangeRedo, "redo", "")
}

// ── Transient UI state (never recorded in history) ─────────

// Select sets the selected node id; "" clears it.
func (e *Engine) Select(id string) {
	e.selected = id
	e.emit(ChangeSelection, "select", id)
}

// SetZoom sets the canvas zoom clamped to [MinZoom, MaxZoom].
func (e *Engine) SetZoom(z float64) {
	switch {
	case z < MinZoom:
		z = MinZoom
	case z > MaxZoom:
		z = MaxZoom
	}
	e.zoom = z
	e.emit(ChangeView, "zoom", "")
}

func (e *Engine) SetDragging(v bool) {
	e.dragging = v
	e.emit(ChangeView, "dragging", "")
}

func (e *Engine) SetSaving(v bool) {
	e.saving = v
	e.emit(ChangeView, "saving", "")
}
