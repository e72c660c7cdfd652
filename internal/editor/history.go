package editor

import "pagebuilder/internal/domain"

// MaxHistory is the number of snapshots a History keeps.
const MaxHistory = 50

// History is a bounded stack of full document snapshots with a cursor.
// Entries are deep copies; later edits to a live document never reach them.
type History struct {
	entries []domain.PageDocument
	index   int
}

// NewHistory returns an empty history. Index is -1 until the first Reset.
func NewHistory() *History {
	return &History{index: -1}
}

// Reset replaces all entries with a single copy of doc.
func (h *History) Reset(doc domain.PageDocument) {
	h.entries = []domain.PageDocument{doc.Clone()}
	h.index = 0
}

// Push records doc as the newest entry. Any redo branch past the cursor is
// discarded first. When the cap is exceeded the oldest entry is dropped and the
// cursor shifts with it.
func (h *History) Push(doc domain.PageDocument) {
	h.entries = h.entries[:h.index+1]
	h.entries = append(h.entries, doc.Clone())
	h.index = len(h.entries) - 1
	if len(h.entries) > MaxHistory {
		h.entries[0] = domain.PageDocument{}
		h.entries = h.entries[1:]
		h.index--
	}
}

// Undo moves the cursor back one entry and returns a copy of it.
func (h *History) Undo() (domain.PageDocument, bool) {
	if !h.CanUndo() {
		return domain.PageDocument{}, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo moves the cursor forward one entry and returns a copy of it.
func (h *History) Redo() (domain.PageDocument, bool) {
	if !h.CanRedo() {
		return domain.PageDocument{}, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len is the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Index is the cursor position, -1 before the first Reset.
func (h *History) Index() int { return h.index }

// At returns a copy of entry i.
func (h *History) At(i int) (domain.PageDocument, bool) {
	if i < 0 || i >= len(h.entries) {
		return domain.PageDocument{}, false
	}
	return h.entries[i].Clone(), true
}
