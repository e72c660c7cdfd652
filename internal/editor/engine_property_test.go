package editor_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

// applyOp issues one mutation chosen by code. It always changes history: ops
// that need a target fall back to an add when the page is empty.
func applyOp(e *editor.Engine, code, step int) {
	doc, _ := e.Document()
	n := len(doc.Components)
	if n == 0 && code < 5 {
		code = 5
	}
	pick := func() string { return doc.Components[step%n].ID }

	switch code {
	case 0:
		e.RemoveComponent(pick())
	case 1:
		e.MoveComponent(step%n, (step*7)%n)
	case 2:
		e.DuplicateComponent(pick())
	case 3:
		e.UpdateComponentProps(pick(), map[string]any{"content": fmt.Sprintf("step %d", step)})
	case 4:
		e.UpdateComponentStyle(pick(), domain.Style{Margin: fmt.Sprintf("%dpx", step)})
	case 5:
		e.InsertComponent(textNode(fmt.Sprintf("n%d", step), "new"), step%(n+1))
	default:
		title := fmt.Sprintf("title %d", step)
		e.UpdatePageConfig(domain.ConfigPatch{Title: &title})
	}
}

func TestProperty_UndoEverythingRestoresLoadedDocument(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("n mutations then n undos returns the loaded document", prop.ForAll(
		func(ops []int) bool {
			if len(ops) > editor.MaxHistory-1 {
				ops = ops[:editor.MaxHistory-1]
			}
			original := testDoc("a", "b", "c")
			e := editor.New(seqIDs("dup"))
			e.Load(original)

			for i, op := range ops {
				applyOp(e, op, i)
			}
			for range ops {
				e.Undo()
			}
			got, _ := e.Document()
			return reflect.DeepEqual(got, original) && !e.CanUndo()
		},
		gen.SliceOf(gen.IntRange(0, 6)),
	))

	properties.TestingRun(t)
}

func TestProperty_HistoryNeverExceedsCap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("history length stays within the cap", prop.ForAll(
		func(count int) bool {
			e := editor.New(seqIDs("dup"))
			e.Load(testDoc("a"))
			for i := 0; i < count; i++ {
				applyOp(e, i%7, i)
				if e.HistoryLen() > editor.MaxHistory {
					return false
				}
			}
			want := count + 1
			if want > editor.MaxHistory {
				want = editor.MaxHistory
			}
			return e.HistoryLen() == want && e.HistoryIndex() == want-1
		},
		gen.IntRange(0, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_RedoInvertsUndo(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("undo then redo restores the document and the cursor", prop.ForAll(
		func(ops []int) bool {
			e := editor.New(seqIDs("dup"))
			e.Load(testDoc("a", "b"))
			for i, op := range ops {
				applyOp(e, op, i)
			}
			// After one undo the live document is the history entry at the
			// cursor, so a further undo and redo must land back on it exactly.
			e.Undo()
			if !e.CanUndo() {
				return true
			}
			before, _ := e.Document()
			index := e.HistoryIndex()

			e.Undo()
			e.Redo()
			after, _ := e.Document()
			return reflect.DeepEqual(after, before) && e.HistoryIndex() == index && e.CanRedo()
		},
		gen.SliceOfN(10, gen.IntRange(0, 6)),
	))

	properties.TestingRun(t)
}
