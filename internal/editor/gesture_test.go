package editor_test

import (
	"reflect"
	"testing"

	"pagebuilder/internal/editor"
)

func TestDropNew(t *testing.T) {
	tests := []struct {
		name string
		over string
		want []string
	}{
		{"canvas", editor.CanvasDropZone, []string{"a", "b", "c", "n"}},
		{"nothing", "", []string{"a", "b", "c", "n"}},
		{"over first", "a", []string{"n", "a", "b", "c"}},
		{"over middle", "b", []string{"a", "n", "b", "c"}},
		{"unknown", "zzz", []string{"a", "b", "c", "n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := loaded("a", "b", "c")
			e.SetDragging(true)
			e.DropNew(textNode("n", "n"), tt.over)
			if got := order(t, e); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if e.Dragging() {
				t.Error("drop must clear dragging")
			}
			if e.SelectedID() != "n" {
				t.Errorf("dropped node must be selected, got %q", e.SelectedID())
			}
		})
	}
}

func TestDropExisting(t *testing.T) {
	tests := []struct {
		name         string
		active, over string
		want         []string
		moved        bool
	}{
		{"down", "a", "c", []string{"b", "c", "a"}, true},
		{"up", "c", "a", []string{"c", "a", "b"}, true},
		{"self", "b", "b", []string{"a", "b", "c"}, false},
		{"nothing", "b", "", []string{"a", "b", "c"}, false},
		{"unknown", "x", "a", []string{"a", "b", "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := loaded("a", "b", "c")
			e.DropExisting(tt.active, tt.over)
			if got := order(t, e); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if e.CanUndo() != tt.moved {
				t.Errorf("expected history push=%v", tt.moved)
			}
		})
	}
}
