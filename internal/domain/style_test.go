package domain

import (
	"encoding/json"
	"testing"
)

func TestLength_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want Length
		out  string
	}{
		{`"100%"`, "100%", `"100%"`},
		{`"200px"`, "200px", `"200px"`},
		{`16`, "16", `16`},
		{`12.5`, "12.5", `12.5`},
		// Numeric strings are normalised to numbers
		{`"16"`, "16", `16`},
		{`null`, "", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var l Length
			if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if l != tt.want {
				t.Errorf("decoded %q, want %q", l, tt.want)
			}
			out, err := json.Marshal(l)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.out {
				t.Errorf("encoded %s, want %s", out, tt.out)
			}
		})
	}
}

func TestStyle_MergeKeepsUnsetFields(t *testing.T) {
	base := Style{Width: "100%", Color: "#111111", FontSize: 14}
	got := base.Merge(Style{Color: "", FontSize: 0, Padding: "8px"})

	want := Style{Width: "100%", Color: "#111111", FontSize: 14, Padding: "8px"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
