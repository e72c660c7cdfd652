package storage

import (
	"reflect"
	"testing"

	"pagebuilder/internal/domain"
)

func TestDecodeContent_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"malformed", "{not json"},
		{"wrong shape", `[1,2,3]`},
		{"missing fields", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, comps := DecodeContent(tt.content, "Sale")
			if !reflect.DeepEqual(config, domain.DefaultConfig("Sale")) {
				t.Errorf("expected default config, got %+v", config)
			}
			if comps == nil || len(comps) != 0 {
				t.Errorf("expected empty non-nil list, got %v", comps)
			}
		})
	}
}

func TestDecodeContent_DefaultConfigValues(t *testing.T) {
	config, _ := DecodeContent("", "Sale")
	if config.BackgroundColor != "#FFFFFF" || config.Title != "Sale" {
		t.Errorf("unexpected config %+v", config)
	}
	a := config.Analytics
	if !a.EnablePV || !a.EnableUV || !a.EnableClickTracking {
		t.Errorf("analytics must default on: %+v", a)
	}
}

func TestDecodeContent_SkipsBadComponents(t *testing.T) {
	content := `{
		"config": {"backgroundColor": "#000000", "title": "Dark", "analytics": {"enablePV": false}},
		"components": [
			{"id": "a", "type": "text-block", "props": {"content": "hi", "level": "h1"}, "style": {}},
			{"id": "b", "type": "carousel", "props": {}},
			{"id": "c", "type": "spacer", "props": {"height": "tall"}},
			{"id": "a", "type": "divider"},
			{"id": "d", "type": "spacer", "props": {"height": 8}, "visible": false, "loadPriority": "idle"}
		]
	}`
	config, comps := DecodeContent(content, "ignored")
	if config.Title != "Dark" || config.Analytics.EnablePV {
		t.Errorf("stored config must win: %+v", config)
	}
	if len(comps) != 2 {
		t.Fatalf("expected 2 surviving components, got %d", len(comps))
	}
	if comps[0].ID != "a" || comps[1].ID != "d" {
		t.Errorf("unexpected ids %s, %s", comps[0].ID, comps[1].ID)
	}
	if !comps[0].Visible || comps[0].LoadPriority != domain.LoadLazy {
		t.Errorf("missing flags must default: %+v", comps[0])
	}
	if comps[1].Visible || comps[1].LoadPriority != domain.LoadIdle {
		t.Errorf("explicit flags must survive: %+v", comps[1])
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	doc := domain.PageDocument{
		Title:  "Sale",
		Config: domain.DefaultConfig("Sale"),
		Components: []domain.ComponentNode{{
			ID:           "a",
			Type:         domain.ComponentPriceTable,
			Name:         "Tiers",
			Props:        &domain.PriceTableProps{Title: "T", Currency: "$", Tiers: []domain.PriceTier{{Threshold: 10, Discount: 1, Label: "x"}}},
			Style:        domain.Style{Width: "100%", FontSize: 14},
			DataBinding:  &domain.DataBinding{Type: domain.BindingProduct, ProductIDs: []string{"p1"}},
			Events:       []domain.EventConfig{{Trigger: "click", Action: domain.ActionLink, URL: "https://example.com"}},
			LoadPriority: domain.LoadCritical,
			Visible:      true,
		}},
	}
	content, err := EncodeContent(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	config, comps := DecodeContent(content, "other")
	if !reflect.DeepEqual(config, doc.Config) {
		t.Errorf("config differs: %+v", config)
	}
	if !reflect.DeepEqual(comps, doc.Components) {
		t.Errorf("components differ:\n got %+v\nwant %+v", comps, doc.Components)
	}
}

func TestEncodeContent_NilComponentsEncodeAsArray(t *testing.T) {
	content, err := EncodeContent(domain.PageDocument{Config: domain.DefaultConfig("x")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, comps := DecodeContent(content, "x")
	if comps == nil {
		t.Fatal("expected empty list")
	}
}
