package storage

import (
	"encoding/json"
	"fmt"
	"log"

	"pagebuilder/internal/domain"
)

// pageContent is the stored body of a page row.
type pageContent struct {
	Config     *domain.PageConfig `json:"config"`
	Components []json.RawMessage  `json:"components"`
}

// EncodeContent serializes the stored part of doc: its config and components.
func EncodeContent(doc domain.PageDocument) (string, error) {
	comps := doc.Components
	if comps == nil {
		comps = []domain.ComponentNode{}
	}
	data, err := json.Marshal(struct {
		Config     domain.PageConfig      `json:"config"`
		Components []domain.ComponentNode `json:"components"`
	}{doc.Config, comps})
	if err != nil {
		return "", fmt.Errorf("encode page content: %w", err)
	}
	return string(data), nil
}

// DecodeContent parses stored content. It never fails: malformed input yields
// the default config and no components, a missing config yields the default
// config, and components that cannot be decoded are dropped.
func DecodeContent(content, title string) (domain.PageConfig, []domain.ComponentNode) {
	config := domain.DefaultConfig(title)
	comps := []domain.ComponentNode{}
	if content == "" {
		return config, comps
	}

	var raw pageContent
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		log.Printf("content: malformed page content, using defaults: %v", err)
		return config, comps
	}
	if raw.Config != nil {
		config = *raw.Config
	}

	seen := make(map[string]bool, len(raw.Components))
	for i, msg := range raw.Components {
		var n domain.ComponentNode
		if err := json.Unmarshal(msg, &n); err != nil {
			log.Printf("content: skip component %d: %v", i, err)
			continue
		}
		if n.ID == "" || seen[n.ID] {
			log.Printf("content: skip component %d: missing or duplicate id %q", i, n.ID)
			continue
		}
		seen[n.ID] = true
		comps = append(comps, n)
	}
	return config, comps
}

// DocumentFromPage builds the editable document from a stored row.
func DocumentFromPage(p *domain.Page) domain.PageDocument {
	config, comps := DecodeContent(p.Content, p.Title)
	return domain.PageDocument{
		ID:           p.ID,
		CampaignID:   p.CampaignID,
		Title:        p.Title,
		Description:  p.Description,
		Status:       p.Status,
		PublishedURL: p.PublishedURL,
		PosterURL:    p.PosterURL,
		Config:       config,
		Components:   comps,
	}
}
