package domain

import (
	"fmt"

	"github.com/brunoga/deep"
)

type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
	PageArchived  PageStatus = "archived"
)

// Analytics toggles what the public page reports.
type Analytics struct {
	EnablePV            bool `json:"enablePV"`
	EnableUV            bool `json:"enableUV"`
	EnableClickTracking bool `json:"enableClickTracking"`
}

// PageConfig holds page-level settings. One per document.
type PageConfig struct {
	BackgroundColor  string    `json:"backgroundColor"`
	Title            string    `json:"title"`
	ShareTitle       string    `json:"shareTitle,omitempty"`
	ShareDescription string    `json:"shareDescription,omitempty"`
	ShareImage       string    `json:"shareImage,omitempty"`
	Analytics        Analytics `json:"analytics"`
}

// DefaultConfig is the config substituted when stored content has none.
func DefaultConfig(title string) PageConfig {
	return PageConfig{
		BackgroundColor: "#FFFFFF",
		Title:           title,
		Analytics: Analytics{
			EnablePV:            true,
			EnableUV:            true,
			EnableClickTracking: true,
		},
	}
}

// ConfigPatch lists the config fields an update replaces. Nil fields are kept.
type ConfigPatch struct {
	BackgroundColor  *string    `json:"backgroundColor,omitempty"`
	Title            *string    `json:"title,omitempty"`
	ShareTitle       *string    `json:"shareTitle,omitempty"`
	ShareDescription *string    `json:"shareDescription,omitempty"`
	ShareImage       *string    `json:"shareImage,omitempty"`
	Analytics        *Analytics `json:"analytics,omitempty"`
}

// Apply writes the patch onto c.
func (p ConfigPatch) Apply(c *PageConfig) {
	if p.BackgroundColor != nil {
		c.BackgroundColor = *p.BackgroundColor
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.ShareTitle != nil {
		c.ShareTitle = *p.ShareTitle
	}
	if p.ShareDescription != nil {
		c.ShareDescription = *p.ShareDescription
	}
	if p.ShareImage != nil {
		c.ShareImage = *p.ShareImage
	}
	if p.Analytics != nil {
		c.Analytics = *p.Analytics
	}
}

// PageDocument is the page being edited: config plus ordered components.
// Render order is slice order.
type PageDocument struct {
	ID           string          `json:"id"`
	CampaignID   string          `json:"campaignId"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Status       PageStatus      `json:"status"`
	PublishedURL string          `json:"publishedUrl,omitempty"`
	PosterURL    string          `json:"posterUrl,omitempty"`
	Config       PageConfig      `json:"config"`
	Components   []ComponentNode `json:"components"`
}

// Clone returns a deep copy sharing no memory with d.
func (d PageDocument) Clone() PageDocument {
	c, err := deep.Copy(d)
	if err != nil {
		// Documents hold only plain data; a failure here is a programming error.
		panic(fmt.Sprintf("clone page document %s: %v", d.ID, err))
	}
	return c
}

// IndexOf returns the position of the component with id, or -1.
func (d *PageDocument) IndexOf(id string) int {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer into Components for id, or nil.
func (d *PageDocument) Find(id string) *ComponentNode {
	if i := d.IndexOf(id); i >= 0 {
		return &d.Components[i]
	}
	return nil
}

// EagerRenderCount is how many leading visible components the public page
// always renders eagerly.
const EagerRenderCount = 3

// RenderSlot is one visible component in render order.
type RenderSlot struct {
	Node  ComponentNode `json:"node"`
	Eager bool          `json:"eager"`
}

// RenderPlan lists the visible components in order, marking the ones the
// public page renders immediately instead of on scroll.
func (d PageDocument) RenderPlan() []RenderSlot {
	slots := make([]RenderSlot, 0, len(d.Components))
	for _, n := range d.Components {
		if !n.Visible {
			continue
		}
		slots = append(slots, RenderSlot{
			Node:  n,
			Eager: n.LoadPriority == LoadCritical || len(slots) < EagerRenderCount,
		})
	}
	return slots
}
