package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

type CampaignStatus string

const (
	CampaignDraft    CampaignStatus = "draft"
	CampaignActive   CampaignStatus = "active"
	CampaignEnded    CampaignStatus = "ended"
	CampaignArchived CampaignStatus = "archived"
)

type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	Status      CampaignStatus `json:"status"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Page is the stored row of a landing page. Content holds the serialized
// document body ({config, components}).
type Page struct {
	ID           string     `json:"id"`
	CampaignID   string     `json:"campaignId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Content      string     `json:"content"`
	Status       PageStatus `json:"status"`
	PublishedURL string     `json:"publishedUrl"`
	PosterURL    string     `json:"posterUrl"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Revision is a content snapshot recorded when a page is published.
type Revision struct {
	ID        string    `json:"id"`
	PageID    string    `json:"pageId"`
	Label     string    `json:"label"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, c *Campaign) error
	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	UpdateCampaign(ctx context.Context, c *Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
}

type PageStore interface {
	CreatePage(ctx context.Context, p *Page) error
	GetPage(ctx context.Context, id string) (*Page, error)
	ListPages(ctx context.Context, campaignID string) ([]Page, error)
	UpdatePage(ctx context.Context, p *Page) error
	UpdateContent(ctx context.Context, id, content string) error
	DeletePage(ctx context.Context, id string) error
}

type RevisionStore interface {
	PushRevision(ctx context.Context, pageID, label, content string) (*Revision, error)
	GetRevision(ctx context.Context, id string) (*Revision, error)
	ListRevisions(ctx context.Context, pageID string) ([]Revision, error)
	DeleteRevisionsByPage(ctx context.Context, pageID string) error
}
