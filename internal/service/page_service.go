package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/storage"
)

// ErrInvalidInput marks a request the caller must fix before retrying.
var ErrInvalidInput = errors.New("invalid input")

// DefaultPublicBase is the path prefix of published page URLs.
const DefaultPublicBase = "/h5"

// ─────────────────────────────────────────────────────────────
// Page Service — campaigns, pages, saving and publishing
// ─────────────────────────────────────────────────────────────

// PageService manages campaigns and their pages. It moves documents between
// the editor and storage; it never holds a live document itself.
type PageService struct {
	campaigns  domain.CampaignStore
	pages      domain.PageStore
	revisions  domain.RevisionStore
	publicBase string
	emitter    EventEmitter
	now        func() time.Time
}

// NewPageService creates a PageService. publicBase prefixes published URLs;
// empty uses DefaultPublicBase.
func NewPageService(
	campaigns domain.CampaignStore,
	pages domain.PageStore,
	revisions domain.RevisionStore,
	publicBase string,
	emitter EventEmitter,
) *PageService {
	if publicBase == "" {
		publicBase = DefaultPublicBase
	}
	return &PageService{
		campaigns:  campaigns,
		pages:      pages,
		revisions:  revisions,
		publicBase: strings.TrimRight(publicBase, "/"),
		emitter:    emitter,
		now:        time.Now,
	}
}

// ── Campaigns ──────────────────────────────────────────────

type CreateCampaignInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CreatedBy   string    `json:"createdBy"`
}

func (s *PageService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("create campaign: name is required: %w", ErrInvalidInput)
	}
	if !in.StartTime.IsZero() && !in.EndTime.IsZero() && in.EndTime.Before(in.StartTime) {
		return nil, fmt.Errorf("create campaign: end time before start time: %w", ErrInvalidInput)
	}
	c := &domain.Campaign{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      domain.CampaignDraft,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.campaigns.CreateCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

func (s *PageService) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.ListCampaigns(ctx)
}

func (s *PageService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaigns.GetCampaign(ctx, id)
}

func (s *PageService) DeleteCampaign(ctx context.Context, id string) error {
	return s.campaigns.DeleteCampaign(ctx, id)
}

// ── Pages ──────────────────────────────────────────────────

// CreatePage adds an empty draft page to an existing campaign.
func (s *PageService) CreatePage(ctx context.Context, campaignID, title, description string) (*domain.Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("create page: title is required: %w", ErrInvalidInput)
	}
	if _, err := s.campaigns.GetCampaign(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	content, err := storage.EncodeContent(domain.PageDocument{Config: domain.DefaultConfig(title)})
	if err != nil {
		return nil, err
	}
	p := &domain.Page{
		ID:          uuid.New().String(),
		CampaignID:  campaignID,
		Title:       title,
		Description: description,
		Content:     content,
		Status:      domain.PageDraft,
	}
	if err := s.pages.CreatePage(ctx, p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

func (s *PageService) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	return s.pages.GetPage(ctx, id)
}

// ListPages lists one campaign's pages, or all pages when campaignID is empty.
func (s *PageService) ListPages(ctx context.Context, campaignID string) ([]domain.Page, error) {
	return s.pages.ListPages(ctx, campaignID)
}

// LoadDocument reads the page and decodes its content into a document.
func (s *PageService) LoadDocument(ctx context.Context, pageID string) (domain.PageDocument, error) {
	p, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		return domain.PageDocument{}, fmt.Errorf("load document: %w", err)
	}
	return storage.DocumentFromPage(p), nil
}

// SaveDocument writes the document content to its page row.
func (s *PageService) SaveDocument(ctx context.Context, doc domain.PageDocument) error {
	content, err := storage.EncodeContent(doc)
	if err != nil {
		return err
	}
	if err := s.pages.UpdateContent(ctx, doc.ID, content); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	s.emitter.Emit(ctx, EventPageSaved, doc.ID)
	return nil
}

func (s *PageService) RenamePage(ctx context.Context, id, title string) (*domain.Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("rename page: title is required: %w", ErrInvalidInput)
	}
	p, err := s.pages.GetPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("rename page: %w", err)
	}
	p.Title = title
	if err := s.pages.UpdatePage(ctx, p); err != nil {
		return nil, fmt.Errorf("rename page: %w", err)
	}
	return p, nil
}

// PublishPage marks the page published, assigns its public URL and records the
// current content as a revision.
func (s *PageService) PublishPage(ctx context.Context, id string) (*domain.Page, error) {
	p, err := s.pages.GetPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}
	p.Status = domain.PagePublished
	p.PublishedURL = s.PublicURL(p.ID)
	if err := s.pages.UpdatePage(ctx, p); err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}

	label := "published " + s.now().UTC().Format(time.RFC3339)
	if _, err := s.revisions.PushRevision(ctx, p.ID, label, p.Content); err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}
	s.emitter.Emit(ctx, EventPagePublished, map[string]string{"pageId": p.ID, "url": p.PublishedURL})
	return p, nil
}

// PublicURL is where the page is served once published.
func (s *PageService) PublicURL(pageID string) string {
	return s.publicBase + "/" + pageID
}

func (s *PageService) ListRevisions(ctx context.Context, pageID string) ([]domain.Revision, error) {
	if _, err := s.pages.GetPage(ctx, pageID); err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	revs, err := s.revisions.ListRevisions(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []domain.Revision{}
	}
	return revs, nil
}

// RevisionDocument returns the page document with the content of one of its
// revisions. A revision of another page is reported as not found.
func (s *PageService) RevisionDocument(ctx context.Context, pageID, revisionID string) (domain.PageDocument, error) {
	p, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		return domain.PageDocument{}, fmt.Errorf("revision document: %w", err)
	}
	rev, err := s.revisions.GetRevision(ctx, revisionID)
	if err != nil {
		return domain.PageDocument{}, fmt.Errorf("revision document: %w", err)
	}
	if rev.PageID != pageID {
		return domain.PageDocument{}, fmt.Errorf("revision document: revision %s: %w", revisionID, domain.ErrNotFound)
	}
	p.Content = rev.Content
	return storage.DocumentFromPage(p), nil
}

func (s *PageService) DeletePage(ctx context.Context, id string) error {
	if err := s.revisions.DeleteRevisionsByPage(ctx, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return s.pages.DeletePage(ctx, id)
}
