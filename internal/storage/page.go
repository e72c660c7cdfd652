package storage

import (
	"context"
	"time"

	"pagebuilder/internal/domain"
)

// PageStore implements domain.PageStore using SQLite.
type PageStore struct {
	db *DB
}

func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, campaign_id, title, description, content, status, published_url, poster_url, created_at, updated_at`

func (s *PageStore) CreatePage(ctx context.Context, p *domain.Page) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.PageDraft
	}
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO pages (`+pageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CampaignID, p.Title, p.Description, p.Content, p.Status, p.PublishedURL, p.PosterURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return notFound("create page", err)
	}
	return nil
}

func (s *PageStore) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	row := s.db.conn.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	if err != nil {
		return nil, notFound("get page", err)
	}
	return p, nil
}

// ListPages returns the pages of one campaign, or all pages when campaignID is empty.
func (s *PageStore) ListPages(ctx context.Context, campaignID string) ([]domain.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages`
	var args []any
	if campaignID != "" {
		query += ` WHERE campaign_id = ?`
		args = append(args, campaignID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, notFound("list pages", err)
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, notFound("scan page", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// UpdatePage writes the metadata columns. Content is written by UpdateContent.
func (s *PageStore) UpdatePage(ctx context.Context, p *domain.Page) error {
	p.UpdatedAt = time.Now()
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE pages SET title = ?, description = ?, status = ?, published_url = ?, poster_url = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Description, p.Status, p.PublishedURL, p.PosterURL, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return notFound("update page", err)
	}
	return requireRow("update page", res)
}

func (s *PageStore) UpdateContent(ctx context.Context, id, content string) error {
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE pages SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now(), id,
	)
	if err != nil {
		return notFound("update page content", err)
	}
	return requireRow("update page content", res)
}

func (s *PageStore) DeletePage(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return notFound("delete page", err)
	}
	return requireRow("delete page", res)
}

func scanPage(r rowScanner) (*domain.Page, error) {
	var p domain.Page
	err := r.Scan(&p.ID, &p.CampaignID, &p.Title, &p.Description, &p.Content, &p.Status,
		&p.PublishedURL, &p.PosterURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
