package storage

import (
	"context"
	"database/sql"
	"time"

	"pagebuilder/internal/domain"
)

// CampaignStore implements domain.CampaignStore using SQLite.
type CampaignStore struct {
	db *DB
}

func NewCampaignStore(db *DB) *CampaignStore {
	return &CampaignStore{db: db}
}

const campaignColumns = `id, name, description, start_time, end_time, status, created_by, created_at, updated_at`

func (s *CampaignStore) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO campaigns (`+campaignColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, nullTime(c.StartTime), nullTime(c.EndTime), c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return notFound("create campaign", err)
	}
	return nil
}

func (s *CampaignStore) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	row := s.db.conn.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)
	c, err := scanCampaign(row)
	if err != nil {
		return nil, notFound("get campaign", err)
	}
	return c, nil
}

func (s *CampaignStore) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, notFound("list campaigns", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, notFound("scan campaign", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (s *CampaignStore) UpdateCampaign(ctx context.Context, c *domain.Campaign) error {
	c.UpdatedAt = time.Now()
	res, err := s.db.conn.ExecContext(ctx,
		`UPDATE campaigns SET name = ?, description = ?, start_time = ?, end_time = ?, status = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, nullTime(c.StartTime), nullTime(c.EndTime), c.Status, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return notFound("update campaign", err)
	}
	return requireRow("update campaign", res)
}

// DeleteCampaign removes the campaign; its pages and revisions cascade.
func (s *CampaignStore) DeleteCampaign(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return notFound("delete campaign", err)
	}
	return requireRow("delete campaign", res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(r rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var start, end sql.NullTime
	if err := r.Scan(&c.ID, &c.Name, &c.Description, &start, &end, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.StartTime = start.Time
	c.EndTime = end.Time
	return &c, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
