package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// DefaultRevisionLimit is how many published revisions are kept per page.
const DefaultRevisionLimit = 20

// RevisionStore keeps published content snapshots in SQLite.
type RevisionStore struct {
	db    *DB
	limit int
}

// NewRevisionStore returns a store that keeps at most limit revisions per
// page. A limit below 1 uses DefaultRevisionLimit.
func NewRevisionStore(db *DB, limit int) *RevisionStore {
	if limit < 1 {
		limit = DefaultRevisionLimit
	}
	return &RevisionStore{db: db, limit: limit}
}

// PushRevision records content as the newest revision of the page and prunes
// the oldest ones beyond the limit.
func (s *RevisionStore) PushRevision(ctx context.Context, pageID, label, content string) (*domain.Revision, error) {
	rev := &domain.Revision{
		ID:        uuid.NewString(),
		PageID:    pageID,
		Label:     label,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO page_revisions (id, page_id, label, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		rev.ID, rev.PageID, rev.Label, rev.Content, rev.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}

	if err := s.prune(ctx, pageID); err != nil {
		log.Printf("revisions: prune %s: %v", pageID, err)
	}
	return rev, nil
}

func (s *RevisionStore) GetRevision(ctx context.Context, id string) (*domain.Revision, error) {
	var r domain.Revision
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, page_id, label, content, created_at FROM page_revisions WHERE id = ?`, id,
	).Scan(&r.ID, &r.PageID, &r.Label, &r.Content, &r.CreatedAt)
	if err != nil {
		return nil, notFound("get revision", err)
	}
	return &r, nil
}

// ListRevisions returns the page revisions newest first. Content is omitted.
func (s *RevisionStore) ListRevisions(ctx context.Context, pageID string) ([]domain.Revision, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, page_id, label, created_at FROM page_revisions
		 WHERE page_id = ? ORDER BY created_at DESC, rowid DESC`, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revs []domain.Revision
	for rows.Next() {
		var r domain.Revision
		if err := rows.Scan(&r.ID, &r.PageID, &r.Label, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

func (s *RevisionStore) DeleteRevisionsByPage(ctx context.Context, pageID string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM page_revisions WHERE page_id = ?`, pageID)
	return err
}

// prune deletes everything older than the newest limit revisions.
func (s *RevisionStore) prune(ctx context.Context, pageID string) error {
	// Collect ids first; the single connection cannot run a write while a
	// rows cursor is open.
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id FROM page_revisions WHERE page_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT -1 OFFSET ?`, pageID, s.limit,
	)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM page_revisions WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}
