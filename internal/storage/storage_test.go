package storage_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "nested", "pages.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedPage(t *testing.T, db *storage.DB) (*domain.Campaign, *domain.Page) {
	t.Helper()
	ctx := context.Background()
	c := &domain.Campaign{ID: "camp-1", Name: "Spring", StartTime: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	if err := storage.NewCampaignStore(db).CreateCampaign(ctx, c); err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	p := &domain.Page{ID: "page-1", CampaignID: c.ID, Title: "Landing"}
	if err := storage.NewPageStore(db).CreatePage(ctx, p); err != nil {
		t.Fatalf("create page: %v", err)
	}
	return c, p
}

// ─────────────────────────────────────────────────────────────
// DB
// ─────────────────────────────────────────────────────────────

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	db, err := storage.New(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	db, err = storage.New(path)
	if err != nil {
		t.Fatalf("reopen must skip applied ALTER: %v", err)
	}
	db.Close()
}

// ─────────────────────────────────────────────────────────────
// Campaigns and pages
// ─────────────────────────────────────────────────────────────

func TestCampaignStore_CRUD(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	store := storage.NewCampaignStore(db)
	c, _ := seedPage(t, db)

	got, err := store.GetCampaign(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Spring" || got.Status != domain.CampaignDraft {
		t.Errorf("unexpected campaign %+v", got)
	}
	if !got.StartTime.Equal(c.StartTime) || !got.EndTime.IsZero() {
		t.Errorf("unexpected times start=%v end=%v", got.StartTime, got.EndTime)
	}

	got.Status = domain.CampaignActive
	if err := store.UpdateCampaign(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := store.ListCampaigns(ctx)
	if err != nil || len(list) != 1 || list[0].Status != domain.CampaignActive {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}

	if err := store.DeleteCampaign(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := storage.NewPageStore(db).GetPage(ctx, "page-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected pages to cascade, got %v", err)
	}
}

func TestCampaignStore_MissingIsNotFound(t *testing.T) {
	store := storage.NewCampaignStore(openDB(t))
	ctx := context.Background()

	if _, err := store.GetCampaign(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateCampaign(ctx, &domain.Campaign{ID: "nope"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteCampaign(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestPageStore_CRUD(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	store := storage.NewPageStore(db)
	_, p := seedPage(t, db)

	if err := store.UpdateContent(ctx, p.ID, `{"components":[]}`); err != nil {
		t.Fatalf("update content: %v", err)
	}
	got, err := store.GetPage(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != `{"components":[]}` || got.Status != domain.PageDraft {
		t.Errorf("unexpected page %+v", got)
	}

	got.Title = "Renamed"
	got.Status = domain.PagePublished
	got.PublishedURL = "/h5/page-1"
	if err := store.UpdatePage(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := store.GetPage(ctx, p.ID)
	if again.Title != "Renamed" || again.PublishedURL != "/h5/page-1" || again.Content != `{"components":[]}` {
		t.Errorf("metadata update lost fields: %+v", again)
	}

	byCampaign, err := store.ListPages(ctx, "camp-1")
	if err != nil || len(byCampaign) != 1 {
		t.Fatalf("list by campaign: %v %v", byCampaign, err)
	}
	other, _ := store.ListPages(ctx, "camp-x")
	if len(other) != 0 {
		t.Errorf("expected no pages for other campaign")
	}
	all, _ := store.ListPages(ctx, "")
	if len(all) != 1 {
		t.Errorf("expected all pages listed")
	}

	if err := store.DeletePage(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.UpdateContent(ctx, p.ID, "{}"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPageStore_RequiresCampaign(t *testing.T) {
	store := storage.NewPageStore(openDB(t))
	err := store.CreatePage(context.Background(), &domain.Page{ID: "p", CampaignID: "missing", Title: "x"})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

// ─────────────────────────────────────────────────────────────
// Revisions
// ─────────────────────────────────────────────────────────────

func TestRevisionStore_PushListPrune(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	seedPage(t, db)
	store := storage.NewRevisionStore(db, 3)

	var last *domain.Revision
	for i := 0; i < 5; i++ {
		rev, err := store.PushRevision(ctx, "page-1", fmt.Sprintf("v%d", i), fmt.Sprintf(`{"n":%d}`, i))
		if err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
		last = rev
	}

	revs, err := store.ListRevisions(ctx, "page-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions after prune, got %d", len(revs))
	}
	if revs[0].Label != "v4" || revs[2].Label != "v2" {
		t.Errorf("expected newest first v4..v2, got %s..%s", revs[0].Label, revs[2].Label)
	}
	if revs[0].Content != "" {
		t.Errorf("list must omit content")
	}

	got, err := store.GetRevision(ctx, last.ID)
	if err != nil || got.Content != `{"n":4}` {
		t.Fatalf("get revision: %+v %v", got, err)
	}

	if err := store.DeleteRevisionsByPage(ctx, "page-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetRevision(ctx, last.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Approvals
// ─────────────────────────────────────────────────────────────

func TestApprovalStore_Resolve(t *testing.T) {
	store := storage.NewApprovalStore(openDB(t))
	ctx := context.Background()

	a := &storage.Approval{ID: "ap-1", Tool: "publish_page", Description: "Publish Landing"}
	if err := store.CreatePending(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	pending, err := store.ListPending(ctx)
	if err != nil || len(pending) != 1 || pending[0].Metadata != "{}" {
		t.Fatalf("unexpected pending %+v %v", pending, err)
	}

	if err := store.Resolve(ctx, "ap-1", true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st, _ := store.Status(ctx, "ap-1"); st != storage.ApprovalApproved {
		t.Errorf("expected approved, got %q", st)
	}
	if err := store.Resolve(ctx, "ap-1", false); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("resolving twice must fail with ErrNotFound, got %v", err)
	}
	if pending, _ := store.ListPending(ctx); len(pending) != 0 {
		t.Errorf("expected nothing pending, got %d", len(pending))
	}

	store.Delete(ctx, "ap-1")
	if _, err := store.Status(ctx, "ap-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
