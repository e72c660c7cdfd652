package app

import (
	"context"
	"path/filepath"
	"testing"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		DataDir:       dir,
		DBPath:        filepath.Join(dir, "pagebuilder.db"),
		TemplatesDir:  filepath.Join(dir, "missing-templates"),
		PublicBase:    "/h5",
		RevisionLimit: 5,
		Port:          "0",
	}
}

func TestApp_CloseSavesDirtySessions(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if len(a.Templates.List(service.CategoryAll)) == 0 {
		t.Fatal("expected built-in templates when the directory is missing")
	}

	c, err := a.Pages.CreateCampaign(ctx, service.CreateCampaignInput{Name: "Autumn"})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	p, err := a.Pages.CreatePage(ctx, c.ID, "Harvest", "")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := a.Sessions.Open(ctx, p.ID); err != nil {
		t.Fatalf("open: %v", err)
	}
	node, _ := editor.NewNode(domain.ComponentSpacer, nil, domain.Style{})
	a.Sessions.Do(p.ID, func(e *editor.Engine) { e.AddComponent(node) })
	a.Close()

	reopened, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	doc, err := reopened.Pages.LoadDocument(ctx, p.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Components) != 1 {
		t.Errorf("expected the dirty session saved on close, got %d components", len(doc.Components))
	}
}

func TestApprovalWatcher_EmitsOncePerPending(t *testing.T) {
	ctx := context.Background()
	db, err := storage.New(filepath.Join(t.TempDir(), "approvals.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := storage.NewApprovalStore(db)
	emitter := &service.MockEmitter{}
	w := newApprovalWatcher(ctx, store, emitter)

	if err := store.CreatePending(ctx, &storage.Approval{ID: "a1", Tool: "publish_page"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.check()
	w.check()
	if n := emitter.Count(EventApprovalRequired); n != 1 {
		t.Fatalf("expected one event, got %d", n)
	}

	if err := store.Resolve(ctx, "a1", true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	w.check()
	if len(w.emitted) != 0 {
		t.Errorf("resolved approvals must be forgotten, still tracking %v", w.emitted)
	}

	if err := store.CreatePending(ctx, &storage.Approval{ID: "a2", Tool: "delete_page"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	w.check()
	if n := emitter.Count(EventApprovalRequired); n != 2 {
		t.Errorf("expected a second event for a new approval, got %d", n)
	}
}
