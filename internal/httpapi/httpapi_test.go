package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/httpapi"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

type fixture struct {
	router    *gin.Engine
	pages     *service.PageService
	sessions  *service.SessionService
	approvals *storage.ApprovalStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.New(filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &service.MockEmitter{}
	pages := service.NewPageService(
		storage.NewCampaignStore(db),
		storage.NewPageStore(db),
		storage.NewRevisionStore(db, 5),
		"https://m.example.com/h5",
		emitter,
	)
	templates, err := service.NewTemplateService("", emitter)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	sessions := service.NewSessionService(pages, templates, emitter)
	approvals := storage.NewApprovalStore(db)

	return &fixture{
		router: httpapi.NewRouter(httpapi.Deps{
			Pages:     pages,
			Sessions:  sessions,
			Templates: templates,
			Approvals: approvals,
		}, ""),
		pages:     pages,
		sessions:  sessions,
		approvals: approvals,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\n%s", err, w.Body.String())
	}
	return v
}

func (f *fixture) seedPage(t *testing.T) (domain.Campaign, domain.Page) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/campaigns", map[string]any{"name": "Summer"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create campaign: %d %s", w.Code, w.Body.String())
	}
	c := decode[domain.Campaign](t, w)
	w = f.do(t, http.MethodPost, "/pages", map[string]any{"campaignId": c.ID, "title": "Fruit Week"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create page: %d %s", w.Code, w.Body.String())
	}
	return c, decode[domain.Page](t, w)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCampaigns(t *testing.T) {
	f := newFixture(t)
	c, _ := f.seedPage(t)

	w := f.do(t, http.MethodGet, "/campaigns/"+c.ID, nil)
	if w.Code != http.StatusOK || decode[domain.Campaign](t, w).Name != "Summer" {
		t.Fatalf("get campaign: %d %s", w.Code, w.Body.String())
	}
	list := decode[[]domain.Campaign](t, f.do(t, http.MethodGet, "/campaigns", nil))
	if len(list) != 1 {
		t.Errorf("expected one campaign, got %d", len(list))
	}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing name", map[string]any{}, http.StatusBadRequest},
		{"blank name", map[string]any{"name": "   "}, http.StatusBadRequest},
		{"reversed window", map[string]any{
			"name": "x", "startTime": "2025-05-07T00:00:00Z", "endTime": "2025-05-01T00:00:00Z",
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.do(t, http.MethodPost, "/campaigns", tt.body); w.Code != tt.want {
				t.Errorf("got %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}

	if w := f.do(t, http.MethodGet, "/campaigns/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/campaigns/"+c.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/pages", nil); len(decode[[]domain.Page](t, w)) != 0 {
		t.Errorf("pages must cascade with their campaign")
	}
}

func TestPages_SanitizesInput(t *testing.T) {
	f := newFixture(t)
	c, _ := f.seedPage(t)

	w := f.do(t, http.MethodPost, "/pages", map[string]any{
		"campaignId": c.ID, "title": "<script>alert(1)</script>Deals",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	if got := decode[domain.Page](t, w).Title; got != "Deals" {
		t.Errorf("expected markup stripped, got %q", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/pages", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: expected 400, got %d", rec.Code)
	}
}

func TestPages_CRUD(t *testing.T) {
	f := newFixture(t)
	c, p := f.seedPage(t)

	if w := f.do(t, http.MethodPost, "/pages", map[string]any{"campaignId": "nope", "title": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown campaign: expected 404, got %d", w.Code)
	}

	list := decode[[]domain.Page](t, f.do(t, http.MethodGet, "/pages?campaignId="+c.ID, nil))
	if len(list) != 1 || list[0].ID != p.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	w := f.do(t, http.MethodPatch, "/pages/"+p.ID, map[string]any{"title": "Fruit Fortnight"})
	if w.Code != http.StatusOK || decode[domain.Page](t, w).Title != "Fruit Fortnight" {
		t.Fatalf("rename: %d %s", w.Code, w.Body.String())
	}
	if w := f.do(t, http.MethodPatch, "/pages/"+p.ID, map[string]any{}); w.Code != http.StatusBadRequest {
		t.Errorf("rename without title: expected 400, got %d", w.Code)
	}

	doc := decode[domain.PageDocument](t, f.do(t, http.MethodGet, "/pages/"+p.ID+"/document", nil))
	if doc.Config.Title != "Fruit Week" || doc.Config.BackgroundColor != "#FFFFFF" {
		t.Errorf("unexpected stored config %+v", doc.Config)
	}

	if w := f.do(t, http.MethodDelete, "/pages/"+p.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/pages/"+p.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/pages/"+p.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestPages_LiveDocumentAndPublish(t *testing.T) {
	f := newFixture(t)
	_, p := f.seedPage(t)
	ctx := context.Background()

	if _, err := f.sessions.Open(ctx, p.ID); err != nil {
		t.Fatalf("open: %v", err)
	}
	var lastID string
	for i := 0; i < 4; i++ {
		node, _ := editor.NewNode(domain.ComponentSpacer, nil, domain.Style{})
		lastID = node.ID
		f.sessions.Do(p.ID, func(e *editor.Engine) { e.AddComponent(node) })
	}
	// New nodes are critical; only a lazy node past the first three renders late
	lazy := domain.LoadLazy
	f.sessions.Do(p.ID, func(e *editor.Engine) {
		e.UpdateComponent(lastID, domain.NodePatch{LoadPriority: &lazy})
	})

	doc := decode[domain.PageDocument](t, f.do(t, http.MethodGet, "/pages/"+p.ID+"/document", nil))
	if len(doc.Components) != 4 {
		t.Fatalf("expected the live document, got %d components", len(doc.Components))
	}

	plan := decode[struct {
		Slots []struct {
			Eager bool `json:"eager"`
		} `json:"slots"`
	}](t, f.do(t, http.MethodGet, "/pages/"+p.ID+"/render", nil))
	if len(plan.Slots) != 4 || !plan.Slots[2].Eager || plan.Slots[3].Eager {
		t.Errorf("unexpected render plan %+v", plan.Slots)
	}

	w := f.do(t, http.MethodPost, "/pages/"+p.ID+"/publish", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("publish: %d %s", w.Code, w.Body.String())
	}
	page := decode[domain.Page](t, w)
	if page.Status != domain.PagePublished || page.PublishedURL != "https://m.example.com/h5/"+p.ID {
		t.Errorf("unexpected published page %+v", page)
	}
	stored, _ := f.pages.LoadDocument(ctx, p.ID)
	if len(stored.Components) != 4 {
		t.Errorf("publish must save the open session first, stored %d components", len(stored.Components))
	}

	revs := decode[[]domain.Revision](t, f.do(t, http.MethodGet, "/pages/"+p.ID+"/revisions", nil))
	if len(revs) != 1 {
		t.Errorf("expected one revision, got %d", len(revs))
	}

	if w := f.do(t, http.MethodPost, "/pages/missing/publish", nil); w.Code != http.StatusNotFound {
		t.Errorf("publish missing: expected 404, got %d", w.Code)
	}
}

func TestTemplates(t *testing.T) {
	f := newFixture(t)

	all := decode[[]service.Template](t, f.do(t, http.MethodGet, "/templates", nil))
	if len(all) < 3 {
		t.Fatalf("expected built-in templates, got %d", len(all))
	}
	summer := decode[[]service.Template](t, f.do(t, http.MethodGet, "/templates?category=summer", nil))
	for _, tmpl := range summer {
		if tmpl.Category != "summer" {
			t.Errorf("unexpected category %q", tmpl.Category)
		}
	}

	cats := decode[[]struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}](t, f.do(t, http.MethodGet, "/templates/categories", nil))
	if len(cats) == 0 || cats[0].ID != service.CategoryAll || cats[0].Label != "All" {
		t.Errorf("unexpected categories %+v", cats)
	}
}

func TestApprovals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.approvals.CreatePending(ctx, &storage.Approval{ID: "ap-1", Tool: "publish_page"}); err != nil {
		t.Fatalf("create approval: %v", err)
	}
	list := decode[[]storage.Approval](t, f.do(t, http.MethodGet, "/approvals", nil))
	if len(list) != 1 || list[0].ID != "ap-1" {
		t.Fatalf("unexpected approvals %+v", list)
	}

	if w := f.do(t, http.MethodPost, "/approvals/ap-1/reject", nil); w.Code != http.StatusOK {
		t.Fatalf("reject: %d %s", w.Code, w.Body.String())
	}
	if st, _ := f.approvals.Status(ctx, "ap-1"); st != storage.ApprovalRejected {
		t.Errorf("expected rejected, got %q", st)
	}
	if w := f.do(t, http.MethodPost, "/approvals/ap-1/approve", nil); w.Code != http.StatusNotFound {
		t.Errorf("resolved approval: expected 404, got %d", w.Code)
	}
}
