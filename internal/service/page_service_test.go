package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/service"
)

func TestPageService_CreateCampaignValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.pages.CreateCampaign(ctx, service.CreateCampaignInput{Name: "  "}); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank name, got %v", err)
	}
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.pages.CreateCampaign(ctx, service.CreateCampaignInput{Name: "x", StartTime: start, EndTime: start.Add(-time.Hour)})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for reversed window, got %v", err)
	}

	c, err := f.pages.CreateCampaign(ctx, service.CreateCampaignInput{Name: "Summer", StartTime: start})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, _ := f.pages.ListCampaigns(ctx)
	if len(list) != 1 || list[0].ID != c.ID {
		t.Errorf("unexpected campaigns %+v", list)
	}
}

func TestPageService_CreatePageRequiresCampaign(t *testing.T) {
	f := newFixture(t)
	_, err := f.pages.CreatePage(context.Background(), "missing", "Landing", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPageService_NewPageDocumentHasDefaults(t *testing.T) {
	f := newFixture(t)
	id := f.seedPage(t)

	doc, err := f.pages.LoadDocument(context.Background(), id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Title != "Landing" || doc.Status != domain.PageDraft {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.Config != domain.DefaultConfig("Landing") {
		t.Errorf("unexpected config %+v", doc.Config)
	}
	if doc.Components == nil || len(doc.Components) != 0 {
		t.Errorf("expected empty component list, got %v", doc.Components)
	}
}

func TestPageService_SaveAndLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPage(t)

	doc, _ := f.pages.LoadDocument(ctx, id)
	node, _ := editor.NewNode(domain.ComponentCoupon, map[string]any{"code": "HELLO"}, domain.Style{})
	doc.Components = append(doc.Components, node)
	if err := f.pages.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if f.emitter.Count(service.EventPageSaved) != 1 {
		t.Errorf("expected page:saved event")
	}

	again, _ := f.pages.LoadDocument(ctx, id)
	if len(again.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(again.Components))
	}
	if code := again.Components[0].Props.(*domain.CouponProps).Code; code != "HELLO" {
		t.Errorf("unexpected coupon code %q", code)
	}
}

func TestPageService_RenamePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPage(t)

	if _, err := f.pages.RenamePage(ctx, id, ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	p, err := f.pages.RenamePage(ctx, id, "Renamed")
	if err != nil || p.Title != "Renamed" {
		t.Fatalf("rename: %+v %v", p, err)
	}
	if _, err := f.pages.RenamePage(ctx, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPageService_PublishRecordsRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPage(t)

	p, err := f.pages.PublishPage(ctx, id)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if p.Status != domain.PagePublished {
		t.Errorf("expected published, got %q", p.Status)
	}
	if p.PublishedURL != "https://m.example.com/h5/"+id {
		t.Errorf("unexpected url %q", p.PublishedURL)
	}
	if f.emitter.Count(service.EventPagePublished) != 1 {
		t.Errorf("expected page:published event")
	}

	revs, err := f.pages.ListRevisions(ctx, id)
	if err != nil || len(revs) != 1 {
		t.Fatalf("expected 1 revision, got %v %v", revs, err)
	}
	doc, err := f.pages.RevisionDocument(ctx, id, revs[0].ID)
	if err != nil {
		t.Fatalf("revision document: %v", err)
	}
	if doc.ID != id || doc.Config.Title != "Landing" {
		t.Errorf("unexpected revision document %+v", doc)
	}
}

func TestPageService_RevisionOfOtherPageIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedPage(t)
	b := f.seedPage(t)

	if _, err := f.pages.PublishPage(ctx, a); err != nil {
		t.Fatalf("publish: %v", err)
	}
	revs, _ := f.pages.ListRevisions(ctx, a)
	if _, err := f.pages.RevisionDocument(ctx, b, revs[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPageService_DeletePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedPage(t)
	f.pages.PublishPage(ctx, id)

	if err := f.pages.DeletePage(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.pages.GetPage(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.pages.ListRevisions(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for revisions, got %v", err)
	}
}
