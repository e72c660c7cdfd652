// Package app wires storage, services and the outer surfaces (MCP, HTTP)
// from a config.Config.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"pagebuilder/internal/config"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// App owns the database and the services built on it.
type App struct {
	Config config.Config

	db        *storage.DB
	Emitter   service.EventEmitter
	Pages     *service.PageService
	Sessions  *service.SessionService
	Templates *service.TemplateService
	Approvals *storage.ApprovalStore
}

// New opens the database and builds the services. Close releases them.
func New(cfg config.Config) (*App, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	emitter := service.LogEmitter{}
	pages := service.NewPageService(
		storage.NewCampaignStore(db),
		storage.NewPageStore(db),
		storage.NewRevisionStore(db, cfg.RevisionLimit),
		cfg.PublicBase,
		emitter,
	)

	templatesDir := cfg.TemplatesDir
	if templatesDir != "" {
		if _, err := os.Stat(templatesDir); err != nil {
			log.Printf("[templates] %s not readable, using built-in templates only", templatesDir)
			templatesDir = ""
		}
	}
	templates, err := service.NewTemplateService(templatesDir, emitter)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return &App{
		Config:    cfg,
		db:        db,
		Emitter:   emitter,
		Pages:     pages,
		Sessions:  service.NewSessionService(pages, templates, emitter),
		Templates: templates,
		Approvals: storage.NewApprovalStore(db),
	}, nil
}

// startBackground starts autosave and the template watcher used by the
// long-running serve modes.
func (a *App) startBackground() error {
	if err := a.Sessions.StartAutosave(a.Config.Autosave); err != nil {
		return err
	}
	if err := a.Templates.Watch(); err != nil {
		log.Printf("[templates] watch disabled: %v", err)
	}
	return nil
}

// Close saves dirty sessions, stops background work and closes the database.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, id := range a.Sessions.Sessions() {
		if err := a.Sessions.Close(ctx, id, true); err != nil {
			log.Printf("[session] close %s on shutdown: %v", id, err)
		}
	}
	a.Sessions.Stop(ctx)
	a.Templates.Stop()
	if a.db != nil {
		a.db.Close()
	}
}
