package service

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pagebuilder/internal/domain"
)

//go:embed templates/*.json
var builtinTemplates embed.FS

// CategoryAll selects every template in List.
const CategoryAll = "all"

// CategoryLabels maps template categories to display names.
var CategoryLabels = map[string]string{
	CategoryAll:   "All",
	"year-end":    "Year-End Sale",
	"mothers-day": "Mother's Day",
	"community":   "Community",
	"summer":      "Summer Fruits",
	"spring":      "Spring Produce",
	"golden-week": "Golden Week",
	"flash-sale":  "Flash Sale",
	"new-arrival": "New Arrival",
	"holiday":     "Holiday",
	"brand":       "Brand",
}

// Template is a ready-made page body a user can start from.
type Template struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Config      domain.PageConfig      `json:"config"`
	Components  []domain.ComponentNode `json:"components"`
	Builtin     bool                   `json:"builtin"`
}

// Instantiate returns doc with the template config and a copy of the template
// components. Every component gets a fresh id so applying the same template
// twice never collides. Countdowns without an end time end a day from now.
func (t Template) Instantiate(doc domain.PageDocument, newID func() string, now time.Time) domain.PageDocument {
	out := doc.Clone()
	out.Config = t.Config
	out.Components = make([]domain.ComponentNode, 0, len(t.Components))
	for _, c := range t.Components {
		n := c.Clone()
		n.ID = newID()
		if p, ok := n.Props.(*domain.CountdownProps); ok && p.EndTime == "" {
			p.EndTime = now.Add(24 * time.Hour).UTC().Format("2006-01-02T15:04:05.000Z07:00")
		}
		out.Components = append(out.Components, n)
	}
	return out
}

// ─────────────────────────────────────────────────────────────
// Template Service — built-in and user templates
// ─────────────────────────────────────────────────────────────

// TemplateService serves the template gallery. Built-in templates ship with
// the binary; templates in dir override them by id and are reloaded when the
// directory changes.
type TemplateService struct {
	dir     string
	emitter EventEmitter

	mu        sync.RWMutex
	templates map[string]Template

	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
}

// NewTemplateService loads the built-in templates and, if dir is not empty,
// the templates found there.
func NewTemplateService(dir string, emitter EventEmitter) (*TemplateService, error) {
	s := &TemplateService{dir: dir, emitter: emitter}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the gallery from the built-ins and the template directory.
// Files that fail to parse are logged and skipped.
func (s *TemplateService) Reload() error {
	set := make(map[string]Template)
	if err := loadTemplates(builtinTemplates, "templates", true, set); err != nil {
		return fmt.Errorf("load builtin templates: %w", err)
	}
	if s.dir != "" {
		if _, err := os.Stat(s.dir); err == nil {
			if err := loadTemplates(os.DirFS(s.dir), ".", false, set); err != nil {
				return fmt.Errorf("load templates from %s: %w", s.dir, err)
			}
		}
	}

	s.mu.Lock()
	s.templates = set
	s.mu.Unlock()
	return nil
}

func loadTemplates(fsys fs.FS, root string, builtin bool, into map[string]Template) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, e.Name())))
		if err != nil {
			log.Printf("[templates] read %s: %v", e.Name(), err)
			continue
		}
		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			log.Printf("[templates] skip %s: %v", e.Name(), err)
			continue
		}
		if t.ID == "" {
			t.ID = strings.TrimSuffix(e.Name(), ".json")
		}
		if t.Components == nil {
			t.Components = []domain.ComponentNode{}
		}
		t.Builtin = builtin
		into[t.ID] = t
	}
	return nil
}

// List returns the templates of category sorted by name. "" or CategoryAll
// returns every template.
func (s *TemplateService) List(category string) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, 0, len(s.templates))
	for _, t := range s.templates {
		if category == "" || category == CategoryAll || t.Category == category {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns the template with id.
func (s *TemplateService) Get(id string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return Template{}, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// Categories returns "all" followed by the categories in use, sorted.
func (s *TemplateService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var cats []string
	for _, t := range s.templates {
		if t.Category != "" && !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	sort.Strings(cats)
	return append([]string{CategoryAll}, cats...)
}

// ── Directory watcher ──────────────────────────────────────

// Watch reloads the gallery whenever a template file in the directory is
// written, created, renamed or removed. Bursts of events are debounced.
func (s *TemplateService) Watch() error {
	if s.dir == "" {
		return nil
	}
	s.Stop()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create templates dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.watcher = watcher

	ctx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(500*time.Millisecond, func() {
					if err := s.Reload(); err != nil {
						log.Printf("[templates] reload failed: %v", err)
						return
					}
					log.Printf("[templates] reloaded after change to %s", filepath.Base(event.Name))
					s.emitter.Emit(ctx, EventTemplates, len(s.List(CategoryAll)))
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[templates] watcher error: %v", err)
			}
		}
	}()

	log.Printf("[templates] watching %s", s.dir)
	return nil
}

// Stop ends the directory watcher.
func (s *TemplateService) Stop() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
