package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/editor"
)

var (
	// ErrNoSession is returned for a page that has no open editing session.
	ErrNoSession = errors.New("no open session")
	// ErrSaveInProgress is returned when a save of the same page is running.
	ErrSaveInProgress = errors.New("save in progress")
)

// ChangeEvent is the payload of EventEditorChanged.
type ChangeEvent struct {
	PageID string        `json:"pageId"`
	Change editor.Change `json:"change"`
}

// session is one open page. mu serializes every engine call.
type session struct {
	mu           sync.Mutex
	pageID       string
	engine       *editor.Engine
	savedVersion uint64
	unsubscribe  func()
}

func (ss *session) state() domain.EditorState {
	st := ss.engine.State()
	st.Dirty = ss.engine.Version() != ss.savedVersion
	return st
}

func (ss *session) dirty() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.engine.Version() != ss.savedVersion
}

// ─────────────────────────────────────────────────────────────
// Session Service — live editors keyed by page id
// ─────────────────────────────────────────────────────────────

// SessionService owns one editor.Engine per open page. Callers reach an engine
// only through Do, which holds the session lock, so tool handlers, HTTP
// handlers and the autosave job never interleave inside one engine.
type SessionService struct {
	pages     *PageService
	templates *TemplateService
	emitter   EventEmitter
	newID     func() string
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session

	saving    runningJobsGuard
	cronSched *cron.Cron
}

// NewSessionService creates a SessionService. templates may be nil when no
// gallery is available.
func NewSessionService(pages *PageService, templates *TemplateService, emitter EventEmitter) *SessionService {
	return &SessionService{
		pages:     pages,
		templates: templates,
		emitter:   emitter,
		newID:     uuid.NewString,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// Open loads the page into a new engine. Opening an already open page returns
// the existing session untouched.
func (s *SessionService) Open(ctx context.Context, pageID string) (domain.EditorState, error) {
	if ss, ok := s.lookup(pageID); ok {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		return ss.state(), nil
	}

	doc, err := s.pages.LoadDocument(ctx, pageID)
	if err != nil {
		return domain.EditorState{}, fmt.Errorf("open session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ss, ok := s.sessions[pageID]; ok {
		// lost the race to another Open
		ss.mu.Lock()
		defer ss.mu.Unlock()
		return ss.state(), nil
	}

	e := editor.New(s.newID)
	e.Load(doc)
	ss := &session{pageID: pageID, engine: e, savedVersion: e.Version()}
	ss.unsubscribe = e.Subscribe(func(c editor.Change) {
		s.emitter.Emit(context.Background(), EventEditorChanged, ChangeEvent{PageID: pageID, Change: c})
	})
	s.sessions[pageID] = ss
	log.Printf("[session] opened %s (%d components)", pageID, len(doc.Components))

	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.state(), nil
}

func (s *SessionService) lookup(pageID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.sessions[pageID]
	return ss, ok
}

func (s *SessionService) get(pageID string) (*session, error) {
	ss, ok := s.lookup(pageID)
	if !ok {
		return nil, fmt.Errorf("page %s: %w", pageID, ErrNoSession)
	}
	return ss, nil
}

// Get returns the current state of an open page.
func (s *SessionService) Get(pageID string) (domain.EditorState, error) {
	ss, err := s.get(pageID)
	if err != nil {
		return domain.EditorState{}, err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.state(), nil
}

// Do runs fn against the page engine under the session lock and returns the
// resulting state. fn must not retain the engine.
func (s *SessionService) Do(pageID string, fn func(e *editor.Engine)) (domain.EditorState, error) {
	ss, err := s.get(pageID)
	if err != nil {
		return domain.EditorState{}, err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	fn(ss.engine)
	return ss.state(), nil
}

// Sessions returns the open page ids, sorted.
func (s *SessionService) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save writes the live document of an open page. The engine stays usable while
// the write runs; edits made meanwhile leave the session dirty.
func (s *SessionService) Save(ctx context.Context, pageID string) (domain.EditorState, error) {
	ss, err := s.get(pageID)
	if err != nil {
		return domain.EditorState{}, err
	}
	if !s.saving.TryLock(pageID) {
		return domain.EditorState{}, fmt.Errorf("page %s: %w", pageID, ErrSaveInProgress)
	}
	defer s.saving.Unlock(pageID)

	ss.mu.Lock()
	doc, _ := ss.engine.Document()
	version := ss.engine.Version()
	ss.engine.SetSaving(true)
	ss.mu.Unlock()

	saveErr := s.pages.SaveDocument(ctx, doc)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.engine.SetSaving(false)
	if saveErr != nil {
		return ss.state(), fmt.Errorf("save page %s: %w", pageID, saveErr)
	}
	ss.savedVersion = version
	return ss.state(), nil
}

// Publish saves the page if it has unsaved edits and then publishes it.
func (s *SessionService) Publish(ctx context.Context, pageID string) (*domain.Page, error) {
	ss, err := s.get(pageID)
	if err != nil {
		return nil, err
	}
	if ss.dirty() {
		if _, err := s.Save(ctx, pageID); err != nil {
			return nil, err
		}
	}
	return s.pages.PublishPage(ctx, pageID)
}

// Close ends the session. With save set, unsaved edits are written first and a
// failed write keeps the session open.
func (s *SessionService) Close(ctx context.Context, pageID string, save bool) error {
	ss, err := s.get(pageID)
	if err != nil {
		return err
	}
	if save && ss.dirty() {
		if _, err := s.Save(ctx, pageID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	delete(s.sessions, pageID)
	s.mu.Unlock()

	ss.mu.Lock()
	ss.unsubscribe()
	ss.mu.Unlock()
	log.Printf("[session] closed %s", pageID)
	return nil
}

// ApplyTemplate replaces the page config and components with a copy of the
// template. History restarts from the templated document.
func (s *SessionService) ApplyTemplate(pageID, templateID string) (domain.EditorState, error) {
	if s.templates == nil {
		return domain.EditorState{}, fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	tmpl, err := s.templates.Get(templateID)
	if err != nil {
		return domain.EditorState{}, err
	}
	return s.Do(pageID, func(e *editor.Engine) {
		doc, ok := e.Document()
		if !ok {
			return
		}
		e.Load(tmpl.Instantiate(doc, s.newID, s.now()))
	})
}

// RestoreRevision loads a published revision into the open page. History
// restarts from the restored document, which stays unsaved until Save.
func (s *SessionService) RestoreRevision(ctx context.Context, pageID, revisionID string) (domain.EditorState, error) {
	if _, err := s.get(pageID); err != nil {
		return domain.EditorState{}, err
	}
	doc, err := s.pages.RevisionDocument(ctx, pageID, revisionID)
	if err != nil {
		return domain.EditorState{}, err
	}
	return s.Do(pageID, func(e *editor.Engine) { e.Load(doc) })
}

// ── Autosave ───────────────────────────────────────────────

// StartAutosave saves every dirty session on the cron schedule spec, for
// example "@every 30s". An empty spec disables autosave.
func (s *SessionService) StartAutosave(spec string) error {
	if spec == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.AutosaveAll(context.Background()) }); err != nil {
		return fmt.Errorf("autosave: invalid schedule %q: %w", spec, err)
	}
	c.Start()
	s.cronSched = c
	log.Printf("autosave: scheduled %q", spec)
	return nil
}

// AutosaveAll saves every dirty session once. Pages already being saved are
// skipped. It returns the number of pages written.
func (s *SessionService) AutosaveAll(ctx context.Context) int {
	saved := 0
	for _, id := range s.Sessions() {
		ss, ok := s.lookup(id)
		if !ok || !ss.dirty() {
			continue
		}
		if _, err := s.Save(ctx, id); err != nil {
			if errors.Is(err, ErrSaveInProgress) {
				log.Printf("autosave: %s already saving, skipped", id)
				continue
			}
			log.Printf("autosave: %s failed: %v", id, err)
			continue
		}
		saved++
	}
	if saved > 0 {
		log.Printf("autosave: saved %d page(s)", saved)
	}
	return saved
}

// Stop halts autosave and waits for in-flight saves until ctx is done.
func (s *SessionService) Stop(ctx context.Context) {
	if s.cronSched != nil {
		stopped := s.cronSched.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
		s.cronSched = nil
	}
	s.saving.WaitAll(ctx)
}
