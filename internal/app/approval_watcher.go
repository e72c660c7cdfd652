package app

import (
	"context"
	"log"
	"sync"
	"time"

	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// EventApprovalRequired is emitted once for every pending approval created
// by another process, such as a standalone MCP server.
const EventApprovalRequired = "mcp:approval-required"

// approvalWatcher polls the approvals table so requests made by a separate
// MCP process reach this process's listeners.
type approvalWatcher struct {
	ctx      context.Context
	store    *storage.ApprovalStore
	emitter  service.EventEmitter
	interval time.Duration

	mu      sync.Mutex
	emitted map[string]bool
	stopCh  chan struct{}
}

func newApprovalWatcher(ctx context.Context, store *storage.ApprovalStore, emitter service.EventEmitter) *approvalWatcher {
	return &approvalWatcher{
		ctx:      ctx,
		store:    store,
		emitter:  emitter,
		interval: 2 * time.Second,
		emitted:  map[string]bool{},
	}
}

// Start begins the polling loop.
func (w *approvalWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop(w.stopCh)
}

// Stop terminates the polling loop.
func (w *approvalWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *approvalWatcher) pollLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stop:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *approvalWatcher) check() {
	pending, err := w.store.ListPending(w.ctx)
	if err != nil {
		log.Printf("[approvals] poll: %v", err)
		return
	}

	seen := make(map[string]bool, len(pending))
	var fresh []storage.Approval
	w.mu.Lock()
	for _, a := range pending {
		seen[a.ID] = true
		if !w.emitted[a.ID] {
			w.emitted[a.ID] = true
			fresh = append(fresh, a)
		}
	}
	// Forget approvals that were resolved or deleted
	for id := range w.emitted {
		if !seen[id] {
			delete(w.emitted, id)
		}
	}
	w.mu.Unlock()

	for _, a := range fresh {
		w.emitter.Emit(w.ctx, EventApprovalRequired, map[string]string{
			"id":          a.ID,
			"tool":        a.Tool,
			"description": a.Description,
			"createdAt":   a.CreatedAt.Format(time.RFC3339),
			"metadata":    a.Metadata,
		})
	}
}
