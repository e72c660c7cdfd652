package service

import (
	"context"
	"sync"
)

// ExportedRunningGuard is an exported alias so _test packages can test the guard.
type ExportedRunningGuard = runningJobsGuard

// ─────────────────────────────────────────────────────────────
// runningJobsGuard — one save per page at a time
// ─────────────────────────────────────────────────────────────

// runningJobsGuard ensures only one save of a given page runs at a time.
// An autosave tick that finds the page already saving skips it; shutdown
// waits for in-flight saves with WaitAll.
type runningJobsGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// TryLock marks pageID as saving. It returns false if a save is in flight.
func (g *runningJobsGuard) TryLock(pageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[pageID]; ok {
		return false
	}
	g.running[pageID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock ends the save of pageID. Must follow a successful TryLock.
func (g *runningJobsGuard) Unlock(pageID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, pageID)
	g.wg.Done()
}

// Running reports whether a save of pageID is in flight.
func (g *runningJobsGuard) Running(pageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[pageID]
	return ok
}

// WaitAll blocks until every in-flight save completes or ctx is cancelled.
func (g *runningJobsGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
