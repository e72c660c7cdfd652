package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// PendingAction is an outward-facing operation awaiting user approval.
type PendingAction struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Metadata    string `json:"metadata"` // JSON with extra context (e.g. page id)
}

type actionResult struct {
	approved bool
}

// ApprovalQueue holds agent tool calls that publish or delete pages until a
// person decides. It has three modes:
//   - auto: every request is approved immediately
//   - store: the request is written to the approvals table and polled; the
//     decision comes from the CLI or HTTP API, possibly in another process
//   - in-process: the request is announced on the emitter and resolved with
//     Approve or Reject
type ApprovalQueue struct {
	mu      sync.Mutex
	pending map[string]chan actionResult
	ctx     context.Context
	emitter service.EventEmitter
	timeout time.Duration
	poll    time.Duration

	store *storage.ApprovalStore
	auto  bool
}

func NewApprovalQueue(ctx context.Context, emitter service.EventEmitter) *ApprovalQueue {
	return &ApprovalQueue{
		pending: make(map[string]chan actionResult),
		ctx:     ctx,
		emitter: emitter,
		timeout: 120 * time.Second,
		poll:    500 * time.Millisecond,
	}
}

// SetStore switches to store mode.
func (q *ApprovalQueue) SetStore(store *storage.ApprovalStore) {
	q.store = store
}

// SetAutoApprove turns auto mode on or off.
func (q *ApprovalQueue) SetAutoApprove(v bool) {
	q.auto = v
}

// SetTimeout changes how long a request waits before it is rejected.
func (q *ApprovalQueue) SetTimeout(d time.Duration) {
	q.timeout = d
}

// Request blocks until the action is approved, rejected or times out. A nil
// error means approved.
func (q *ApprovalQueue) Request(tool, description string, metadata ...string) error {
	if q.auto {
		return nil
	}
	id := uuid.New().String()
	meta := "{}"
	if len(metadata) > 0 && metadata[0] != "" {
		meta = metadata[0]
	}

	if q.store != nil {
		return q.requestViaStore(id, tool, description, meta)
	}
	return q.requestViaChannel(id, tool, description, meta)
}

func (q *ApprovalQueue) requestViaStore(id, tool, description, metadata string) error {
	a := &storage.Approval{ID: id, Tool: tool, Description: description, Metadata: metadata}
	if err := q.store.CreatePending(q.ctx, a); err != nil {
		return err
	}
	q.emitter.Emit(q.ctx, "mcp:approval-required", PendingAction{
		ID:          id,
		Tool:        tool,
		Description: description,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
		Metadata:    metadata,
	})
	// The row outlives the request only while it is pending
	defer q.store.Delete(context.Background(), id)

	deadline := time.Now().Add(q.timeout)
	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("action timed out after %s: %s", q.timeout, tool)
			}
			status, err := q.store.Status(q.ctx, id)
			if err != nil {
				continue
			}
			switch status {
			case storage.ApprovalApproved:
				return nil
			case storage.ApprovalRejected:
				return fmt.Errorf("action rejected by user: %s", tool)
			}
		case <-q.ctx.Done():
			return errors.New("context cancelled")
		}
	}
}

func (q *ApprovalQueue) requestViaChannel(id, tool, description, metadata string) error {
	ch := make(chan actionResult, 1)

	q.mu.Lock()
	q.pending[id] = ch
	q.mu.Unlock()
	defer q.cleanup(id)

	q.emitter.Emit(q.ctx, "mcp:approval-required", PendingAction{
		ID:          id,
		Tool:        tool,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Metadata:    metadata,
	})

	select {
	case result := <-ch:
		if !result.approved {
			return fmt.Errorf("action rejected by user: %s", tool)
		}
		return nil
	case <-time.After(q.timeout):
		q.emitter.Emit(q.ctx, "mcp:approval-dismissed", map[string]string{"id": id})
		return fmt.Errorf("action timed out after %s: %s", q.timeout, tool)
	case <-q.ctx.Done():
		return errors.New("context cancelled")
	}
}

// Approve resolves a pending in-process action.
func (q *ApprovalQueue) Approve(actionID string) {
	q.resolve(actionID, true)
}

// Reject resolves a pending in-process action.
func (q *ApprovalQueue) Reject(actionID string) {
	q.resolve(actionID, false)
}

func (q *ApprovalQueue) resolve(actionID string, approved bool) {
	q.mu.Lock()
	ch, ok := q.pending[actionID]
	q.mu.Unlock()
	if ok {
		select {
		case ch <- actionResult{approved: approved}:
		default:
		}
	}
}

func (q *ApprovalQueue) cleanup(id string) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}
