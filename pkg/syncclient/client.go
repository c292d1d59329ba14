package syncclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"taskhub/domain/dto"
	"taskhub/pkg/logger"
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreate Op = "create"
	OpToggle Op = "toggle"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpLoad   Op = "load"
)

type Phase string

const (
	PhaseApplied    Phase = "applied"     // optimistic change is visible locally
	PhaseConfirmed  Phase = "confirmed"   // server accepted, local entry synced
	PhaseRolledBack Phase = "rolled_back" // server rejected, local change reverted
)

// Event describes a change of local state. Tasks is the list as it stands
// after the change.
type Event struct {
	Op     Op
	Phase  Phase
	TaskID string
	Tasks  []Task
	Err    error
}

// Listener is called outside the client's lock; it may read the client.
type Listener func(Event)

// Client keeps a local task list in step with the server optimistically:
// every mutation is visible in the list before the server answers, and is
// reconciled with the server's record or rolled back afterwards. At most one
// mutation per task id is in flight. Failures are never retried.
//
// Mutating methods block until the server answers; run them in their own
// goroutine to keep the caller responsive. Client is safe for concurrent use.
type Client struct {
	api TaskAPI
	log *slog.Logger
	now func() time.Time

	mu       sync.Mutex
	list     *TaskList
	pending  map[string]struct{}
	listener Listener
	closed   bool
}

type Option func(*Client)

func WithListener(l Listener) Option {
	return func(c *Client) {
		c.listener = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithTasks seeds the local list, e.g. from a cache.
func WithTasks(tasks []Task) Option {
	return func(c *Client) {
		c.list = NewTaskList(tasks)
	}
}

func New(api TaskAPI, opts ...Option) *Client {
	c := &Client{
		api:     api,
		log:     logger.WithComponent("syncclient"),
		now:     time.Now,
		list:    NewTaskList(nil),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tasks returns a copy of the local list in display order.
func (c *Client) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Snapshot()
}

func (c *Client) Get(id string) (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Get(id)
}

// Pending reports whether a mutation for id is in flight.
func (c *Client) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Close detaches the listener. Responses that arrive later are still
// applied to the list but nobody is notified.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Load replaces the local list with the server's answer to filter.
func (c *Client) Load(ctx context.Context, filter *dto.TaskFilterRequest) error {
	resp, err := c.api.ListTasks(ctx, filter)
	if err != nil {
		return err
	}
	tasks := make([]Task, len(resp))
	for i := range resp {
		tasks[i] = FromResponse(&resp[i])
	}

	c.mu.Lock()
	c.list.Reset(tasks)
	ev := c.eventLocked(OpLoad, PhaseConfirmed, "", nil)
	c.mu.Unlock()

	c.notify(ev)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Mutations
// ═══════════════════════════════════════════════════════════════════════════════

// Create prepends a provisional task under a temp id, then swaps it in place
// for the server's record. On failure the provisional entry is removed.
func (c *Client) Create(ctx context.Context, draft Draft) (Task, error) {
	now := c.now().UTC()
	tempID := TempIDPrefix + uuid.NewString()
	provisional := Task{
		ID:          tempID,
		Content:     draft.Content,
		Description: draft.Description,
		ProjectID:   draft.ProjectID,
		ParentID:    draft.ParentID,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		Tags:        draft.Tags,
		Order:       draft.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if provisional.Tags == nil {
		provisional.Tags = []string{}
	}

	c.mu.Lock()
	c.pending[tempID] = struct{}{}
	rb := c.beginLocked(func(l *TaskList) { l.Prepend(provisional) }, func(l *TaskList) {
		l.Remove(tempID)
	})
	ev := c.eventLocked(OpCreate, PhaseApplied, tempID, nil)
	c.mu.Unlock()
	c.notify(ev)

	resp, err := c.api.CreateTask(ctx, draft.request())
	if err != nil {
		return Task{}, c.fail(OpCreate, tempID, rb, err)
	}

	created := FromResponse(resp)
	c.confirm(OpCreate, tempID, func(l *TaskList) {
		// A reload while the create was in flight may already hold the
		// server's entry.
		if l.Index(created.ID) >= 0 {
			l.Replace(created.ID, created)
			l.Remove(tempID)
			return
		}
		if !l.Replace(tempID, created) {
			l.Prepend(created)
		}
	})
	return created, nil
}

// ToggleComplete flips the completion flag locally and sends the matching
// complete or uncomplete call.
func (c *Client) ToggleComplete(ctx context.Context, id string) (Task, error) {
	c.mu.Lock()
	original, err := c.acquireLocked(OpToggle, id)
	if err != nil {
		c.mu.Unlock()
		return Task{}, err
	}
	flipped := original.Clone()
	flipped.IsCompleted = !original.IsCompleted
	rb := c.beginLocked(func(l *TaskList) { l.Replace(id, flipped) }, func(l *TaskList) {
		restoreIfUnchanged(l, id, flipped, original)
	})
	ev := c.eventLocked(OpToggle, PhaseApplied, id, nil)
	c.mu.Unlock()
	c.notify(ev)

	call := c.api.UncompleteTask
	if flipped.IsCompleted {
		call = c.api.CompleteTask
	}
	resp, err := callWithID(ctx, id, call)
	if err != nil {
		return Task{}, c.fail(OpToggle, id, rb, err)
	}

	synced := FromResponse(resp)
	c.confirm(OpToggle, id, func(l *TaskList) { l.Replace(id, synced) })
	return synced, nil
}

// Update sends only the fields of draft that differ from the local entry.
// An empty diff succeeds without a network call.
func (c *Client) Update(ctx context.Context, draft Task) (Task, error) {
	id := draft.ID

	c.mu.Lock()
	original, err := c.acquireLocked(OpUpdate, id)
	if err != nil {
		c.mu.Unlock()
		return Task{}, err
	}
	patch := Diff(original, draft)
	if patch.IsEmpty() {
		delete(c.pending, id)
		c.mu.Unlock()
		return original, nil
	}
	patched := ApplyPatch(original, &patch)
	rb := c.beginLocked(func(l *TaskList) { l.Replace(id, patched) }, func(l *TaskList) {
		restoreIfUnchanged(l, id, patched, original)
	})
	ev := c.eventLocked(OpUpdate, PhaseApplied, id, nil)
	c.mu.Unlock()
	c.notify(ev)

	resp, err := callWithID(ctx, id, func(ctx context.Context, taskID uuid.UUID) (*dto.TaskResponse, error) {
		return c.api.UpdateTask(ctx, taskID, &patch)
	})
	if err != nil {
		return Task{}, c.fail(OpUpdate, id, rb, err)
	}

	synced := FromResponse(resp)
	c.confirm(OpUpdate, id, func(l *TaskList) { l.Replace(id, synced) })
	return synced, nil
}

// Delete removes the entry locally and asks the server to delete it.
func (c *Client) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	original, err := c.acquireLocked(OpDelete, id)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	at := c.list.Index(id)
	rb := c.beginLocked(func(l *TaskList) { l.Remove(id) }, func(l *TaskList) {
		if l.Index(id) < 0 {
			l.Insert(at, original)
		}
	})
	ev := c.eventLocked(OpDelete, PhaseApplied, id, nil)
	c.mu.Unlock()
	c.notify(ev)

	_, err = callWithID(ctx, id, func(ctx context.Context, taskID uuid.UUID) (*dto.TaskResponse, error) {
		return nil, c.api.DeleteTask(ctx, taskID)
	})
	if err != nil {
		return c.fail(OpDelete, id, rb, err)
	}

	c.confirm(OpDelete, id, func(*TaskList) {})
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Bookkeeping
// ═══════════════════════════════════════════════════════════════════════════════

// rollback captures what is needed to undo one optimistic change.
type rollback struct {
	before   listState
	after    uint64
	targeted func(*TaskList)
}

// acquireLocked marks id in flight and returns its current entry.
func (c *Client) acquireLocked(op Op, id string) (Task, error) {
	if _, busy := c.pending[id]; busy {
		return Task{}, &MutationError{Op: op, TaskID: id, Err: ErrMutationPending}
	}
	task, ok := c.list.Get(id)
	if !ok {
		return Task{}, &MutationError{Op: op, TaskID: id, Err: ErrUnknownTask}
	}
	c.pending[id] = struct{}{}
	return task, nil
}

func (c *Client) beginLocked(apply, targeted func(*TaskList)) rollback {
	before := c.list.mark()
	apply(c.list)
	return rollback{before: before, after: c.list.Version(), targeted: targeted}
}

// fail undoes an optimistic change. When nothing else touched the list in the
// meantime the whole snapshot comes back; otherwise only the affected entry
// is restored so unrelated changes survive.
func (c *Client) fail(op Op, id string, rb rollback, cause error) error {
	mErr := &MutationError{Op: op, TaskID: id, Err: cause}

	c.mu.Lock()
	if c.list.Version() == rb.after {
		c.list.restore(rb.before)
	} else {
		rb.targeted(c.list)
	}
	delete(c.pending, id)
	ev := c.eventLocked(op, PhaseRolledBack, id, mErr)
	c.mu.Unlock()

	c.log.Warn("Optimistic mutation rolled back", "op", op, "task_id", id, "error", cause)
	c.notify(ev)
	return mErr
}

func (c *Client) confirm(op Op, id string, apply func(*TaskList)) {
	c.mu.Lock()
	apply(c.list)
	delete(c.pending, id)
	ev := c.eventLocked(op, PhaseConfirmed, id, nil)
	c.mu.Unlock()

	c.notify(ev)
}

// eventLocked builds the notification for the current state, or returns nil
// when nobody should hear about it.
func (c *Client) eventLocked(op Op, phase Phase, id string, err error) *Event {
	if c.closed || c.listener == nil {
		return nil
	}
	return &Event{Op: op, Phase: phase, TaskID: id, Tasks: c.list.Snapshot(), Err: err}
}

func (c *Client) notify(ev *Event) {
	if ev == nil {
		return
	}
	c.listener(*ev)
}

// restoreIfUnchanged puts original back only while the entry still holds
// the optimistic value; a fresher copy from a reload is left alone.
func restoreIfUnchanged(l *TaskList, id string, optimistic, original Task) {
	if cur, ok := l.Get(id); ok && cur.Equal(optimistic) {
		l.Replace(id, original)
	}
}

func callWithID(ctx context.Context, id string, call func(context.Context, uuid.UUID) (*dto.TaskResponse, error)) (*dto.TaskResponse, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a server id", ErrUnknownTask, id)
	}
	return call(ctx, taskID)
}
