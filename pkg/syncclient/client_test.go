package syncclient

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/services"
	"testing"
	"time"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

// fakeAPI answers from canned results. A non-nil gate blocks each call
// until the test releases it, so in-flight state can be observed.
type fakeAPI struct {
	mu      sync.Mutex
	err     error
	gate    chan struct{}
	started chan struct{}
	created *dto.TaskResponse
	listed  []dto.TaskResponse
	patches []dto.UpdateTaskRequest
	calls   []string
}

func (f *fakeAPI) enter(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	gate, started, err := f.gate, f.started, f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeAPI) ListTasks(ctx context.Context, filter *dto.TaskFilterRequest) ([]dto.TaskResponse, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listed, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := f.enter("create"); err != nil {
		return nil, err
	}
	if f.created != nil {
		return f.created, nil
	}
	return &dto.TaskResponse{ID: uuid.New(), Content: req.Content, Tags: []string{}}, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	f.mu.Lock()
	f.patches = append(f.patches, *req)
	f.mu.Unlock()
	if err := f.enter("update"); err != nil {
		return nil, err
	}
	resp := &dto.TaskResponse{ID: id, Tags: []string{}}
	if req.Content != nil {
		resp.Content = *req.Content
	}
	if req.Priority.Set {
		resp.Priority = req.Priority.Value.Int()
	}
	return resp, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return f.enter("delete")
}

func (f *fakeAPI) CompleteTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	if err := f.enter("complete"); err != nil {
		return nil, err
	}
	return &dto.TaskResponse{ID: id, IsCompleted: true, Tags: []string{}}, nil
}

func (f *fakeAPI) UncompleteTask(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	if err := f.enter("uncomplete"); err != nil {
		return nil, err
	}
	return &dto.TaskResponse{ID: id, IsCompleted: false, Tags: []string{}}, nil
}

func seedTasks(n int) []Task {
	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{
			ID:        uuid.NewString(),
			Content:   string(rune('A' + i)),
			Priority:  models.PriorityLow,
			Tags:      []string{"t"},
			Order:     i,
			CreatedAt: created,
			UpdatedAt: created,
		}
	}
	return tasks
}

func TestDelete_RollbackRestoresExactList(t *testing.T) {
	seed := seedTasks(3)
	api := &fakeAPI{err: &TransportError{StatusCode: 503}}

	var events []Event
	c := New(api, WithTasks(seed), WithListener(func(ev Event) { events = append(events, ev) }))
	before := c.Tasks()

	err := c.Delete(context.Background(), seed[1].ID)

	var mErr *MutationError
	if !errors.As(err, &mErr) || mErr.Op != OpDelete {
		t.Fatalf("expected delete MutationError, got %v", err)
	}
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Errorf("cause should stay a TransportError, got %v", err)
	}
	if got := c.Tasks(); !reflect.DeepEqual(got, before) {
		t.Errorf("list after rollback = %+v\nwant %+v", got, before)
	}
	if c.Pending(seed[1].ID) {
		t.Error("task still marked pending after failure")
	}

	if len(events) != 2 || events[0].Phase != PhaseApplied || events[1].Phase != PhaseRolledBack {
		t.Fatalf("events = %+v, want applied then rolled_back", events)
	}
	if len(events[0].Tasks) != 2 {
		t.Errorf("optimistic state had %d tasks, want 2", len(events[0].Tasks))
	}
	if events[1].Err == nil {
		t.Error("rollback event carries no error")
	}
}

func TestDelete_Success(t *testing.T) {
	seed := seedTasks(2)
	c := New(&fakeAPI{}, WithTasks(seed))

	if err := c.Delete(context.Background(), seed[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := c.Tasks()
	if len(got) != 1 || got[0].ID != seed[1].ID {
		t.Errorf("list = %+v, want only %s", got, seed[1].ID)
	}
}

func TestUpdate_SendsMinimalDiff(t *testing.T) {
	seed := []Task{{ID: uuid.NewString(), Content: "A", Priority: models.PriorityLow, Tags: []string{}}}
	api := &fakeAPI{}
	c := New(api, WithTasks(seed))

	draft := seed[0].Clone()
	draft.Priority = models.PriorityMedium

	updated, err := c.Update(context.Background(), draft)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(api.patches) != 1 {
		t.Fatalf("sent %d patches, want 1", len(api.patches))
	}
	patch := api.patches[0]
	if !patch.Priority.Set || patch.Priority.Value != models.PriorityMedium {
		t.Errorf("patch priority = %v, want 2", patch.Priority)
	}
	if patch.Content != nil || patch.Description != nil || patch.Tags != nil || patch.DueDate.Set || patch.Order != nil || patch.IsCompleted != nil {
		t.Errorf("patch carries unchanged fields: %+v", patch)
	}
	if updated.Priority != models.PriorityMedium {
		t.Errorf("server record not applied: %+v", updated)
	}
}

func TestUpdate_EmptyDiffSkipsNetwork(t *testing.T) {
	seed := seedTasks(1)
	api := &fakeAPI{}
	c := New(api, WithTasks(seed))

	got, err := c.Update(context.Background(), seed[0].Clone())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("network calls = %v, want none", api.calls)
	}
	if got.ID != seed[0].ID {
		t.Errorf("returned %s, want %s", got.ID, seed[0].ID)
	}
	if c.Pending(seed[0].ID) {
		t.Error("empty update left the task pending")
	}
}

func TestUpdate_RollbackOnFailure(t *testing.T) {
	seed := seedTasks(2)
	c := New(&fakeAPI{err: services.ErrValidation}, WithTasks(seed))
	before := c.Tasks()

	draft := seed[0].Clone()
	draft.Content = "changed"
	if _, err := c.Update(context.Background(), draft); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := c.Tasks(); !reflect.DeepEqual(got, before) {
		t.Errorf("list after rollback = %+v, want %+v", got, before)
	}
}

func TestToggleComplete(t *testing.T) {
	seed := seedTasks(1)
	api := &fakeAPI{}
	c := New(api, WithTasks(seed))

	got, err := c.ToggleComplete(context.Background(), seed[0].ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if !got.IsCompleted {
		t.Error("task not completed")
	}
	if api.calls[0] != "complete" {
		t.Errorf("called %v, want complete", api.calls)
	}

	if _, err := c.ToggleComplete(context.Background(), seed[0].ID); err != nil {
		t.Fatalf("second ToggleComplete: %v", err)
	}
	if api.calls[1] != "uncomplete" {
		t.Errorf("called %v, want uncomplete second", api.calls)
	}
}

func TestToggleComplete_RollbackRestoresFlag(t *testing.T) {
	seed := seedTasks(1)
	c := New(&fakeAPI{err: services.ErrUnauthorized}, WithTasks(seed))

	if _, err := c.ToggleComplete(context.Background(), seed[0].ID); !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	got, _ := c.Get(seed[0].ID)
	if got.IsCompleted {
		t.Error("completion flag not restored")
	}
}

func TestCreate_ReplacesTempEntryInPlace(t *testing.T) {
	seed := seedTasks(2)
	serverID := uuid.New()
	api := &fakeAPI{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
		created: &dto.TaskResponse{ID: serverID, Content: "new", Tags: []string{}},
	}
	c := New(api, WithTasks(seed))

	type result struct {
		task Task
		err  error
	}
	done := make(chan result, 1)
	go func() {
		task, err := c.Create(context.Background(), Draft{Content: "new", ProjectID: uuid.NewString()})
		done <- result{task, err}
	}()

	<-api.started
	inFlight := c.Tasks()
	if len(inFlight) != 3 || !inFlight[0].IsTemp() {
		t.Fatalf("provisional task not prepended: %+v", inFlight)
	}
	tempID := inFlight[0].ID
	if !c.Pending(tempID) {
		t.Error("temp id should be pending while create is in flight")
	}
	if err := c.Delete(context.Background(), tempID); !errors.Is(err, ErrMutationPending) {
		t.Errorf("mutating a temp id: expected ErrMutationPending, got %v", err)
	}
	if inFlight[0].IsCompleted || inFlight[0].SubtaskCount != 0 {
		t.Errorf("provisional defaults wrong: %+v", inFlight[0])
	}

	close(api.gate)
	res := <-done
	if res.err != nil {
		t.Fatalf("Create: %v", res.err)
	}

	got := c.Tasks()
	if len(got) != 3 || got[0].ID != serverID.String() {
		t.Fatalf("temp entry not replaced in place: %+v", got)
	}
	if _, ok := c.Get(tempID); ok {
		t.Error("temp entry still present")
	}
	if c.Pending(tempID) {
		t.Error("temp id still pending")
	}
}

func TestCreate_FailureRemovesTempEntry(t *testing.T) {
	seed := seedTasks(2)
	c := New(&fakeAPI{err: errBoom}, WithTasks(seed))
	before := c.Tasks()

	if _, err := c.Create(context.Background(), Draft{Content: "doomed"}); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if got := c.Tasks(); !reflect.DeepEqual(got, before) {
		t.Errorf("list = %+v, want %+v", got, before)
	}
}

func TestSingleFlightPerTask(t *testing.T) {
	seed := seedTasks(2)
	api := &fakeAPI{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := New(api, WithTasks(seed))

	done := make(chan error, 1)
	go func() {
		done <- c.Delete(context.Background(), seed[0].ID)
	}()
	<-api.started

	if _, err := c.ToggleComplete(context.Background(), seed[0].ID); !errors.Is(err, ErrMutationPending) {
		t.Errorf("second mutation: expected ErrMutationPending, got %v", err)
	}

	close(api.gate)
	if err := <-done; err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestRollback_KeepsUnrelatedConcurrentChange(t *testing.T) {
	seed := seedTasks(3)
	gate := make(chan struct{})
	api := &fakeAPI{gate: gate, started: make(chan struct{}, 1), err: errBoom}
	c := New(api, WithTasks(seed))

	done := make(chan error, 1)
	go func() {
		done <- c.Delete(context.Background(), seed[1].ID)
	}()
	<-api.started

	// Another task's mutation commits while the delete is still pending.
	api.mu.Lock()
	api.gate, api.started, api.err = nil, nil, nil
	api.mu.Unlock()
	if _, err := c.ToggleComplete(context.Background(), seed[2].ID); err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}

	close(gate)
	if err := <-done; !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}

	got := c.Tasks()
	if len(got) != 3 {
		t.Fatalf("list has %d tasks, want 3", len(got))
	}
	if !reflect.DeepEqual(got[1], seed[1]) {
		t.Errorf("deleted task not restored at its position: %+v", got[1])
	}
	if got[2].ID != seed[2].ID || !got[2].IsCompleted {
		t.Errorf("concurrent toggle was lost: %+v", got[2])
	}
}

func TestClose_LateResponseAppliedSilently(t *testing.T) {
	seed := seedTasks(1)
	api := &fakeAPI{gate: make(chan struct{}), started: make(chan struct{}, 1)}

	var mu sync.Mutex
	var events []Event
	c := New(api, WithTasks(seed), WithListener(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}))

	done := make(chan error, 1)
	go func() {
		_, err := c.ToggleComplete(context.Background(), seed[0].ID)
		done <- err
	}()
	<-api.started
	c.Close()
	close(api.gate)

	if err := <-done; err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	got, _ := c.Get(seed[0].ID)
	if !got.IsCompleted {
		t.Error("late response was not applied")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 || events[0].Phase != PhaseApplied {
		t.Errorf("events after Close = %+v, want only the applied event", events)
	}
}

func TestCreate_ReloadWhileInFlightKeepsOneEntry(t *testing.T) {
	gate := make(chan struct{})
	created := &dto.TaskResponse{ID: uuid.New(), Content: "new", Tags: []string{}}
	api := &fakeAPI{gate: gate, started: make(chan struct{}, 1), created: created}
	c := New(api)

	done := make(chan error, 1)
	go func() {
		_, err := c.Create(context.Background(), Draft{Content: "new"})
		done <- err
	}()
	<-api.started

	// The server list already contains the task when the reload lands.
	api.mu.Lock()
	api.gate, api.started = nil, nil
	api.listed = []dto.TaskResponse{*created, {ID: uuid.New(), Content: "other", Tags: []string{}}}
	api.mu.Unlock()
	if err := c.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks := c.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("list has %d tasks, want 2", len(tasks))
	}
	seen := 0
	for _, task := range tasks {
		if task.ID == created.ID.String() {
			seen++
		}
		if task.IsTemp() {
			t.Errorf("temp entry left behind: %+v", task)
		}
	}
	if seen != 1 {
		t.Errorf("created task appears %d times, want 1", seen)
	}
	if c.Pending(created.ID.String()) {
		t.Error("created id still pending")
	}
}

func TestToggleRollback_KeepsReloadedEntry(t *testing.T) {
	seed := seedTasks(1)
	gate := make(chan struct{})
	api := &fakeAPI{gate: gate, started: make(chan struct{}, 1), err: errBoom}
	c := New(api, WithTasks(seed))

	done := make(chan error, 1)
	go func() {
		_, err := c.ToggleComplete(context.Background(), seed[0].ID)
		done <- err
	}()
	<-api.started

	api.mu.Lock()
	api.gate, api.started, api.err = nil, nil, nil
	api.listed = []dto.TaskResponse{{ID: uuid.MustParse(seed[0].ID), Content: "fresh", Tags: []string{}}}
	api.mu.Unlock()
	if err := c.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	close(gate)
	if err := <-done; !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}

	got, ok := c.Get(seed[0].ID)
	if !ok {
		t.Fatal("task missing after rollback")
	}
	if got.Content != "fresh" {
		t.Errorf("rollback overwrote the reloaded entry: %+v", got)
	}
}
