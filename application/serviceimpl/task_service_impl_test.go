package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/ports"
	"taskhub/domain/services"
	"taskhub/infrastructure/memory"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Wednesday; the week window starts Sunday 2026-10-11.
var fixedNow = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

type recordingObserver struct {
	mu     sync.Mutex
	events []ports.ActivityEvent
	err    error
}

func (o *recordingObserver) OnActivity(ctx context.Context, event *ports.ActivityEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, *event)
	return o.err
}

func (o *recordingObserver) actions() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Action
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, target any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.entries[key]
	if !ok {
		return ports.ErrCacheMiss
	}
	return json.Unmarshal(raw, target)
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type taskFixture struct {
	svc      services.TaskService
	tasks    *memory.TaskRepository
	observer *recordingObserver
	owner    uuid.UUID
	project  *models.Project
}

func newTaskFixture(t *testing.T, opts ...TaskServiceOption) *taskFixture {
	t.Helper()

	projects := memory.NewProjectRepository()
	tasks := memory.NewTaskRepository()
	observer := &recordingObserver{}
	owner := uuid.New()

	project := &models.Project{OwnerID: owner, Name: "Work", Slug: "work", CreatedAt: fixedNow}
	if err := projects.Create(context.Background(), project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	opts = append([]TaskServiceOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return &taskFixture{
		svc:      NewTaskService(tasks, projects, observer, opts...),
		tasks:    tasks,
		observer: observer,
		owner:    owner,
		project:  project,
	}
}

func (f *taskFixture) create(t *testing.T, content string, mutate func(*dto.CreateTaskRequest)) *models.Task {
	t.Helper()
	req := &dto.CreateTaskRequest{Content: content, ProjectID: f.project.ID.String()}
	if mutate != nil {
		mutate(req)
	}
	task, err := f.svc.CreateTask(context.Background(), f.owner, req)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", content, err)
	}
	return task
}

func (f *taskFixture) subtask(t *testing.T, parent *models.Task, content string) *models.Task {
	t.Helper()
	parentID := parent.ID.String()
	return f.create(t, content, func(r *dto.CreateTaskRequest) { r.ParentID = &parentID })
}

func due(t time.Time) func(*dto.CreateTaskRequest) {
	return func(r *dto.CreateTaskRequest) { r.DueDate = &t }
}

func ids(tasks []*models.Task) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(tasks))
	for _, t := range tasks {
		out[t.ID] = true
	}
	return out
}

func TestCreateTask_Validation(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   dto.CreateTaskRequest
		field string
	}{
		{"blank content", dto.CreateTaskRequest{Content: "   ", ProjectID: f.project.ID.String()}, "content"},
		{"missing project", dto.CreateTaskRequest{Content: "write"}, "projectId"},
		{"malformed project", dto.CreateTaskRequest{Content: "write", ProjectID: "nope"}, "projectId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTask(ctx, f.owner, &tt.req)
			var vErr *services.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("field = %q, want %q", vErr.Field, tt.field)
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("error does not unwrap to ErrValidation")
			}
		})
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newTaskFixture(t)

	high := dto.NewPriorityInput(models.PriorityHigh)
	task := f.create(t, "  ship it  ", func(r *dto.CreateTaskRequest) { r.Priority = high })

	if task.Content != "ship it" {
		t.Errorf("content = %q, want trimmed", task.Content)
	}
	if task.IsCompleted {
		t.Error("new task should not be completed")
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %v, want high", task.Priority)
	}
	if !task.CreatedAt.Equal(fixedNow) || !task.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v/%v, want %v", task.CreatedAt, task.UpdatedAt, fixedNow)
	}
	if got := f.observer.actions(); len(got) != 1 || got[0] != models.ActionTaskCreated {
		t.Errorf("events = %v, want [task.created]", got)
	}
}

func TestCreateTask_ForeignProjectOrParent(t *testing.T) {
	f := newTaskFixture(t)
	other := uuid.New()

	if _, err := f.svc.CreateTask(context.Background(), other, &dto.CreateTaskRequest{
		Content:   "sneaky",
		ProjectID: f.project.ID.String(),
	}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("foreign project: expected ErrNotFound, got %v", err)
	}

	missing := uuid.NewString()
	if _, err := f.svc.CreateTask(context.Background(), f.owner, &dto.CreateTaskRequest{
		Content:   "orphan",
		ProjectID: f.project.ID.String(),
		ParentID:  &missing,
	}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing parent: expected ErrNotFound, got %v", err)
	}
}

func TestGetCompletion(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	parent := f.create(t, "parent", nil)

	_, stats, err := f.svc.GetCompletion(ctx, f.owner, parent.ID)
	if err != nil {
		t.Fatalf("GetCompletion: %v", err)
	}
	if stats.Total != 0 || stats.Percentage != 0 {
		t.Errorf("empty parent stats = %+v, want 0%%", stats)
	}

	first := f.subtask(t, parent, "a")
	f.subtask(t, parent, "b")
	f.subtask(t, parent, "c")
	if _, err := f.svc.CompleteTask(ctx, f.owner, first.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	_, stats, err = f.svc.GetCompletion(ctx, f.owner, parent.ID)
	if err != nil {
		t.Fatalf("GetCompletion: %v", err)
	}
	want := models.CompletionStats{Total: 3, Completed: 1, Percentage: 33}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestGetCompletion_CacheInvalidatedOnSubtaskChange(t *testing.T) {
	cache := newFakeCache()
	f := newTaskFixture(t, WithCompletionCache(cache, time.Minute))
	ctx := context.Background()

	parent := f.create(t, "parent", nil)
	a := f.subtask(t, parent, "a")
	f.subtask(t, parent, "b")

	if _, stats, _ := f.svc.GetCompletion(ctx, f.owner, parent.ID); stats.Percentage != 0 {
		t.Fatalf("initial percentage = %d, want 0", stats.Percentage)
	}
	if _, err := f.svc.CompleteTask(ctx, f.owner, a.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	_, stats, err := f.svc.GetCompletion(ctx, f.owner, parent.ID)
	if err != nil {
		t.Fatalf("GetCompletion: %v", err)
	}
	if stats.Percentage != 50 {
		t.Errorf("percentage after completing a subtask = %d, want 50 (stale cache?)", stats.Percentage)
	}
}

func TestCompleteTask_Idempotent(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := f.create(t, "once", nil)

	for i := 0; i < 2; i++ {
		got, err := f.svc.CompleteTask(ctx, f.owner, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask #%d: %v", i+1, err)
		}
		if !got.IsCompleted {
			t.Fatalf("CompleteTask #%d: not completed", i+1)
		}
	}

	want := []string{models.ActionTaskCreated, models.ActionTaskCompleted}
	got := f.observer.actions()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	undone, err := f.svc.UncompleteTask(ctx, f.owner, task.ID)
	if err != nil || undone.IsCompleted {
		t.Fatalf("UncompleteTask = %+v, %v", undone, err)
	}
}

func TestListTasks_TopLevelExclusivity(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	parent := f.create(t, "parent", nil)
	child := f.subtask(t, parent, "child")
	other := f.create(t, "other", nil)

	top, err := f.svc.ListTasks(ctx, f.owner, &dto.TaskFilterRequest{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	got := ids(top)
	if !got[parent.ID] || !got[other.ID] || got[child.ID] {
		t.Errorf("top-level list = %v, want parent and other only", got)
	}
	for _, task := range top {
		if task.ParentID != nil {
			t.Errorf("top-level list returned subtask %s", task.ID)
		}
		if task.SubtaskCount == nil {
			t.Errorf("task %s missing subtask count", task.ID)
			continue
		}
		want := 0
		if task.ID == parent.ID {
			want = 1
		}
		if *task.SubtaskCount != want {
			t.Errorf("subtaskCount(%s) = %d, want %d", task.Content, *task.SubtaskCount, want)
		}
	}

	subs, err := f.svc.GetSubtasks(ctx, f.owner, parent.ID)
	if err != nil {
		t.Fatalf("GetSubtasks: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != child.ID {
		t.Errorf("subtasks = %v, want only child", ids(subs))
	}
	for _, s := range subs {
		if s.ParentID == nil || *s.ParentID != parent.ID {
			t.Errorf("subtask %s has parent %v", s.ID, s.ParentID)
		}
	}
}

func TestListTasks_DueDateBoundaries(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	startOfToday := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	startOfTomorrow := startOfToday.Add(24 * time.Hour)

	atTomorrow := f.create(t, "tomorrow exactly", due(startOfTomorrow))
	justBefore := f.create(t, "yesterday last ms", due(startOfToday.Add(-time.Millisecond)))
	midday := f.create(t, "today", due(startOfToday.Add(12*time.Hour)))
	doneLate := f.create(t, "done late", due(startOfToday.Add(-48*time.Hour)))
	if _, err := f.svc.CompleteTask(ctx, f.owner, doneLate.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	saturday := f.create(t, "saturday", due(time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)))
	nextSunday := f.create(t, "next sunday", due(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
	f.create(t, "no due date", nil)

	tests := []struct {
		window  string
		include []*models.Task
		exclude []*models.Task
	}{
		{"today", []*models.Task{midday}, []*models.Task{atTomorrow, justBefore}},
		{"tomorrow", []*models.Task{atTomorrow}, []*models.Task{midday, justBefore}},
		{"overdue", []*models.Task{justBefore}, []*models.Task{doneLate, midday}},
		{"this_week", []*models.Task{justBefore, midday, atTomorrow, saturday}, []*models.Task{nextSunday}},
	}

	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			tasks, err := f.svc.ListTasks(ctx, f.owner, &dto.TaskFilterRequest{DueDate: tt.window})
			if err != nil {
				t.Fatalf("ListTasks: %v", err)
			}
			got := ids(tasks)
			for _, want := range tt.include {
				if !got[want.ID] {
					t.Errorf("%s: missing %q", tt.window, want.Content)
				}
			}
			for _, bad := range tt.exclude {
				if got[bad.ID] {
					t.Errorf("%s: unexpectedly includes %q", tt.window, bad.Content)
				}
			}
		})
	}

	if _, err := f.svc.ListTasks(ctx, f.owner, &dto.TaskFilterRequest{DueDate: "someday"}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("unknown window: expected ErrValidation, got %v", err)
	}
}

func TestListTasks_PriorityFilter(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	none := f.create(t, "no priority", nil)
	urgent := f.create(t, "urgent", func(r *dto.CreateTaskRequest) { r.Priority = dto.NewPriorityInput(models.PriorityUrgent) })
	low := f.create(t, "low", func(r *dto.CreateTaskRequest) { r.Priority = dto.NewPriorityInput(models.PriorityLow) })

	tests := []struct {
		filter string
		want   []*models.Task
	}{
		{"", []*models.Task{none, urgent, low}},
		{"all", []*models.Task{none, urgent, low}},
		{"none", []*models.Task{none}},
		{"urgent", []*models.Task{urgent}},
		{"Low", []*models.Task{low}},
	}

	for _, tt := range tests {
		t.Run("priority="+tt.filter, func(t *testing.T) {
			tasks, err := f.svc.ListTasks(ctx, f.owner, &dto.TaskFilterRequest{Priority: tt.filter})
			if err != nil {
				t.Fatalf("ListTasks: %v", err)
			}
			if len(tasks) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(tasks), len(tt.want))
			}
			got := ids(tasks)
			for _, w := range tt.want {
				if !got[w.ID] {
					t.Errorf("missing %q", w.Content)
				}
			}
		})
	}
}

func TestScoping(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	stranger := uuid.New()

	parent := f.create(t, "mine", nil)
	f.subtask(t, parent, "mine too")

	if _, err := f.svc.GetTask(ctx, stranger, parent.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("GetTask: expected ErrNotFound, got %v", err)
	}
	content := "hijacked"
	if _, err := f.svc.UpdateTask(ctx, stranger, parent.ID, &dto.UpdateTaskRequest{Content: &content}); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("UpdateTask: expected ErrNotFound, got %v", err)
	}
	if err := f.svc.DeleteTask(ctx, stranger, parent.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("DeleteTask: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.CompleteTask(ctx, stranger, parent.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("CompleteTask: expected ErrNotFound, got %v", err)
	}

	list, err := f.svc.ListTasks(ctx, stranger, &dto.TaskFilterRequest{})
	if err != nil || len(list) != 0 {
		t.Errorf("ListTasks(stranger) = %d tasks, %v; want none", len(list), err)
	}
	subs, err := f.svc.GetSubtasks(ctx, stranger, parent.ID)
	if err != nil || len(subs) != 0 {
		t.Errorf("GetSubtasks(stranger) = %d tasks, %v; want none", len(subs), err)
	}

	got, err := f.svc.GetTask(ctx, f.owner, parent.ID)
	if err != nil || got.Content != "mine" {
		t.Errorf("owner's task changed: %+v, %v", got, err)
	}
}

func TestUpdateTask_NullPriorityClears(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := f.create(t, "urgent thing", func(r *dto.CreateTaskRequest) {
		r.Priority = dto.NewPriorityInput(models.PriorityHigh)
	})

	tests := []struct {
		name string
		body string
		want models.Priority
	}{
		{"absent keeps", `{"content":"urgent thing"}`, models.PriorityHigh},
		{"null clears", `{"priority":null}`, models.PriorityNone},
		{"label sets", `{"priority":"low"}`, models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.UpdateTaskRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			updated, err := f.svc.UpdateTask(ctx, f.owner, task.ID, &req)
			if err != nil {
				t.Fatalf("UpdateTask: %v", err)
			}
			if updated.Priority != tt.want {
				t.Errorf("priority = %v, want %v", updated.Priority, tt.want)
			}
		})
	}
}

func TestUpdateTask_Partial(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	dueAt := fixedNow.Add(48 * time.Hour)
	task := f.create(t, "draft", func(r *dto.CreateTaskRequest) {
		r.Description = "keep me"
		r.DueDate = &dueAt
		r.Tags = []string{"a"}
	})

	var label dto.OptionalPriority
	if err := json.Unmarshal([]byte(`"medium"`), &label); err != nil {
		t.Fatalf("unmarshal priority: %v", err)
	}
	updated, err := f.svc.UpdateTask(ctx, f.owner, task.ID, &dto.UpdateTaskRequest{
		Priority: label,
		DueDate:  dto.SetTime(nil),
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Priority != models.PriorityMedium {
		t.Errorf("priority = %v, want medium", updated.Priority)
	}
	if updated.DueDate != nil {
		t.Errorf("dueDate = %v, want cleared", updated.DueDate)
	}
	if updated.Description != "keep me" || updated.Content != "draft" || len(updated.Tags) != 1 {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	blank := "  "
	if _, err := f.svc.UpdateTask(ctx, f.owner, task.ID, &dto.UpdateTaskRequest{Content: &blank}); !errors.Is(err, services.ErrValidation) {
		t.Errorf("blank content: expected ErrValidation, got %v", err)
	}
}

func TestDeleteTask_NoCascade(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	parent := f.create(t, "parent", nil)
	child := f.subtask(t, parent, "child")

	if err := f.svc.DeleteTask(ctx, f.owner, parent.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := f.svc.GetTask(ctx, f.owner, parent.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("parent still present: %v", err)
	}
	if _, err := f.svc.GetTask(ctx, f.owner, child.ID); err != nil {
		t.Errorf("child should survive its parent: %v", err)
	}
	if err := f.svc.DeleteTask(ctx, f.owner, parent.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSearchTasks(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	byContent := f.create(t, "Buy MILK", nil)
	byTag := f.create(t, "errands", func(r *dto.CreateTaskRequest) { r.Tags = []string{"Groceries"} })
	f.create(t, "unrelated", nil)

	empty, err := f.svc.SearchTasks(ctx, f.owner, "   ")
	if err != nil {
		t.Fatalf("SearchTasks(blank): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("blank query = %v, want empty non-nil slice", empty)
	}

	tests := []struct {
		query string
		want  *models.Task
	}{
		{"milk", byContent},
		{"grocer", byTag},
	}
	for _, tt := range tests {
		got, err := f.svc.SearchTasks(ctx, f.owner, tt.query)
		if err != nil {
			t.Fatalf("SearchTasks(%q): %v", tt.query, err)
		}
		if len(got) != 1 || got[0].ID != tt.want.ID {
			t.Errorf("SearchTasks(%q) = %v, want %q", tt.query, ids(got), tt.want.Content)
		}
	}
}

func TestObserverFailureDoesNotFailMutation(t *testing.T) {
	f := newTaskFixture(t)
	f.observer.err = errors.New("activity store down")

	task := f.create(t, "still works", nil)
	if _, err := f.svc.CompleteTask(context.Background(), f.owner, task.ID); err != nil {
		t.Fatalf("CompleteTask with failing observer: %v", err)
	}
	if err := f.svc.DeleteTask(context.Background(), f.owner, task.ID); err != nil {
		t.Fatalf("DeleteTask with failing observer: %v", err)
	}
	if n := len(f.observer.actions()); n != 3 {
		t.Errorf("observer saw %d events, want 3", n)
	}
}

type contextObserver struct {
	err         error
	hasDeadline bool
}

func (o *contextObserver) OnActivity(ctx context.Context, event *ports.ActivityEvent) error {
	o.err = ctx.Err()
	_, o.hasDeadline = ctx.Deadline()
	return nil
}

func TestEmit_SurvivesCancelledRequest(t *testing.T) {
	obs := &contextObserver{}
	e := activityEmitter{observer: obs}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.emit(ctx, uuid.New(), "task.created", "task", uuid.New(), fixedNow)

	if obs.err != nil {
		t.Errorf("observer saw cancelled context: %v", obs.err)
	}
	if !obs.hasDeadline {
		t.Error("observer context has no deadline")
	}
}
