package syncclient

// TaskList is an ordered, copy-on-write container of tasks keyed by id.
// Every mutation swaps in a fresh backing slice, so a slice captured
// earlier stays valid and can be restored wholesale. The version grows by
// one per mutation.
//
// TaskList is not safe for concurrent use; Client guards it.
type TaskList struct {
	items   []Task
	version uint64
}

// listState is a captured (items, version) pair used for rollback.
type listState struct {
	items   []Task
	version uint64
}

func NewTaskList(tasks []Task) *TaskList {
	l := &TaskList{}
	l.items = cloneTasks(tasks)
	return l
}

func (l *TaskList) Len() int {
	return len(l.items)
}

func (l *TaskList) Version() uint64 {
	return l.version
}

// Snapshot returns a deep copy of the current contents in order.
func (l *TaskList) Snapshot() []Task {
	return cloneTasks(l.items)
}

// Index returns the position of id, or -1.
func (l *TaskList) Index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *TaskList) Get(id string) (Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.items[i].Clone(), true
}

// Replace overwrites the entry with the given id in place. The replacement
// may carry a different id (temp id swapped for the server id).
func (l *TaskList) Replace(id string, task Task) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	next := make([]Task, len(l.items))
	copy(next, l.items)
	next[i] = task.Clone()
	l.commit(next)
	return true
}

// Insert places task at position at, clamped to [0, Len].
func (l *TaskList) Insert(at int, task Task) {
	at = max(0, min(at, len(l.items)))
	next := make([]Task, 0, len(l.items)+1)
	next = append(next, l.items[:at]...)
	next = append(next, task.Clone())
	next = append(next, l.items[at:]...)
	l.commit(next)
}

func (l *TaskList) Prepend(task Task) {
	l.Insert(0, task)
}

// Remove deletes the entry with the given id and returns it with its former
// position.
func (l *TaskList) Remove(id string) (Task, int, bool) {
	i := l.Index(id)
	if i < 0 {
		return Task{}, -1, false
	}
	removed := l.items[i]
	next := make([]Task, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)
	l.commit(next)
	return removed, i, true
}

// Reset replaces the whole contents, e.g. after a fresh load.
func (l *TaskList) Reset(tasks []Task) {
	l.commit(cloneTasks(tasks))
}

func (l *TaskList) mark() listState {
	return listState{items: l.items, version: l.version}
}

// restore puts back a captured state. It counts as a mutation of its own.
func (l *TaskList) restore(s listState) {
	l.commit(s.items)
}

func (l *TaskList) commit(items []Task) {
	l.items = items
	l.version++
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
