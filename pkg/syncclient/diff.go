package syncclient

import (
	"slices"
	"taskhub/domain/dto"
	"time"
)

// Diff returns a patch holding only the mutable fields whose value differs
// between current and draft. Identity, ownership, hierarchy and timestamps
// are never part of it.
func Diff(current, draft Task) dto.UpdateTaskRequest {
	var patch dto.UpdateTaskRequest

	if draft.Content != current.Content {
		content := draft.Content
		patch.Content = &content
	}
	if draft.Description != current.Description {
		description := draft.Description
		patch.Description = &description
	}
	if draft.Priority.Label() != current.Priority.Label() {
		patch.Priority = dto.SetPriority(draft.Priority)
	}
	if !sameTime(draft.DueDate, current.DueDate) {
		patch.DueDate = dto.SetTime(draft.DueDate)
	}
	if !slices.Equal(draft.Tags, current.Tags) {
		tags := slices.Clone(draft.Tags)
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}
	if draft.Order != current.Order {
		order := draft.Order
		patch.Order = &order
	}
	if draft.IsCompleted != current.IsCompleted {
		completed := draft.IsCompleted
		patch.IsCompleted = &completed
	}

	return patch
}

// ApplyPatch returns a copy of task with the patch's present fields applied.
func ApplyPatch(task Task, patch *dto.UpdateTaskRequest) Task {
	out := task.Clone()
	if patch.Content != nil {
		out.Content = *patch.Content
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Priority.Set {
		out.Priority = patch.Priority.Value
	}
	if patch.DueDate.Set {
		out.DueDate = nil
		if patch.DueDate.Time != nil {
			d := *patch.DueDate.Time
			out.DueDate = &d
		}
	}
	if patch.Tags != nil {
		out.Tags = slices.Clone(*patch.Tags)
	}
	if patch.Order != nil {
		out.Order = *patch.Order
	}
	if patch.IsCompleted != nil {
		out.IsCompleted = *patch.IsCompleted
	}
	return out
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
