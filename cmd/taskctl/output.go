package main

import (
	"fmt"
	"strings"
	"taskhub/domain/dto"
	"taskhub/pkg/syncclient"
	"time"
)

func printResponses(tasks []dto.TaskResponse) {
	if len(tasks) == 0 {
		fmt.Println("(no tasks)")
		return
	}
	for i := range tasks {
		printTask(syncclient.FromResponse(&tasks[i]))
	}
}

func printTask(t syncclient.Task) {
	check := " "
	if t.IsCompleted {
		check = "x"
	}

	var extra []string
	if t.Priority.Valid() {
		extra = append(extra, t.Priority.Label())
	}
	if t.DueDate != nil {
		extra = append(extra, "due "+t.DueDate.Format("2006-01-02"))
	}
	if len(t.Tags) > 0 {
		extra = append(extra, "#"+strings.Join(t.Tags, " #"))
	}
	if t.SubtaskCount > 0 {
		extra = append(extra, fmt.Sprintf("%d subtasks", t.SubtaskCount))
	}

	line := fmt.Sprintf("[%s] %s  %s", check, t.ID, t.Content)
	if len(extra) > 0 {
		line += "  (" + strings.Join(extra, ", ") + ")"
	}
	fmt.Println(line)
}

// parseDue accepts a date, an RFC3339 timestamp, or "" for no due date.
// Bare dates are taken as midnight UTC.
func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD or RFC3339)", s)
	}
	return &t, nil
}
