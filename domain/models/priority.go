package models

import (
	"strconv"
	"strings"
)

// Priority is the stored task priority. The zero value means "no priority".
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

var priorityLabels = map[Priority]string{
	PriorityNone:   "none",
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

// ParsePriority maps a human label ("low", "High", " urgent ") or a numeric
// string ("1".."4") to a Priority. Anything unrecognised is PriorityNone.
func ParsePriority(label string) Priority {
	label = strings.ToLower(strings.TrimSpace(label))
	for p, l := range priorityLabels {
		if l == label {
			return p
		}
	}
	if n, err := strconv.Atoi(label); err == nil {
		return PriorityFromInt(n)
	}
	return PriorityNone
}

// PriorityFromInt converts a stored integer, clamping out-of-range values to PriorityNone.
func PriorityFromInt(n int) Priority {
	p := Priority(n)
	if !p.Valid() {
		return PriorityNone
	}
	return p
}

// Valid reports whether p is one of Low..Urgent.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// Label returns the human label, "none" for anything outside Low..Urgent.
func (p Priority) Label() string {
	if !p.Valid() {
		return priorityLabels[PriorityNone]
	}
	return priorityLabels[p]
}

// Int returns the wire form: nil when there is no priority.
func (p Priority) Int() *int {
	if !p.Valid() {
		return nil
	}
	n := int(p)
	return &n
}

func (p Priority) String() string {
	return p.Label()
}
