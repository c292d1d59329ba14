package models

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
	}{
		{"low", PriorityLow},
		{"Medium", PriorityMedium},
		{" HIGH ", PriorityHigh},
		{"urgent", PriorityUrgent},
		{"3", PriorityHigh},
		{"none", PriorityNone},
		{"", PriorityNone},
		{"critical", PriorityNone},
		{"9", PriorityNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParsePriority(tt.input); got != tt.want {
				t.Errorf("ParsePriority(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriorityWireForm(t *testing.T) {
	if PriorityNone.Int() != nil {
		t.Error("PriorityNone should encode as null")
	}
	if got := Priority(7).Int(); got != nil {
		t.Errorf("out-of-range priority encoded as %d, want null", *got)
	}
	if got := PriorityUrgent.Int(); got == nil || *got != 4 {
		t.Errorf("PriorityUrgent.Int() = %v, want 4", got)
	}
	if got := PriorityFromInt(-1); got != PriorityNone {
		t.Errorf("PriorityFromInt(-1) = %v, want none", got)
	}
	if got := Priority(0).Label(); got != "none" {
		t.Errorf("label = %q, want none", got)
	}
}

func TestNewCompletionStats(t *testing.T) {
	tests := []struct {
		total, completed, want int
	}{
		{0, 0, 0},
		{3, 1, 33},
		{3, 2, 67},
		{2, 1, 50},
		{8, 1, 13}, // 12.5 rounds half up
		{4, 4, 100},
	}
	for _, tt := range tests {
		got := NewCompletionStats(tt.total, tt.completed)
		if got.Percentage != tt.want {
			t.Errorf("NewCompletionStats(%d, %d).Percentage = %d, want %d", tt.total, tt.completed, got.Percentage, tt.want)
		}
	}
}
