package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"taskhub/domain/models"
	"time"
)

// PriorityInput accepts either a label ("high") or an integer (3) on the
// wire and always encodes as an integer.
type PriorityInput models.Priority

func NewPriorityInput(p models.Priority) *PriorityInput {
	in := PriorityInput(p)
	return &in
}

func (p PriorityInput) Value() models.Priority {
	return models.PriorityFromInt(int(p))
}

func (p PriorityInput) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(p.Value()))), nil
}

func (p *PriorityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = PriorityInput(models.PriorityNone)
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*p = PriorityInput(models.ParsePriority(label))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("priority must be a label or an integer: %w", err)
	}
	*p = PriorityInput(models.PriorityFromInt(n))
	return nil
}

// OptionalPriority distinguishes an absent priority (Set=false) from an
// explicit null (Set=true, Value=PriorityNone), which clears it.
type OptionalPriority struct {
	Set   bool
	Value models.Priority
}

func SetPriority(p models.Priority) OptionalPriority {
	return OptionalPriority{Set: true, Value: models.PriorityFromInt(int(p))}
}

func (o OptionalPriority) IsZero() bool {
	return !o.Set
}

func (o OptionalPriority) MarshalJSON() ([]byte, error) {
	if !o.Value.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(o.Value))), nil
}

func (o *OptionalPriority) UnmarshalJSON(data []byte) error {
	var in PriorityInput
	if err := in.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Set = true
	o.Value = in.Value()
	return nil
}

// OptionalTime distinguishes an absent field (Set=false) from an explicit
// null (Set=true, Time=nil) in partial updates.
type OptionalTime struct {
	Set  bool
	Time *time.Time
}

func SetTime(t *time.Time) OptionalTime {
	return OptionalTime{Set: true, Time: t}
}

func (o OptionalTime) IsZero() bool {
	return !o.Set
}

func (o OptionalTime) MarshalJSON() ([]byte, error) {
	if o.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Time)
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Time = &t
	return nil
}
