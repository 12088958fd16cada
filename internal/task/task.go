// Package task defines the task record and its file-backed store.
package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the timestamp format used in tasks.json.
// Existing files use DD/MM/YYYY HH:MM:SS in local time, so the
// format is part of the storage contract.
const TimeLayout = "02/01/2006 15:04:05"

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// ParseStatus validates a user-supplied status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status %q, must be one of: todo, in-progress, done", s)
	}
}

// Timestamp wraps time.Time with the tasks.json wire format.
type Timestamp struct {
	time.Time
}

// Now returns the current local time truncated to second precision,
// matching what the file format can represent.
func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Second)}
}

// String renders the timestamp in the storage layout.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimeLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Task represents a single tracked unit of work.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}
