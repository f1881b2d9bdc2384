package models

import (
	"fmt"
	"strings"
)

// Status is the position of a task on the board.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
)

var statusNames = [...]string{
	StatusPending:    "Pending",
	StatusInProgress: "InProgress",
	StatusCompleted:  "Completed",
}

// Statuses lists every status in board order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Next returns the status that follows s on the board, wrapping back to Pending.
func (s Status) Next() Status {
	if s >= StatusCompleted || !s.Valid() {
		return StatusPending
	}
	return s + 1
}

// ParseStatus resolves a status name. Matching ignores case, spaces,
// underscores and hyphens, so "in progress" and "in_progress" both resolve
// to InProgress.
func ParseStatus(name string) (Status, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, name)
	for i, n := range statusNames {
		if strings.EqualFold(key, n) {
			return Status(i), nil
		}
	}
	return 0, &ValidationError{Field: "status", Message: "Invalid status value."}
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
