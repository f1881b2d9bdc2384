package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
)

// Task is a single task item on the board.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *Date     `json:"dueDate"`
	Status      Status    `json:"status"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	cp.Images = make([]string, len(t.Images))
	copy(cp.Images, t.Images)
	return &cp
}

// Validate checks the record invariants that hold after every create or update.
func (t *Task) Validate() error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Message: "Invalid status value."}
	}
	if t.DueDate != nil {
		if err := validateDueDate(*t.DueDate); err != nil {
			return err
		}
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required."}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: "Title must not exceed 100 characters."}
	}
	return nil
}

func validateDueDate(d Date) error {
	if d.IsZero() {
		return &ValidationError{Field: "dueDate", Message: "Please enter a valid date in the format YYYY-MM-DD."}
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: "Description must not exceed 1000 characters."}
	}
	return nil
}
