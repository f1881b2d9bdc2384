package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleTask() *Task {
	due := NewDate(2025, time.March, 14)
	return &Task{
		ID:          7,
		Title:       "Buy milk",
		Description: "two litres",
		DueDate:     &due,
		Status:      StatusPending,
		Images:      []string{"a.png"},
	}
}

func TestApplySetsOnlyMentionedFields(t *testing.T) {
	orig := sampleTask()

	got, err := Changes{SetStatus(StatusCompleted)}.Apply(orig)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %v, want Completed", got.Status)
	}
	if got.Title != orig.Title || got.Description != orig.Description {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if !got.DueDate.Equal(*orig.DueDate) {
		t.Errorf("due date changed: %v", got.DueDate)
	}
	if orig.Status != StatusPending {
		t.Errorf("original mutated: %v", orig.Status)
	}
}

func TestApplyAllFields(t *testing.T) {
	due := NewDate(2030, time.January, 2)
	cs := Changes{
		SetTitle("Walk dog"),
		SetDescription("around the park"),
		SetDueDate(due),
		SetStatus(StatusInProgress),
		SetImages([]string{"x.jpg", "y.jpg"}),
	}

	got, err := cs.Apply(sampleTask())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("id = %d, want 7", got.ID)
	}
	if got.Title != "Walk dog" || got.Description != "around the park" {
		t.Errorf("text fields = %q / %q", got.Title, got.Description)
	}
	if got.DueDate == nil || got.DueDate.String() != "2030-01-02" {
		t.Errorf("due date = %v", got.DueDate)
	}
	if got.Status != StatusInProgress {
		t.Errorf("status = %v", got.Status)
	}
	if len(got.Images) != 2 || got.Images[1] != "y.jpg" {
		t.Errorf("images = %v", got.Images)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	cs := Changes{SetTitle("Read book"), SetStatus(StatusInProgress)}

	once, err := cs.Apply(sampleTask())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	twice, err := cs.Apply(once)
	if err != nil {
		t.Fatalf("apply twice: %v", err)
	}
	if once.Title != twice.Title || once.Status != twice.Status || once.Description != twice.Description {
		t.Errorf("second apply changed the record: %+v vs %+v", once, twice)
	}
}

func TestApplyRejectsWholeUpdate(t *testing.T) {
	tests := []struct {
		name    string
		changes Changes
		field   string
	}{
		{"blank title", Changes{SetStatus(StatusCompleted), SetTitle("   ")}, "title"},
		{"long title", Changes{SetTitle(strings.Repeat("a", 101))}, "title"},
		{"long description", Changes{SetDescription(strings.Repeat("d", 1001))}, "description"},
		{"bad status", Changes{SetStatus(Status(42))}, "status"},
		{"zero date", Changes{SetDueDate(Date{})}, "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := sampleTask()
			got, err := tt.changes.Apply(orig)
			if got != nil {
				t.Fatalf("expected no result, got %+v", got)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
			if orig.Status != StatusPending || orig.Title != "Buy milk" {
				t.Errorf("original mutated: %+v", orig)
			}
		})
	}
}

func TestApplyRejectsUnknownField(t *testing.T) {
	_, err := Changes{SetTitle("ok"), {}}.Apply(sampleTask())
	var fe *InvalidFieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected InvalidFieldError, got %v", err)
	}
}

func TestApplyLastChangeWins(t *testing.T) {
	got, err := Changes{SetTitle("first"), SetTitle("second")}.Apply(sampleTask())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Title != "second" {
		t.Errorf("title = %q, want second", got.Title)
	}
}

func TestSetImagesCopiesInput(t *testing.T) {
	images := []string{"a"}
	c := SetImages(images)
	images[0] = "b"

	got, err := Changes{c}.Apply(sampleTask())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Images[0] != "a" {
		t.Errorf("images = %v, want [a]", got.Images)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields() {
		got, err := ParseField(f.String())
		if err != nil || got != f {
			t.Errorf("ParseField(%q) = %v, %v", f.String(), got, err)
		}
	}

	for _, name := range []string{"id", "Title", "position", ""} {
		_, err := ParseField(name)
		var fe *InvalidFieldError
		if !errors.As(err, &fe) {
			t.Errorf("ParseField(%q): expected InvalidFieldError, got %v", name, err)
		}
	}

	_, err := ParseField("id")
	if !strings.Contains(err.Error(), "immutable") {
		t.Errorf("id error = %q", err)
	}
}

func TestChangesFields(t *testing.T) {
	cs := Changes{SetStatus(StatusCompleted), SetTitle("a"), SetStatus(StatusPending)}
	got := cs.Fields()
	if len(got) != 2 || got[0] != FieldStatus || got[1] != FieldTitle {
		t.Errorf("Fields() = %v", got)
	}
}
