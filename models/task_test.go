package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"Pending", StatusPending},
		{"pending", StatusPending},
		{"InProgress", StatusInProgress},
		{"in progress", StatusInProgress},
		{"in_progress", StatusInProgress},
		{"COMPLETED", StatusCompleted},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseStatus("Archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStatusNext(t *testing.T) {
	if StatusPending.Next() != StatusInProgress {
		t.Error("Pending should advance to InProgress")
	}
	if StatusInProgress.Next() != StatusCompleted {
		t.Error("InProgress should advance to Completed")
	}
	if StatusCompleted.Next() != StatusPending {
		t.Error("Completed should wrap to Pending")
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		S Status `json:"s"`
	}{StatusInProgress})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"s":"InProgress"}` {
		t.Errorf("got %s", data)
	}

	var v struct {
		S Status `json:"s"`
	}
	err = json.Unmarshal([]byte(`{"s":"Bogus"}`), &v)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-31")
	if err != nil {
		t.Fatalf("parse short date: %v", err)
	}
	if d.String() != "2025-12-31" {
		t.Errorf("got %s", d)
	}

	d, err = ParseDate("2025-06-01T18:30:00Z")
	if err != nil {
		t.Fatalf("parse RFC 3339: %v", err)
	}
	if !d.Equal(NewDate(2025, time.June, 1)) {
		t.Errorf("got %s", d)
	}

	if _, err := ParseDate("31/12/2025"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleTask()
	cp := orig.Clone()
	cp.Images[0] = "changed"
	*cp.DueDate = NewDate(1999, time.January, 1)

	if orig.Images[0] != "a.png" {
		t.Errorf("images shared: %v", orig.Images)
	}
	if orig.DueDate.String() != "2025-03-14" {
		t.Errorf("due date shared: %v", orig.DueDate)
	}
}

func TestCreateDTOTask(t *testing.T) {
	task, err := TaskItemCreateDTO{Title: "Buy milk"}.Task()
	if err != nil {
		t.Fatalf("Task(): %v", err)
	}
	if task.Status != StatusPending {
		t.Errorf("status = %v, want Pending", task.Status)
	}
	if task.Images == nil || len(task.Images) != 0 {
		t.Errorf("images = %#v, want empty", task.Images)
	}

	if _, err := (TaskItemCreateDTO{Title: "  "}).Task(); err == nil {
		t.Error("expected error for blank title")
	}
	if _, err := (TaskItemCreateDTO{Title: "ok", Description: strings.Repeat("x", 1001)}).Task(); err == nil {
		t.Error("expected error for long description")
	}
	if _, err := (TaskItemCreateDTO{Title: "ok", DueDate: &Date{}}).Task(); err == nil {
		t.Error("expected error for zero due date")
	}
}

func TestUpdateDTOChangesOnlySuppliedFields(t *testing.T) {
	title := "New"
	blank := "  "
	status := StatusCompleted

	cs := TaskItemUpdateDTO{Title: &title, Description: &blank, Status: &status}.Changes()
	fields := cs.Fields()
	if len(fields) != 2 || fields[0] != FieldTitle || fields[1] != FieldStatus {
		t.Errorf("fields = %v", fields)
	}

	if got := (TaskItemUpdateDTO{}).Changes(); len(got) != 0 {
		t.Errorf("empty DTO produced %d changes", len(got))
	}
}

func TestFromEntity(t *testing.T) {
	dto := FromEntity(sampleTask())
	if dto.Status != "Pending" {
		t.Errorf("status = %q", dto.Status)
	}
	if dto.DueDate == nil || *dto.DueDate != "2025-03-14" {
		t.Errorf("due date = %v", dto.DueDate)
	}

	dto = FromEntity(&Task{ID: 1, Title: "x"})
	if dto.DueDate != nil {
		t.Errorf("due date = %v, want nil", *dto.DueDate)
	}
	if dto.Images == nil {
		t.Error("images should be an empty list, not nil")
	}
}
