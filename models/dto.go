package models

import "strings"

// TaskItemDTO is the wire form of a task.
type TaskItemDTO struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     *string  `json:"dueDate"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`
}

func FromEntity(t *Task) TaskItemDTO {
	dto := TaskItemDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		Images:      t.Images,
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if t.DueDate != nil {
		s := t.DueDate.String()
		dto.DueDate = &s
	}
	return dto
}

func FromEntities(tasks []Task) []TaskItemDTO {
	out := make([]TaskItemDTO, 0, len(tasks))
	for i := range tasks {
		out = append(out, FromEntity(&tasks[i]))
	}
	return out
}

// TaskItemCreateDTO is the body of a create request.
type TaskItemCreateDTO struct {
	Title       string   `json:"title" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=1000"`
	DueDate     *Date    `json:"dueDate"`
	Status      *Status  `json:"status"`
	Images      []string `json:"images"`
}

// Task builds a new, unsaved task from the request. Status defaults to Pending.
func (d TaskItemCreateDTO) Task() (*Task, error) {
	t := &Task{
		Title:       d.Title,
		Description: d.Description,
		Status:      StatusPending,
		Images:      []string{},
	}
	if d.Status != nil {
		t.Status = *d.Status
	}
	if d.DueDate != nil {
		due := *d.DueDate
		t.DueDate = &due
	}
	if d.Images != nil {
		t.Images = append(t.Images, d.Images...)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// TaskItemUpdateDTO is the body of a partial update. Nil fields were not supplied.
type TaskItemUpdateDTO struct {
	Title       *string  `json:"title" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	DueDate     *Date    `json:"dueDate"`
	Status      *Status  `json:"status"`
	Images      []string `json:"images"`
}

// Changes returns one change per supplied field. A blank description counts as
// not supplied; a blank title is kept so that Apply rejects it.
func (d TaskItemUpdateDTO) Changes() Changes {
	var cs Changes
	if d.Title != nil {
		cs = append(cs, SetTitle(*d.Title))
	}
	if d.Description != nil && strings.TrimSpace(*d.Description) != "" {
		cs = append(cs, SetDescription(*d.Description))
	}
	if d.Status != nil {
		cs = append(cs, SetStatus(*d.Status))
	}
	if d.DueDate != nil {
		cs = append(cs, SetDueDate(*d.DueDate))
	}
	if d.Images != nil {
		cs = append(cs, SetImages(d.Images))
	}
	return cs
}
