package models

import "fmt"

// Field names a writable task field. The set is closed; id is not a member.
type Field int

const (
	FieldTitle Field = iota + 1
	FieldDescription
	FieldDueDate
	FieldStatus
	FieldImages
)

var fieldNames = map[Field]string{
	FieldTitle:       "title",
	FieldDescription: "description",
	FieldDueDate:     "dueDate",
	FieldStatus:      "status",
	FieldImages:      "images",
}

// Fields lists every writable field.
func Fields() []Field {
	return []Field{FieldTitle, FieldDescription, FieldDueDate, FieldStatus, FieldImages}
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField resolves a wire field name. Matching is exact.
func ParseField(name string) (Field, error) {
	if name == "id" {
		return 0, &InvalidFieldError{Field: name, Reason: ReasonImmutable}
	}
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, &InvalidFieldError{Field: name, Reason: ReasonUnknown}
}

// Change is one entry of an update: a field together with its new value.
// Only the value matching the field is meaningful.
type Change struct {
	field  Field
	text   string
	date   Date
	status Status
	images []string
}

func SetTitle(title string) Change {
	return Change{field: FieldTitle, text: title}
}

func SetDescription(description string) Change {
	return Change{field: FieldDescription, text: description}
}

func SetDueDate(d Date) Change {
	return Change{field: FieldDueDate, date: d}
}

func SetStatus(s Status) Change {
	return Change{field: FieldStatus, status: s}
}

func SetImages(images []string) Change {
	cp := make([]string, len(images))
	copy(cp, images)
	return Change{field: FieldImages, images: cp}
}

func (c Change) Field() Field { return c.field }

// Changes is a sparse update of a task. Later entries for the same field win.
type Changes []Change

// Fields returns the fields touched by cs in order of first appearance.
func (cs Changes) Fields() []Field {
	seen := make(map[Field]bool, len(cs))
	var out []Field
	for _, c := range cs {
		if !seen[c.field] {
			seen[c.field] = true
			out = append(out, c.field)
		}
	}
	return out
}

// Apply validates every change and returns a copy of t with all of them
// applied. On error t is untouched and no partial copy is returned.
func (cs Changes) Apply(t *Task) (*Task, error) {
	out := t.Clone()
	for _, c := range cs {
		switch c.field {
		case FieldTitle:
			if err := validateTitle(c.text); err != nil {
				return nil, err
			}
			out.Title = c.text
		case FieldDescription:
			if err := validateDescription(c.text); err != nil {
				return nil, err
			}
			out.Description = c.text
		case FieldDueDate:
			if err := validateDueDate(c.date); err != nil {
				return nil, err
			}
			d := c.date
			out.DueDate = &d
		case FieldStatus:
			if !c.status.Valid() {
				return nil, &ValidationError{Field: "status", Message: "Invalid status value."}
			}
			out.Status = c.status
		case FieldImages:
			out.Images = make([]string, len(c.images))
			copy(out.Images, c.images)
		default:
			return nil, &InvalidFieldError{Field: c.field.String(), Reason: ReasonUnknown}
		}
	}
	return out, nil
}
