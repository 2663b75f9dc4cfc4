package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidDateTime is returned when a due date is not a string in one of
// the accepted layouts.
var ErrInvalidDateTime = errors.New("invalid datetime")

// dateTimeLayouts are tried in order. Layouts without an offset are read as
// UTC, and a bare date means midnight.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDateTime parses an ISO 8601 datetime or date.
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// Nullable tracks whether a JSON key was present at all, separately from
// whether it carried null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a Nullable that is present and explicitly null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Some returns a Nullable that is present with value v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// IsNull reports whether the key was present and null.
func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

// Present reports whether the key was present with a value.
func (n Nullable[T]) Present() bool {
	return n.Set && n.Value != nil
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if tp, ok := any(&v).(*time.Time); ok {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidDateTime
		}
		t, err := parseDateTime(s)
		if err != nil {
			return err
		}
		*tp = t
	} else if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// TaskFields is the set of client-writable task fields. An unset Nullable
// means the field was not supplied.
type TaskFields struct {
	Title       Nullable[string]    `json:"title"`
	Description Nullable[string]    `json:"description"`
	IsCompleted Nullable[bool]      `json:"is_completed"`
	DueDate     Nullable[time.Time] `json:"due_date"`
	Category    Nullable[Category]  `json:"category"`
}

// Empty reports whether no field was supplied.
func (f TaskFields) Empty() bool {
	return !f.Title.Set && !f.Description.Set && !f.IsCompleted.Set &&
		!f.DueDate.Set && !f.Category.Set
}

// ApplyTo overwrites the supplied fields on t. Nulls on non-nullable fields
// are skipped; Validate reports them.
func (f TaskFields) ApplyTo(t *Task) {
	if f.Title.Present() {
		t.Title = *f.Title.Value
	}
	if f.Description.Set {
		t.Description = f.Description.Value
	}
	if f.IsCompleted.Present() {
		t.IsCompleted = *f.IsCompleted.Value
	}
	if f.DueDate.Set {
		t.DueDate = f.DueDate.Value
	}
	if f.Category.Present() {
		t.Category = *f.Category.Value
	}
}

// Columns maps the supplied fields to their column values.
func (f TaskFields) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if f.Title.Present() {
		cols["title"] = *f.Title.Value
	}
	if f.Description.Set {
		cols["description"] = f.Description.Value
	}
	if f.IsCompleted.Present() {
		cols["is_completed"] = *f.IsCompleted.Value
	}
	if f.DueDate.Set {
		cols["due_date"] = f.DueDate.Value
	}
	if f.Category.Present() {
		cols["category"] = string(*f.Category.Value)
	}
	return cols
}

// structFields names the supplied, non-null fields as Task struct field
// names.
func (f TaskFields) structFields() []string {
	var names []string
	if f.Title.Present() {
		names = append(names, "Title")
	}
	if f.Description.Set {
		names = append(names, "Description")
	}
	if f.IsCompleted.Present() {
		names = append(names, "IsCompleted")
	}
	if f.DueDate.Set {
		names = append(names, "DueDate")
	}
	if f.Category.Present() {
		names = append(names, "Category")
	}
	return names
}

// nullFields names the non-nullable fields that were sent as null, by JSON
// name.
func (f TaskFields) nullFields() []string {
	var names []string
	if f.Title.IsNull() {
		names = append(names, "title")
	}
	if f.IsCompleted.IsNull() {
		names = append(names, "is_completed")
	}
	if f.Category.IsNull() {
		names = append(names, "category")
	}
	return names
}

// Normalized returns a copy with the title trimmed and the due date in UTC
// at microsecond precision, which is what the database keeps.
func (f TaskFields) Normalized() TaskFields {
	if f.Title.Value != nil {
		f.Title = Some(strings.TrimSpace(*f.Title.Value))
	}
	if f.DueDate.Value != nil {
		f.DueDate = Some(f.DueDate.Value.UTC().Truncate(time.Microsecond))
	}
	return f
}
