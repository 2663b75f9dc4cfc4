package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a task. Only the values listed in Categories are valid.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryStudy, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryStudy, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Description *string    `gorm:"type:text" json:"description"`
	IsCompleted bool       `gorm:"not null" json:"is_completed"`
	DueDate     *time.Time `json:"due_date"`
	Category    Category   `gorm:"size:20;not null" json:"category" validate:"task_category"`
}

func (Task) TableName() string {
	return "tasks"
}

// NewTask returns a task with a fresh id and every field at its default.
func NewTask() *Task {
	return &Task{
		ID:       uuid.New(),
		Category: CategoryPersonal,
	}
}

func (t *Task) String() string {
	return t.Title
}
