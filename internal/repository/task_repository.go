package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo/internal/model"
)

// TaskStore is the persistence contract for tasks.
type TaskStore interface {
	Create(ctx context.Context, fields model.TaskFields) (*model.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id uuid.UUID, fields model.TaskFields) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create validates the fields, assigns a new id and inserts the task
func (r *TaskRepository) Create(ctx context.Context, fields model.TaskFields) (*model.Task, error) {
	fields = fields.Normalized()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	task := model.NewTask()
	fields.ApplyTo(task)
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, wrap("create task", err)
	}
	return task, nil
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, wrap("get task", result.Error)
	}
	return &task, nil
}

// List retrieves every task
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

// Update writes only the supplied fields in a single statement and returns
// the stored task.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, fields model.TaskFields) (*model.Task, error) {
	fields = fields.Normalized()
	if err := fields.Validate(); err != nil {
		// a missing task takes precedence over bad input
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, err
	}
	if fields.Empty() {
		return r.GetByID(ctx, id)
	}

	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields.Columns())
	if result.Error != nil {
		return nil, wrap("update task", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return wrap("delete task", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
