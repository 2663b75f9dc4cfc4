package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todo/internal/model"
	"todo/internal/repository"
)

// TaskCache is the subset of Cache used by TaskStore.
type TaskCache interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Set(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskStore reads single tasks through the cache and invalidates on writes.
// Cache failures are logged and never fail the call.
type TaskStore struct {
	next  repository.TaskStore
	cache TaskCache
	log   zerolog.Logger
}

var _ repository.TaskStore = (*TaskStore)(nil)

func NewTaskStore(next repository.TaskStore, cache TaskCache, log zerolog.Logger) *TaskStore {
	return &TaskStore{next: next, cache: cache, log: log}
}

func (s *TaskStore) Create(ctx context.Context, fields model.TaskFields) (*model.Task, error) {
	return s.next.Create(ctx, fields)
}

func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Stringer("task_id", id).Msg("cache read failed")
	} else if task != nil {
		return task, nil
	}

	task, err = s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, task); err != nil {
		s.log.Warn().Err(err).Stringer("task_id", id).Msg("cache write failed")
	}
	return task, nil
}

func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	return s.next.List(ctx)
}

func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, fields model.TaskFields) (*model.Task, error) {
	task, err := s.next.Update(ctx, id, fields)
	if err == nil && !fields.Empty() {
		s.invalidate(ctx, id)
	}
	return task, err
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.next.Delete(ctx, id)
	if err == nil {
		s.invalidate(ctx, id)
	}
	return err
}

func (s *TaskStore) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Stringer("task_id", id).Msg("cache invalidation failed")
	}
}
