// Package task mediates every task read and write through an ownership
// check: a task is only visible to, and editable by, its owning user.
package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskvault/backend/domain"
	"github.com/taskvault/backend/repository"
)

// Patch carries a partial task update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Done        *bool
	DueDate     *time.Time
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// ListTasks returns the tasks owned by the given user. No tasks is an
// empty result, not an error.
func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, filter)
}

// GetOwned fetches a task after checking ownership. A missing id yields
// NotFound; an existing task owned by someone else yields Forbidden. The
// split intentionally reveals task existence to non-owners.
func (uc *UseCase) GetOwned(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(userID) {
		return nil, domain.ErrTaskForbidden
	}
	return task, nil
}

// EditOwned applies a partial update to a task after the same existence and
// ownership checks as GetOwned, except that a non-owner is told the task
// cannot be edited rather than read. Fields absent from the patch keep
// their stored values.
func (uc *UseCase) EditOwned(ctx context.Context, taskID string, patch Patch, userID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.OwnedBy(userID) {
		return nil, domain.ErrTaskEditForbidden
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Done != nil {
		task.Done = *patch.Done
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Create stores a new task for the given owner. The owner id is fixed here
// and never changes afterwards.
func (uc *UseCase) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task created",
		zap.String("task_id", created.ID),
		zap.String("owner_id", created.OwnerID))
	return created, nil
}
