package task

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for tasks
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByIDAndStatus(ctx context.Context, id uuid.UUID, status Status) (*Task, error)
	Save(ctx context.Context, task *Task) error
	// SaveWithLock saves the task with an optimistic version check
	SaveWithLock(ctx context.Context, task *Task) error
}
