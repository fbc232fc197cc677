package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/identity"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/shared/valueobject"
	"github.com/residency/backend/internal/domain/task"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TaskService provides application-level task operations
type TaskService struct {
	taskRepo task.Repository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo task.Repository, userRepo identity.UserRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title         string          `json:"title" binding:"required,max=100"`
	Description   string          `json:"description" binding:"max=500"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
}

// AssignTaskRequest represents a request to assign a task
type AssignTaskRequest struct {
	AssigneeID uuid.UUID `json:"assigneeId" binding:"required"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	AssignedTo    *uuid.UUID      `json:"assignedTo,omitempty"`
	AssignedBy    *uuid.UUID      `json:"assignedBy,omitempty"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	PaymentID     *uuid.UUID      `json:"paymentId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CreateTask creates a new pending task
func (s *TaskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	t, err := task.NewTask(req.Title, req.Description, valueobject.NewMoneyUSD(req.PaymentAmount))
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("task created", zap.String("task_id", t.ID.String()))
	return toTaskResponse(t), nil
}

// AssignTask assigns a task to an existing user
func (s *TaskService) AssignTask(ctx context.Context, taskID, assignerID uuid.UUID, req AssignTaskRequest) (*TaskResponse, error) {
	assignee, err := s.userRepo.FindByID(ctx, req.AssigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Assignee not found")
	}

	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
	}

	if err := t.Assign(assignee.ID, assignerID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}

	return toTaskResponse(t), nil
}

// CompleteTask marks a task as completed
func (s *TaskService) CompleteTask(ctx context.Context, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
	}

	if err := t.Complete(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("task completed", zap.String("task_id", t.ID.String()))
	return toTaskResponse(t), nil
}

// GetTask returns a single task
func (s *TaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Task not found")
	}
	return toTaskResponse(t), nil
}

func toTaskResponse(t *task.Task) *TaskResponse {
	return &TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status.String(),
		AssignedTo:    t.AssignedTo,
		AssignedBy:    t.AssignedBy,
		PaymentAmount: t.PaymentAmount,
		PaymentID:     t.PaymentID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
