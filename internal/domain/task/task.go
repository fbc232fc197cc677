package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a task
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Task represents a chore assigned to a resident or guest worker.
// A completed task can be paid out through exactly one expense payment.
type Task struct {
	shared.BaseAggregateRoot
	Title         string
	Description   string
	Status        Status
	AssignedTo    *uuid.UUID
	AssignedBy    *uuid.UUID
	PaymentAmount decimal.Decimal
	PaymentID     *uuid.UUID
}

// NewTask creates a new task in PENDING status
func NewTask(title, description string, paymentAmount valueobject.Money) (*Task, error) {
	if title == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Title cannot be empty")
	}
	if len(title) > 100 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Title cannot exceed 100 characters")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Description cannot exceed 500 characters")
	}
	if paymentAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount cannot be negative")
	}

	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Description:       description,
		Status:            StatusPending,
		PaymentAmount:     paymentAmount.Amount(),
	}, nil
}

// Assign assigns the task to a user
func (t *Task) Assign(assignee, assigner uuid.UUID) error {
	if t.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a completed task")
	}
	if assignee == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Assignee user ID cannot be empty")
	}

	t.AssignedTo = &assignee
	t.AssignedBy = &assigner
	t.Status = StatusInProgress
	t.UpdatedAt = time.Now()
	return nil
}

// Complete marks the task as completed
func (t *Task) Complete() error {
	if t.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Task is already completed")
	}
	t.Status = StatusCompleted
	t.UpdatedAt = time.Now()
	return nil
}

// IsCompleted returns true once the task has been completed
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasPayment returns true if an expense payment is already linked
func (t *Task) HasPayment() bool {
	return t.PaymentID != nil
}

// LinkPayment attaches the expense payment that settles this task.
// A task is paid at most once, and only after completion.
func (t *Task) LinkPayment(paymentID uuid.UUID) error {
	if !t.IsCompleted() {
		return shared.NewDomainError("NOT_FOUND", "Task is not completed")
	}
	if t.HasPayment() {
		return shared.NewDomainError("CONFLICT", "Task already has a payment")
	}
	if paymentID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment ID cannot be empty")
	}

	t.PaymentID = &paymentID
	t.UpdatedAt = time.Now()
	return nil
}
