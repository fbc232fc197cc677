package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/task"
	"github.com/residency/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID, or nil when absent
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDAndStatus finds a task only when it is in the given status
func (r *GormTaskRepository) FindByIDAndStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, status).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates the task without a version check
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	model := models.TaskModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the task with optimistic locking
func (r *GormTaskRepository) SaveWithLock(ctx context.Context, t *task.Task) error {
	t.IncrementVersion()
	expectedVersion := t.Version - 1

	model := models.TaskModelFromDomain(t)
	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ? AND version = ?", t.ID, expectedVersion).
		Updates(map[string]any{
			"title":          model.Title,
			"description":    model.Description,
			"status":         model.Status,
			"assigned_to":    model.AssignedTo,
			"assigned_by":    model.AssignedBy,
			"payment_amount": model.PaymentAmount,
			"payment_id":     model.PaymentID,
			"updated_at":     model.UpdatedAt,
			"version":        model.Version,
		})

	if result.Error != nil {
		t.Version = expectedVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		t.Version = expectedVersion
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Task has been modified by another writer")
	}
	return nil
}
