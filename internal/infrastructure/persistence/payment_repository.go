package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/ledger"
	"github.com/residency/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements ledger.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// withGraph preloads the full payment graph
func (r *GormPaymentRepository) withGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Shares").
		Preload("Attachments")
}

// Save persists the payment with its shares and attachments
func (r *GormPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a payment by its ID, or nil when absent
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	var model models.PaymentModel
	if err := r.withGraph(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every payment, newest first
func (r *GormPaymentRepository) FindAll(ctx context.Context) ([]ledger.Payment, error) {
	var found []models.PaymentModel
	if err := r.withGraph(ctx).
		Order("created_at DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(found), nil
}

// FindByCreatedOrShared returns payments the user created or holds a share in
func (r *GormPaymentRepository) FindByCreatedOrShared(ctx context.Context, userID uuid.UUID) ([]ledger.Payment, error) {
	var found []models.PaymentModel
	if err := r.withGraph(ctx).
		Where("created_by = ? OR id IN (?)",
			userID,
			r.db.Model(&models.UserShareModel{}).Select("payment_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(found), nil
}

// FindExpensesByTaskAssignee returns expense payments whose linked task
// is assigned to the user
func (r *GormPaymentRepository) FindExpensesByTaskAssignee(ctx context.Context, userID uuid.UUID) ([]ledger.Payment, error) {
	var found []models.PaymentModel
	if err := r.withGraph(ctx).
		Where("kind = ? AND task_id IN (?)",
			ledger.KindExpense,
			r.db.Model(&models.TaskModel{}).Select("id").Where("assigned_to = ?", userID),
		).
		Order("created_at DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(found), nil
}

// FindByTaskAssignee returns payments of any kind whose linked task is
// assigned to the user
func (r *GormPaymentRepository) FindByTaskAssignee(ctx context.Context, userID uuid.UUID) ([]ledger.Payment, error) {
	var found []models.PaymentModel
	if err := r.withGraph(ctx).
		Where("task_id IN (?)",
			r.db.Model(&models.TaskModel{}).Select("id").Where("assigned_to = ?", userID),
		).
		Order("created_at DESC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(found), nil
}

// FindByDateRange returns payments created within [start, end)
func (r *GormPaymentRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]ledger.Payment, error) {
	var found []models.PaymentModel
	if err := r.withGraph(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(found), nil
}

func toDomainPayments(found []models.PaymentModel) []ledger.Payment {
	payments := make([]ledger.Payment, 0, len(found))
	for i := range found {
		payments = append(payments, *found[i].ToDomain())
	}
	return payments
}
