package persistence

import (
	"context"
	"errors"

	"github.com/residency/backend/internal/domain/ledger"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSummaryRepository implements ledger.SummaryRepository using GORM
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GormSummaryRepository
func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

// Current returns the most recently created summary
func (r *GormSummaryRepository) Current(ctx context.Context) (*ledger.LedgerSummary, error) {
	var model models.LedgerSummaryModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts the summary row. The singleton unique index admits one
// summary total; a concurrent writer that created the row first makes
// this insert a concurrency conflict, which callers resolve by
// re-reading the winner's row.
func (r *GormSummaryRepository) Save(ctx context.Context, summary *ledger.LedgerSummary) error {
	model := models.LedgerSummaryModelFromDomain(summary)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Ledger summary was created by another writer")
		}
		return err
	}
	return nil
}

// SaveWithLock saves the summary with optimistic locking. The stored
// row must still carry the version this summary was loaded with.
func (r *GormSummaryRepository) SaveWithLock(ctx context.Context, summary *ledger.LedgerSummary) error {
	summary.IncrementVersion()
	expectedVersion := summary.Version - 1

	model := models.LedgerSummaryModelFromDomain(summary)
	result := r.db.WithContext(ctx).
		Model(&models.LedgerSummaryModel{}).
		Where("id = ? AND version = ?", summary.ID, expectedVersion).
		Updates(map[string]any{
			"total_income":  model.TotalIncome,
			"total_expense": model.TotalExpense,
			"updated_at":    model.UpdatedAt,
			"version":       model.Version,
		})

	if result.Error != nil {
		summary.Version = expectedVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		summary.Version = expectedVersion
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Ledger summary has been modified by another writer")
	}
	return nil
}
