package persistence

import (
	"context"

	"github.com/residency/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormUnitOfWork implements ledger.UnitOfWork on a GORM transaction.
// Repositories handed to the callback all share one transaction, so a
// payment, its task link and the summary update commit together.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a transaction, rolling back on error
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos ledger.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ledger.TxRepositories{
			Payments:  NewGormPaymentRepository(tx),
			Summaries: NewGormSummaryRepository(tx),
			Tasks:     NewGormTaskRepository(tx),
		})
	})
}
