package ledger

import (
	"time"

	"github.com/residency/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LedgerSummary is the single running aggregate over all payments.
// It is created lazily on the first recorded payment and mutated in
// place for every payment after that; it is never deleted.
//
// Invariant: TotalIncome equals the sum of all income amounts minus
// the sum of all expense amounts (expenses draw down the income pool),
// and TotalExpense equals the sum of all expense amounts.
type LedgerSummary struct {
	shared.BaseAggregateRoot
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// NewLedgerSummary creates an empty summary
func NewLedgerSummary() *LedgerSummary {
	return &LedgerSummary{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
	}
}

// Apply folds one payment amount into the running totals
func (s *LedgerSummary) Apply(kind Kind, amount decimal.Decimal) error {
	if !kind.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown payment kind: "+kind.String())
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}

	if kind == KindIncome {
		s.TotalIncome = s.TotalIncome.Add(amount)
	} else {
		s.TotalIncome = s.TotalIncome.Sub(amount)
		s.TotalExpense = s.TotalExpense.Add(amount)
	}
	s.UpdatedAt = time.Now()
	return nil
}
