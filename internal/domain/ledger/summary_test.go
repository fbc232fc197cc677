package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerSummaryApply(t *testing.T) {
	t.Run("income raises total income only", func(t *testing.T) {
		s := NewLedgerSummary()
		require.NoError(t, s.Apply(KindIncome, decimal.NewFromInt(100)))

		assert.True(t, s.TotalIncome.Equal(decimal.NewFromInt(100)))
		assert.True(t, s.TotalExpense.Equal(decimal.Zero))
	})

	t.Run("expense draws down income and raises expense", func(t *testing.T) {
		s := NewLedgerSummary()
		require.NoError(t, s.Apply(KindIncome, decimal.NewFromInt(100)))
		require.NoError(t, s.Apply(KindExpense, decimal.NewFromInt(30)))

		assert.True(t, s.TotalIncome.Equal(decimal.NewFromInt(70)))
		assert.True(t, s.TotalExpense.Equal(decimal.NewFromInt(30)))
	})

	t.Run("income pool can go negative", func(t *testing.T) {
		s := NewLedgerSummary()
		require.NoError(t, s.Apply(KindExpense, decimal.NewFromInt(25)))

		assert.True(t, s.TotalIncome.Equal(decimal.NewFromInt(-25)))
		assert.True(t, s.TotalExpense.Equal(decimal.NewFromInt(25)))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		s := NewLedgerSummary()
		assert.Error(t, s.Apply(Kind("TRANSFER"), decimal.NewFromInt(1)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		s := NewLedgerSummary()
		assert.Error(t, s.Apply(KindIncome, decimal.Zero))
		assert.Error(t, s.Apply(KindExpense, decimal.NewFromInt(-5)))
	})

	t.Run("replaying all payments reproduces the totals", func(t *testing.T) {
		s := NewLedgerSummary()
		events := []struct {
			kind   Kind
			amount int64
		}{
			{KindIncome, 500},
			{KindExpense, 120},
			{KindIncome, 75},
			{KindExpense, 40},
		}
		for _, e := range events {
			require.NoError(t, s.Apply(e.kind, decimal.NewFromInt(e.amount)))
		}

		assert.True(t, s.TotalIncome.Equal(decimal.NewFromInt(415)))
		assert.True(t, s.TotalExpense.Equal(decimal.NewFromInt(160)))
	})
}
