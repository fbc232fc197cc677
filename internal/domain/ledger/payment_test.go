package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/residency/backend/internal/domain/shared"
	"github.com/residency/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s, valueobject.USD)
	require.NoError(t, err)
	return m
}

func TestNewIncomePayment(t *testing.T) {
	creator := uuid.New()
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	t.Run("splits amount equally across users", func(t *testing.T) {
		p, err := NewIncomePayment(creator, usd(t, "300"), "rent pool", users)
		require.NoError(t, err)

		assert.Equal(t, KindIncome, p.Kind)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(300)))
		assert.Len(t, p.Shares, 3)
		for _, s := range p.Shares {
			assert.True(t, s.Amount.Equal(decimal.NewFromInt(100)))
		}
	})

	t.Run("non-terminating split keeps shares close to total", func(t *testing.T) {
		p, err := NewIncomePayment(creator, usd(t, "100"), "", users)
		require.NoError(t, err)

		diff := p.Amount.Sub(p.SharesTotal()).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromFloat(1e-9)),
			"expected |total - sum(shares)| < 1e-9, got %s", diff)
	})

	t.Run("rejects empty user list", func(t *testing.T) {
		_, err := NewIncomePayment(creator, usd(t, "100"), "", nil)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects nil user in list", func(t *testing.T) {
		_, err := NewIncomePayment(creator, usd(t, "100"), "", []uuid.UUID{uuid.New(), uuid.Nil})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewIncomePayment(creator, usd(t, "0"), "", users)
		assert.Error(t, err)
	})

	t.Run("rejects nil creator", func(t *testing.T) {
		_, err := NewIncomePayment(uuid.Nil, usd(t, "100"), "", users)
		assert.Error(t, err)
	})

	t.Run("rejects oversized description", func(t *testing.T) {
		long := make([]byte, 256)
		for i := range long {
			long[i] = 'x'
		}
		_, err := NewIncomePayment(creator, usd(t, "100"), string(long), users)
		assert.Error(t, err)
	})
}

func TestNewExpensePayment(t *testing.T) {
	creator := uuid.New()
	receipt := AttachmentInput{
		FileName: "receipt.pdf",
		MimeType: "application/pdf",
		Size:     4,
		Data:     []byte("%PDF"),
	}

	t.Run("creates expense with receipt", func(t *testing.T) {
		p, err := NewExpensePayment(creator, usd(t, "42.50"), "groceries", []AttachmentInput{receipt})
		require.NoError(t, err)

		assert.Equal(t, KindExpense, p.Kind)
		require.Len(t, p.Attachments, 1)
		assert.Equal(t, "receipt.pdf", p.Attachments[0].FileName)
		assert.Empty(t, p.Shares)
	})

	t.Run("drops empty files but keeps the rest", func(t *testing.T) {
		p, err := NewExpensePayment(creator, usd(t, "10"), "", []AttachmentInput{
			{FileName: "empty.png"},
			receipt,
		})
		require.NoError(t, err)
		assert.Len(t, p.Attachments, 1)
	})

	t.Run("rejects missing receipt", func(t *testing.T) {
		_, err := NewExpensePayment(creator, usd(t, "10"), "", nil)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects all-empty receipts", func(t *testing.T) {
		_, err := NewExpensePayment(creator, usd(t, "10"), "", []AttachmentInput{{FileName: "a"}, {FileName: "b"}})
		assert.Error(t, err)
	})
}

func TestPaymentLinkTask(t *testing.T) {
	creator := uuid.New()

	t.Run("links task to expense", func(t *testing.T) {
		p, err := NewExpensePayment(creator, usd(t, "10"), "", []AttachmentInput{{FileName: "r", Data: []byte{1}}})
		require.NoError(t, err)

		taskID := uuid.New()
		require.NoError(t, p.LinkTask(taskID))
		require.NotNil(t, p.TaskID)
		assert.Equal(t, taskID, *p.TaskID)
	})

	t.Run("rejects task link on income", func(t *testing.T) {
		p, err := NewIncomePayment(creator, usd(t, "10"), "", []uuid.UUID{uuid.New()})
		require.NoError(t, err)
		assert.Error(t, p.LinkTask(uuid.New()))
	})
}

func TestPaymentShareFor(t *testing.T) {
	creator := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	p, err := NewIncomePayment(creator, usd(t, "50"), "", []uuid.UUID{alice, bob})
	require.NoError(t, err)

	share, ok := p.ShareFor(alice)
	require.True(t, ok)
	assert.True(t, share.Equal(decimal.NewFromInt(25)))

	_, ok = p.ShareFor(uuid.New())
	assert.False(t, ok)
}
