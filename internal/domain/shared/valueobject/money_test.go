package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(10), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		assert.Error(t, err)
	})

	t.Run("parses from string", func(t *testing.T) {
		m, err := NewMoneyFromString("12.34", USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))
	})

	t.Run("rejects malformed string", func(t *testing.T) {
		_, err := NewMoneyFromString("twelve", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	ten := NewMoneyUSDFromFloat(10)
	three := NewMoneyUSDFromFloat(3)

	t.Run("add", func(t *testing.T) {
		sum, err := ten.Add(three)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(13)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := ten.Subtract(three)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(7)))
	})

	t.Run("currency mismatch fails", func(t *testing.T) {
		eur, err := NewMoney(decimal.NewFromInt(1), EUR)
		require.NoError(t, err)

		_, err = ten.Add(eur)
		assert.Error(t, err)
		_, err = ten.Subtract(eur)
		assert.Error(t, err)
	})

	t.Run("divide keeps quotient precision", func(t *testing.T) {
		q, err := NewMoneyUSDFromFloat(100).Divide(decimal.NewFromInt(3))
		require.NoError(t, err)

		total := q.Amount().Mul(decimal.NewFromInt(3))
		diff := decimal.NewFromInt(100).Sub(total).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromFloat(1e-9)))
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := ten.Divide(decimal.Zero)
		assert.Error(t, err)
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyUSDFromFloat(5)
	b := NewMoneyUSDFromFloat(5)
	c := NewMoneyUSDFromFloat(6)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, a.LessThan(c))
	assert.False(t, c.LessThan(a))

	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, c.IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(-1).IsNegative())
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyUSDFromFloat(19.99)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"19.99","currency":"USD"}`, string(data))

	var parsed Money
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, m.Equals(parsed))
}
