package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", BRL)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", BRL)
		assert.Error(t, err)
	})
}

func TestNewMoneyBRLFromFloat(t *testing.T) {
	m := NewMoneyBRLFromFloat(75.50)
	assert.Equal(t, BRL, m.Currency())
	assert.Equal(t, 75.5, m.Float64())
}

func TestZeroBRL(t *testing.T) {
	m := ZeroBRL()
	assert.True(t, m.IsZero())
	assert.Equal(t, BRL, m.Currency())
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a := NewMoneyBRLFromFloat(100.25)
		b := NewMoneyBRLFromFloat(50.75)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "151.00", sum.StringFixed(2))
	})

	t.Run("add with mismatched currency fails", func(t *testing.T) {
		a := NewMoneyBRLFromFloat(100)
		b, _ := NewMoneyFromFloat(100, USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("subtract below zero is allowed", func(t *testing.T) {
		a := NewMoneyBRLFromFloat(10)
		b := NewMoneyBRLFromFloat(25)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
		assert.Equal(t, "-15.00", diff.StringFixed(2))
	})

	t.Run("multiply by int", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(50).MultiplyByInt(2)
		assert.Equal(t, "100.00", m.StringFixed(2))
	})

	t.Run("negate and abs", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(42.42).Negate()
		assert.True(t, m.IsNegative())
		assert.Equal(t, "42.42", m.Abs().StringFixed(2))
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyBRLFromFloat(100)
	b := NewMoneyBRLFromFloat(200)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, a.Equals(NewMoneyBRLFromFloat(100)))
	assert.False(t, a.Equals(b))
}

func TestMoneyAllocate(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(120)
		parts, err := m.Allocate(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		for _, p := range parts {
			assert.Equal(t, "40.00", p.StringFixed(2))
		}
	})

	t.Run("remainder cents go to first parts", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(100)
		parts, err := m.Allocate(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		assert.Equal(t, "33.34", parts[0].StringFixed(2))
		assert.Equal(t, "33.33", parts[1].StringFixed(2))
		assert.Equal(t, "33.33", parts[2].StringFixed(2))

		sum := ZeroBRL()
		for _, p := range parts {
			sum = sum.MustAdd(p)
		}
		assert.True(t, sum.Equals(m))
	})

	t.Run("single part returns original", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(99.99)
		parts, err := m.Allocate(1)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equals(m))
	})

	t.Run("zero parts rejected", func(t *testing.T) {
		_, err := NewMoneyBRLFromFloat(100).Allocate(0)
		assert.Error(t, err)
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(123.45)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("empty currency defaults", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"10.00"}`), &m))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("55.20"))
		assert.Equal(t, "55.20", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(true))
	})
}
