package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeMealRate(t *testing.T) {
	rate := ComputeMealRate(decimal.NewFromInt(3000), decimal.NewFromInt(30))
	require.True(t, rate.Equal(decimal.NewFromInt(100)))
}

func TestComputeMealRateZeroMeals(t *testing.T) {
	rate := ComputeMealRate(decimal.NewFromInt(500), decimal.Zero)
	require.True(t, rate.IsZero())
}

func TestComputeMealRateZeroExpenses(t *testing.T) {
	rate := ComputeMealRate(decimal.Zero, decimal.NewFromInt(12))
	require.True(t, rate.IsZero())
}

func TestComputeMealRateHalfMeals(t *testing.T) {
	rate := ComputeMealRate(decimal.NewFromInt(150), decimal.RequireFromString("1.5"))
	require.True(t, rate.Equal(decimal.NewFromInt(100)))
}
