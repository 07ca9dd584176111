package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

func TestCalculateBreakdown(t *testing.T) {
	in := Input{
		Lines:                  []Line{NewLine(2, 29.99, 0)},
		OverallDiscountPercent: decimal.NewFromInt(10),
		OverallTaxPercent:      decimal.NewFromInt(8),
	}

	totals, err := Calculate(in)
	require.NoError(t, err)

	require.True(t, totals.Subtotal.Equal(decimal.RequireFromString("59.98")), totals.Subtotal.String())
	require.True(t, totals.DiscountAmount.Equal(decimal.RequireFromString("5.998")), totals.DiscountAmount.String())
	require.True(t, totals.TaxAmount.Equal(decimal.RequireFromString("4.31856")), totals.TaxAmount.String())
	require.True(t, totals.Total.Equal(decimal.RequireFromString("58.30056")), totals.Total.String())

	display := totals.Rounded()
	require.Equal(t, 59.98, display.Subtotal)
	require.Equal(t, 6.0, display.DiscountAmount)
	require.Equal(t, 4.32, display.TaxAmount)
	require.Equal(t, 58.3, display.Total)
}

func TestCalculateEmptyLines(t *testing.T) {
	totals, err := Calculate(Input{})
	require.NoError(t, err)
	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.DiscountAmount.IsZero())
	require.True(t, totals.TaxAmount.IsZero())
	require.True(t, totals.Total.IsZero())
}

func TestCalculateNoDiscountNoTax(t *testing.T) {
	totals, err := Calculate(Input{
		Lines: []Line{NewLine(3, 12.50, 0), NewLine(1, 5.25, 0)},
	})
	require.NoError(t, err)
	require.True(t, totals.Total.Equal(totals.Subtotal))
	require.True(t, totals.DiscountAmount.IsZero())
	require.True(t, totals.TaxAmount.IsZero())
}

func TestCalculateLineDiscountAppliesBeforeOrderDiscount(t *testing.T) {
	totals, err := Calculate(Input{
		Lines:                  []Line{NewLine(4, 10, 25)},
		OverallDiscountPercent: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	// 4*10 with 25% line discount = 30, halved by the order discount.
	require.True(t, totals.Subtotal.Equal(decimal.NewFromInt(30)))
	require.True(t, totals.Total.Equal(decimal.NewFromInt(15)))
}

func TestCalculateLinearInQuantity(t *testing.T) {
	base := Input{
		Lines:                  []Line{NewLine(2, 19.99, 10), NewLine(5, 3.45, 0)},
		OverallDiscountPercent: decimal.NewFromInt(5),
		OverallTaxPercent:      decimal.NewFromInt(11),
	}
	scaled := Input{
		Lines:                  []Line{NewLine(6, 19.99, 10), NewLine(15, 3.45, 0)},
		OverallDiscountPercent: base.OverallDiscountPercent,
		OverallTaxPercent:      base.OverallTaxPercent,
	}

	a, err := Calculate(base)
	require.NoError(t, err)
	b, err := Calculate(scaled)
	require.NoError(t, err)

	k := decimal.NewFromInt(3)
	require.True(t, b.Subtotal.Equal(a.Subtotal.Mul(k)))
	require.True(t, b.DiscountAmount.Equal(a.DiscountAmount.Mul(k)))
	require.True(t, b.TaxAmount.Equal(a.TaxAmount.Mul(k)))
	require.True(t, b.Total.Equal(a.Total.Mul(k)))
}

func TestCalculateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"negative quantity", Input{Lines: []Line{NewLine(-1, 10, 0)}}},
		{"negative price", Input{Lines: []Line{NewLine(1, -10, 0)}}},
		{"line discount above 100", Input{Lines: []Line{NewLine(1, 10, 101)}}},
		{"line discount negative", Input{Lines: []Line{NewLine(1, 10, -1)}}},
		{"order discount above 100", Input{OverallDiscountPercent: decimal.NewFromInt(150)}},
		{"order tax negative", Input{OverallTaxPercent: decimal.NewFromInt(-3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(tc.in)
			require.Error(t, err)
			require.True(t, shared.IsValidation(err))
		})
	}
}

func TestCalculateIdempotent(t *testing.T) {
	in := Input{
		Lines:                  []Line{NewLine(7, 2.99, 15)},
		OverallDiscountPercent: decimal.NewFromInt(2),
		OverallTaxPercent:      decimal.NewFromInt(7),
	}
	a, err := Calculate(in)
	require.NoError(t, err)
	b, err := Calculate(in)
	require.NoError(t, err)
	require.True(t, a.Total.Equal(b.Total))
	require.True(t, a.Subtotal.Equal(b.Subtotal))
}
