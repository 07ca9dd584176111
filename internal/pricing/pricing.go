// Package pricing holds the order total derivation shared by purchasing and
// point-of-sale flows. All arithmetic runs on fixed-point decimals; callers
// round only when presenting the result.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

var (
	hundred = decimal.NewFromInt(100)
	maxPct  = decimal.NewFromInt(100)
)

// Line is one priced order line before derivation.
type Line struct {
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// NewLine builds a Line from plain numeric inputs.
func NewLine(quantity int64, unitPrice, discountPercent float64) Line {
	return Line{
		Quantity:        quantity,
		UnitPrice:       decimal.NewFromFloat(unitPrice),
		DiscountPercent: decimal.NewFromFloat(discountPercent),
	}
}

// Input groups everything the calculator needs for one order.
type Input struct {
	Lines                  []Line
	OverallDiscountPercent decimal.Decimal
	OverallTaxPercent      decimal.Decimal
}

// Totals is the derived breakdown. Values keep full precision.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// Breakdown is the display form of Totals, rounded to 2 places.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}

// Rounded converts Totals into its 2-decimal display form.
func (t Totals) Rounded() Breakdown {
	return Breakdown{
		Subtotal:       t.Subtotal.Round(2).InexactFloat64(),
		DiscountAmount: t.DiscountAmount.Round(2).InexactFloat64(),
		TaxAmount:      t.TaxAmount.Round(2).InexactFloat64(),
		Total:          t.Total.Round(2).InexactFloat64(),
	}
}

// LineTotal derives quantity * unitPrice * (1 - discount/100) for one line.
func LineTotal(l Line) (decimal.Decimal, error) {
	if l.Quantity < 0 {
		return decimal.Zero, shared.NewValidationError("quantity", "must not be negative")
	}
	if l.UnitPrice.IsNegative() {
		return decimal.Zero, shared.NewValidationError("unit_price", "must not be negative")
	}
	if err := checkPercent("discount_percent", l.DiscountPercent); err != nil {
		return decimal.Zero, err
	}
	gross := decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice)
	discount := gross.Mul(l.DiscountPercent).Div(hundred)
	return gross.Sub(discount), nil
}

// Calculate derives subtotal, order discount, tax and grand total. An empty
// line list yields an all-zero result. Out-of-range percentages and negative
// quantities or prices are rejected with ValidationError, never clamped.
func Calculate(in Input) (Totals, error) {
	if err := checkPercent("overall_discount_percent", in.OverallDiscountPercent); err != nil {
		return Totals{}, err
	}
	if err := checkPercent("overall_tax_percent", in.OverallTaxPercent); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	for _, l := range in.Lines {
		lineTotal, err := LineTotal(l)
		if err != nil {
			return Totals{}, err
		}
		subtotal = subtotal.Add(lineTotal)
	}

	discount := subtotal.Mul(in.OverallDiscountPercent).Div(hundred)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(in.OverallTaxPercent).Div(hundred)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		Total:          taxable.Add(tax),
	}, nil
}

func checkPercent(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(maxPct) {
		return shared.NewValidationError(field, "must be between 0 and 100")
	}
	return nil
}
