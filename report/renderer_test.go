package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/pricing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/purchasing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/sales"
)

type stubReceipts struct {
	receipt sales.Receipt
}

func (s *stubReceipts) Receipt(_ context.Context, _ int64) (sales.Receipt, error) {
	return s.receipt, nil
}

type stubStatements struct {
	invoices []purchasing.Invoice
}

func (s *stubStatements) Outstanding(_ context.Context, _ int64) ([]purchasing.Invoice, error) {
	return s.invoices, nil
}

func TestRenderReceiptProducesPDF(t *testing.T) {
	receipts := &stubReceipts{receipt: sales.Receipt{
		Number:     "RCP-1",
		OrderID:    1,
		CustomerID: 5,
		Currency:   "USD",
		Totals:     pricing.Breakdown{Subtotal: 59.98, DiscountAmount: 6.0, TaxAmount: 4.32, Total: 58.3},
		Lines: []sales.Line{
			{ProductID: 1, ProductName: "Widget", Qty: 2, UnitPrice: 29.99, LineTotal: 59.98},
		},
		IssuedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	r := NewRenderer(receipts, nil, "Acme Supply")

	data, err := r.RenderReceipt(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Greater(t, len(data), 500)
}

func TestRenderStatementProducesPDF(t *testing.T) {
	statements := &stubStatements{invoices: []purchasing.Invoice{
		{Number: "INV-1", Currency: "USD", Total: 100, Paid: 40, DueAt: time.Now().AddDate(0, 0, 14)},
		{Number: "INV-2", Currency: "USD", Total: 50, Paid: 0, DueAt: time.Now().AddDate(0, 0, 30)},
	}}
	r := NewRenderer(nil, statements, "")

	data, err := r.RenderStatement(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestMoneyFallsBackOnUnknownCurrency(t *testing.T) {
	r := NewRenderer(nil, nil, "")
	assert.Equal(t, "XXX? 10.00", r.money("XXX?", 10))
}
