// Package report renders receipts and supplier statements as PDF documents.
package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/purchasing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/sales"
)

// ReceiptSource looks up issued receipts.
type ReceiptSource interface {
	Receipt(ctx context.Context, receiptID int64) (sales.Receipt, error)
}

// StatementSource lists a supplier's open invoices.
type StatementSource interface {
	Outstanding(ctx context.Context, supplierID int64) ([]purchasing.Invoice, error)
}

// Renderer builds PDF documents.
type Renderer struct {
	receipts   ReceiptSource
	statements StatementSource
	printer    *message.Printer
	company    string
}

// NewRenderer constructs Renderer. company appears as the document header.
func NewRenderer(receipts ReceiptSource, statements StatementSource, company string) *Renderer {
	if company == "" {
		company = "Stock Craftsman"
	}
	return &Renderer{
		receipts:   receipts,
		statements: statements,
		printer:    message.NewPrinter(language.English),
		company:    company,
	}
}

func (r *Renderer) money(code string, amount float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	return r.printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// RenderReceipt renders one receipt by id.
func (r *Renderer) RenderReceipt(ctx context.Context, receiptID int64) ([]byte, error) {
	receipt, err := r.receipts.Receipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return r.receiptPDF(receipt)
}

func (r *Renderer) receiptPDF(receipt sales.Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.company)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Receipt %s", receipt.Number))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued %s", receipt.IssuedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 7, "Disc %", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range receipt.Lines {
		name := line.ProductName
		if name == "" {
			name = fmt.Sprintf("Product %d", line.ProductID)
		}
		pdf.CellFormat(80, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", line.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, r.money(receipt.Currency, line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%.1f", line.DiscountPercent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, r.money(receipt.Currency, line.LineTotal), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	r.totalRow(pdf, "Subtotal", receipt.Currency, receipt.Totals.Subtotal, false)
	r.totalRow(pdf, "Discount", receipt.Currency, receipt.Totals.DiscountAmount, false)
	r.totalRow(pdf, "Tax", receipt.Currency, receipt.Totals.TaxAmount, false)
	r.totalRow(pdf, "Total", receipt.Currency, receipt.Totals.Total, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) totalRow(pdf *gofpdf.Fpdf, label, code string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(150, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, r.money(code, amount), "", 1, "R", false, 0, "")
}

// RenderStatement renders the open-invoice statement for a supplier.
func (r *Renderer) RenderStatement(ctx context.Context, supplierID int64) ([]byte, error) {
	invoices, err := r.statements.Outstanding(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.company)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Supplier statement #%d", supplierID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("As of %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 7, "Invoice", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Due", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Paid", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Balance", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var balance float64
	code := "USD"
	for _, inv := range invoices {
		code = inv.Currency
		open := inv.Total - inv.Paid
		balance += open
		pdf.CellFormat(45, 7, inv.Number, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, inv.DueAt.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, r.money(inv.Currency, inv.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, r.money(inv.Currency, inv.Paid), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, r.money(inv.Currency, open), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(145, 6, "Outstanding", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, r.money(code, balance), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderStatementFile renders a statement to disk, for background jobs.
func (r *Renderer) RenderStatementFile(ctx context.Context, supplierID int64, path string) error {
	data, err := r.RenderStatement(ctx, supplierID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
