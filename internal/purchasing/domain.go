package purchasing

import (
	"time"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/pricing"
)

// Status enumerates the purchase order lifecycle.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

// transitions holds every legal status change. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusPending, StatusCancelled},
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusReceived, StatusCancelled},
}

// CanTransition reports whether from may change to to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is a purchase order header with its derived totals.
type Order struct {
	ID              int64             `json:"id"`
	Number          string            `json:"number"`
	SupplierID      int64             `json:"supplier_id"`
	Status          Status            `json:"status"`
	Currency        string            `json:"currency"`
	ExpectedDate    time.Time         `json:"expected_date,omitempty"`
	DiscountPercent float64           `json:"discount_percent"`
	TaxPercent      float64           `json:"tax_percent"`
	Totals          pricing.Breakdown `json:"totals"`
	Note            string            `json:"note,omitempty"`
	CreatedBy       int64             `json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Line is one ordered product.
type Line struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	ProductID       int64   `json:"product_id"`
	Qty             int64   `json:"qty"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	LineTotal       float64 `json:"line_total"`
}

// InvoiceStatus enumerates supplier invoice states.
type InvoiceStatus string

const (
	InvoiceOpen InvoiceStatus = "OPEN"
	InvoicePaid InvoiceStatus = "PAID"
	InvoiceVoid InvoiceStatus = "VOID"
)

// Invoice is a supplier invoice raised against a received order.
type Invoice struct {
	ID         int64         `json:"id"`
	Number     string        `json:"number"`
	SupplierID int64         `json:"supplier_id"`
	OrderID    int64         `json:"order_id"`
	Currency   string        `json:"currency"`
	Total      float64       `json:"total"`
	Paid       float64       `json:"paid"`
	Status     InvoiceStatus `json:"status"`
	DueAt      time.Time     `json:"due_at"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Payment settles part or all of an invoice.
type Payment struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	InvoiceID int64     `json:"invoice_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
}

// OrderFilter bounds order listings.
type OrderFilter struct {
	SupplierID int64
	Status     Status
	Page       int
	Limit      int
}
