package sales

import (
	"time"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/pricing"
)

// Status enumerates the point-of-sale order lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions holds every legal status change. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusOnHold, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:    {StatusConfirmed, StatusCancelled},
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

// Order is a sales order header with its derived totals.
type Order struct {
	ID              int64             `json:"id"`
	Number          string            `json:"number"`
	CustomerID      int64             `json:"customer_id"`
	WarehouseID     int64             `json:"warehouse_id"`
	Status          Status            `json:"status"`
	Currency        string            `json:"currency"`
	DiscountPercent float64           `json:"discount_percent"`
	TaxPercent      float64           `json:"tax_percent"`
	Totals          pricing.Breakdown `json:"totals"`
	Note            string            `json:"note,omitempty"`
	CreatedBy       int64             `json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Line is one sold product.
type Line struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name,omitempty"`
	Qty             int64   `json:"qty"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	LineTotal       float64 `json:"line_total"`
}

// Receipt freezes the totals of a completed sale. Lines are snapshotted so
// later product edits never change what was printed.
type Receipt struct {
	ID         int64             `json:"id"`
	Number     string            `json:"number"`
	OrderID    int64             `json:"order_id"`
	CustomerID int64             `json:"customer_id"`
	Currency   string            `json:"currency"`
	Totals     pricing.Breakdown `json:"totals"`
	Lines      []Line            `json:"lines"`
	IssuedAt   time.Time         `json:"issued_at"`
}

// OrderFilter bounds order listings.
type OrderFilter struct {
	CustomerID int64
	Status     Status
	Page       int
	Limit      int
}
