package inventory

import (
	"errors"
	"time"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/stock"
)

// MovementType enumerates supported stock movements.
type MovementType string

const (
	// MovementTypeReceive represents inbound stock, e.g. a received purchase order.
	MovementTypeReceive MovementType = "RECEIVE"
	// MovementTypeIssue represents outbound stock, e.g. a completed sale.
	MovementTypeIssue MovementType = "ISSUE"
	// MovementTypeTransfer is used for warehouse-to-warehouse moves.
	MovementTypeTransfer MovementType = "TRANSFER"
	// MovementTypeAdjust indicates manual adjustments.
	MovementTypeAdjust MovementType = "ADJUST"
)

// Movement records one stock change in the ledger.
type Movement struct {
	ID          int64        `json:"id"`
	Code        string       `json:"code"`
	Type        MovementType `json:"type"`
	WarehouseID int64        `json:"warehouse_id"`
	ProductID   int64        `json:"product_id"`
	Qty         float64      `json:"qty"`
	UnitCost    float64      `json:"unit_cost"`
	BalanceQty  float64      `json:"balance_qty"`
	RefModule   string       `json:"ref_module,omitempty"`
	RefID       string       `json:"ref_id,omitempty"`
	Note        string       `json:"note,omitempty"`
	PostedAt    time.Time    `json:"posted_at"`
	CreatedBy   int64        `json:"created_by,omitempty"`
}

// Balance summarises stock per warehouse and product.
type Balance struct {
	WarehouseID int64     `json:"warehouse_id"`
	ProductID   int64     `json:"product_id"`
	Qty         float64   `json:"qty"`
	AvgCost     float64   `json:"avg_cost"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockLevel is a balance joined with its product thresholds and the
// derived status used by the dashboard.
type StockLevel struct {
	WarehouseID  int64        `json:"warehouse_id"`
	ProductID    int64        `json:"product_id"`
	ProductCode  string       `json:"product_code"`
	ProductName  string       `json:"product_name"`
	CurrentStock float64      `json:"current_stock"`
	MinStock     float64      `json:"min_stock"`
	MaxStock     float64      `json:"max_stock"`
	ReorderPoint float64      `json:"reorder_point"`
	AvgCost      float64      `json:"avg_cost"`
	Status       stock.Status `json:"status"`
	StatusColor  string       `json:"status_color"`
}

// AdjustmentInput describes a manual stock adjustment.
type AdjustmentInput struct {
	Code        string
	WarehouseID int64
	ProductID   int64
	Qty         float64
	UnitCost    float64
	Note        string
	ActorID     int64
}

// TransferInput describes a transfer between warehouses.
type TransferInput struct {
	Code         string
	ProductID    int64
	Qty          float64
	SrcWarehouse int64
	DstWarehouse int64
	Note         string
	ActorID      int64
}

// ReceiveInput is posted when goods arrive, e.g. from purchasing.
type ReceiveInput struct {
	Code        string
	WarehouseID int64
	ProductID   int64
	Qty         float64
	UnitCost    float64
	Note        string
	ActorID     int64
	RefModule   string
	RefID       string
}

// IssueInput is posted when goods leave, e.g. on a completed sale.
type IssueInput struct {
	Code        string
	WarehouseID int64
	ProductID   int64
	Qty         float64
	Note        string
	ActorID     int64
	RefModule   string
	RefID       string
}

// MovementFilter bounds movement listings.
type MovementFilter struct {
	WarehouseID int64
	ProductID   int64
	Type        MovementType
	From        time.Time
	To          time.Time
	Limit       int
}

var (
	// ErrInvalidQuantity indicates a zero or wrongly signed quantity.
	ErrInvalidQuantity = errors.New("inventory: invalid quantity")
	// ErrInvalidUnitCost indicates a negative unit cost.
	ErrInvalidUnitCost = errors.New("inventory: invalid unit cost")
	// ErrNegativeStock occurs when a movement would drive stock below zero.
	ErrNegativeStock = errors.New("inventory: insufficient stock")
	// ErrBalanceNotFound indicates a missing balance row.
	ErrBalanceNotFound = errors.New("inventory: balance not found")
)
