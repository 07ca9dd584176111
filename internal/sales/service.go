package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/pricing"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetOrder(ctx context.Context, id int64) (Order, []Line, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	GetReceipt(ctx context.Context, id int64) (Receipt, error)
	GetReceiptByOrder(ctx context.Context, orderID int64) (Receipt, error)
}

// InventoryPort issues sold goods out of stock.
type InventoryPort interface {
	PostIssue(ctx context.Context, input inventory.IssueInput) (inventory.Movement, error)
}

// NotifierPort pushes fire-and-forget notifications.
type NotifierPort interface {
	Push(ctx context.Context, subject, body string) error
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates the point-of-sale order lifecycle.
type Service struct {
	repo      RepositoryPort
	inventory InventoryPort
	notifier  NotifierPort
	audit     AuditPort
	currency  string
}

// NewService constructs Service.
func NewService(repo RepositoryPort, inv InventoryPort, notifier NotifierPort, audit AuditPort, currency string) *Service {
	if currency == "" {
		currency = "USD"
	}
	return &Service{repo: repo, inventory: inv, notifier: notifier, audit: audit, currency: currency}
}

// LineInput is one cart line.
type LineInput struct {
	ProductID       int64
	Qty             int64
	UnitPrice       float64
	DiscountPercent float64
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	Number          string
	CustomerID      int64
	WarehouseID     int64
	Currency        string
	DiscountPercent float64
	TaxPercent      float64
	Note            string
	Lines           []LineInput
	ActorID         int64
}

// UpdateLinesInput replaces the cart of a PENDING or ON_HOLD order.
type UpdateLinesInput struct {
	OrderID         int64
	DiscountPercent float64
	TaxPercent      float64
	Lines           []LineInput
	ActorID         int64
}

func deriveLines(inputs []LineInput) ([]Line, pricing.Input, error) {
	if len(inputs) == 0 {
		return nil, pricing.Input{}, shared.NewValidationError("lines", "cart must not be empty")
	}
	lines := make([]Line, 0, len(inputs))
	priced := make([]pricing.Line, 0, len(inputs))
	for _, in := range inputs {
		if in.ProductID == 0 {
			return nil, pricing.Input{}, shared.NewValidationError("product_id", "required")
		}
		if in.Qty <= 0 {
			return nil, pricing.Input{}, shared.NewValidationError("qty", "must be positive")
		}
		pl := pricing.NewLine(in.Qty, in.UnitPrice, in.DiscountPercent)
		lineTotal, err := pricing.LineTotal(pl)
		if err != nil {
			return nil, pricing.Input{}, err
		}
		lines = append(lines, Line{
			ProductID:       in.ProductID,
			Qty:             in.Qty,
			UnitPrice:       in.UnitPrice,
			DiscountPercent: in.DiscountPercent,
			LineTotal:       lineTotal.Round(2).InexactFloat64(),
		})
		priced = append(priced, pl)
	}
	return lines, pricing.Input{Lines: priced}, nil
}

// CreateOrder persists a PENDING order with derived totals.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error) {
	if input.CustomerID == 0 {
		return Order{}, shared.NewValidationError("customer_id", "required")
	}
	if input.WarehouseID == 0 {
		return Order{}, shared.NewValidationError("warehouse_id", "required")
	}
	lines, priceInput, err := deriveLines(input.Lines)
	if err != nil {
		return Order{}, err
	}
	priceInput.OverallDiscountPercent = decimal.NewFromFloat(input.DiscountPercent)
	priceInput.OverallTaxPercent = decimal.NewFromFloat(input.TaxPercent)
	totals, err := pricing.Calculate(priceInput)
	if err != nil {
		return Order{}, err
	}

	order := Order{
		Number:          input.Number,
		CustomerID:      input.CustomerID,
		WarehouseID:     input.WarehouseID,
		Status:          StatusPending,
		Currency:        defaultString(input.Currency, s.currency),
		DiscountPercent: input.DiscountPercent,
		TaxPercent:      input.TaxPercent,
		Totals:          totals.Rounded(),
		Note:            input.Note,
		CreatedBy:       input.ActorID,
	}
	if order.Number == "" {
		order.Number = generateNumber("SO")
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id
		for _, line := range lines {
			line.OrderID = id
			if err := tx.InsertLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	s.recordAudit(ctx, input.ActorID, "SO_CREATE", order.ID, map[string]any{"number": order.Number, "total": order.Totals.Total})
	return order, nil
}

// UpdateLines replaces the cart and recomputes totals. Allowed while the
// order is still PENDING or ON_HOLD.
func (s *Service) UpdateLines(ctx context.Context, input UpdateLinesInput) (Order, error) {
	order, _, err := s.repo.GetOrder(ctx, input.OrderID)
	if err != nil {
		return Order{}, err
	}
	if order.Status != StatusPending && order.Status != StatusOnHold {
		return Order{}, shared.ErrInvalidState
	}
	lines, priceInput, err := deriveLines(input.Lines)
	if err != nil {
		return Order{}, err
	}
	priceInput.OverallDiscountPercent = decimal.NewFromFloat(input.DiscountPercent)
	priceInput.OverallTaxPercent = decimal.NewFromFloat(input.TaxPercent)
	totals, err := pricing.Calculate(priceInput)
	if err != nil {
		return Order{}, err
	}

	order.DiscountPercent = input.DiscountPercent
	order.TaxPercent = input.TaxPercent
	order.Totals = totals.Rounded()

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteLines(ctx, order.ID); err != nil {
			return err
		}
		for _, line := range lines {
			line.OrderID = order.ID
			if err := tx.InsertLine(ctx, line); err != nil {
				return err
			}
		}
		return tx.UpdateOrderTotals(ctx, order)
	})
	if err != nil {
		return Order{}, err
	}
	s.recordAudit(ctx, input.ActorID, "SO_UPDATE", order.ID, map[string]any{"total": order.Totals.Total})
	return order, nil
}

// Confirm moves PENDING or ON_HOLD to CONFIRMED.
func (s *Service) Confirm(ctx context.Context, orderID, actorID int64) error {
	return s.transition(ctx, orderID, StatusConfirmed, actorID)
}

// Hold parks an active order.
func (s *Service) Hold(ctx context.Context, orderID, actorID int64) error {
	return s.transition(ctx, orderID, StatusOnHold, actorID)
}

// Cancel moves any non-terminal order to CANCELLED.
func (s *Service) Cancel(ctx context.Context, orderID, actorID int64) error {
	return s.transition(ctx, orderID, StatusCancelled, actorID)
}

func (s *Service) transition(ctx context.Context, orderID int64, to Status, actorID int64) error {
	order, _, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(order.Status, to) {
		return shared.ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateOrderStatus(ctx, orderID, to)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, fmt.Sprintf("SO_%s", to), orderID, map[string]any{"number": order.Number})
	return nil
}

// Complete issues every line out of stock, freezes the totals into a receipt
// and moves the order to COMPLETED. The stock movements run first so an
// insufficient-stock sale never completes.
func (s *Service) Complete(ctx context.Context, orderID, actorID int64) (Receipt, error) {
	order, lines, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return Receipt{}, err
	}
	if !CanTransition(order.Status, StatusCompleted) {
		return Receipt{}, shared.ErrInvalidState
	}

	for _, line := range lines {
		_, err := s.inventory.PostIssue(ctx, inventory.IssueInput{
			Code:        fmt.Sprintf("SO-%s-%d", order.Number, line.ProductID),
			WarehouseID: order.WarehouseID,
			ProductID:   line.ProductID,
			Qty:         float64(line.Qty),
			Note:        fmt.Sprintf("Sale %s", order.Number),
			ActorID:     actorID,
			RefModule:   "SALES",
			RefID:       fmt.Sprintf("%d", order.ID),
		})
		if err != nil {
			return Receipt{}, err
		}
	}

	receipt := Receipt{
		Number:     generateNumber("RCP"),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Currency:   order.Currency,
		Totals:     order.Totals,
		Lines:      lines,
		IssuedAt:   time.Now().UTC(),
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateOrderStatus(ctx, orderID, StatusCompleted); err != nil {
			return err
		}
		id, err := tx.CreateReceipt(ctx, receipt)
		if err != nil {
			return err
		}
		receipt.ID = id
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Push(ctx,
			fmt.Sprintf("Sale %s completed", order.Number),
			fmt.Sprintf("Receipt %s issued for %.2f %s", receipt.Number, receipt.Totals.Total, receipt.Currency))
	}
	s.recordAudit(ctx, actorID, "SO_COMPLETE", order.ID, map[string]any{"number": order.Number, "receipt": receipt.Number})
	return receipt, nil
}

// Get returns one order with lines.
func (s *Service) Get(ctx context.Context, orderID int64) (Order, []Line, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// List returns paginated orders.
func (s *Service) List(ctx context.Context, filter OrderFilter) ([]Order, int64, error) {
	return s.repo.ListOrders(ctx, filter)
}

// Receipt returns the frozen breakdown by receipt id.
func (s *Service) Receipt(ctx context.Context, receiptID int64) (Receipt, error) {
	return s.repo.GetReceipt(ctx, receiptID)
}

// ReceiptForOrder returns the receipt emitted when the order completed.
func (s *Service) ReceiptForOrder(ctx context.Context, orderID int64) (Receipt, error) {
	return s.repo.GetReceiptByOrder(ctx, orderID)
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "sales",
		EntityID: fmt.Sprintf("%d", entityID),
		Meta:     meta,
	})
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
