package purchasing

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
	GetInvoice(ctx context.Context, id int64) (Invoice, error)
	ListOutstandingInvoices(ctx context.Context, supplierID int64) ([]Invoice, error)
}

// InventoryPort posts received goods into stock.
type InventoryPort interface {
	PostReceive(ctx context.Context, input inventory.ReceiveInput) (inventory.Movement, error)
}

// ApprovalPort records the submit/approve trail.
type ApprovalPort interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
	EnsureSubmit(ctx context.Context, module string, refID int64, actorID int64, note string) error
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates the purchase order lifecycle.
type Service struct {
	repo      RepositoryPort
	inventory InventoryPort
	approvals ApprovalPort
	audit     AuditPort
	currency  string
}

// NewService constructs Service.
func NewService(repo RepositoryPort, inv InventoryPort, approvals ApprovalPort, audit AuditPort, currency string) *Service {
	if currency == "" {
		currency = "USD"
	}
	return &Service{repo: repo, inventory: inv, approvals: approvals, audit: audit, currency: currency}
}

// LineInput is one requested product on create/update.
type LineInput struct {
	ProductID       int64
	Qty             int64
	UnitPrice       float64
	DiscountPercent float64
}

// CreateOrderInput describes the creation payload.
type CreateOrderInput struct {
	Number          string
	SupplierID      int64
	Currency        string
	ExpectedDate    time.Time
	DiscountPercent float64
	TaxPercent      float64
	Note            string
	Lines           []LineInput
	ActorID         int64
}

// UpdateLinesInput replaces the lines of a draft order.
type UpdateLinesInput struct {
	OrderID         int64
	DiscountPercent float64
	TaxPercent      float64
	Lines           []LineInput
	ActorID         int64
}

// ReceiveOrderInput posts stock for an approved order.
type ReceiveOrderInput struct {
	OrderID     int64
	WarehouseID int64
	ActorID     int64
}

// InvoiceInput raises a supplier invoice against a received order.
type InvoiceInput struct {
	OrderID int64
	Number  string
	DueAt   time.Time
}

// PaymentInput settles part of an invoice.
type PaymentInput struct {
	InvoiceID int64
	Number    string
	Amount    float64
	ActorID   int64
}

func deriveLines(inputs []LineInput) ([]Line, pricing.Input, error) {
	if len(inputs) == 0 {
		return nil, pricing.Input{}, shared.NewValidationError("lines", "at least one line required")
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

// CreateOrder persists a draft order with derived totals.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (Order, error) {
	if input.SupplierID == 0 {
		return Order{}, shared.NewValidationError("supplier_id", "required")
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
		SupplierID:      input.SupplierID,
		Status:          StatusDraft,
		Currency:        defaultString(input.Currency, s.currency),
		ExpectedDate:    input.ExpectedDate,
		DiscountPercent: input.DiscountPercent,
		TaxPercent:      input.TaxPercent,
		Totals:          totals.Rounded(),
		Note:            input.Note,
		CreatedBy:       input.ActorID,
	}
	if order.Number == "" {
		order.Number = generateNumber("PO")
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
	s.recordAudit(ctx, input.ActorID, "PO_CREATE", order.ID, map[string]any{"number": order.Number, "total": order.Totals.Total})
	return order, nil
}

// UpdateLines replaces the lines of a DRAFT order and recomputes totals.
func (s *Service) UpdateLines(ctx context.Context, input UpdateLinesInput) (Order, error) {
	order, _, err := s.repo.GetOrder(ctx, input.OrderID)
	if err != nil {
		return Order{}, err
	}
	if order.Status != StatusDraft {
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
	s.recordAudit(ctx, input.ActorID, "PO_UPDATE", order.ID, map[string]any{"total": order.Totals.Total})
	return order, nil
}

// Submit moves DRAFT to PENDING and records the approval request.
func (s *Service) Submit(ctx context.Context, orderID, actorID int64) error {
	return s.transition(ctx, orderID, StatusPending, actorID, func(ctx context.Context, order Order) {
		if s.approvals != nil {
			_ = s.approvals.EnsureSubmit(ctx, "PO", orderID, actorID, fmt.Sprintf("PO %s submitted", order.Number))
		}
	})
}

// Approve moves PENDING to APPROVED.
func (s *Service) Approve(ctx context.Context, orderID, actorID int64) error {
	return s.transition(ctx, orderID, StatusApproved, actorID, func(ctx context.Context, order Order) {
		if s.approvals != nil {
			_ = s.approvals.Record(ctx, shared.ApprovalLog{
				Module:  "PO",
				RefID:   orderID,
				ActorID: actorID,
				Action:  shared.ApprovalApprove,
				Note:    fmt.Sprintf("PO %s approved", order.Number),
			})
		}
	})
}

// Cancel moves any non-terminal order to CANCELLED.
func (s *Service) Cancel(ctx context.Context, orderID, actorID int64) error {
	return s.transition(ctx, orderID, StatusCancelled, actorID, nil)
}

func (s *Service) transition(ctx context.Context, orderID int64, to Status, actorID int64, after func(context.Context, Order)) error {
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
	if after != nil {
		after(ctx, order)
	}
	s.recordAudit(ctx, actorID, fmt.Sprintf("PO_%s", to), orderID, map[string]any{"number": order.Number})
	return nil
}

// Receive posts every line into stock and moves the order to RECEIVED. The
// per-line movement codes keep reposting idempotent at the inventory layer.
func (s *Service) Receive(ctx context.Context, input ReceiveOrderInput) error {
	if input.WarehouseID == 0 {
		return shared.NewValidationError("warehouse_id", "required")
	}
	order, lines, err := s.repo.GetOrder(ctx, input.OrderID)
	if err != nil {
		return err
	}
	if !CanTransition(order.Status, StatusReceived) {
		return shared.ErrInvalidState
	}

	for _, line := range lines {
		unitCost := line.UnitPrice * (1 - line.DiscountPercent/100)
		_, err := s.inventory.PostReceive(ctx, inventory.ReceiveInput{
			Code:        fmt.Sprintf("PO-%s-%d", order.Number, line.ProductID),
			WarehouseID: input.WarehouseID,
			ProductID:   line.ProductID,
			Qty:         float64(line.Qty),
			UnitCost:    unitCost,
			Note:        fmt.Sprintf("Received PO %s", order.Number),
			ActorID:     input.ActorID,
			RefModule:   "PURCHASING",
			RefID:       fmt.Sprintf("%d", order.ID),
		})
		if err != nil {
			return err
		}
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateOrderStatus(ctx, input.OrderID, StatusReceived)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, input.ActorID, "PO_RECEIVE", order.ID, map[string]any{"number": order.Number, "warehouse_id": input.WarehouseID})
	return nil
}

// Get returns one order with lines.
func (s *Service) Get(ctx context.Context, orderID int64) (Order, []Line, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// List returns paginated orders.
func (s *Service) List(ctx context.Context, filter OrderFilter) ([]Order, int64, error) {
	return s.repo.ListOrders(ctx, filter)
}

// CreateInvoice raises a supplier invoice for a received order.
func (s *Service) CreateInvoice(ctx context.Context, input InvoiceInput) (Invoice, error) {
	order, _, err := s.repo.GetOrder(ctx, input.OrderID)
	if err != nil {
		return Invoice{}, err
	}
	if order.Status != StatusReceived {
		return Invoice{}, shared.ErrInvalidState
	}

	inv := Invoice{
		Number:     input.Number,
		SupplierID: order.SupplierID,
		OrderID:    order.ID,
		Currency:   order.Currency,
		Total:      order.Totals.Total,
		Status:     InvoiceOpen,
		DueAt:      input.DueAt,
	}
	if inv.Number == "" {
		inv.Number = generateNumber("INV")
	}
	if inv.DueAt.IsZero() {
		inv.DueAt = time.Now().AddDate(0, 0, 30)
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateInvoice(ctx, inv)
		if err != nil {
			return err
		}
		inv.ID = id
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// RegisterPayment records a payment and marks the invoice PAID once settled.
func (s *Service) RegisterPayment(ctx context.Context, input PaymentInput) (Payment, error) {
	if input.Amount <= 0 {
		return Payment{}, shared.NewValidationError("amount", "must be positive")
	}
	payment := Payment{Number: input.Number, InvoiceID: input.InvoiceID, Amount: input.Amount}
	if payment.Number == "" {
		payment.Number = generateNumber("PAY")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, input.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status != InvoiceOpen {
			return shared.ErrInvalidState
		}
		if inv.Paid+input.Amount > inv.Total+0.0001 {
			return shared.NewValidationError("amount", "exceeds invoice balance")
		}
		id, err := tx.CreatePayment(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		paid := inv.Paid + input.Amount
		status := InvoiceOpen
		if paid >= inv.Total-0.0001 {
			status = InvoicePaid
		}
		return tx.UpdateInvoicePaid(ctx, input.InvoiceID, paid, status)
	})
	if err != nil {
		return Payment{}, err
	}
	s.recordAudit(ctx, input.ActorID, "AP_PAYMENT", input.InvoiceID, map[string]any{"amount": input.Amount})
	return payment, nil
}

// Invoice returns one supplier invoice.
func (s *Service) Invoice(ctx context.Context, invoiceID int64) (Invoice, error) {
	return s.repo.GetInvoice(ctx, invoiceID)
}

// Outstanding lists unpaid invoices, optionally per supplier.
func (s *Service) Outstanding(ctx context.Context, supplierID int64) ([]Invoice, error) {
	return s.repo.ListOutstandingInvoices(ctx, supplierID)
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "purchasing",
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
