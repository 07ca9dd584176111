package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/inventory"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type memorySalesRepo struct {
	orders   map[int64]Order
	lines    map[int64][]Line
	receipts map[int64]Receipt
	nextID   int64
}

func newMemorySalesRepo() *memorySalesRepo {
	return &memorySalesRepo{
		orders:   make(map[int64]Order),
		lines:    make(map[int64][]Line),
		receipts: make(map[int64]Receipt),
	}
}

func (r *memorySalesRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memorySalesTx{repo: r})
}

func (r *memorySalesRepo) GetOrder(_ context.Context, id int64) (Order, []Line, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, nil, shared.ErrNotFound
	}
	return o, append([]Line(nil), r.lines[id]...), nil
}

func (r *memorySalesRepo) ListOrders(_ context.Context, filter OrderFilter) ([]Order, int64, error) {
	var out []Order
	for _, o := range r.orders {
		if filter.CustomerID != 0 && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *memorySalesRepo) GetReceipt(_ context.Context, id int64) (Receipt, error) {
	receipt, ok := r.receipts[id]
	if !ok {
		return Receipt{}, shared.ErrNotFound
	}
	return receipt, nil
}

func (r *memorySalesRepo) GetReceiptByOrder(_ context.Context, orderID int64) (Receipt, error) {
	for _, receipt := range r.receipts {
		if receipt.OrderID == orderID {
			return receipt, nil
		}
	}
	return Receipt{}, shared.ErrNotFound
}

type memorySalesTx struct {
	repo *memorySalesRepo
}

func (t *memorySalesTx) CreateOrder(_ context.Context, o Order) (int64, error) {
	t.repo.nextID++
	o.ID = t.repo.nextID
	t.repo.orders[o.ID] = o
	return o.ID, nil
}

func (t *memorySalesTx) InsertLine(_ context.Context, l Line) error {
	t.repo.lines[l.OrderID] = append(t.repo.lines[l.OrderID], l)
	return nil
}

func (t *memorySalesTx) DeleteLines(_ context.Context, orderID int64) error {
	delete(t.repo.lines, orderID)
	return nil
}

func (t *memorySalesTx) UpdateOrderTotals(_ context.Context, o Order) error {
	existing, ok := t.repo.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	existing.DiscountPercent = o.DiscountPercent
	existing.TaxPercent = o.TaxPercent
	existing.Totals = o.Totals
	t.repo.orders[o.ID] = existing
	return nil
}

func (t *memorySalesTx) UpdateOrderStatus(_ context.Context, orderID int64, status Status) error {
	o, ok := t.repo.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	o.Status = status
	t.repo.orders[orderID] = o
	return nil
}

func (t *memorySalesTx) CreateReceipt(_ context.Context, receipt Receipt) (int64, error) {
	t.repo.nextID++
	receipt.ID = t.repo.nextID
	t.repo.receipts[receipt.ID] = receipt
	return receipt.ID, nil
}

type stubInventory struct {
	issues []inventory.IssueInput
	err    error
}

func (s *stubInventory) PostIssue(_ context.Context, input inventory.IssueInput) (inventory.Movement, error) {
	if s.err != nil {
		return inventory.Movement{}, s.err
	}
	s.issues = append(s.issues, input)
	return inventory.Movement{Code: input.Code, Qty: -input.Qty}, nil
}

type stubNotifier struct {
	subjects []string
}

func (n *stubNotifier) Push(_ context.Context, subject, _ string) error {
	n.subjects = append(n.subjects, subject)
	return nil
}

func newTestService(repo *memorySalesRepo, inv *stubInventory, notifier *stubNotifier) *Service {
	// A typed-nil pointer in the interface field would defeat the service's
	// nil check, so only a real notifier goes in.
	var port NotifierPort
	if notifier != nil {
		port = notifier
	}
	return NewService(repo, inv, port, nil, "USD")
}

func cart() []LineInput {
	return []LineInput{
		{ProductID: 1, Qty: 2, UnitPrice: 29.99},
		{ProductID: 2, Qty: 1, UnitPrice: 15, DiscountPercent: 20},
	}
}

func TestCheckoutDerivesTotals(t *testing.T) {
	svc := newTestService(newMemorySalesRepo(), &stubInventory{}, nil)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:      5,
		WarehouseID:     1,
		DiscountPercent: 10,
		TaxPercent:      8,
		Lines:           []LineInput{{ProductID: 1, Qty: 2, UnitPrice: 29.99}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.InDelta(t, 59.98, order.Totals.Subtotal, 0.001)
	assert.InDelta(t, 58.3, order.Totals.Total, 0.001)
}

func TestCheckoutValidation(t *testing.T) {
	svc := newTestService(newMemorySalesRepo(), &stubInventory{}, nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, CreateOrderInput{WarehouseID: 1, Lines: cart()})
	assert.True(t, shared.IsValidation(err))

	_, err = svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 1, Lines: cart()})
	assert.True(t, shared.IsValidation(err))

	_, err = svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 1, WarehouseID: 1})
	assert.True(t, shared.IsValidation(err))

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: 1, WarehouseID: 1, TaxPercent: 101, Lines: cart(),
	})
	assert.True(t, shared.IsValidation(err))
}

func TestCompleteIssuesStockAndEmitsReceipt(t *testing.T) {
	repo := newMemorySalesRepo()
	inv := &stubInventory{}
	notifier := &stubNotifier{}
	svc := newTestService(repo, inv, notifier)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 2, Lines: cart()})
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, order.ID, 1))

	receipt, err := svc.Complete(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.NotZero(t, receipt.ID)
	assert.Equal(t, order.ID, receipt.OrderID)
	assert.Equal(t, order.Totals, receipt.Totals)
	require.Len(t, receipt.Lines, 2)

	got, _, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	require.Len(t, inv.issues, 2)
	assert.Equal(t, int64(2), inv.issues[0].WarehouseID)
	assert.Equal(t, 2.0, inv.issues[0].Qty)
	require.Len(t, notifier.subjects, 1)
	assert.Contains(t, notifier.subjects[0], order.Number)
}

func TestCompleteFailsWhenStockShort(t *testing.T) {
	repo := newMemorySalesRepo()
	inv := &stubInventory{err: inventory.ErrNegativeStock}
	svc := newTestService(repo, inv, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, Lines: cart()})
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, order.ID, 1))

	_, err = svc.Complete(ctx, order.ID, 1)
	assert.ErrorIs(t, err, inventory.ErrNegativeStock)

	// The order stays CONFIRMED and no receipt exists.
	got, _, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	_, err = svc.ReceiptForOrder(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCompleteWithoutNotifierConfigured(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := newTestService(repo, &stubInventory{}, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, Lines: cart()})
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, order.ID, 1))

	receipt, err := svc.Complete(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.NotZero(t, receipt.ID)
}

func TestHoldAndResume(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := newTestService(repo, &stubInventory{}, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, Lines: cart()})
	require.NoError(t, err)

	require.NoError(t, svc.Hold(ctx, order.ID, 1))
	// Held carts can still be edited.
	_, err = svc.UpdateLines(ctx, UpdateLinesInput{OrderID: order.ID, Lines: []LineInput{{ProductID: 3, Qty: 1, UnitPrice: 9}}})
	require.NoError(t, err)

	require.NoError(t, svc.Confirm(ctx, order.ID, 1))
	_, err = svc.Complete(ctx, order.ID, 1)
	require.NoError(t, err)
}

func TestIllegalTransitionsRejected(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := newTestService(repo, &stubInventory{}, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, Lines: cart()})
	require.NoError(t, err)

	// Complete straight from PENDING is not allowed.
	_, err = svc.Complete(ctx, order.ID, 1)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	require.NoError(t, svc.Cancel(ctx, order.ID, 1))
	// Cancelled is terminal.
	assert.ErrorIs(t, svc.Confirm(ctx, order.ID, 1), shared.ErrInvalidState)
	assert.ErrorIs(t, svc.Hold(ctx, order.ID, 1), shared.ErrInvalidState)

	// Completed is terminal too.
	order2, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, Lines: cart()})
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, order2.ID, 1))
	_, err = svc.Complete(ctx, order2.ID, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Cancel(ctx, order2.ID, 1), shared.ErrInvalidState)
	assert.ErrorIs(t, svc.Hold(ctx, order2.ID, 1), shared.ErrInvalidState)
}

func TestReceiptLookupIsFrozen(t *testing.T) {
	repo := newMemorySalesRepo()
	svc := newTestService(repo, &stubInventory{}, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, CreateOrderInput{CustomerID: 5, WarehouseID: 1, TaxPercent: 8, Lines: cart()})
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, order.ID, 1))
	issued, err := svc.Complete(ctx, order.ID, 1)
	require.NoError(t, err)

	byID, err := svc.Receipt(ctx, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, issued.Totals, byID.Totals)

	byOrder, err := svc.ReceiptForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, issued.Number, byOrder.Number)
}
