package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/stock"
)

type balanceKey struct {
	warehouseID int64
	productID   int64
}

type memoryRepo struct {
	mu         sync.Mutex
	balances   map[balanceKey]Balance
	movements  []Movement
	thresholds map[int64]stock.Thresholds
	products   map[int64]string
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		balances:   make(map[balanceKey]Balance),
		thresholds: make(map[int64]stock.Thresholds),
		products:   make(map[int64]string),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memoryTx{repo: r})
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) GetBalanceForUpdate(_ context.Context, warehouseID, productID int64) (Balance, error) {
	b, ok := t.repo.balances[balanceKey{warehouseID, productID}]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}
	return b, nil
}

func (t *memoryTx) UpsertBalance(_ context.Context, b Balance) error {
	t.repo.balances[balanceKey{b.WarehouseID, b.ProductID}] = b
	return nil
}

func (t *memoryTx) InsertMovement(_ context.Context, m Movement) (int64, error) {
	t.repo.nextID++
	m.ID = t.repo.nextID
	t.repo.movements = append(t.repo.movements, m)
	return m.ID, nil
}

func (t *memoryTx) GetProductThresholds(_ context.Context, productID int64) (stock.Thresholds, error) {
	th, ok := t.repo.thresholds[productID]
	if !ok {
		return stock.Thresholds{}, shared.ErrNotFound
	}
	return th, nil
}

func (r *memoryRepo) ListLevels(_ context.Context, warehouseID int64) ([]StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StockLevel
	for key, b := range r.balances {
		if warehouseID != 0 && key.warehouseID != warehouseID {
			continue
		}
		th := r.thresholds[key.productID]
		out = append(out, StockLevel{
			WarehouseID:  key.warehouseID,
			ProductID:    key.productID,
			ProductName:  r.products[key.productID],
			CurrentStock: b.Qty,
			MinStock:     th.MinStock,
			MaxStock:     th.MaxStock,
			AvgCost:      b.AvgCost,
		})
	}
	return out, nil
}

func (r *memoryRepo) GetLevel(_ context.Context, warehouseID, productID int64) (StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[balanceKey{warehouseID, productID}]
	if !ok {
		return StockLevel{}, shared.ErrNotFound
	}
	th := r.thresholds[productID]
	return StockLevel{
		WarehouseID:  warehouseID,
		ProductID:    productID,
		ProductName:  r.products[productID],
		CurrentStock: b.Qty,
		MinStock:     th.MinStock,
		MaxStock:     th.MaxStock,
		AvgCost:      b.AvgCost,
	}, nil
}

func (r *memoryRepo) ListMovements(_ context.Context, filter MovementFilter) ([]Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Movement
	for _, m := range r.movements {
		if filter.WarehouseID != 0 && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.ProductID != 0 && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: make(map[string]bool)}
}

func (s *memoryIdempotency) CheckAndInsert(_ context.Context, key, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	s.keys[key] = true
	return nil
}

func (s *memoryIdempotency) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

type memoryNotifier struct {
	mu       sync.Mutex
	subjects []string
}

func (n *memoryNotifier) Push(_ context.Context, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	return nil
}

func newTestService(repo *memoryRepo, notifier *memoryNotifier, allowNeg bool) *Service {
	// A typed-nil pointer in the interface field would defeat the service's
	// nil check, so only a real notifier goes in.
	var port NotifierPort
	if notifier != nil {
		port = notifier
	}
	return NewService(repo, nil, port, nil, newMemoryIdempotency(), ServiceConfig{AllowNegativeStock: allowNeg})
}

func seedProduct(repo *memoryRepo, productID int64, min, max float64) {
	repo.thresholds[productID] = stock.Thresholds{MinStock: min, MaxStock: max}
	repo.products[productID] = fmt.Sprintf("Product %d", productID)
}

func TestReceiveCreatesBalance(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 10, 100)
	svc := newTestService(repo, nil, false)

	m, err := svc.PostReceive(context.Background(), ReceiveInput{
		Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 50, UnitCost: 4.0,
	})
	require.NoError(t, err)
	assert.Equal(t, MovementTypeReceive, m.Type)
	assert.Equal(t, 50.0, m.BalanceQty)

	lv, err := svc.Level(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 50.0, lv.CurrentStock)
	assert.Equal(t, 4.0, lv.AvgCost)
	assert.Equal(t, stock.StatusGood, lv.Status)
}

func TestReceiveWeightedAverageCost(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 100, UnitCost: 10})
	require.NoError(t, err)
	_, err = svc.PostReceive(ctx, ReceiveInput{Code: "RCV-2", WarehouseID: 1, ProductID: 1, Qty: 100, UnitCost: 20})
	require.NoError(t, err)

	lv, err := svc.Level(ctx, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, lv.AvgCost, 0.0001)
}

func TestIssueConsumesAtAverageCost(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 10, UnitCost: 12.5})
	require.NoError(t, err)

	m, err := svc.PostIssue(ctx, IssueInput{Code: "ISS-1", WarehouseID: 1, ProductID: 1, Qty: 4})
	require.NoError(t, err)
	assert.Equal(t, 12.5, m.UnitCost)
	assert.Equal(t, 6.0, m.BalanceQty)
}

func TestIssueRejectsNegativeStock(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 3, UnitCost: 1})
	require.NoError(t, err)

	_, err = svc.PostIssue(ctx, IssueInput{Code: "ISS-1", WarehouseID: 1, ProductID: 1, Qty: 5})
	assert.ErrorIs(t, err, ErrNegativeStock)

	// The failed movement must not touch the balance.
	lv, err := svc.Level(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, lv.CurrentStock)
}

func TestIssueAllowedNegativeWhenConfigured(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, true)
	ctx := context.Background()

	_, err := svc.PostAdjustment(ctx, AdjustmentInput{Code: "ADJ-1", WarehouseID: 1, ProductID: 1, Qty: -2})
	require.NoError(t, err)

	lv, err := svc.Level(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, -2.0, lv.CurrentStock)
}

func TestDuplicateMovementRejected(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	input := ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 10, UnitCost: 2}
	_, err := svc.PostReceive(ctx, input)
	require.NoError(t, err)
	_, err = svc.PostReceive(ctx, input)
	assert.ErrorIs(t, err, shared.ErrIdempotencyConflict)
}

func TestTransferMovesStockBetweenWarehouses(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 20, UnitCost: 3})
	require.NoError(t, err)

	out, in, err := svc.PostTransfer(ctx, TransferInput{
		Code: "TRF-1", ProductID: 1, Qty: 8, SrcWarehouse: 1, DstWarehouse: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, -8.0, out.Qty)
	assert.Equal(t, 8.0, in.Qty)
	assert.Equal(t, 3.0, in.UnitCost)

	src, err := svc.Level(ctx, 1, 1)
	require.NoError(t, err)
	dst, err := svc.Level(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.0, src.CurrentStock)
	assert.Equal(t, 8.0, dst.CurrentStock)
	assert.Equal(t, 3.0, dst.AvgCost)
}

func TestTransferRejectsSameWarehouse(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil, false)
	_, _, err := svc.PostTransfer(context.Background(), TransferInput{
		ProductID: 1, Qty: 1, SrcWarehouse: 3, DstWarehouse: 3,
	})
	assert.True(t, shared.IsValidation(err))
}

func TestLowStockNotification(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 10, 100)
	notifier := &memoryNotifier{}
	svc := newTestService(repo, notifier, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 12, UnitCost: 1})
	require.NoError(t, err)
	assert.Empty(t, notifier.subjects)

	// 12 - 8 = 4 which is below half of min stock 10.
	_, err = svc.PostIssue(ctx, IssueInput{Code: "ISS-1", WarehouseID: 1, ProductID: 1, Qty: 8})
	require.NoError(t, err)
	require.Len(t, notifier.subjects, 1)
	assert.Contains(t, notifier.subjects[0], "CRITICAL")
}

func TestLowStockWithoutNotifierConfigured(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 10, 100)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 12, UnitCost: 1})
	require.NoError(t, err)

	// Crossing into CRITICAL with no notifier wired must still post cleanly.
	m, err := svc.PostIssue(ctx, IssueInput{Code: "ISS-1", WarehouseID: 1, ProductID: 1, Qty: 8})
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.BalanceQty)
}

func TestLowStockListing(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 10, 100)
	seedProduct(repo, 2, 10, 100)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 50, UnitCost: 1})
	require.NoError(t, err)
	_, err = svc.PostReceive(ctx, ReceiveInput{Code: "RCV-2", WarehouseID: 1, ProductID: 2, Qty: 7, UnitCost: 1})
	require.NoError(t, err)

	low, err := svc.LowStock(ctx, 1)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, int64(2), low[0].ProductID)
	assert.Equal(t, stock.StatusLow, low[0].Status)
	assert.Equal(t, "#f59e0b", low[0].StatusColor)
}

func TestMovementValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{WarehouseID: 1, ProductID: 1, Qty: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PostReceive(ctx, ReceiveInput{WarehouseID: 1, ProductID: 1, Qty: 5, UnitCost: -1})
	assert.ErrorIs(t, err, ErrInvalidUnitCost)

	_, err = svc.PostIssue(ctx, IssueInput{WarehouseID: 1, ProductID: 1, Qty: -2})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PostAdjustment(ctx, AdjustmentInput{WarehouseID: 1, ProductID: 1, Qty: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PostReceive(ctx, ReceiveInput{ProductID: 1, Qty: 5})
	assert.True(t, shared.IsValidation(err))
}

func TestMovementLedgerRecordsBalance(t *testing.T) {
	repo := newMemoryRepo()
	seedProduct(repo, 1, 5, 1000)
	svc := newTestService(repo, nil, false)
	ctx := context.Background()

	_, err := svc.PostReceive(ctx, ReceiveInput{Code: "RCV-1", WarehouseID: 1, ProductID: 1, Qty: 10, UnitCost: 2})
	require.NoError(t, err)
	_, err = svc.PostIssue(ctx, IssueInput{Code: "ISS-1", WarehouseID: 1, ProductID: 1, Qty: 4})
	require.NoError(t, err)

	movements, err := svc.Movements(ctx, MovementFilter{WarehouseID: 1, ProductID: 1})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, 10.0, movements[0].BalanceQty)
	assert.Equal(t, 6.0, movements[1].BalanceQty)
}
