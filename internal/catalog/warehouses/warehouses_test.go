package warehouses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type memoryRepo struct {
	items  map[int64]Warehouse
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]Warehouse)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Warehouse, error) {
	var items []Warehouse
	for _, wh := range r.items {
		items = append(items, wh)
	}
	return items, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Warehouse, error) {
	wh, ok := r.items[id]
	if !ok {
		return Warehouse{}, shared.ErrNotFound
	}
	return wh, nil
}

func (r *memoryRepo) Create(ctx context.Context, wh Warehouse) (Warehouse, error) {
	for _, existing := range r.items {
		if existing.Code == wh.Code {
			return Warehouse{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	wh.ID = r.nextID
	r.items[wh.ID] = wh
	return wh, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, wh Warehouse) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	wh.ID = id
	r.items[id] = wh
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func TestCreateWarehouse(t *testing.T) {
	svc := NewService(newMemoryRepo())

	created, err := svc.Create(context.Background(), Warehouse{Code: "WH-01", Name: "Main", Address: "1 Depot Rd"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Main", got.Name)
}

func TestCreateWarehouseRequiresCodeAndName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Warehouse{Name: "No Code"})
	require.True(t, shared.IsValidation(err))

	_, err = svc.Create(context.Background(), Warehouse{Code: "WH-02", Name: " "})
	require.True(t, shared.IsValidation(err))
}

func TestDuplicateWarehouseCodeRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Warehouse{Code: "WH-01", Name: "Main"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Warehouse{Code: "WH-01", Name: "Second"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateMissingWarehouse(t *testing.T) {
	svc := NewService(newMemoryRepo())

	err := svc.Update(context.Background(), 7, Warehouse{Code: "WH-07", Name: "Ghost"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
