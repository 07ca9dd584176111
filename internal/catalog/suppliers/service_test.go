package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catshared "github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type memoryRepo struct {
	items  map[int64]Supplier
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]Supplier)}
}

func (r *memoryRepo) List(ctx context.Context, filters catshared.ListFilters) ([]Supplier, int, error) {
	var items []Supplier
	for _, s := range r.items {
		items = append(items, s)
	}
	return items, len(items), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Supplier, error) {
	s, ok := r.items[id]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	for _, existing := range r.items {
		if existing.Code == supplier.Code {
			return Supplier{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	supplier.ID = r.nextID
	r.items[supplier.ID] = supplier
	return supplier, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, supplier Supplier) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	supplier.ID = id
	r.items[id] = supplier
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func TestCreateSupplier(t *testing.T) {
	svc := NewService(newMemoryRepo())

	created, err := svc.Create(context.Background(), Supplier{Code: "SUP-001", Name: "Acme Trading", IsActive: true})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Trading", got.Name)
}

func TestCreateSupplierRequiresCodeAndName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Supplier{Name: "No Code"})
	require.True(t, shared.IsValidation(err))

	_, err = svc.Create(context.Background(), Supplier{Code: "SUP-002", Name: "   "})
	require.True(t, shared.IsValidation(err))
}

func TestDuplicateSupplierCodeRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Supplier{Code: "SUP-001", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Supplier{Code: "SUP-001", Name: "Second"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateMissingSupplier(t *testing.T) {
	svc := NewService(newMemoryRepo())

	err := svc.Update(context.Background(), 42, Supplier{Code: "SUP-042", Name: "Ghost"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
