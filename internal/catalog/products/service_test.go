package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catshared "github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type memoryRepo struct {
	items  map[int64]Product
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]Product)}
}

func (r *memoryRepo) List(ctx context.Context, filters catshared.ListFilters) ([]Product, int, error) {
	var items []Product
	for _, p := range r.items {
		items = append(items, p)
	}
	return items, len(items), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.items[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	for _, existing := range r.items {
		if existing.Code == product.Code {
			return Product{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	product.ID = r.nextID
	r.items[product.ID] = product
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, product Product) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	product.ID = id
	r.items[id] = product
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func validProduct() Product {
	return Product{Code: "SKU-1", Name: "Espresso Beans", Unit: "kg", Price: 18.5, Cost: 11.0, MinStock: 10, MaxStock: 100, ReorderPoint: 15, IsActive: true}
}

func TestProductCRUD(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, validProduct())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "SKU-1", got.Code)

	got.Price = 19.25
	require.NoError(t, svc.Update(ctx, created.ID, got))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	p := validProduct()
	p.Code = ""
	_, err := svc.Create(ctx, p)
	require.True(t, shared.IsValidation(err))

	p = validProduct()
	p.MaxStock = p.MinStock
	_, err = svc.Create(ctx, p)
	require.True(t, shared.IsValidation(err))

	p = validProduct()
	p.Price = -1
	_, err = svc.Create(ctx, p)
	require.True(t, shared.IsValidation(err))
}

func TestProductDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, validProduct())
	require.NoError(t, err)
	_, err = svc.Create(ctx, validProduct())
	require.ErrorIs(t, err, shared.ErrDuplicate)
}
