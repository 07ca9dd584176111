package products

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	catshared "github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters catshared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, code, name, category, unit, price, cost, min_stock, max_stock, reorder_point, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters catshared.ListFilters) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products WHERE 1=1`
	args := []any{}
	argCount := 0

	addFilter := func(clause string, value any) {
		argCount++
		placeholder := `$` + strconv.Itoa(argCount)
		query += ` AND ` + clause + placeholder
		countQuery += ` AND ` + clause + placeholder
		args = append(args, value)
	}

	if filters.Search != "" {
		argCount++
		placeholder := `$` + strconv.Itoa(argCount)
		cond := ` AND (name ILIKE ` + placeholder + ` OR code ILIKE ` + placeholder + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Category != "" {
		addFilter(`category = `, filters.Category)
	}
	if filters.IsActive != nil {
		addFilter(`is_active = `, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.Unit, &p.Price, &p.Cost, &p.MinStock, &p.MaxStock, &p.ReorderPoint, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.Unit, &p.Price, &p.Cost, &p.MinStock, &p.MaxStock, &p.ReorderPoint, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, catshared.MapPgError(err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO products (code, name, category, unit, price, cost, min_stock, max_stock, reorder_point, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		product.Code, product.Name, product.Category, product.Unit, product.Price, product.Cost,
		product.MinStock, product.MaxStock, product.ReorderPoint, product.IsActive, now, now).Scan(&product.ID)
	if err != nil {
		return Product{}, catshared.MapPgError(err)
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET code = $1, name = $2, category = $3, unit = $4, price = $5, cost = $6, min_stock = $7, max_stock = $8, reorder_point = $9, is_active = $10, updated_at = $11 WHERE id = $12`,
		product.Code, product.Name, product.Category, product.Unit, product.Price, product.Cost,
		product.MinStock, product.MaxStock, product.ReorderPoint, product.IsActive, time.Now(), id)
	if err != nil {
		return catshared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	col := "name"
	switch sortBy {
	case "code", "name", "category", "price", "created_at":
		col = sortBy
	}
	dir := "ASC"
	if sortDir == catshared.SortDesc {
		dir = "DESC"
	}
	return col + " " + dir
}
