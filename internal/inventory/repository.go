package inventory

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/db"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/stock"
)

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	GetBalanceForUpdate(ctx context.Context, warehouseID, productID int64) (Balance, error)
	UpsertBalance(ctx context.Context, balance Balance) error
	InsertMovement(ctx context.Context, m Movement) (int64, error)
	GetProductThresholds(ctx context.Context, productID int64) (stock.Thresholds, error)
}

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const levelColumns = `b.warehouse_id, b.product_id, p.code, p.name, b.qty, p.min_stock, p.max_stock, p.reorder_point, b.avg_cost`

// ListLevels returns balances joined with product thresholds.
func (r *Repository) ListLevels(ctx context.Context, warehouseID int64) ([]StockLevel, error) {
	query := `SELECT ` + levelColumns + ` FROM stock_balances b JOIN products p ON p.id = b.product_id`
	args := []any{}
	if warehouseID != 0 {
		query += ` WHERE b.warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY p.code ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var lv StockLevel
		if err := rows.Scan(&lv.WarehouseID, &lv.ProductID, &lv.ProductCode, &lv.ProductName, &lv.CurrentStock, &lv.MinStock, &lv.MaxStock, &lv.ReorderPoint, &lv.AvgCost); err != nil {
			return nil, err
		}
		levels = append(levels, lv)
	}
	return levels, rows.Err()
}

// GetLevel returns one balance joined with its product thresholds.
func (r *Repository) GetLevel(ctx context.Context, warehouseID, productID int64) (StockLevel, error) {
	var lv StockLevel
	err := r.pool.QueryRow(ctx, `SELECT `+levelColumns+` FROM stock_balances b JOIN products p ON p.id = b.product_id
WHERE b.warehouse_id = $1 AND b.product_id = $2`, warehouseID, productID).
		Scan(&lv.WarehouseID, &lv.ProductID, &lv.ProductCode, &lv.ProductName, &lv.CurrentStock, &lv.MinStock, &lv.MaxStock, &lv.ReorderPoint, &lv.AvgCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockLevel{}, ErrBalanceNotFound
		}
		return StockLevel{}, err
	}
	return lv, nil
}

// ListMovements returns ledger entries matching the filter, newest first.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	query := `SELECT id, code, movement_type, warehouse_id, product_id, qty, unit_cost, balance_qty, ref_module, ref_id, note, posted_at, created_by
FROM stock_movements WHERE 1=1`
	args := []any{}
	argCount := 0

	add := func(clause string, value any) {
		argCount++
		query += ` AND ` + clause + `$` + strconv.Itoa(argCount)
		args = append(args, value)
	}
	if filter.WarehouseID != 0 {
		add(`warehouse_id = `, filter.WarehouseID)
	}
	if filter.ProductID != 0 {
		add(`product_id = `, filter.ProductID)
	}
	if filter.Type != "" {
		add(`movement_type = `, string(filter.Type))
	}
	if !filter.From.IsZero() {
		add(`posted_at >= `, filter.From)
	}
	if !filter.To.IsZero() {
		add(`posted_at <= `, filter.To)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	argCount++
	query += ` ORDER BY posted_at DESC, id DESC LIMIT $` + strconv.Itoa(argCount)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		var movementType string
		if err := rows.Scan(&m.ID, &m.Code, &movementType, &m.WarehouseID, &m.ProductID, &m.Qty, &m.UnitCost, &m.BalanceQty, &m.RefModule, &m.RefID, &m.Note, &m.PostedAt, &m.CreatedBy); err != nil {
			return nil, err
		}
		m.Type = MovementType(movementType)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *txRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, productID int64) (Balance, error) {
	var b Balance
	err := r.tx.QueryRow(ctx, `SELECT warehouse_id, product_id, qty, avg_cost, updated_at
FROM stock_balances WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`, warehouseID, productID).
		Scan(&b.WarehouseID, &b.ProductID, &b.Qty, &b.AvgCost, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{WarehouseID: warehouseID, ProductID: productID}, ErrBalanceNotFound
		}
		return Balance{}, err
	}
	return b, nil
}

func (r *txRepo) UpsertBalance(ctx context.Context, balance Balance) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO stock_balances (warehouse_id, product_id, qty, avg_cost, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (warehouse_id, product_id) DO UPDATE SET qty = EXCLUDED.qty, avg_cost = EXCLUDED.avg_cost, updated_at = NOW()`,
		balance.WarehouseID, balance.ProductID, balance.Qty, balance.AvgCost)
	return err
}

func (r *txRepo) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_movements (code, movement_type, warehouse_id, product_id, qty, unit_cost, balance_qty, ref_module, ref_id, note, posted_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		m.Code, string(m.Type), m.WarehouseID, m.ProductID, m.Qty, m.UnitCost, m.BalanceQty, m.RefModule, m.RefID, m.Note, m.PostedAt, m.CreatedBy).Scan(&id)
	return id, err
}

func (r *txRepo) GetProductThresholds(ctx context.Context, productID int64) (stock.Thresholds, error) {
	var th stock.Thresholds
	err := r.tx.QueryRow(ctx, `SELECT min_stock, max_stock FROM products WHERE id = $1`, productID).
		Scan(&th.MinStock, &th.MaxStock)
	return th, err
}
