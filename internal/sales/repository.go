package sales

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/platform/db"
	catshared "github.com/Shafin5714/stock-craftsman-16-sub000/internal/catalog/shared"
)

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	CreateOrder(ctx context.Context, o Order) (int64, error)
	InsertLine(ctx context.Context, l Line) error
	DeleteLines(ctx context.Context, orderID int64) error
	UpdateOrderTotals(ctx context.Context, o Order) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error
	CreateReceipt(ctx context.Context, receipt Receipt) (int64, error)
}

// Repository persists sales data in PostgreSQL.
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

const orderColumns = `id, number, customer_id, warehouse_id, status, currency, discount_percent, tax_percent, subtotal, discount_amount, tax_amount, total, note, created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.WarehouseID, &o.Status, &o.Currency,
		&o.DiscountPercent, &o.TaxPercent, &o.Totals.Subtotal, &o.Totals.DiscountAmount,
		&o.Totals.TaxAmount, &o.Totals.Total, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, catshared.MapPgError(err)
	}
	return o, err
}

// GetOrder returns a header with its lines, product names joined in.
func (r *Repository) GetOrder(ctx context.Context, id int64) (Order, []Line, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM sales_orders WHERE id = $1`, id))
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT l.id, l.order_id, l.product_id, p.name, l.qty, l.unit_price, l.discount_percent, l.line_total
FROM sales_order_lines l JOIN products p ON p.id = l.product_id
WHERE l.order_id = $1 ORDER BY l.id ASC`, id)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Qty, &l.UnitPrice, &l.DiscountPercent, &l.LineTotal); err != nil {
			return Order{}, nil, err
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

// ListOrders returns paginated headers matching the filter.
func (r *Repository) ListOrders(ctx context.Context, filter OrderFilter) ([]Order, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.CustomerID != 0 {
		args = append(args, filter.CustomerID)
		where += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)
	query := `SELECT ` + orderColumns + ` FROM sales_orders` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// GetReceipt returns one receipt by id.
func (r *Repository) GetReceipt(ctx context.Context, id int64) (Receipt, error) {
	return r.scanReceipt(r.pool.QueryRow(ctx, `SELECT id, number, order_id, customer_id, currency, subtotal, discount_amount, tax_amount, total, lines, issued_at
FROM sales_receipts WHERE id = $1`, id))
}

// GetReceiptByOrder returns the receipt emitted for an order.
func (r *Repository) GetReceiptByOrder(ctx context.Context, orderID int64) (Receipt, error) {
	return r.scanReceipt(r.pool.QueryRow(ctx, `SELECT id, number, order_id, customer_id, currency, subtotal, discount_amount, tax_amount, total, lines, issued_at
FROM sales_receipts WHERE order_id = $1`, orderID))
}

func (r *Repository) scanReceipt(row pgx.Row) (Receipt, error) {
	var receipt Receipt
	var linesJSON []byte
	err := row.Scan(&receipt.ID, &receipt.Number, &receipt.OrderID, &receipt.CustomerID, &receipt.Currency,
		&receipt.Totals.Subtotal, &receipt.Totals.DiscountAmount, &receipt.Totals.TaxAmount, &receipt.Totals.Total,
		&linesJSON, &receipt.IssuedAt)
	if err != nil {
		return Receipt{}, catshared.MapPgError(err)
	}
	if err := json.Unmarshal(linesJSON, &receipt.Lines); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

func (t *txRepo) CreateOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO sales_orders
(number, customer_id, warehouse_id, status, currency, discount_percent, tax_percent, subtotal, discount_amount, tax_amount, total, note, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
RETURNING id`,
		o.Number, o.CustomerID, o.WarehouseID, o.Status, o.Currency, o.DiscountPercent, o.TaxPercent,
		o.Totals.Subtotal, o.Totals.DiscountAmount, o.Totals.TaxAmount, o.Totals.Total, o.Note, o.CreatedBy).Scan(&id)
	if err != nil {
		return 0, catshared.MapPgError(err)
	}
	return id, nil
}

func (t *txRepo) InsertLine(ctx context.Context, l Line) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO sales_order_lines
(order_id, product_id, qty, unit_price, discount_percent, line_total)
VALUES ($1, $2, $3, $4, $5, $6)`,
		l.OrderID, l.ProductID, l.Qty, l.UnitPrice, l.DiscountPercent, l.LineTotal)
	return err
}

func (t *txRepo) DeleteLines(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM sales_order_lines WHERE order_id = $1`, orderID)
	return err
}

func (t *txRepo) UpdateOrderTotals(ctx context.Context, o Order) error {
	tag, err := t.tx.Exec(ctx, `UPDATE sales_orders SET
discount_percent = $2, tax_percent = $3, subtotal = $4, discount_amount = $5, tax_amount = $6, total = $7, updated_at = NOW()
WHERE id = $1`,
		o.ID, o.DiscountPercent, o.TaxPercent, o.Totals.Subtotal, o.Totals.DiscountAmount, o.Totals.TaxAmount, o.Totals.Total)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catshared.MapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (t *txRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error {
	tag, err := t.tx.Exec(ctx, `UPDATE sales_orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catshared.MapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (t *txRepo) CreateReceipt(ctx context.Context, receipt Receipt) (int64, error) {
	linesJSON, err := json.Marshal(receipt.Lines)
	if err != nil {
		return 0, err
	}
	var id int64
	err = t.tx.QueryRow(ctx, `INSERT INTO sales_receipts
(number, order_id, customer_id, currency, subtotal, discount_amount, tax_amount, total, lines, issued_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`,
		receipt.Number, receipt.OrderID, receipt.CustomerID, receipt.Currency,
		receipt.Totals.Subtotal, receipt.Totals.DiscountAmount, receipt.Totals.TaxAmount, receipt.Totals.Total,
		linesJSON, receipt.IssuedAt).Scan(&id)
	if err != nil {
		return 0, catshared.MapPgError(err)
	}
	return id, nil
}
