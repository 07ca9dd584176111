package purchasing

import (
	"context"
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
	CreateInvoice(ctx context.Context, inv Invoice) (int64, error)
	GetInvoiceForUpdate(ctx context.Context, invoiceID int64) (Invoice, error)
	UpdateInvoicePaid(ctx context.Context, invoiceID int64, paid float64, status InvoiceStatus) error
	CreatePayment(ctx context.Context, p Payment) (int64, error)
}

// Repository persists purchasing data in PostgreSQL.
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

const orderColumns = `id, number, supplier_id, status, currency, expected_date, discount_percent, tax_percent, subtotal, discount_amount, tax_amount, total, note, created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.SupplierID, &o.Status, &o.Currency, &o.ExpectedDate,
		&o.DiscountPercent, &o.TaxPercent, &o.Totals.Subtotal, &o.Totals.DiscountAmount,
		&o.Totals.TaxAmount, &o.Totals.Total, &o.Note, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, catshared.MapPgError(err)
	}
	return o, err
}

// GetOrder returns a header with its lines.
func (r *Repository) GetOrder(ctx context.Context, id int64) (Order, []Line, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, qty, unit_price, discount_percent, line_total
FROM purchase_order_lines WHERE order_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Qty, &l.UnitPrice, &l.DiscountPercent, &l.LineTotal); err != nil {
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
	if filter.SupplierID != 0 {
		args = append(args, filter.SupplierID)
		where += ` AND supplier_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders`+where, args...).Scan(&total); err != nil {
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
	query := `SELECT ` + orderColumns + ` FROM purchase_orders` + where +
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

// GetInvoice returns one supplier invoice.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (Invoice, error) {
	var inv Invoice
	err := r.pool.QueryRow(ctx, `SELECT id, number, supplier_id, order_id, currency, total, paid, status, due_at, created_at
FROM supplier_invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.Number, &inv.SupplierID, &inv.OrderID, &inv.Currency, &inv.Total, &inv.Paid, &inv.Status, &inv.DueAt, &inv.CreatedAt)
	if err != nil {
		return Invoice{}, catshared.MapPgError(err)
	}
	return inv, nil
}

// ListOutstandingInvoices returns open invoices oldest due first.
func (r *Repository) ListOutstandingInvoices(ctx context.Context, supplierID int64) ([]Invoice, error) {
	query := `SELECT id, number, supplier_id, order_id, currency, total, paid, status, due_at, created_at
FROM supplier_invoices WHERE status = 'OPEN'`
	args := []any{}
	if supplierID != 0 {
		args = append(args, supplierID)
		query += ` AND supplier_id = $1`
	}
	query += ` ORDER BY due_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.SupplierID, &inv.OrderID, &inv.Currency, &inv.Total, &inv.Paid, &inv.Status, &inv.DueAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (t *txRepo) CreateOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO purchase_orders
(number, supplier_id, status, currency, expected_date, discount_percent, tax_percent, subtotal, discount_amount, tax_amount, total, note, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
RETURNING id`,
		o.Number, o.SupplierID, o.Status, o.Currency, o.ExpectedDate, o.DiscountPercent, o.TaxPercent,
		o.Totals.Subtotal, o.Totals.DiscountAmount, o.Totals.TaxAmount, o.Totals.Total, o.Note, o.CreatedBy).Scan(&id)
	if err != nil {
		return 0, catshared.MapPgError(err)
	}
	return id, nil
}

func (t *txRepo) InsertLine(ctx context.Context, l Line) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO purchase_order_lines
(order_id, product_id, qty, unit_price, discount_percent, line_total)
VALUES ($1, $2, $3, $4, $5, $6)`,
		l.OrderID, l.ProductID, l.Qty, l.UnitPrice, l.DiscountPercent, l.LineTotal)
	return err
}

func (t *txRepo) DeleteLines(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, orderID)
	return err
}

func (t *txRepo) UpdateOrderTotals(ctx context.Context, o Order) error {
	tag, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET
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
	tag, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catshared.MapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (t *txRepo) CreateInvoice(ctx context.Context, inv Invoice) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO supplier_invoices
(number, supplier_id, order_id, currency, total, paid, status, due_at, created_at)
VALUES ($1, $2, $3, $4, $5, 0, $6, $7, NOW())
RETURNING id`,
		inv.Number, inv.SupplierID, inv.OrderID, inv.Currency, inv.Total, inv.Status, inv.DueAt).Scan(&id)
	if err != nil {
		return 0, catshared.MapPgError(err)
	}
	return id, nil
}

func (t *txRepo) GetInvoiceForUpdate(ctx context.Context, invoiceID int64) (Invoice, error) {
	var inv Invoice
	err := t.tx.QueryRow(ctx, `SELECT id, number, supplier_id, order_id, currency, total, paid, status, due_at, created_at
FROM supplier_invoices WHERE id = $1 FOR UPDATE`, invoiceID).
		Scan(&inv.ID, &inv.Number, &inv.SupplierID, &inv.OrderID, &inv.Currency, &inv.Total, &inv.Paid, &inv.Status, &inv.DueAt, &inv.CreatedAt)
	if err != nil {
		return Invoice{}, catshared.MapPgError(err)
	}
	return inv, nil
}

func (t *txRepo) UpdateInvoicePaid(ctx context.Context, invoiceID int64, paid float64, status InvoiceStatus) error {
	_, err := t.tx.Exec(ctx, `UPDATE supplier_invoices SET paid = $2, status = $3 WHERE id = $1`, invoiceID, paid, status)
	return err
}

func (t *txRepo) CreatePayment(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO supplier_payments (number, invoice_id, amount, paid_at)
VALUES ($1, $2, $3, NOW()) RETURNING id`, p.Number, p.InvoiceID, p.Amount).Scan(&id)
	if err != nil {
		return 0, catshared.MapPgError(err)
	}
	return id, nil
}
