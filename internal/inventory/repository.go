package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filter ListFilter) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, input CreateInput) (Product, error)
	Update(ctx context.Context, id int64, input UpdateInput) (Product, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context) ([]Product, error)
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
	StockEntries(ctx context.Context, productID int64) ([]StockEntry, error)
	Sales(ctx context.Context, productID int64) ([]Sale, error)
}

// TxRepository exposes transactional operations used by service.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, id int64) (Product, error)
	InsertStockEntry(ctx context.Context, input MovementInput) (StockEntry, error)
	InsertSale(ctx context.Context, input MovementInput) (Sale, error)
	ApplyStockIn(ctx context.Context, productID int64, qty int, unitPrice float64) (Product, error)
	ApplySale(ctx context.Context, productID int64, qty int, unitPrice float64) (Product, error)
}

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	db   db.Querier
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

// WithTx runs fn in a ReadCommitted transaction; stock mutations lock the
// product row first.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &Repository{pool: r.pool, db: tx})
	})
}

const productColumns = `id, name, category, purchase_price, sale_price, stock_quantity, min_quantity, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice, &p.SalePrice, &p.StockQuantity, &p.MinQuantity, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func productNotFound(id int64) error {
	return fmt.Errorf("product %d: %w", id, shared.ErrNotFound)
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	var category *int16
	if filter.Category != nil {
		c := int16(*filter.Category)
		category = &c
	}
	query := `SELECT ` + productColumns + ` FROM products
WHERE ($1::smallint IS NULL OR category = $1)
ORDER BY created_at DESC, id DESC`
	args := []any{category}
	if filter.Page != nil {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, filter.Page.PerPage, filter.Page.Offset())
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("inventory: list products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("inventory: scan products: %w", err)
	}
	total := len(products)
	if filter.Page != nil {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE ($1::smallint IS NULL OR category = $1)`, category).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("inventory: count products: %w", err)
		}
	}
	return products, total, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, productNotFound(id)
		}
		return Product{}, fmt.Errorf("inventory: get product: %w", err)
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, input CreateInput) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `INSERT INTO products (name, category, purchase_price, sale_price, stock_quantity, min_quantity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+productColumns,
		input.Name, int16(input.Category), input.PurchasePrice, input.SalePrice, input.StockQuantity, input.MinQuantity))
	if err != nil {
		return Product{}, fmt.Errorf("inventory: create product: %w", db.MapWriteError(err))
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, input UpdateInput) (Product, error) {
	var category *int16
	if input.Category != nil {
		c := int16(*input.Category)
		category = &c
	}
	p, err := scanProduct(r.db.QueryRow(ctx, `UPDATE products SET
    name = COALESCE($2, name),
    category = COALESCE($3, category),
    purchase_price = COALESCE($4, purchase_price),
    sale_price = COALESCE($5, sale_price),
    stock_quantity = COALESCE($6, stock_quantity),
    min_quantity = COALESCE($7, min_quantity),
    updated_at = $8
WHERE id = $1
RETURNING `+productColumns,
		id, input.Name, category, input.PurchasePrice, input.SalePrice, input.StockQuantity, input.MinQuantity, time.Now().UTC()))
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, productNotFound(id)
		}
		return Product{}, fmt.Errorf("inventory: update product: %w", db.MapWriteError(err))
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("inventory: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return productNotFound(id)
	}
	return nil
}

func (r *Repository) LowStock(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products
WHERE stock_quantity <= min_quantity
ORDER BY stock_quantity ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("inventory: low stock: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("inventory: scan low stock: %w", err)
	}
	return products, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("inventory: count: %w", err)
	}
	return n, nil
}

func (r *Repository) CountLowStock(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock_quantity <= min_quantity`).Scan(&n); err != nil {
		return 0, fmt.Errorf("inventory: count low stock: %w", err)
	}
	return n, nil
}

const movementColumns = `id, product_id, quantity, unit_price, description, created_at, updated_at`

func (r *Repository) StockEntries(ctx context.Context, productID int64) ([]StockEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+movementColumns+` FROM stock_entries
WHERE product_id = $1
ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("inventory: stock entries: %w", err)
	}
	defer rows.Close()
	var out []StockEntry
	for rows.Next() {
		var e StockEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Quantity, &e.UnitPrice, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("inventory: scan stock entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Sales(ctx context.Context, productID int64) ([]Sale, error) {
	rows, err := r.db.Query(ctx, `SELECT `+movementColumns+` FROM sales
WHERE product_id = $1
ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("inventory: sales: %w", err)
	}
	defer rows.Close()
	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("inventory: scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetProductForUpdate(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, productNotFound(id)
		}
		return Product{}, fmt.Errorf("inventory: lock product: %w", err)
	}
	return p, nil
}

func (r *Repository) InsertStockEntry(ctx context.Context, input MovementInput) (StockEntry, error) {
	var e StockEntry
	err := r.db.QueryRow(ctx, `INSERT INTO stock_entries (product_id, quantity, unit_price, description)
VALUES ($1, $2, $3, NULLIF($4, ''))
RETURNING `+movementColumns, input.ProductID, input.Quantity, input.UnitPrice, input.Description).
		Scan(&e.ID, &e.ProductID, &e.Quantity, &e.UnitPrice, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return StockEntry{}, fmt.Errorf("inventory: insert stock entry: %w", db.MapWriteError(err))
	}
	return e, nil
}

func (r *Repository) InsertSale(ctx context.Context, input MovementInput) (Sale, error) {
	var s Sale
	err := r.db.QueryRow(ctx, `INSERT INTO sales (product_id, quantity, unit_price, description)
VALUES ($1, $2, $3, NULLIF($4, ''))
RETURNING `+movementColumns, input.ProductID, input.Quantity, input.UnitPrice, input.Description).
		Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Sale{}, fmt.Errorf("inventory: insert sale: %w", db.MapWriteError(err))
	}
	return s, nil
}

func (r *Repository) ApplyStockIn(ctx context.Context, productID int64, qty int, unitPrice float64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `UPDATE products SET
    stock_quantity = stock_quantity + $2,
    purchase_price = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING `+productColumns, productID, qty, unitPrice))
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, productNotFound(productID)
		}
		return Product{}, fmt.Errorf("inventory: apply stock in: %w", db.MapWriteError(err))
	}
	return p, nil
}

// ApplySale decrements stock only while enough remains; a miss means the
// stock was insufficient.
func (r *Repository) ApplySale(ctx context.Context, productID int64, qty int, unitPrice float64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `UPDATE products SET
    stock_quantity = stock_quantity - $2,
    sale_price = $3,
    updated_at = NOW()
WHERE id = $1 AND stock_quantity >= $2
RETURNING `+productColumns, productID, qty, unitPrice))
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, &InsufficientStockError{ProductID: productID, Requested: qty}
		}
		return Product{}, fmt.Errorf("inventory: apply sale: %w", db.MapWriteError(err))
	}
	return p, nil
}
