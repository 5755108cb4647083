package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listProductsSQL = `SELECT id::text, name, code, COALESCE(category, ''), brand, COALESCE(type, ''),
	cost::text, price::text, current_stock, minimum_quantity, stock_alert,
	COALESCE(unit_sale, ''), COALESCE(unit_product, ''), COALESCE(unit_purchase, ''),
	order_tax::text, COALESCE(tax_method, ''), has_imei,
	image_url, details, created_at
FROM products
ORDER BY created_at DESC, id`

const deleteProductSQL = `DELETE FROM products WHERE id = $1`

// querier is the subset of pgxpool.Pool used by the repository.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the PostgreSQL backed RecordStore.
type Repository struct {
	db      querier
	decoder *rowDecoder
	logger  *slog.Logger
}

// NewRepository constructs a Repository on top of a pool.
func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *Repository {
	return newRepository(pool, logger)
}

func newRepository(db querier, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, decoder: newRowDecoder(logger), logger: logger}
}

// List returns all products newest first. Rows that fail validation are
// logged and skipped.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var row productRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Code, &row.Category, &row.Brand, &row.Type,
			&row.Cost, &row.Price, &row.CurrentStock, &row.MinimumQuantity, &row.StockAlert,
			&row.UnitSale, &row.UnitProduct, &row.UnitPurchase, &row.OrderTax, &row.TaxMethod, &row.HasIMEI,
			&row.ImageURL, &row.Details, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		p, err := r.decoder.decode(row)
		if err != nil {
			r.logger.Warn("skip malformed product row", slog.String("id", row.ID), slog.Any("error", err))
			continue
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	return products, nil
}

// Delete removes the product row with id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteProductSQL, id.String())
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
