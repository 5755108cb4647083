package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// productRow mirrors a products table row before validation.
type productRow struct {
	ID              string `validate:"required,uuid"`
	Name            string `validate:"required"`
	Code            string `validate:"required"`
	Category        string
	Brand           *string
	Type            string
	Cost            string `validate:"required,numeric"`
	Price           string `validate:"required,numeric"`
	CurrentStock    int64
	MinimumQuantity int64 `validate:"gte=0"`
	StockAlert      int64 `validate:"gte=0"`
	UnitSale        string
	UnitProduct     string
	UnitPurchase    string
	OrderTax        string `validate:"required,numeric"`
	TaxMethod       string
	HasIMEI         bool
	ImageURL        *string
	Details         *string
	CreatedAt       time.Time `validate:"required"`
}

// RowError describes a row rejected at the fetch boundary.
type RowError struct {
	ID  string
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("catalog: row %q: %v", e.ID, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var errNegativeAmount = errors.New("amount must not be negative")

// rowDecoder validates raw rows and converts them into products.
type rowDecoder struct {
	validate *validator.Validate
	logger   *slog.Logger
}

func newRowDecoder(logger *slog.Logger) *rowDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &rowDecoder{validate: validator.New(), logger: logger}
}

func (d *rowDecoder) decode(row productRow) (Product, error) {
	image, err := imageRef(row.ImageURL)
	if err != nil {
		d.logger.Warn("drop malformed image reference", slog.String("id", row.ID), slog.Any("error", err))
	}
	row.ImageURL = image
	if err := d.validate.Struct(row); err != nil {
		return Product{}, &RowError{ID: row.ID, Err: err}
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return Product{}, &RowError{ID: row.ID, Err: err}
	}
	cost, err := nonNegative("cost", row.Cost)
	if err != nil {
		return Product{}, &RowError{ID: row.ID, Err: err}
	}
	price, err := nonNegative("price", row.Price)
	if err != nil {
		return Product{}, &RowError{ID: row.ID, Err: err}
	}
	tax, err := decimal.NewFromString(row.OrderTax)
	if err != nil {
		return Product{}, &RowError{ID: row.ID, Err: fmt.Errorf("order_tax: %w", err)}
	}
	return Product{
		ID:              id,
		Name:            row.Name,
		Code:            row.Code,
		Category:        row.Category,
		Brand:           TextFromPtr(row.Brand),
		Type:            row.Type,
		Cost:            cost,
		Price:           price,
		CurrentStock:    row.CurrentStock,
		MinimumQuantity: row.MinimumQuantity,
		StockAlert:      row.StockAlert,
		UnitSale:        row.UnitSale,
		UnitProduct:     row.UnitProduct,
		UnitPurchase:    row.UnitPurchase,
		OrderTax:        tax,
		TaxMethod:       row.TaxMethod,
		HasIMEI:         row.HasIMEI,
		ImageURL:        TextFromPtr(row.ImageURL),
		Details:         TextFromPtr(row.Details),
		CreatedAt:       row.CreatedAt,
	}, nil
}

// imageRef accepts absolute URLs and relative references alike. Blank or
// unparsable references are treated as absent.
func imageRef(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	if _, err := url.Parse(*raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func nonNegative(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: %w", field, errNegativeAmount)
	}
	return d, nil
}
