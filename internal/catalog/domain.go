package catalog

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/catalog/internal/shared"
)

var (
	// ErrProductNotFound is returned when a product id is not part of the collection or store.
	ErrProductNotFound = fmt.Errorf("catalog: product %w", shared.ErrNotFound)
	// ErrInvalidPageSize is returned for page sizes outside the supported set.
	ErrInvalidPageSize = fmt.Errorf("catalog: page size %w", shared.ErrInvalidInput)
	// ErrNoPendingDelete is returned when confirming or cancelling without an open confirmation.
	ErrNoPendingDelete = fmt.Errorf("catalog: no pending delete: %w", shared.ErrConflict)
	// ErrDeleteInFlight is returned while a delete is being processed.
	ErrDeleteInFlight = fmt.Errorf("catalog: delete in progress: %w", shared.ErrConflict)
)

// OptionalText is a text attribute that may be absent.
type OptionalText struct {
	value string
	set   bool
}

// SomeText wraps a present value. Blank input is treated as absent.
func SomeText(v string) OptionalText {
	if strings.TrimSpace(v) == "" {
		return OptionalText{}
	}
	return OptionalText{value: v, set: true}
}

// NoText returns an absent value.
func NoText() OptionalText {
	return OptionalText{}
}

// TextFromPtr converts a nullable column into an OptionalText.
func TextFromPtr(v *string) OptionalText {
	if v == nil {
		return NoText()
	}
	return SomeText(*v)
}

// Get returns the value and whether it is present.
func (o OptionalText) Get() (string, bool) {
	return o.value, o.set
}

// Present reports whether a value is set.
func (o OptionalText) Present() bool {
	return o.set
}

// OrElse returns the value or fallback when absent.
func (o OptionalText) OrElse(fallback string) string {
	if !o.set {
		return fallback
	}
	return o.value
}

// Ptr returns nil when absent, used for JSON encoding.
func (o OptionalText) Ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// Product is a catalog record as held in memory.
type Product struct {
	ID              uuid.UUID
	Name            string
	Code            string
	Category        string
	Brand           OptionalText
	Type            string
	Cost            decimal.Decimal
	Price           decimal.Decimal
	CurrentStock    int64
	MinimumQuantity int64
	StockAlert      int64
	UnitSale        string
	UnitProduct     string
	UnitPurchase    string
	OrderTax        decimal.Decimal
	TaxMethod       string
	HasIMEI         bool
	ImageURL        OptionalText
	Details         OptionalText
	CreatedAt       time.Time
}

// ImageKey derives the blob key from the last path segment of the image URL.
func (p Product) ImageKey() (string, bool) {
	raw, ok := p.ImageURL.Get()
	if !ok {
		return "", false
	}
	location := raw
	if u, err := url.Parse(raw); err == nil {
		location = u.Path
	}
	location = strings.TrimRight(location, "/")
	if location == "" {
		return "", false
	}
	tail := path.Base(location)
	if tail == "." || tail == "/" {
		return "", false
	}
	return tail, true
}

// FormatMoney renders a currency amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// RecordStore is the remote store holding product rows.
type RecordStore interface {
	// List returns every product ordered by creation time, newest first.
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlobStore is the remote key-addressed image storage.
type BlobStore interface {
	Delete(ctx context.Context, key string) error
}

// Notifier receives fire-and-forget user feedback.
type Notifier interface {
	Notify(ctx context.Context, n shared.Notification)
}

// Metrics observes controller outcomes.
type Metrics interface {
	ObserveFetch(count int, err error)
	ObserveAssetDelete(err error)
	ObserveRecordDelete(err error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, shared.Notification) {}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(int, error)   {}
func (nopMetrics) ObserveAssetDelete(error)  {}
func (nopMetrics) ObserveRecordDelete(error) {}
