package catalog

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/catalog/internal/shared"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newProduct(name, code, category string, created time.Time) Product {
	return Product{
		ID:           uuid.New(),
		Name:         name,
		Code:         code,
		Category:     category,
		Type:         "standard",
		Cost:         decimal.RequireFromString("4.5"),
		Price:        decimal.RequireFromString("9.99"),
		CurrentStock: 12,
		UnitSale:     "pcs",
		OrderTax:     decimal.RequireFromString("10"),
		TaxMethod:    "exclusive",
		CreatedAt:    created,
	}
}

func withImage(p Product, url string) Product {
	p.ImageURL = SomeText(url)
	return p
}

type memStore struct {
	mu        sync.Mutex
	products  []Product
	listErr   error
	deleteErr error
	deleted   []uuid.UUID
	listCalls atomic.Int32
	release   chan struct{}
}

func newMemStore(products ...Product) *memStore {
	return &memStore{products: products}
}

func (s *memStore) List(ctx context.Context) ([]Product, error) {
	s.listCalls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (s *memStore) deletedIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.deleted...)
}

type memBlobs struct {
	mu      sync.Mutex
	err     error
	deleted []string
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	return b.err
}

func (b *memBlobs) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []shared.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n shared.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) all() []shared.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.Notification(nil), r.notes...)
}

// blockingStore holds record deletes until released so tests can observe the
// Deleting phase.
type blockingStore struct {
	*memStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.entered <- struct{}{}
	<-s.release
	return s.memStore.Delete(ctx, id)
}

type countingMetrics struct {
	mu            sync.Mutex
	fetches       int
	fetchErrors   int
	assetFailures int
	recordDeletes int
}

func (m *countingMetrics) ObserveFetch(_ int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if err != nil {
		m.fetchErrors++
	}
}

func (m *countingMetrics) ObserveAssetDelete(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.assetFailures++
	}
}

func (m *countingMetrics) ObserveRecordDelete(error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDeletes++
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
