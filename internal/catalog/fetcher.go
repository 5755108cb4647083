package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const fetchKey = "products:all"

// Fetcher loads the full catalog from the record store. Concurrent fetches
// from different sessions share one store query.
type Fetcher struct {
	store RecordStore
	group singleflight.Group
}

// NewFetcher builds a Fetcher.
func NewFetcher(store RecordStore) *Fetcher {
	return &Fetcher{store: store}
}

// Fetch returns every product newest first. A store without rows yields an
// empty, non-nil slice. Each caller receives its own copy.
func (f *Fetcher) Fetch(ctx context.Context) ([]Product, error) {
	if f == nil || f.store == nil {
		return nil, errors.New("catalog: fetch: record store not configured")
	}
	resultChan := f.group.DoChan(fetchKey, func() (interface{}, error) {
		return f.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("catalog: fetch: %w", ctx.Err())
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]Product)), nil
	}
}

func (f *Fetcher) load(ctx context.Context) ([]Product, error) {
	products, err := f.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch: %w", err)
	}
	out := make([]Product, 0, len(products))
	seen := make(map[uuid.UUID]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	SortNewestFirst(out)
	return out, nil
}

// SortNewestFirst orders products by CreatedAt descending, keeping the
// relative order of equal timestamps.
func SortNewestFirst(products []Product) {
	slices.SortStableFunc(products, func(a, b Product) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
