package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFetcherSortsNewestFirstStable(t *testing.T) {
	older := newProduct("Older", "O1", "a", baseTime)
	tieA := newProduct("TieA", "T1", "a", baseTime.Add(time.Hour))
	tieB := newProduct("TieB", "T2", "a", baseTime.Add(time.Hour))
	newest := newProduct("Newest", "N1", "a", baseTime.Add(2*time.Hour))

	f := NewFetcher(newMemStore(older, tieA, tieB, newest))
	got, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{newest.ID, tieA.ID, tieB.ID, older.ID}, ids(got))
}

func TestFetcherDropsDuplicateIDs(t *testing.T) {
	p := newProduct("Widget", "W1", "a", baseTime)
	dup := p
	dup.Name = "Widget copy"

	got, err := NewFetcher(newMemStore(p, dup)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Widget", got[0].Name)
}

func TestFetcherEmptyStore(t *testing.T) {
	got, err := NewFetcher(newMemStore()).Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFetcherWrapsStoreError(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("timeout")
	_, err := NewFetcher(store).Fetch(context.Background())
	require.ErrorContains(t, err, "catalog: fetch")
	require.ErrorContains(t, err, "timeout")
}

func TestFetcherSharesConcurrentLoads(t *testing.T) {
	store := newMemStore(newProduct("Widget", "W1", "a", baseTime))
	store.release = make(chan struct{})
	f := NewFetcher(store)

	const callers = 5
	var wg sync.WaitGroup
	results := make(chan []Product, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.Fetch(context.Background())
			if err == nil {
				results <- got
			}
		}()
	}
	require.Eventually(t, func() bool { return store.listCalls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()
	close(results)

	count := 0
	for got := range results {
		require.Len(t, got, 1)
		count++
	}
	require.Equal(t, callers, count)
	require.LessOrEqual(t, int(store.listCalls.Load()), callers)
}

func TestFetcherHonoursCallerCancellation(t *testing.T) {
	store := newMemStore()
	store.release = make(chan struct{})
	defer close(store.release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(store).Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetcherWithoutStore(t *testing.T) {
	_, err := NewFetcher(nil).Fetch(context.Background())
	require.Error(t, err)
}
