package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalog/internal/shared"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	widget, _ := scenarioProducts()
	sink := &recordingNotifier{}
	reg := NewSessionRegistry(Deps{Records: newMemStore(widget), Notifier: sink}, time.Minute)

	sess := reg.Create(context.Background())
	require.False(t, sess.Controller.State().Loading)
	require.Len(t, sess.Controller.Products(), 1)
	require.Equal(t, 1, reg.Len())

	got, err := reg.Get(sess.ID)
	require.NoError(t, err)
	require.Same(t, sess, got)

	require.NoError(t, reg.Drop(sess.ID))
	_, err = reg.Get(sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, reg.Drop(sess.ID), ErrSessionNotFound)
}

func TestSessionRegistryExpiry(t *testing.T) {
	reg := NewSessionRegistry(Deps{Records: newMemStore()}, time.Minute)
	now := baseTime
	reg.now = func() time.Time { return now }

	idle := reg.Create(context.Background())
	active := reg.Create(context.Background())

	now = now.Add(50 * time.Second)
	_, err := reg.Get(active.ID)
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	require.Equal(t, 1, reg.Sweep())
	require.Equal(t, 1, reg.Len())

	_, err = reg.Get(idle.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	now = now.Add(2 * time.Minute)
	_, err = reg.Get(active.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, 0, reg.Len())
}

func TestSessionRegistryEvictsLeastRecentlySeen(t *testing.T) {
	logger, buf := bufferLogger()
	reg := NewSessionRegistry(Deps{Records: newMemStore(), Logger: logger}, time.Minute, WithMaxSessions(2))
	now := baseTime
	reg.now = func() time.Time { return now }

	first := reg.Create(context.Background())
	now = now.Add(time.Second)
	second := reg.Create(context.Background())
	now = now.Add(time.Second)
	_, err := reg.Get(first.ID)
	require.NoError(t, err)

	now = now.Add(time.Second)
	third := reg.Create(context.Background())
	require.Equal(t, 2, reg.Len())

	_, err = reg.Get(second.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = reg.Get(first.ID)
	require.NoError(t, err)
	_, err = reg.Get(third.ID)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "catalog session evicted")
	require.Contains(t, buf.String(), second.ID.String())
}

func TestSessionRegistryFullPrefersExpired(t *testing.T) {
	logger, buf := bufferLogger()
	reg := NewSessionRegistry(Deps{Records: newMemStore(), Logger: logger}, time.Minute, WithMaxSessions(2))
	now := baseTime
	reg.now = func() time.Time { return now }

	stale := reg.Create(context.Background())
	now = now.Add(50 * time.Second)
	fresh := reg.Create(context.Background())

	now = now.Add(20 * time.Second)
	reg.Create(context.Background())
	require.Equal(t, 2, reg.Len())

	_, err := reg.Get(stale.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = reg.Get(fresh.ID)
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "catalog session evicted")
}

func TestSessionNotificationsReachInboxAndSharedSink(t *testing.T) {
	store := newMemStore()
	store.listErr = context.DeadlineExceeded
	sink := &recordingNotifier{}
	reg := NewSessionRegistry(Deps{Records: store, Notifier: sink}, time.Minute)

	sess := reg.Create(context.Background())
	want := []shared.Notification{shared.Failure("Failed to fetch products")}
	require.Equal(t, want, sess.Inbox.Drain())
	require.Equal(t, want, sink.all())
	require.Empty(t, sess.Inbox.Drain())
}

func TestSessionsAreIsolated(t *testing.T) {
	widget, gadget := scenarioProducts()
	reg := NewSessionRegistry(Deps{Records: newMemStore(widget, gadget)}, time.Minute)

	a := reg.Create(context.Background())
	b := reg.Create(context.Background())

	a.Controller.SetSearch("wid")
	require.Len(t, a.Controller.Visible().Rows, 1)
	require.Len(t, b.Controller.Visible().Rows, 2)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestSessionRegistryRunStopsOnCancel(t *testing.T) {
	reg := NewSessionRegistry(Deps{Records: newMemStore()}, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
