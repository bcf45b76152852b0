package mapview

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type lockedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *lockedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *lockedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sequentialIDs() func() string {
	var (
		mu   sync.Mutex
		next int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("view-%d", next)
	}
}

func TestRegistryOpenGetClose(t *testing.T) {
	t.Parallel()

	r := NewRegistry(RegistryOptions{NewID: sequentialIDs()})
	t.Cleanup(r.CloseAll)

	v := r.Open([]Category{Noise, Safety})
	require.Equal(t, "view-1", v.ID())
	require.Equal(t, 1, r.Len())

	got, ok := r.Get("view-1")
	require.True(t, ok)
	require.Same(t, v, got)
	require.Equal(t, []Category{Noise, Safety}, got.Snapshot().Preferred)

	_, ok = r.Get(" ")
	require.False(t, ok)

	r.Close("view-1")
	_, ok = r.Get("view-1")
	require.False(t, ok)
	require.Zero(t, r.Len())
	require.ErrorIs(t, v.Settle(context.Background()), ErrViewClosed)

	r.Close("view-1")
}

func TestRegistryDefaultIDsAreUnique(t *testing.T) {
	t.Parallel()

	r := NewRegistry(RegistryOptions{})
	t.Cleanup(r.CloseAll)

	first := r.Open(nil)
	second := r.Open(nil)
	require.NotEmpty(t, first.ID())
	require.NotEqual(t, first.ID(), second.ID())
}

func TestRegistrySweepClosesIdleViews(t *testing.T) {
	t.Parallel()

	clock := &lockedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	r := NewRegistry(RegistryOptions{
		View:    Options{Now: clock.Now},
		IdleTTL: 10 * time.Minute,
		NewID:   sequentialIDs(),
	})
	t.Cleanup(r.CloseAll)

	idle := r.Open(nil)
	busy := r.Open(nil)

	clock.Advance(8 * time.Minute)
	_, ok := r.Get(busy.ID())
	require.True(t, ok)

	clock.Advance(3 * time.Minute)
	require.Equal(t, 1, r.Sweep())

	_, ok = r.Get(idle.ID())
	require.False(t, ok)
	_, ok = r.Get(busy.ID())
	require.True(t, ok)
	require.Zero(t, r.Sweep())
}

func TestRegistryRunClosesViewsOnShutdown(t *testing.T) {
	t.Parallel()

	r := NewRegistry(RegistryOptions{NewID: sequentialIDs()})
	v := r.Open(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, time.Hour)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.Zero(t, r.Len())
	require.ErrorIs(t, v.Settle(context.Background()), ErrViewClosed)
}
