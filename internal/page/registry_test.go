package page

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/portfolio/internal/apperror"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(Options{Clock: clockwork.NewFakeClock()}, time.Minute)

	s, err := r.Create()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	got, err := r.Lookup(s.ID.String())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)

	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegistrySweepEvictsIdleDetachedSessions(t *testing.T) {
	defer goleak.VerifyNone(t)

	fc := clockwork.NewFakeClock()
	r := NewRegistry(Options{Clock: fc}, time.Minute)

	idle, err := r.Create()
	require.NoError(t, err)
	live, err := r.Create()
	require.NoError(t, err)
	live.Attach(context.Background(), newFakeConn())

	fc.Advance(30 * time.Second)
	assert.Zero(t, r.Sweep())

	fc.Advance(2 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(idle.ID)
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)

	r.Remove(live.ID)
	assert.Zero(t, r.Len())
	assert.False(t, live.Attached())
}

func TestRegistryRunDetachesOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	fc := clockwork.NewFakeClock()
	r := NewRegistry(Options{Clock: fc}, time.Minute)
	s, err := r.Create()
	require.NoError(t, err)
	s.Attach(context.Background(), newFakeConn())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Zero(t, r.Len())
	assert.False(t, s.Attached())
}
