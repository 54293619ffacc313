package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

type countingTarget struct {
	calls atomic.Int64
	err   error
}

func (c *countingTarget) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

func TestRefresherRunsOnSchedule(t *testing.T) {
	target := &countingTarget{}
	r, err := NewRefresher(target, staticHealth(true), time.Second, nil)
	require.NoError(t, err)

	r.Start()
	defer func() { _ = r.Stop(context.Background()) }()

	require.Eventually(t, func() bool { return target.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestRefresherSkipsWhileOffline(t *testing.T) {
	target := &countingTarget{}
	r, err := NewRefresher(target, staticHealth(false), time.Second, nil)
	require.NoError(t, err)

	r.tick()
	assert.Zero(t, target.calls.Load())
	assert.Zero(t, r.Runs())
}

func TestRunOnceToleratesErrors(t *testing.T) {
	for _, e := range []error{nil, domain.ErrNotAuthenticated, errors.New("boom")} {
		target := &countingTarget{err: e}
		r, err := NewRefresher(target, nil, 0, nil)
		require.NoError(t, err)

		r.RunOnce(context.Background())
		assert.Equal(t, int64(1), target.calls.Load())
		assert.Equal(t, int64(1), r.Runs())
	}
}

func TestZeroIntervalDisablesSchedule(t *testing.T) {
	r, err := NewRefresher(&countingTarget{}, nil, 0, nil)
	require.NoError(t, err)
	r.Start()
	assert.NoError(t, r.Stop(context.Background()))
}
