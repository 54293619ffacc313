package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheck(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	m := New(up, down, "bolt", 0, nil)
	status := m.Check(context.Background())

	assert.True(t, status.Backend)
	assert.False(t, status.Storage)
	assert.Equal(t, "bolt", status.StorageDriver)
	assert.False(t, m.IsOnline())
	assert.Equal(t, status, m.GetStatus())

	m = New(up, up, "redis", 0, nil)
	m.Check(context.Background())
	assert.True(t, m.IsOnline())
}

func TestNilPingerIsOffline(t *testing.T) {
	m := New(nil, nil, "bolt", 0, nil)
	status := m.Check(context.Background())
	assert.False(t, status.Backend)
	assert.False(t, status.Storage)
	m.Stop()
	m.Stop()
}
