package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Register(Command{Name: "tasks", Handler: func(_ context.Context, args []string) error {
		got = args
		return nil
	}})
	d.Register(Command{Name: "calendar", Handler: func(context.Context, []string) error { return nil }})

	require.NoError(t, d.Execute(context.Background(), "tasks", []string{"-status", "pending"}))
	assert.Equal(t, []string{"-status", "pending"}, got)

	err := d.Execute(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	cmds := d.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "calendar", cmds[0].Name)
	assert.Equal(t, "tasks", cmds[1].Name)
}
