package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func TestPreviewTruncatesWithRemainder(t *testing.T) {
	ref := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		task("1", "2024-03-05"), task("2", "2024-03-05"), task("3", "2024-03-05"),
		task("4", "2024-03-05"), task("5", "2024-03-05"), task("6", "2024-03-06"),
	}
	days := Build(ref, tasks, ref)

	previews := Preview(days, 0, domain.RoleEmployee, ref)

	require.Len(t, previews, 31)
	assert.Len(t, previews[4].Visible, DefaultPreviewLimit)
	assert.Equal(t, 2, previews[4].Remaining)
	assert.Len(t, previews[5].Visible, 1)
	assert.Zero(t, previews[5].Remaining)
	assert.Len(t, days[4].Tasks, 5)
}

func TestCanAddTask(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		role domain.Role
		date time.Time
		want bool
	}{
		{name: "manager today", role: domain.RoleManager, date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), want: true},
		{name: "manager future", role: domain.RoleManager, date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), want: true},
		{name: "manager past", role: domain.RoleManager, date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), want: false},
		{name: "employee", role: domain.RoleEmployee, date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAddTask(tt.role, tt.date, now))
		})
	}
}
