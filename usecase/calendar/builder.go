// Package calendar derives month grids from a flat task list.
package calendar

import (
	"time"

	"github.com/fastygo/taskboard/domain"
)

// Build returns one CalendarDay per day of the month containing ref, in
// ref's location. A task lands on the day whose calendar date equals the
// task's own date, whatever its time of day; per-day order is source order.
// Build performs no I/O and does not retain or modify tasks.
func Build(ref time.Time, tasks []domain.Task, now time.Time) []domain.CalendarDay {
	first := FirstOfMonth(ref)
	count := DaysIn(ref)
	today := now.In(ref.Location())

	days := make([]domain.CalendarDay, count)
	for i := range days {
		date := first.AddDate(0, 0, i)
		days[i] = domain.CalendarDay{
			Date:           date,
			IsCurrentMonth: true,
			IsToday:        domain.SameCalendarDate(date, today),
			Tasks:          []domain.Task{},
		}
	}

	year, month, _ := first.Date()
	for _, task := range tasks {
		ty, tm, td := task.Date.Date()
		if ty != year || tm != month {
			continue
		}
		days[td-1].Tasks = append(days[td-1].Tasks, task)
	}
	return days
}

// Builder binds Build to a clock.
type Builder struct {
	now func() time.Time
}

func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

func (b *Builder) Build(ref time.Time, tasks []domain.Task) []domain.CalendarDay {
	return Build(ref, tasks, b.now())
}

// Day returns the single cell for date, built the same way as a month grid.
func (b *Builder) Day(date time.Time, tasks []domain.Task) domain.CalendarDay {
	return Build(date, tasks, b.now())[date.Day()-1]
}

// FirstOfMonth is midnight on the first day of t's month, in t's location.
func FirstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DaysIn reports the number of days in t's month.
func DaysIn(t time.Time) int {
	return FirstOfMonth(t).AddDate(0, 1, -1).Day()
}
