package calendar

import (
	"time"

	"github.com/fastygo/taskboard/domain"
)

// DefaultPreviewLimit is how many tasks a month cell shows before "+N more".
const DefaultPreviewLimit = 3

// DayPreview is a month cell trimmed for display.
type DayPreview struct {
	Date       time.Time     `json:"date"`
	IsToday    bool          `json:"isToday"`
	Visible    []domain.Task `json:"visible"`
	Remaining  int           `json:"remaining"`
	CanAddTask bool          `json:"canAddTask"`
}

// Preview truncates each day to limit tasks. The underlying days are not
// modified; limit <= 0 selects DefaultPreviewLimit.
func Preview(days []domain.CalendarDay, limit int, role domain.Role, now time.Time) []DayPreview {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	out := make([]DayPreview, 0, len(days))
	for _, day := range days {
		visible := day.Tasks
		if len(visible) > limit {
			visible = visible[:limit]
		}
		out = append(out, DayPreview{
			Date:       day.Date,
			IsToday:    day.IsToday,
			Visible:    append([]domain.Task{}, visible...),
			Remaining:  len(day.Tasks) - len(visible),
			CanAddTask: CanAddTask(role, day.Date, now),
		})
	}
	return out
}

// CanAddTask reports whether the add-task affordance is offered for date:
// managers only, and never for days before today.
func CanAddTask(role domain.Role, date, now time.Time) bool {
	if role != domain.RoleManager {
		return false
	}
	today := domain.StartOfDay(now.In(date.Location()))
	return !domain.StartOfDay(date).Before(today)
}
