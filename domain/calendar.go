package domain

import "time"

// CalendarDay is one cell of a month grid with the tasks that fall on it.
type CalendarDay struct {
	Date           time.Time `json:"date"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
	IsToday        bool      `json:"isToday"`
	Tasks          []Task    `json:"tasks"`
}
