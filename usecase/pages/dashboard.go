package pages

import (
	"sort"
	"time"

	"github.com/fastygo/taskboard/domain"
)

// UpcomingLimit caps the dashboard's upcoming list.
const UpcomingLimit = 5

type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

func CountStatuses(tasks []domain.Task) StatusCounts {
	counts := StatusCounts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusInProgress:
			counts.InProgress++
		case domain.StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

type Dashboard struct {
	Greeting string        `json:"greeting"`
	Counts   StatusCounts  `json:"counts"`
	Today    []domain.Task `json:"today"`
	Upcoming []domain.Task `json:"upcoming"`
}

// BuildDashboard summarises tasks for user as of now. Today holds tasks on
// now's calendar date; Upcoming holds the earliest tasks dated after now.
func BuildDashboard(user *domain.User, tasks []domain.Task, now time.Time) Dashboard {
	d := Dashboard{
		Counts:   CountStatuses(tasks),
		Today:    []domain.Task{},
		Upcoming: []domain.Task{},
	}
	if user != nil {
		d.Greeting = "Welcome back, " + user.Name
	}

	for _, t := range tasks {
		if domain.SameCalendarDate(t.Date, now.In(t.Date.Location())) {
			d.Today = append(d.Today, t)
		}
		if t.Date.After(now) {
			d.Upcoming = append(d.Upcoming, t)
		}
	}

	sort.SliceStable(d.Upcoming, func(i, j int) bool {
		return d.Upcoming[i].Date.Before(d.Upcoming[j].Date)
	})
	if len(d.Upcoming) > UpcomingLimit {
		d.Upcoming = d.Upcoming[:UpcomingLimit]
	}
	return d
}
