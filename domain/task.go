package domain

import (
	"fmt"
	"time"
)

// Status tracks the progress of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func ParseStatus(value string) (Status, error) {
	for _, s := range Statuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown status %q", value))
}

// Priority ranks tasks for display.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func ParsePriority(value string) (Priority, error) {
	for _, p := range Priorities {
		if string(p) == value {
			return p, nil
		}
	}
	return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown priority %q", value))
}

// UserRef is the normalised form of a task's assignee or assigner. The
// backend sends either a bare id or an embedded user; both collapse into
// this shape at decode time.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns the user's name, or "Unknown" when only the id is known.
func (r UserRef) DisplayName() string {
	if r.Name == "" {
		return "Unknown"
	}
	return r.Name
}

// Task is a unit of work assigned by a manager to an employee.
type Task struct {
	ID          string    `json:"id"`
	TaskName    string    `json:"taskName"`
	Description string    `json:"description"`
	AssignedTo  UserRef   `json:"assignedTo"`
	AssignedBy  UserRef   `json:"assignedBy"`
	Date        time.Time `json:"date"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsAssignedTo reports whether the task belongs to the given user id.
func (t *Task) IsAssignedTo(userID string) bool {
	return t != nil && userID != "" && t.AssignedTo.ID == userID
}

// TaskInput carries the writable task fields sent on create and update.
type TaskInput struct {
	TaskName    string
	Description string
	AssignedTo  string
	Date        string
	Status      Status
	Priority    Priority
}

// DateLayout is the calendar-date format used on the wire and in forms.
const DateLayout = "2006-01-02"

// SameCalendarDate reports whether a and b fall on the same calendar day,
// each read in its own location. Time of day is ignored.
func SameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
