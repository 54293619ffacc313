package pages

import (
	"strings"

	"github.com/fastygo/taskboard/domain"
)

// FilterAll disables a filter dimension.
const FilterAll = "all"

// Filter narrows the task list by status and priority.
type Filter struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// ParseFilter accepts "all", an empty value, or a concrete status/priority.
func ParseFilter(status, priority string) (Filter, error) {
	f := Filter{Status: FilterAll, Priority: FilterAll}

	if s := strings.TrimSpace(status); s != "" && s != FilterAll {
		parsed, err := domain.ParseStatus(s)
		if err != nil {
			return f, &domain.ValidationError{Field: "status", Message: err.Error()}
		}
		f.Status = string(parsed)
	}
	if p := strings.TrimSpace(priority); p != "" && p != FilterAll {
		parsed, err := domain.ParsePriority(p)
		if err != nil {
			return f, &domain.ValidationError{Field: "priority", Message: err.Error()}
		}
		f.Priority = string(parsed)
	}
	return f, nil
}

func (f Filter) Match(t domain.Task) bool {
	if f.Status != "" && f.Status != FilterAll && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != FilterAll && string(t.Priority) != f.Priority {
		return false
	}
	return true
}

// Apply keeps matching tasks in their original order.
func (f Filter) Apply(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

type TasksView struct {
	Filter    Filter        `json:"filter"`
	Tasks     []domain.Task `json:"tasks"`
	CanCreate bool          `json:"canCreate"`
}
