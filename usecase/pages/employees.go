package pages

import "github.com/fastygo/taskboard/domain"

// EmployeeSummary is one roster row.
type EmployeeSummary struct {
	Employee domain.User   `json:"employee"`
	Tasks    []domain.Task `json:"tasks"`
	Counts   StatusCounts  `json:"counts"`
}

// BuildRoster pairs each employee with the tasks assigned to them,
// preserving roster and task order.
func BuildRoster(employees []domain.User, tasks []domain.Task) []EmployeeSummary {
	roster := make([]EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		assigned := []domain.Task{}
		for _, t := range tasks {
			if t.IsAssignedTo(e.ID) {
				assigned = append(assigned, t)
			}
		}
		roster = append(roster, EmployeeSummary{
			Employee: e,
			Tasks:    assigned,
			Counts:   CountStatuses(assigned),
		})
	}
	return roster
}
