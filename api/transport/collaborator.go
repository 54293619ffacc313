package transport

import (
	"fmt"

	"github.com/fastygo/taskboard/domain"
)

// Payloads exchanged with the task backend.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID string `json:"managerId,omitempty"`
}

// NewSignupRequest drops the manager reference for managers.
func NewSignupRequest(reg domain.Registration) SignupRequest {
	req := SignupRequest{
		Name:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     string(reg.Role),
	}
	if reg.Role == domain.RoleEmployee {
		req.ManagerID = reg.ManagerID
	}
	return req
}

type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type UserDTO struct {
	MongoID   string `json:"_id,omitempty"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ManagerID string `json:"managerId,omitempty"`
}

// Identifier prefers the document id and falls back to a plain id field.
func (u *UserDTO) Identifier() string {
	if u == nil {
		return ""
	}
	if u.MongoID != "" {
		return u.MongoID
	}
	return u.ID
}

func (u UserDTO) ToDomain() domain.User {
	return domain.User{
		ID:        u.Identifier(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      domain.Role(u.Role),
		ManagerID: u.ManagerID,
	}
}

// UsersToDomain converts a slice of users.
func UsersToDomain(in []UserDTO) []domain.User {
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		out = append(out, u.ToDomain())
	}
	return out
}

type TaskDTO struct {
	MongoID     string  `json:"_id,omitempty"`
	ID          string  `json:"id,omitempty"`
	TaskName    string  `json:"taskName"`
	Description string  `json:"description"`
	AssignedTo  UserRef `json:"assignedTo"`
	AssignedBy  UserRef `json:"assignedBy"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// ToDomain normalises the relational fields and parses timestamps.
func (t TaskDTO) ToDomain() (domain.Task, error) {
	id := t.MongoID
	if id == "" {
		id = t.ID
	}
	date, err := ParseTime(t.Date)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: date: %w", id, err)
	}
	created, err := ParseTime(t.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: createdAt: %w", id, err)
	}
	updated, err := ParseTime(t.UpdatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %s: updatedAt: %w", id, err)
	}
	return domain.Task{
		ID:          id,
		TaskName:    t.TaskName,
		Description: t.Description,
		AssignedTo:  t.AssignedTo.Normalize(),
		AssignedBy:  t.AssignedBy.Normalize(),
		Date:        date,
		Status:      domain.Status(t.Status),
		Priority:    domain.Priority(t.Priority),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// TasksToDomain converts a listing. Malformed entries are left out and
// reported one error each; the rest keep backend order.
func TasksToDomain(in []TaskDTO) ([]domain.Task, []error) {
	out := make([]domain.Task, 0, len(in))
	var skipped []error
	for _, dto := range in {
		task, err := dto.ToDomain()
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out = append(out, task)
	}
	return out, skipped
}

// TaskPayload is the body of create and update calls.
type TaskPayload struct {
	TaskName    string `json:"taskName"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

func NewTaskPayload(in domain.TaskInput) TaskPayload {
	return TaskPayload{
		TaskName:    in.TaskName,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		Date:        in.Date,
		Status:      string(in.Status),
		Priority:    string(in.Priority),
	}
}

type StatusPayload struct {
	Status string `json:"status"`
}

// ErrorResponse is the backend's failure body.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Ack is the acknowledgement returned by delete.
type Ack struct {
	Message string `json:"message"`
}
