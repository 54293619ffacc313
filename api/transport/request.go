package transport

// Requests accepted by the local view server.

type SessionLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SessionRegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	ManagerID       string `json:"managerId"`
}

// TaskFormRequest mirrors the task form fields. Absent fields keep the
// form's current value.
type TaskFormRequest struct {
	TaskName    *string `json:"taskName"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Date        *string `json:"date"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
