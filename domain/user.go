package domain

import (
	"fmt"
	"strings"
)

// Role distinguishes the two kinds of accounts known to the backend.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// ParseRole accepts the canonical role names case-insensitively.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "employee":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	default:
		return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown role %q", value))
	}
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// User represents an authenticated identity as returned by the backend.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	ManagerID string `json:"managerId,omitempty"`
}

func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// Registration is the payload submitted when creating an account.
type Registration struct {
	Name      string
	Email     string
	Password  string
	Role      Role
	ManagerID string
}
