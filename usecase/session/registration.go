package session

import (
	"strings"

	"github.com/fastygo/taskboard/domain"
)

// RegistrationForm is the sign-up input before it is sent.
type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            domain.Role
	ManagerID       string
}

// Validate rejects the form locally; no request is issued for an invalid form.
func (f RegistrationForm) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &domain.ValidationError{Field: "name", Message: "Name is required"}
	case strings.TrimSpace(f.Email) == "":
		return &domain.ValidationError{Field: "email", Message: "Email is required"}
	case f.Password == "":
		return &domain.ValidationError{Field: "password", Message: "Password is required"}
	case f.Password != f.ConfirmPassword:
		return &domain.ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	case !f.Role.Valid():
		return &domain.ValidationError{Field: "role", Message: "Role must be Employee or Manager"}
	}
	return nil
}

// Registration converts a valid form into the backend payload.
func (f RegistrationForm) Registration() domain.Registration {
	reg := domain.Registration{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     f.Role,
	}
	if f.Role == domain.RoleEmployee {
		reg.ManagerID = strings.TrimSpace(f.ManagerID)
	}
	return reg
}
