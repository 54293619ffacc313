package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func TestRegistrationFormValidate(t *testing.T) {
	valid := RegistrationForm{Name: "Ada", Email: "ada@example.com", Password: "pw", ConfirmPassword: "pw", Role: domain.RoleEmployee}

	tests := []struct {
		name  string
		edit  func(*RegistrationForm)
		field string
	}{
		{name: "blank name", edit: func(f *RegistrationForm) { f.Name = "  " }, field: "name"},
		{name: "blank email", edit: func(f *RegistrationForm) { f.Email = "" }, field: "email"},
		{name: "missing password", edit: func(f *RegistrationForm) { f.Password, f.ConfirmPassword = "", "" }, field: "password"},
		{name: "mismatch", edit: func(f *RegistrationForm) { f.ConfirmPassword = "other" }, field: "confirmPassword"},
		{name: "role", edit: func(f *RegistrationForm) { f.Role = "Admin" }, field: "role"},
	}

	assert.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.edit(&form)
			err := form.Validate()
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestRegistrationKeepsManagerOnlyForEmployees(t *testing.T) {
	form := RegistrationForm{Name: " Ada ", Email: "ada@example.com ", Password: "pw", Role: domain.RoleEmployee, ManagerID: "m1"}
	reg := form.Registration()
	assert.Equal(t, "Ada", reg.Name)
	assert.Equal(t, "ada@example.com", reg.Email)
	assert.Equal(t, "m1", reg.ManagerID)

	form.Role = domain.RoleManager
	assert.Empty(t, form.Registration().ManagerID)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("unknown-to-the-client"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}
