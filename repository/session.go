package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// Credentials is what a successful login or registration yields.
type Credentials struct {
	User  domain.User
	Token string
}

// AuthGateway talks to the backend's login and signup endpoints.
type AuthGateway interface {
	Login(ctx context.Context, email, password string, role domain.Role) (*Credentials, error)
	Signup(ctx context.Context, reg domain.Registration) (*Credentials, error)
}

// CredentialStore persists the bearer token and a serialised user snapshot
// across process restarts. Load returns empty values when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (token string, userSnapshot []byte, err error)
	Save(ctx context.Context, token string, userSnapshot []byte) error
	Clear(ctx context.Context) error
}

// CredentialHolder is the outbound gateway's default credential.
type CredentialHolder interface {
	SetToken(token string)
	ClearToken()
	Token() string
}
