package bolt

import (
	"context"

	"github.com/fastygo/taskboard/internal/infrastructure/storage"
	"github.com/fastygo/taskboard/repository"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

type credentialStore struct {
	store *storage.Store
}

// NewCredentialStore keeps the token and user snapshot in a local bbolt file.
func NewCredentialStore(store *storage.Store) repository.CredentialStore {
	return &credentialStore{store: store}
}

func (c *credentialStore) Load(ctx context.Context) (string, []byte, error) {
	values, err := c.store.GetMany(keyToken, keyUser)
	if err != nil {
		return "", nil, err
	}
	return string(values[keyToken]), values[keyUser], nil
}

func (c *credentialStore) Save(ctx context.Context, token string, userSnapshot []byte) error {
	return c.store.PutMany(map[string][]byte{
		keyToken: []byte(token),
		keyUser:  userSnapshot,
	})
}

func (c *credentialStore) Clear(ctx context.Context) error {
	return c.store.Delete(keyToken, keyUser)
}

// Ping lets the health monitor check the file.
func (c *credentialStore) Ping(ctx context.Context) error {
	return c.store.Ping()
}
