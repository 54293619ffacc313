package redis

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/repository"
)

type credentialStore struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewCredentialStore keeps the token and user snapshot in Redis so several
// hosts can share one login. A zero ttl stores without expiry.
func NewCredentialStore(client *redislib.Client, prefix string, ttl time.Duration) repository.CredentialStore {
	if prefix == "" {
		prefix = "taskboard:"
	}
	return &credentialStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *credentialStore) Load(ctx context.Context) (string, []byte, error) {
	values, err := r.client.MGet(ctx, r.tokenKey(), r.userKey()).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil, nil
		}
		return "", nil, err
	}

	var (
		token    string
		snapshot []byte
	)
	if s, ok := values[0].(string); ok {
		token = s
	}
	if s, ok := values[1].(string); ok {
		snapshot = []byte(s)
	}
	return token, snapshot, nil
}

func (r *credentialStore) Save(ctx context.Context, token string, userSnapshot []byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(), token, r.ttl)
		pipe.Set(ctx, r.userKey(), userSnapshot, r.ttl)
		return nil
	})
	return err
}

func (r *credentialStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.tokenKey(), r.userKey()).Err()
}

func (r *credentialStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *credentialStore) tokenKey() string {
	return r.prefix + "token"
}

func (r *credentialStore) userKey() string {
	return r.prefix + "user"
}
