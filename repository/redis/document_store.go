package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/repository"
)

type documentStore struct {
	client *redislib.Client
	prefix string
}

// NewDocumentStore creates a Redis-backed document store. Keys never expire.
func NewDocumentStore(client *redislib.Client) repository.DocumentStore {
	return &documentStore{
		client: client,
		prefix: "cms:",
	}
}

func (r *documentStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *documentStore) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *documentStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *documentStore) Close() error {
	return r.client.Close()
}

func (r *documentStore) key(name string) string {
	return fmt.Sprintf("%s%s", r.prefix, name)
}
