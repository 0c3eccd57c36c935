package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/repository"
)

type documentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore returns a Postgres-backed document store over the
// cms_documents table.
func NewDocumentStore(pool *pgxpool.Pool) repository.DocumentStore {
	return &documentStore{pool: pool}
}

func (r *documentStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM cms_documents WHERE key = $1`

	var value []byte
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *documentStore) Put(ctx context.Context, key string, value []byte) error {
	const query = `
	INSERT INTO cms_documents (key, value, updated_at)
	VALUES ($1, $2::jsonb, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, key, string(value))
	return err
}

func (r *documentStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *documentStore) Close() error {
	r.pool.Close()
	return nil
}
