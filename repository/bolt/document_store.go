package bolt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/repository"
)

const defaultBucket = "cms"

// DocumentStore keeps every collection in a single bbolt file.
type DocumentStore struct {
	db     *bbolt.DB
	bucket []byte
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

// Open initializes the bbolt file and ensures the bucket exists.
func Open(path string, bucket string) (*DocumentStore, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &DocumentStore{db: db, bucket: []byte(bucket)}, nil
}

func (s *DocumentStore) Get(_ context.Context, key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, bbolt.ErrDatabaseNotOpen
	}
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return domain.ErrDocumentNotFound
		}
		// bbolt values are only valid for the life of the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *DocumentStore) Put(_ context.Context, key string, value []byte) error {
	if s == nil || s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), value)
	})
}

// Ping succeeds while the file is open.
func (s *DocumentStore) Ping(_ context.Context) error {
	if s == nil || s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return bbolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the bbolt database.
func (s *DocumentStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes bbolt statistics for the health endpoint.
func (s *DocumentStore) Stats() bbolt.Stats {
	if s == nil || s.db == nil {
		return bbolt.Stats{}
	}
	return s.db.Stats()
}
