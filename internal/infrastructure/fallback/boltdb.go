package fallback

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/spicecms/domain"
)

var stateKey = []byte("state")

// Store keeps the last known CMSState in a bbolt file so a client can start
// with real data while the backend is unreachable.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the bbolt file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "snapshot"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Load returns the persisted state or domain.ErrNoLocalState.
func (s *Store) Load() (domain.CMSState, error) {
	if s == nil || s.db == nil {
		return domain.CMSState{}, bolt.ErrDatabaseNotOpen
	}
	var state domain.CMSState
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(stateKey)
		if v == nil {
			return domain.ErrNoLocalState
		}
		return json.Unmarshal(v, &state)
	})
	if err != nil {
		return domain.CMSState{}, err
	}
	state.Normalize()
	return state, nil
}

// Save overwrites the persisted state.
func (s *Store) Save(state domain.CMSState) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	state.Normalize()
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(stateKey, payload)
	})
}

// Close closes the bbolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
