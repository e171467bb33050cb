// Package badger provides an embedded key-value registry store. Each bucket
// is one key under the "state/" prefix; Save writes all keys in a single
// badger transaction.
package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"biochemreg/internal/infra/persistence"
	"biochemreg/pkg/domain"
)

var _ domain.RegistryStore = (*Store)(nil)

const keyPrefix = "state/"

// ErrClosed is returned after Close.
var ErrClosed = errors.New("badger store closed")

// Options configures the store.
type Options struct {
	// Dir holds the badger files; ignored when InMemory is set.
	Dir        string
	InMemory   bool
	SyncWrites bool
	Logger     badger.Logger
}

// Store persists registry snapshots in BadgerDB.
type Store struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// NewStore opens the database described by opts.
func NewStore(opts Options) (*Store, error) {
	dir := opts.Dir
	if opts.InMemory {
		dir = ""
	} else if dir == "" {
		dir = "biochemreg.badger"
	}
	badgerOpts := badger.DefaultOptions(dir).
		WithInMemory(opts.InMemory).
		WithSyncWrites(opts.SyncWrites).
		WithLogger(opts.Logger)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func bucketKey(bucket string) []byte { return []byte(keyPrefix + bucket) }

// Load reads every bucket in one read transaction.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.Snapshot{}, ErrClosed
	}
	var rows []persistence.Row
	err := s.db.View(func(txn *badger.Txn) error {
		for _, bucket := range persistence.Buckets {
			item, err := txn.Get(bucketKey(bucket))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", bucket, err)
			}
			payload, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", bucket, err)
			}
			rows = append(rows, persistence.Row{Bucket: bucket, Payload: payload})
		}
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return persistence.Decode(rows)
}

// Save writes every bucket in one update transaction.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows, err := persistence.Encode(snapshot)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, r := range rows {
			if err := txn.Set(bucketKey(r.Bucket), r.Payload); err != nil {
				return fmt.Errorf("set %s: %w", r.Bucket, err)
			}
		}
		return nil
	})
}

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
