// Package state persists market entries in a key/value database and serves
// them to the engine as a market.LedgerView.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of raw entries kept in memory.
const DefaultCacheSize = 4096

// keyPrefix namespaces market entries inside a shared database.
const keyPrefix = 'm'

// Config holds configuration for the state store
type Config struct {
	// CacheSize is the number of entries to keep in memory
	CacheSize int
}

// Store is the committed market state. Reads are safe for concurrent use
// with Commit: a reader sees every change of a commit or none of them.
type Store struct {
	mu    sync.RWMutex
	db    database.DB
	cache *lru.Cache[keylet.Keylet, []byte]

	// Metrics, updated by concurrent readers
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore wraps db.
func NewStore(db database.DB, config Config) (*Store, error) {
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[keylet.Keylet, []byte](config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

func dbKey(k keylet.Keylet) []byte {
	key := make([]byte, 0, 2+len(k.Key))
	key = append(key, keyPrefix, byte(k.Type))
	return append(key, k.Key[:]...)
}

// Read returns the stored bytes of k, or nil when absent.
func (s *Store) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(k)
}

func (s *Store) read(k keylet.Keylet) ([]byte, error) {
	if data, ok := s.cache.Get(k); ok {
		s.hits.Add(1)
		return data, nil
	}
	s.misses.Add(1)

	data, err := s.db.Read(context.Background(), dbKey(k))
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", k, err)
	}
	s.cache.Add(k, data)
	return data, nil
}

func (s *Store) Exists(k keylet.Keylet) (bool, error) {
	data, err := s.Read(k)
	return data != nil, err
}

// Insert, Update and Erase write through immediately. The engine stages
// its writes and uses Commit instead.

func (s *Store) Insert(k keylet.Keylet, data []byte) error {
	return s.Commit([]market.Change{{Key: k, Action: market.ActionInsert, Data: data}})
}

func (s *Store) Update(k keylet.Keylet, data []byte) error {
	return s.Commit([]market.Change{{Key: k, Action: market.ActionModify, Data: data}})
}

func (s *Store) Erase(k keylet.Keylet) error {
	return s.Commit([]market.Change{{Key: k, Action: market.ActionErase}})
}

// Commit writes changes in a single database batch.
func (s *Store) Commit(changes []market.Change) error {
	if len(changes) == 0 {
		return nil
	}
	ops := make([]database.BatchOperation, 0, len(changes))
	for _, c := range changes {
		switch c.Action {
		case market.ActionInsert, market.ActionModify:
			ops = append(ops, database.Put(dbKey(c.Key), c.Data))
		case market.ActionErase:
			ops = append(ops, database.Del(dbKey(c.Key)))
		default:
			return fmt.Errorf("commit %s: unexpected action %s", c.Key, c.Action)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Batch(context.Background(), ops); err != nil {
		// Cached values may no longer match the database.
		s.cache.Purge()
		return fmt.Errorf("commit: %w", err)
	}
	for _, c := range changes {
		if c.Action == market.ActionErase {
			s.cache.Remove(c.Key)
		} else {
			s.cache.Add(c.Key, c.Data)
		}
	}
	return nil
}

// Scan calls fn with every stored entry of type t in key order.
func (s *Store) Scan(ctx context.Context, t entry.Type, fn func(data []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := []byte{keyPrefix, byte(t)}
	it, err := s.db.Iterator(ctx, prefix, database.PrefixEnd(prefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

// Stats reports cache hits and misses.
func (s *Store) Stats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
