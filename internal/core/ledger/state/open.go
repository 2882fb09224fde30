package state

import (
	"fmt"
	"os"

	"github.com/LeJamon/nftmarketd/internal/storage/database"
	"github.com/LeJamon/nftmarketd/internal/storage/database/leveldb"
	"github.com/LeJamon/nftmarketd/internal/storage/database/memory"
	"github.com/LeJamon/nftmarketd/internal/storage/database/pebble"
)

// Backend names accepted by Open.
const (
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// OpenConfig selects and tunes the database behind a Store.
type OpenConfig struct {
	Backend string
	Path    string

	// CompressThreshold enables LZ4 for values of at least this many
	// bytes. Zero disables compression.
	CompressThreshold int

	CacheSize int
}

// OpenDB opens the configured backend.
func OpenDB(cfg OpenConfig) (database.DB, error) {
	var db database.DB
	switch cfg.Backend {
	case BackendMemory:
		db = memory.NewDB()
	case BackendPebble, BackendLevelDB:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%s backend needs a path", cfg.Backend)
		}
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, err
		}
		var err error
		if cfg.Backend == BackendPebble {
			db, err = pebble.Open(cfg.Path)
		} else {
			db, err = leveldb.Open(cfg.Path)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, cfg.Backend)
	}

	if cfg.CompressThreshold > 0 {
		db = database.NewCompressed(db, cfg.CompressThreshold)
	}
	return db, nil
}

// Open opens the configured backend and wraps it in a Store.
func Open(cfg OpenConfig) (*Store, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(db, Config{CacheSize: cfg.CacheSize})
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *Store {
	store, err := NewStore(memory.NewDB(), Config{})
	if err != nil {
		panic(err)
	}
	return store
}
