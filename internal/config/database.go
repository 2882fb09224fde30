package config

import (
	"fmt"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
)

// DatabaseConfig represents the [database] section
// Configures the key/value store holding market state
type DatabaseConfig struct {
	Type      string `toml:"type" mapstructure:"type"`
	Path      string `toml:"path" mapstructure:"path"`
	CacheSize int    `toml:"cache_size" mapstructure:"cache_size"`

	// Compress enables LZ4 for values of at least CompressThreshold bytes
	Compress          bool `toml:"compress" mapstructure:"compress"`
	CompressThreshold int  `toml:"compress_threshold" mapstructure:"compress_threshold"`
}

// JournalConfig represents the [journal] section
type JournalConfig struct {
	Enabled bool          `toml:"enabled" mapstructure:"enabled"`
	Driver  string        `toml:"driver" mapstructure:"driver"`
	DSN     string        `toml:"dsn" mapstructure:"dsn"`
	Path    string        `toml:"path" mapstructure:"path"`
	Timeout time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// Validate performs validation on the database configuration
func (d *DatabaseConfig) Validate() error {
	validTypes := []string{state.BackendPebble, state.BackendLevelDB, state.BackendMemory}
	if !containsSlice(validTypes, d.Type) {
		return fmt.Errorf("invalid database type: %q (valid options: pebble, leveldb, memory)", d.Type)
	}
	if d.Type != state.BackendMemory && d.Path == "" {
		return fmt.Errorf("database path is required for %s", d.Type)
	}
	if d.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", d.CacheSize)
	}
	if d.Compress && d.CompressThreshold <= 0 {
		return fmt.Errorf("compress_threshold must be positive when compress is on, got %d", d.CompressThreshold)
	}
	return nil
}

// OpenConfig converts the section into store options
func (d *DatabaseConfig) OpenConfig() state.OpenConfig {
	cfg := state.OpenConfig{
		Backend:   d.Type,
		Path:      d.Path,
		CacheSize: d.CacheSize,
	}
	if d.Compress {
		cfg.CompressThreshold = d.CompressThreshold
	}
	return cfg
}

// Validate performs validation on the journal configuration
func (j *JournalConfig) Validate() error {
	if !j.Enabled {
		return nil
	}
	switch j.Driver {
	case relationaldb.DriverSQLite:
		if j.Path == "" && j.DSN == "" {
			return fmt.Errorf("journal path is required for sqlite")
		}
	case relationaldb.DriverPostgres:
		if j.DSN == "" {
			return fmt.Errorf("journal dsn is required for postgres")
		}
	default:
		return fmt.Errorf("invalid journal driver: %q (valid options: sqlite, postgres)", j.Driver)
	}
	if j.Timeout <= 0 {
		return fmt.Errorf("journal timeout must be positive, got %s", j.Timeout)
	}
	return nil
}

// RelationalConfig converts the section into journal options
func (j *JournalConfig) RelationalConfig() *relationaldb.Config {
	var cfg *relationaldb.Config
	if j.Driver == relationaldb.DriverPostgres {
		cfg = relationaldb.PostgresConfig()
	} else {
		cfg = relationaldb.SQLiteConfig(j.Path)
	}
	cfg.ConnectionString = j.DSN
	cfg.DefaultTimeout = j.Timeout
	return cfg
}
