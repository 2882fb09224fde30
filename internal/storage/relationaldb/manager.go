package relationaldb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

// DriverInfo describes how a registered driver opens its journal.
type DriverInfo struct {
	// SQLDriver is the database/sql driver name
	SQLDriver string
	Dialect   Dialect
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]DriverInfo)
)

// RegisterDriver makes a journal driver available to Open. Driver packages
// call it from init.
func RegisterDriver(name string, info DriverInfo) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = info
}

// Drivers returns the registered driver names in sorted order.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open validates config, connects with the matching driver and prepares
// the journal schema.
func Open(ctx context.Context, config *Config) (Journal, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigurationError("open", "invalid configuration", err)
	}

	driversMu.RLock()
	info, ok := drivers[config.Driver]
	driversMu.RUnlock()
	if !ok {
		return nil, NewConfigurationError("open", "driver not linked", fmt.Errorf("%w: %s", ErrInvalidDriver, config.Driver))
	}

	connStr, err := config.BuildConnectionString()
	if err != nil {
		return nil, NewConfigurationError("open", "failed to build connection string", err)
	}

	sqlDB, err := sql.Open(info.SQLDriver, connStr)
	if err != nil {
		return nil, NewConnectionError("open", "failed to open database connection", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, config.DefaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, NewConnectionError("open", "failed to ping database", err)
	}

	journal, err := NewSQLJournal(ctx, sqlDB, info.Dialect, config.DefaultTimeout)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return journal, nil
}
