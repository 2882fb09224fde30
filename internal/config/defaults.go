package config

import (
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultDenom             = "unft"
	DefaultRoyaltyPct        = 2
	DefaultRPCAddress        = "127.0.0.1:5005"
	DefaultGRPCAddress       = "127.0.0.1:50051"
	DefaultDatabasePath      = "data/state"
	DefaultJournalPath       = "data/journal.db"
	DefaultCompressThreshold = 256
)

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// 1. Market defaults
	v.SetDefault("market.denom", DefaultDenom)
	v.SetDefault("market.default_royalty_pct", DefaultRoyaltyPct)
	v.SetDefault("market.admins", []string{})
	v.SetDefault("market.max_batch_size", market.DefaultMaxBatchSize)

	// 2. Database defaults
	v.SetDefault("database.type", "pebble")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.cache_size", 4096)
	v.SetDefault("database.compress", true)
	v.SetDefault("database.compress_threshold", DefaultCompressThreshold)

	// 3. Journal defaults
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.driver", "sqlite")
	v.SetDefault("journal.path", DefaultJournalPath)
	v.SetDefault("journal.dsn", "")
	v.SetDefault("journal.timeout", "10s")

	// 4. Endpoint defaults
	v.SetDefault("rpc.address", DefaultRPCAddress)
	v.SetDefault("rpc.ws_path", "/ws")
	v.SetDefault("rpc.timeout", "30s")
	v.SetDefault("rpc.require_signatures", true)
	v.SetDefault("rpc.replay_window", "10m")

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.address", DefaultGRPCAddress)
	v.SetDefault("grpc.probe_interval", "5s")

	// 5. Collaborator defaults
	v.SetDefault("custody.mode", CustodySim)
	v.SetDefault("custody.url", "")
	v.SetDefault("custody.retry_max", 3)
	v.SetDefault("custody.timeout", "10s")

	// 6. Diagnostics defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", true)
}

// DefaultConfigTOML is written by "marketd init"
const DefaultConfigTOML = `# marketd configuration

[market]
# account holding escrowed tokens and funds
address = "%s"
owner = "%s"
fee_recipient = "%s"
denom = "unft"
default_royalty_pct = 2
admins = []

[database]
type = "pebble"            # pebble | leveldb | memory
path = "data/state"
cache_size = 4096
compress = true
compress_threshold = 256

[journal]
enabled = true
driver = "sqlite"          # sqlite | postgres
path = "data/journal.db"
dsn = ""
timeout = "10s"

[rpc]
address = "127.0.0.1:5005"
ws_path = "/ws"
timeout = "30s"
require_signatures = true
replay_window = "10m"

[grpc]
enabled = false
address = "127.0.0.1:50051"
probe_interval = "5s"

[custody]
mode = "sim"               # sim | http
url = ""
retry_max = 3
timeout = "10s"

[log]
level = "info"
file = ""
console = true
`
