package config

import (
	"path/filepath"
)

// DefaultConfigFile is the configuration file looked up when none is given
const DefaultConfigFile = "marketd.toml"

// EnvPrefix prefixes every environment override (MARKETD_RPC_ADDRESS, ...)
const EnvPrefix = "MARKETD"

// Config represents the complete marketd configuration
type Config struct {
	// 1. Marketplace genesis and engine
	Market MarketConfig `toml:"market" mapstructure:"market"`

	// 2. State store
	Database DatabaseConfig `toml:"database" mapstructure:"database"`

	// 3. Results journal
	Journal JournalConfig `toml:"journal" mapstructure:"journal"`

	// 4. Endpoints
	RPC  RPCConfig  `toml:"rpc" mapstructure:"rpc"`
	GRPC GRPCConfig `toml:"grpc" mapstructure:"grpc"`

	// 5. Collaborators
	Custody CustodyConfig `toml:"custody" mapstructure:"custody"`

	// 6. Diagnostics
	Log LogConfig `toml:"log" mapstructure:"log"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// MarketConfig represents the [market] section
type MarketConfig struct {
	// Address is the account holding tokens and funds in custody
	Address string `toml:"address" mapstructure:"address"`

	// Genesis parameters, used by "marketd init" and on first start
	Owner             string   `toml:"owner" mapstructure:"owner"`
	FeeRecipient      string   `toml:"fee_recipient" mapstructure:"fee_recipient"`
	Denom             string   `toml:"denom" mapstructure:"denom"`
	DefaultRoyaltyPct uint32   `toml:"default_royalty_pct" mapstructure:"default_royalty_pct"`
	Admins            []string `toml:"admins" mapstructure:"admins"`

	MaxBatchSize int `toml:"max_batch_size" mapstructure:"max_batch_size"`
}

// GetConfigPath returns the path of the loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// ResolvePath makes a relative data path relative to the config file
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.configPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.configPath), p)
}
