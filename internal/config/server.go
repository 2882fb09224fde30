package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// RPCConfig represents the [rpc] section
type RPCConfig struct {
	Address string        `toml:"address" mapstructure:"address"`
	WSPath  string        `toml:"ws_path" mapstructure:"ws_path"`
	Timeout time.Duration `toml:"timeout" mapstructure:"timeout"`

	// RequireSignatures derives the caller of submit from a signature
	RequireSignatures bool          `toml:"require_signatures" mapstructure:"require_signatures"`
	ReplayWindow      time.Duration `toml:"replay_window" mapstructure:"replay_window"`
}

// GRPCConfig represents the [grpc] section
type GRPCConfig struct {
	Enabled       bool          `toml:"enabled" mapstructure:"enabled"`
	Address       string        `toml:"address" mapstructure:"address"`
	ProbeInterval time.Duration `toml:"probe_interval" mapstructure:"probe_interval"`
}

// Validate performs validation on the RPC configuration
func (r *RPCConfig) Validate() error {
	if err := validateAddress(r.Address); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	if !strings.HasPrefix(r.WSPath, "/") || r.WSPath == "/" {
		return fmt.Errorf("ws_path must be an absolute path other than /, got %q", r.WSPath)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", r.Timeout)
	}
	if r.RequireSignatures && r.ReplayWindow <= 0 {
		return fmt.Errorf("replay_window must be positive when signatures are required")
	}
	return nil
}

// Validate performs validation on the gRPC configuration
func (g *GRPCConfig) Validate() error {
	if !g.Enabled {
		return nil
	}
	if err := validateAddress(g.Address); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	if g.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval must be positive, got %s", g.ProbeInterval)
	}
	return nil
}

func validateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address is required")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	return nil
}
