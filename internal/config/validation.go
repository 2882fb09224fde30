package config

import (
	"fmt"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/crypto"
)

// ValidateConfig performs comprehensive validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := validateMarket(&config.Market); err != nil {
		return fmt.Errorf("market config validation failed: %w", err)
	}
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}
	if err := config.Journal.Validate(); err != nil {
		return fmt.Errorf("journal validation failed: %w", err)
	}
	if err := config.RPC.Validate(); err != nil {
		return fmt.Errorf("rpc validation failed: %w", err)
	}
	if err := config.GRPC.Validate(); err != nil {
		return fmt.Errorf("grpc validation failed: %w", err)
	}
	if err := config.Custody.Validate(); err != nil {
		return fmt.Errorf("custody validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}

	// Cross-validation checks
	if config.GRPC.Enabled && config.GRPC.Address == config.RPC.Address {
		return fmt.Errorf("grpc and rpc cannot share address %s", config.RPC.Address)
	}
	return nil
}

func validateMarket(m *MarketConfig) error {
	if !crypto.IsValidAddress(m.Address) {
		return fmt.Errorf("address is not a valid account: %q", m.Address)
	}
	if !crypto.IsValidAddress(m.Owner) {
		return fmt.Errorf("owner is not a valid account: %q", m.Owner)
	}
	if !crypto.IsValidAddress(m.FeeRecipient) {
		return fmt.Errorf("fee_recipient is not a valid account: %q", m.FeeRecipient)
	}
	if m.Denom == "" {
		return fmt.Errorf("denom is required")
	}
	if m.DefaultRoyaltyPct > amount.MaxRoyaltyPct {
		return fmt.Errorf("default_royalty_pct must be at most %d, got %d", amount.MaxRoyaltyPct, m.DefaultRoyaltyPct)
	}
	seen := make(map[string]bool, len(m.Admins))
	for _, admin := range m.Admins {
		if !crypto.IsValidAddress(admin) {
			return fmt.Errorf("admin is not a valid account: %q", admin)
		}
		if seen[admin] {
			return fmt.Errorf("duplicate admin: %s", admin)
		}
		seen[admin] = true
	}
	if m.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive, got %d", m.MaxBatchSize)
	}
	return nil
}

func containsSlice(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
