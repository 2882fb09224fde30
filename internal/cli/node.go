package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/LeJamon/nftmarketd/internal/collab/httpcollab"
	"github.com/LeJamon/nftmarketd/internal/collab/sim"
	"github.com/LeJamon/nftmarketd/internal/config"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"github.com/LeJamon/nftmarketd/internal/host"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
	"go.uber.org/zap"

	// command packages and journal drivers
	_ "github.com/LeJamon/nftmarketd/internal/core/market/all"
	_ "github.com/LeJamon/nftmarketd/internal/storage/relationaldb/postgres"
	_ "github.com/LeJamon/nftmarketd/internal/storage/relationaldb/sqlite"
)

// node is a fully wired market: store, journal, collaborators and host.
type node struct {
	cfg     *config.Config
	store   *state.Store
	journal relationaldb.Journal
	host    *host.Host
	logger  *zap.Logger
}

// openNode opens every component named by cfg. The marketplace is
// initialized from the [market] section on first start.
func openNode(ctx context.Context, cfg *config.Config, logger *zap.Logger) (n *node, err error) {
	n = &node{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			n.Close()
		}
	}()

	n.store, err = state.Open(cfg.Database.OpenConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err = ensureGenesis(n.store, cfg.Market, logger); err != nil {
		return nil, err
	}

	if cfg.Journal.Enabled {
		n.journal, err = relationaldb.Open(ctx, cfg.Journal.RelationalConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
	}

	custody, bank, err := openCollaborators(cfg)
	if err != nil {
		return nil, err
	}

	n.host, err = host.New(host.Config{
		Engine: market.EngineConfig{
			MarketAddress:    cfg.Market.Address,
			MaxBatchSize:     cfg.Market.MaxBatchSize,
			AddressValidator: crypto.IsValidAddress,
		},
		Store:   n.store,
		Custody: custody,
		Bank:    bank,
		Journal: n.journal,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func ensureGenesis(store *state.Store, m config.MarketConfig, logger *zap.Logger) error {
	_, err := market.GetState(store)
	if err == nil {
		return nil
	}
	if !errors.Is(err, market.ErrNotFound) {
		return fmt.Errorf("failed to read market state: %w", err)
	}
	err = market.Genesis(store, market.GenesisParams{
		Owner:             m.Owner,
		FeeRecipient:      m.FeeRecipient,
		Denom:             m.Denom,
		DefaultRoyaltyPct: m.DefaultRoyaltyPct,
		Admins:            m.Admins,
		Version:           Version,
	})
	if err != nil {
		return fmt.Errorf("genesis failed: %w", err)
	}
	logger.Info("market initialized",
		zap.String("owner", m.Owner),
		zap.String("fee_recipient", m.FeeRecipient),
		zap.String("denom", m.Denom),
		zap.Int("admins", len(m.Admins)))
	return nil
}

func openCollaborators(cfg *config.Config) (collab.Custody, collab.Bank, error) {
	switch cfg.Custody.Mode {
	case config.CustodyHTTP:
		client, err := httpcollab.NewClient(httpcollab.Config{
			BaseURL:  cfg.Custody.URL,
			RetryMax: cfg.Custody.RetryMax,
			Timeout:  cfg.Custody.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create custody client: %w", err)
		}
		return client, client, nil
	default:
		return sim.NewCustody(), sim.NewBank(cfg.Market.Address), nil
	}
}

// services builds the RPC service container.
func (n *node) services() *rpc_types.ServiceContainer {
	return &rpc_types.ServiceContainer{
		Backend:           n.host,
		RequireSignatures: n.cfg.RPC.RequireSignatures,
		Replay:            rpc_types.NewReplayGuard(n.cfg.RPC.ReplayWindow),
		Version:           Version,
		StartTime:         time.Now(),
	}
}

// Close releases every opened component, newest first.
func (n *node) Close() error {
	var errs []error
	if n.host != nil {
		n.host.Close()
	}
	if n.journal != nil {
		if err := n.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("journal: %w", err))
		}
	}
	if n.store != nil {
		if err := n.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("state store: %w", err))
		}
	}
	return errors.Join(errs...)
}
