package testing

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/LeJamon/nftmarketd/internal/collab/sim"
	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	_ "github.com/LeJamon/nftmarketd/internal/core/market/all"
	"github.com/LeJamon/nftmarketd/internal/crypto"
	"go.uber.org/zap"
)

const (
	// DefaultDenom is the payment denomination of a test market.
	DefaultDenom = "unft"

	// DefaultRoyaltyPct is applied when a command names no royalty.
	DefaultRoyaltyPct uint32 = 2
)

// EnvConfig customises a TestEnv.
type EnvConfig struct {
	Denom             string
	DefaultRoyaltyPct uint32
	MaxBatchSize      int

	// Store overrides the in-memory store.
	Store *state.Store
}

// DefaultEnvConfig returns the configuration NewTestEnv uses.
func DefaultEnvConfig() EnvConfig {
	return EnvConfig{
		Denom:             DefaultDenom,
		DefaultRoyaltyPct: DefaultRoyaltyPct,
	}
}

// TestEnv manages a test market: committed state, collaborators and time.
type TestEnv struct {
	t          *testing.T
	store      *state.Store
	engine     *market.Engine
	custody    *sim.Custody
	bank       *sim.Bank
	dispatcher *collab.Dispatcher
	clock      *ManualClock
	denom      string
	accounts   map[string]*Account

	// Owner controls the admin set and config.
	Owner *Account
	// FeeRecipient receives royalties.
	FeeRecipient *Account
	// Market is the account that holds tokens and funds in custody.
	Market *Account
}

// NewTestEnv creates a market with an empty admin set.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return NewTestEnvWithConfig(t, DefaultEnvConfig())
}

// NewTestEnvBacked creates a test environment whose store lives in a
// Pebble database under t.TempDir().
func NewTestEnvBacked(t *testing.T) *TestEnv {
	t.Helper()
	store, err := state.Open(state.OpenConfig{
		Backend:           state.BackendPebble,
		Path:              t.TempDir(),
		CompressThreshold: 64,
	})
	if err != nil {
		t.Fatalf("Failed to open pebble store: %v", err)
	}
	cfg := DefaultEnvConfig()
	cfg.Store = store
	return NewTestEnvWithConfig(t, cfg)
}

// NewTestEnvWithConfig creates a test environment from cfg.
func NewTestEnvWithConfig(t *testing.T, cfg EnvConfig) *TestEnv {
	t.Helper()

	if cfg.Denom == "" {
		cfg.Denom = DefaultDenom
	}
	store := cfg.Store
	if store == nil {
		store = state.NewMemoryStore()
	}
	t.Cleanup(func() { store.Close() })

	env := &TestEnv{
		t:        t,
		store:    store,
		clock:    NewManualClock(),
		denom:    cfg.Denom,
		accounts: make(map[string]*Account),
	}
	env.Owner = env.Account("owner")
	env.FeeRecipient = env.Account("fee-recipient")
	env.Market = env.Account("market")

	err := market.Genesis(store, market.GenesisParams{
		Owner:             env.Owner.Address,
		FeeRecipient:      env.FeeRecipient.Address,
		Denom:             cfg.Denom,
		DefaultRoyaltyPct: cfg.DefaultRoyaltyPct,
		Version:           "test",
	})
	if err != nil {
		t.Fatalf("Failed to write genesis state: %v", err)
	}

	env.custody = sim.NewCustody()
	env.bank = sim.NewBank(env.Market.Address)
	env.dispatcher = collab.NewDispatcher(env.custody, env.bank, zap.NewNop())
	env.engine = market.NewEngine(store, market.EngineConfig{
		MarketAddress:    env.Market.Address,
		MaxBatchSize:     cfg.MaxBatchSize,
		AddressValidator: crypto.IsValidAddress,
	}, env.custody)

	return env
}

// Account returns the named account, creating it on first use.
func (e *TestEnv) Account(name string) *Account {
	if acc, ok := e.accounts[name]; ok {
		return acc
	}
	acc := NewAccount(name)
	e.accounts[name] = acc
	return acc
}

// Store returns the committed state.
func (e *TestEnv) Store() *state.Store {
	return e.store
}

// Engine returns the command engine.
func (e *TestEnv) Engine() *market.Engine {
	return e.engine
}

// Custody returns the simulated custody contract.
func (e *TestEnv) Custody() *sim.Custody {
	return e.custody
}

// Bank returns the simulated bank.
func (e *TestEnv) Bank() *sim.Bank {
	return e.bank
}

// Denom returns the market denomination.
func (e *TestEnv) Denom() string {
	return e.denom
}

// Now returns the current time in unix seconds.
func (e *TestEnv) Now() uint64 {
	return e.clock.Unix()
}

// Advance moves the clock forward.
func (e *TestEnv) Advance(d time.Duration) {
	e.clock.Advance(d)
}

// AdvanceTo sets the clock to a unix time.
func (e *TestEnv) AdvanceTo(unix uint64) {
	e.clock.Set(time.Unix(int64(unix), 0).UTC())
}

// Mint creates a token owned by acc.
func (e *TestEnv) Mint(collection, tokenID string, acc *Account) {
	e.t.Helper()
	if err := e.custody.Mint(collection, tokenID, acc.Address); err != nil {
		e.t.Fatalf("Failed to mint %s/%s: %v", collection, tokenID, err)
	}
}

// Fund credits units of the market denomination to each account.
func (e *TestEnv) Fund(units amount.Amount, accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		if err := e.bank.Fund(acc.Address, e.denom, units); err != nil {
			e.t.Fatalf("Failed to fund %s: %v", acc.Name, err)
		}
	}
}

// Balance returns the balance of acc in the market denomination.
func (e *TestEnv) Balance(acc *Account) amount.Amount {
	return e.bank.Balance(acc.Address, e.denom)
}

// TokenOwner returns the custody contract's owner of a token.
func (e *TestEnv) TokenOwner(collection, tokenID string) string {
	e.t.Helper()
	owner, err := e.custody.OwnerOf(context.Background(), collection, tokenID)
	if err != nil {
		e.t.Fatalf("Failed to query owner of %s/%s: %v", collection, tokenID, err)
	}
	return owner
}

// Apply runs a command for caller with funds attached. Successful commands
// are committed and their instructions dispatched.
func (e *TestEnv) Apply(caller *Account, cmd market.Command, funds market.Coin) *Result {
	e.t.Helper()
	env := market.Env{Caller: caller.Address, Now: e.Now(), Funds: funds}

	res := &Result{ApplyResult: e.engine.Apply(context.Background(), cmd, env)}
	if !res.Result.IsSuccess() {
		return res
	}
	res.Dispatched = collab.WithAttachedFunds(env, res.Instructions)
	res.DispatchErr = e.dispatcher.Dispatch(context.Background(), res.Dispatched)
	return res
}

// Listing returns the listing of a token, nil when absent.
func (e *TestEnv) Listing(collection, tokenID string) *entry.Listing {
	e.t.Helper()
	l, err := market.GetListingByKey(e.store, collection, tokenID)
	return entryOrNil(e.t, l, err)
}

// Auction returns the auction of a token, nil when absent.
func (e *TestEnv) Auction(collection, tokenID string) *entry.Auction {
	e.t.Helper()
	a, err := market.GetAuctionByKey(e.store, collection, tokenID)
	return entryOrNil(e.t, a, err)
}

// Deposit returns the deposit of a token by owner, nil when absent.
func (e *TestEnv) Deposit(collection string, owner *Account, tokenID string) *entry.Deposit {
	e.t.Helper()
	d, err := market.GetDeposit(e.store, collection, owner.Address, tokenID)
	return entryOrNil(e.t, d, err)
}

// TokenStatus returns the status record of a token, nil when free.
func (e *TestEnv) TokenStatus(collection, tokenID string) *entry.TokenStatus {
	e.t.Helper()
	s, err := market.GetTokenStatus(e.store, collection, tokenID)
	return entryOrNil(e.t, s, err)
}

// Config returns the market configuration.
func (e *TestEnv) Config() *entry.Config {
	e.t.Helper()
	cfg, err := market.GetConfig(e.store)
	if err != nil {
		e.t.Fatalf("Failed to read config: %v", err)
	}
	return cfg
}

// MarketState returns the market state singleton.
func (e *TestEnv) MarketState() *entry.MarketState {
	e.t.Helper()
	st, err := market.GetState(e.store)
	if err != nil {
		e.t.Fatalf("Failed to read state: %v", err)
	}
	return st
}

// Counts returns the active listing and auction gauges.
func (e *TestEnv) Counts() (listings, auctions uint64) {
	st := e.MarketState()
	return st.ListingCount, st.AuctionCount
}

func entryOrNil[T any](t *testing.T, v *T, err error) *T {
	t.Helper()
	if err == nil {
		return v
	}
	if market.ResultOf(err).Category() == market.CategoryNotFound {
		return nil
	}
	t.Fatalf("Failed to read entry: %v", err)
	return nil
}
