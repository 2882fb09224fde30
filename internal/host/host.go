// Package host drives the market engine: it serialises commands, commits
// their effects, dispatches their instructions to the collaborators,
// journals every outcome and publishes it to subscribers.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LeJamon/nftmarketd/internal/collab"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/state"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/storage/relationaldb"
	uuid "github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

var (
	ErrClosed    = errors.New("host is closed")
	ErrNoJournal = errors.New("journal is not enabled")
)

// Config holds the collaborators of a Host.
type Config struct {
	Engine  market.EngineConfig
	Store   *state.Store
	Custody collab.Custody
	Bank    collab.Bank

	// Journal is optional; without it results are only logged.
	Journal relationaldb.Journal

	// Clock returns the current time (time.Now if nil).
	Clock func() time.Time

	Logger *zap.Logger
}

// Host owns the engine and everything that happens around one command.
type Host struct {
	mu         sync.Mutex
	closed     bool
	store      *state.Store
	engine     *market.Engine
	dispatcher *collab.Dispatcher
	journal    relationaldb.Journal
	clock      func() time.Time
	logger     *zap.Logger
	events     *EventPublisher
}

// Submission is a command together with its execution environment.
type Submission struct {
	Caller  string
	Command market.Command
	Funds   market.Coin

	// Payload is the command as received, stored in the journal.
	Payload json.RawMessage
}

// Receipt is the outcome of one submission.
type Receipt struct {
	ID string `json:"id"`
	market.ApplyResult
	Caller        string `json:"caller"`
	Status        string `json:"status"`
	DispatchError string `json:"dispatch_error,omitempty"`
	Time          uint64 `json:"time"`
}

// New creates a Host. The store must already hold genesis state.
func New(cfg Config) (*Host, error) {
	if cfg.Store == nil {
		return nil, errors.New("host: store is required")
	}
	if cfg.Custody == nil || cfg.Bank == nil {
		return nil, errors.New("host: custody and bank are required")
	}
	if _, err := market.GetState(cfg.Store); err != nil {
		return nil, fmt.Errorf("host: market not initialized: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Host{
		store:      cfg.Store,
		engine:     market.NewEngine(cfg.Store, cfg.Engine, cfg.Custody),
		dispatcher: collab.NewDispatcher(cfg.Custody, cfg.Bank, logger),
		journal:    cfg.Journal,
		clock:      clock,
		logger:     logger.Named("host"),
		events:     NewEventPublisher(),
	}, nil
}

// Submit applies one command. Commands are processed strictly one at a
// time, and a command's instructions are dispatched before the next
// command is applied. The returned error is non-nil only when the host
// could not process the submission at all; rejected commands and dispatch
// failures are reported in the receipt.
func (h *Host) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	if sub.Command == nil {
		return nil, errors.New("host: no command")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}

	now := h.clock()
	env := market.Env{Caller: sub.Caller, Now: uint64(now.Unix()), Funds: sub.Funds}
	res := h.engine.Apply(ctx, sub.Command, env)

	receipt := &Receipt{
		ID:          newID(),
		ApplyResult: res,
		Caller:      sub.Caller,
		Status:      relationaldb.StatusRejected,
		Time:        env.Now,
	}
	if res.Result.IsSuccess() {
		receipt.Status = relationaldb.StatusApplied
		// The implicit collect of attached funds is journalled with the
		// rest of the instructions.
		receipt.Instructions = collab.WithAttachedFunds(env, res.Instructions)
		if err := h.dispatcher.Dispatch(ctx, receipt.Instructions); err != nil {
			receipt.Status = relationaldb.StatusDispatchFailed
			receipt.DispatchError = err.Error()
		}
	}

	h.log(receipt)
	h.record(ctx, receipt, sub.Payload, now)
	h.events.Publish(receipt)
	return receipt, nil
}

func (h *Host) log(r *Receipt) {
	fields := []zap.Field{
		zap.String("id", r.ID),
		zap.String("command", string(r.Command)),
		zap.String("caller", r.Caller),
		zap.String("result", r.Result.String()),
		zap.Int("instructions", len(r.Instructions)),
	}
	switch r.Status {
	case relationaldb.StatusApplied:
		h.logger.Info("command applied", fields...)
	case relationaldb.StatusDispatchFailed:
		h.logger.Error("command dispatch failed", append(fields, zap.String("error", r.DispatchError))...)
	default:
		h.logger.Info("command rejected", append(fields, zap.String("message", r.Message))...)
	}
}

func (h *Host) record(ctx context.Context, r *Receipt, payload json.RawMessage, now time.Time) {
	if h.journal == nil {
		return
	}
	rec, err := newRecord(r, payload, now)
	if err == nil {
		err = h.journal.Append(ctx, rec)
	}
	if err != nil {
		// State is already committed; the journal is an audit trail only.
		h.logger.Error("journal append failed", zap.String("id", r.ID), zap.Error(err))
	}
}

func newRecord(r *Receipt, payload json.RawMessage, now time.Time) (*relationaldb.Record, error) {
	attrs, err := json.Marshal(r.Attributes)
	if err != nil {
		return nil, err
	}
	ins, err := json.Marshal(r.Instructions)
	if err != nil {
		return nil, err
	}
	msg := r.Message
	if r.DispatchError != "" {
		msg = r.DispatchError
	}
	return &relationaldb.Record{
		ID:           r.ID,
		Command:      string(r.Command),
		Caller:       r.Caller,
		Result:       r.Result.String(),
		Code:         int(r.Result),
		Status:       r.Status,
		Message:      msg,
		Payload:      payload,
		Attributes:   attrs,
		Instructions: ins,
		CreatedAt:    now,
	}, nil
}

func newID() string {
	u, err := uuid.NewV4()
	if err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return u.String()
}

// View returns read access to committed state.
func (h *Host) View() market.Reader {
	return h.store
}

// Store returns the state store.
func (h *Host) Store() *state.Store {
	return h.store
}

// Config returns the engine configuration.
func (h *Host) Config() market.EngineConfig {
	return h.engine.Config()
}

// Events returns the publisher of receipts.
func (h *Host) Events() *EventPublisher {
	return h.events
}

// History lists journalled results, newest first.
func (h *Host) History(ctx context.Context, opts relationaldb.ListOptions) ([]*relationaldb.Record, error) {
	if h.journal == nil {
		return nil, ErrNoJournal
	}
	return h.journal.List(ctx, opts)
}

// Record returns one journalled result.
func (h *Host) Record(ctx context.Context, id string) (*relationaldb.Record, error) {
	if h.journal == nil {
		return nil, ErrNoJournal
	}
	return h.journal.Get(ctx, id)
}

// Ready reports whether the store and journal are usable.
func (h *Host) Ready(ctx context.Context) error {
	if _, err := market.GetState(h.store); err != nil {
		return err
	}
	if h.journal != nil {
		return h.journal.Ping(ctx)
	}
	return nil
}

// Close stops accepting submissions and drops subscribers. It does not
// close the store or journal, which the caller owns.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.events.Clear()
}
