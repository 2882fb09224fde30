package market

import (
	"context"
	"fmt"
)

// DefaultMaxBatchSize bounds the number of asks in one BuyBatch.
const DefaultMaxBatchSize = 64

// EngineConfig holds configuration for the command engine
type EngineConfig struct {
	// MarketAddress is the account that holds tokens and funds in custody
	MarketAddress string

	// MaxBatchSize bounds the asks in one BuyBatch (DefaultMaxBatchSize if zero)
	MaxBatchSize int

	// AddressValidator checks account addresses; nil accepts any non-empty string
	AddressValidator func(string) bool
}

// Engine applies commands against market state. It holds no locks: the
// host serialises commands and the apply state table makes each one atomic.
type Engine struct {
	view    LedgerView
	config  EngineConfig
	custody OwnerQuerier
}

// ApplyResult contains the result of applying a command
type ApplyResult struct {
	// Result is the command result code
	Result Result `json:"result"`

	// Applied indicates if the command changed state
	Applied bool `json:"applied"`

	// Command is the type of the applied command
	Command CommandType `json:"command"`

	// Attributes is the audit trail of the command
	Attributes []Attribute `json:"attributes,omitempty"`

	// Instructions are the outbound requests to collaborators, in order
	Instructions []Instruction `json:"instructions,omitempty"`

	// Changes lists the entries the command created, modified or deleted
	Changes []Change `json:"-"`

	// Message is a human-readable result message
	Message string `json:"message"`
}

// Err returns the failure as an error, nil on success.
func (r ApplyResult) Err() error {
	if r.Result.IsSuccess() {
		return nil
	}
	return &ResultError{Result: r.Result, Detail: r.Message}
}

// Attr returns the value of an audit attribute.
func (r ApplyResult) Attr(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// NewEngine creates a new command engine
func NewEngine(view LedgerView, config EngineConfig, custody OwnerQuerier) *Engine {
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = DefaultMaxBatchSize
	}
	return &Engine{
		view:    view,
		config:  config,
		custody: custody,
	}
}

// View returns the committed state the engine applies to.
func (e *Engine) View() Reader {
	return e.view
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

func (e *Engine) validAddress(addr string) bool {
	if addr == "" {
		return false
	}
	if e.config.AddressValidator == nil {
		return true
	}
	return e.config.AddressValidator(addr)
}

// Apply runs one command: stateless validation, then the command's Apply
// against a staged view, then an atomic commit. A failing command leaves
// state untouched and emits no instructions.
func (e *Engine) Apply(goCtx context.Context, cmd Command, env Env) ApplyResult {
	if goCtx == nil {
		goCtx = context.Background()
	}
	cmdType := cmd.CommandType()

	// Step 1: stateless checks
	if err := cmd.Validate(); err != nil {
		r := ResultOf(err)
		if r.Category() == CategoryInternal {
			r = MktVAL_MALFORMED
		}
		return failed(cmdType, r, err.Error())
	}

	appliable, ok := cmd.(Appliable)
	if !ok {
		return failed(cmdType, MktUNKNOWN_COMMAND, fmt.Sprintf("%s cannot be applied", cmdType))
	}

	if !e.validAddress(env.Caller) {
		return failed(cmdType, MktVAL_BAD_ADDRESS, fmt.Sprintf("caller %q", env.Caller))
	}

	// Step 2: apply against a staged view
	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{
		Context: goCtx,
		View:    table,
		Env:     env,
		Config:  e.config,
		Custody: e.custody,
		Engine:  e,
	}

	if _, r := ctx.MarketState(); !r.IsSuccess() {
		return failed(cmdType, r, r.Message())
	}

	ctx.Attr("action", string(cmdType))
	result := appliable.Apply(ctx)
	if !result.IsSuccess() {
		msg := ctx.detail
		if msg == "" {
			msg = result.Message()
		}
		return failed(cmdType, result, msg)
	}

	// Step 3: commit
	changes, err := table.Apply()
	if err != nil {
		return failed(cmdType, MktINTERNAL, "commit: "+err.Error())
	}

	return ApplyResult{
		Result:       MktSUCCESS,
		Applied:      true,
		Command:      cmdType,
		Attributes:   ctx.attributes,
		Instructions: ctx.instructions,
		Changes:      changes,
		Message:      MktSUCCESS.Message(),
	}
}

func failed(t CommandType, r Result, msg string) ApplyResult {
	return ApplyResult{
		Result:  r,
		Command: t,
		Message: msg,
	}
}
