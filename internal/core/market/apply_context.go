package market

import (
	"context"
	"fmt"
	"strconv"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
)

// ApplyContext provides all the state and helpers needed to apply a command.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// Context bounds collaborator queries made while applying
	Context context.Context

	// View provides read/write access to market state (the ApplyStateTable)
	View LedgerView

	// Env carries the caller, the current time and the attached funds
	Env Env

	// Config holds engine configuration
	Config EngineConfig

	// Custody answers ownership queries
	Custody OwnerQuerier

	// Engine provides access to shared helpers
	Engine *Engine

	instructions []Instruction
	attributes   []Attribute
	detail       string
}

// Emit queues outbound instructions. They are released only if the command
// succeeds.
func (ctx *ApplyContext) Emit(ins ...Instruction) {
	ctx.instructions = append(ctx.instructions, ins...)
}

// Attr appends an audit attribute.
func (ctx *ApplyContext) Attr(key, value string) {
	ctx.attributes = append(ctx.attributes, Attribute{Key: key, Value: value})
}

// AttrAmount appends an amount-valued audit attribute.
func (ctx *ApplyContext) AttrAmount(key string, a amount.Amount) {
	ctx.Attr(key, a.String())
}

// AttrUint appends a counter-valued audit attribute.
func (ctx *ApplyContext) AttrUint(key string, v uint64) {
	ctx.Attr(key, strconv.FormatUint(v, 10))
}

// Fail records a detail message for r and returns it.
func (ctx *ApplyContext) Fail(r Result, format string, args ...any) Result {
	ctx.detail = fmt.Sprintf(format, args...)
	return r
}

// ValidAddress checks addr with the engine's address validator.
func (ctx *ApplyContext) ValidAddress(addr string) bool {
	return ctx.Engine.validAddress(addr)
}

// QueryOwner asks the custody collaborator who currently owns a token.
func (ctx *ApplyContext) QueryOwner(collection, tokenID string) (string, Result) {
	if ctx.Custody == nil {
		return "", ctx.Fail(MktINTERNAL_QUERY, "no custody collaborator configured")
	}
	owner, err := ctx.Custody.OwnerOf(ctx.Context, collection, tokenID)
	if err != nil {
		return "", ctx.Fail(MktINTERNAL_QUERY, "owner of %s/%s: %v", collection, tokenID, err)
	}
	return owner, MktSUCCESS
}

// ResolveRoyalty returns pct, or the configured default when pct is nil.
func (ctx *ApplyContext) ResolveRoyalty(pct *uint32) (uint32, Result) {
	if pct == nil {
		cfg, r := ctx.MarketConfig()
		if !r.IsSuccess() {
			return 0, r
		}
		return cfg.DefaultRoyaltyPct, MktSUCCESS
	}
	if *pct > amount.MaxRoyaltyPct {
		return 0, ctx.Fail(MktVAL_BAD_ROYALTY, "royalty %d%% above %d%%", *pct, amount.MaxRoyaltyPct)
	}
	return *pct, MktSUCCESS
}

// RequireFunds checks that exactly expected units of the market
// denomination are attached.
func (ctx *ApplyContext) RequireFunds(expected amount.Amount) Result {
	cfg, r := ctx.MarketConfig()
	if !r.IsSuccess() {
		return r
	}
	funds := ctx.Env.Funds
	if !funds.IsZero() && funds.Denom != cfg.Denom {
		return ctx.Fail(MktPAY_WRONG_DENOM, "funds in %q, market takes %q", funds.Denom, cfg.Denom)
	}
	if funds.Amount != expected {
		return ctx.Fail(MktPAY_MISMATCH, "attached %s, required %s", funds.Amount, expected)
	}
	return MktSUCCESS
}

// RequireNoFunds rejects commands that carry funds they would not use.
func (ctx *ApplyContext) RequireNoFunds() Result {
	if !ctx.Env.Funds.IsZero() {
		return ctx.Fail(MktPAY_UNEXPECTED_FUNDS, "%s%s attached", ctx.Env.Funds.Amount, ctx.Env.Funds.Denom)
	}
	return MktSUCCESS
}
