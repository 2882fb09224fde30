package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
)

var allVersions = []int{rpc_types.ApiVersion1}

// parseParams decodes params into v. Absent params leave v untouched.
func parseParams(params json.RawMessage, v interface{}) *rpc_types.RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

func backend(ctx *rpc_types.RpcContext) (rpc_types.Backend, *rpc_types.RpcError) {
	if ctx.Services == nil || ctx.Services.Backend == nil {
		return nil, rpc_types.RpcErrorInternal("Market service not available")
	}
	return ctx.Services.Backend, nil
}

func requireToken(p rpc_types.TokenParams) *rpc_types.RpcError {
	if p.Collection == "" {
		return rpc_types.RpcErrorMissingField("collection")
	}
	if p.TokenID == "" {
		return rpc_types.RpcErrorMissingField("token_id")
	}
	return nil
}

func parseCoin(p *rpc_types.CoinParam) (market.Coin, *rpc_types.RpcError) {
	if p == nil || (p.Denom == "" && p.Amount == "") {
		return market.Coin{}, nil
	}
	amt, err := amount.Parse(p.Amount)
	if err != nil {
		return market.Coin{}, rpc_types.RpcErrorInvalidField("funds.amount")
	}
	if p.Denom == "" && !amt.IsZero() {
		return market.Coin{}, rpc_types.RpcErrorMissingField("funds.denom")
	}
	return market.Coin{Denom: p.Denom, Amount: amt}, nil
}

type guestMethod struct{}

func (guestMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (guestMethod) SupportedApiVersions() []int {
	return allVersions
}
