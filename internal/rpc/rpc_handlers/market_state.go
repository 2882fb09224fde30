package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
)

// MarketStateMethod handles the market_state RPC method
type MarketStateMethod struct{ guestMethod }

func (m *MarketStateMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	state, err := market.GetState(b.View())
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{"state": state}, nil
}

// MarketConfigMethod handles the market_config RPC method
type MarketConfigMethod struct{ guestMethod }

func (m *MarketConfigMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	cfg, err := market.GetConfig(b.View())
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{"config": cfg}, nil
}

// CountsMethod handles the counts RPC method
type CountsMethod struct{ guestMethod }

func (m *CountsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	listings, err := market.GetListingCount(b.View())
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	auctions, err := market.GetAuctionCount(b.View())
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{
		"listing_count": listings,
		"auction_count": auctions,
	}, nil
}

// AdminsMethod handles the admins RPC method. With an "account" parameter
// it also reports whether that account is an admin.
type AdminsMethod struct{ guestMethod }

func (m *AdminsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		Account string `json:"account,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	set, err := market.ListAdmins(b.View())
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	admins := set.Admins
	if admins == nil {
		admins = []string{}
	}
	resp := map[string]interface{}{
		"owner":  set.Owner,
		"admins": admins,
	}
	if request.Account != "" {
		isAdmin, err := market.IsAdmin(b.View(), request.Account)
		if err != nil {
			return nil, rpc_types.RpcErrorFromQuery(err)
		}
		resp["account"] = request.Account
		resp["is_admin"] = isAdmin
	}
	return resp, nil
}
