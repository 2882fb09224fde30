package rpc_handlers

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
)

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct{ guestMethod }

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	info := map[string]interface{}{
		"version":            ctx.Services.Version,
		"market_address":     b.Config().MarketAddress,
		"require_signatures": ctx.Services.RequireSignatures,
		"commands":           market.RegisteredTypes(),
	}
	if !ctx.Services.StartTime.IsZero() {
		info["uptime"] = int64(time.Since(ctx.Services.StartTime).Seconds())
	}

	state, err := market.GetState(b.View())
	if err != nil {
		info["server_state"] = "uninitialized"
	} else {
		info["server_state"] = "full"
		info["listing_count"] = state.ListingCount
		info["auction_count"] = state.AuctionCount
	}
	if err := b.Ready(ctx.Context); err != nil {
		info["server_state"] = "degraded"
		info["error"] = err.Error()
	}

	return map[string]interface{}{"info": info}, nil
}
