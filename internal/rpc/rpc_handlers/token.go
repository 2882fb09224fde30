package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
)

// ListingMethod handles the listing RPC method
type ListingMethod struct{ guestMethod }

func (m *ListingMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, request, rpcErr := tokenRequest(ctx, params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	listing, err := market.GetListingByKey(b.View(), request.Collection, request.TokenID)
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{"listing": listing}, nil
}

// AuctionMethod handles the auction RPC method
type AuctionMethod struct{ guestMethod }

func (m *AuctionMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, request, rpcErr := tokenRequest(ctx, params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	auction, err := market.GetAuctionByKey(b.View(), request.Collection, request.TokenID)
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{"auction": auction}, nil
}

// TokenStatusMethod handles the token_status RPC method
type TokenStatusMethod struct{ guestMethod }

func (m *TokenStatusMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, request, rpcErr := tokenRequest(ctx, params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	status, err := market.GetTokenStatus(b.View(), request.Collection, request.TokenID)
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{"token_status": status}, nil
}

// DepositMethod handles the deposit RPC method
type DepositMethod struct{ guestMethod }

func (m *DepositMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		rpc_types.TokenParams
		Owner string `json:"owner"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if rpcErr := requireToken(request.TokenParams); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Owner == "" {
		return nil, rpc_types.RpcErrorMissingField("owner")
	}
	deposit, err := market.GetDeposit(b.View(), request.Collection, request.Owner, request.TokenID)
	if err != nil {
		return nil, rpc_types.RpcErrorFromQuery(err)
	}
	return map[string]interface{}{"deposit": deposit}, nil
}

// ListingsMethod handles the listings RPC method
type ListingsMethod struct{ guestMethod }

func (m *ListingsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	listings, err := b.Store().Listings(ctx.Context)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"listings": listings, "count": len(listings)}, nil
}

// AuctionsMethod handles the auctions RPC method
type AuctionsMethod struct{ guestMethod }

func (m *AuctionsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	auctions, err := b.Store().Auctions(ctx.Context)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"auctions": auctions, "count": len(auctions)}, nil
}

func tokenRequest(ctx *rpc_types.RpcContext, params json.RawMessage) (rpc_types.Backend, rpc_types.TokenParams, *rpc_types.RpcError) {
	var request rpc_types.TokenParams
	b, rpcErr := backend(ctx)
	if rpcErr != nil {
		return nil, request, rpcErr
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, request, rpcErr
	}
	if rpcErr := requireToken(request); rpcErr != nil {
		return nil, request, rpcErr
	}
	return b, request, nil
}
