package rpc

import (
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_handlers"
	"github.com/LeJamon/nftmarketd/internal/rpc/rpc_types"
)

// registerAllMethods registers every RPC method on registry
func registerAllMethods(registry *rpc_types.MethodRegistry) {
	// Server Information Methods
	registry.Register("ping", &rpc_handlers.PingMethod{})
	registry.Register("server_info", &rpc_handlers.ServerInfoMethod{})

	// Commands
	registry.Register("submit", &rpc_handlers.SubmitMethod{})

	// Market Methods
	registry.Register("market_state", &rpc_handlers.MarketStateMethod{})
	registry.Register("market_config", &rpc_handlers.MarketConfigMethod{})
	registry.Register("counts", &rpc_handlers.CountsMethod{})
	registry.Register("admins", &rpc_handlers.AdminsMethod{})

	// Token Methods
	registry.Register("listing", &rpc_handlers.ListingMethod{})
	registry.Register("listings", &rpc_handlers.ListingsMethod{})
	registry.Register("auction", &rpc_handlers.AuctionMethod{})
	registry.Register("auctions", &rpc_handlers.AuctionsMethod{})
	registry.Register("deposit", &rpc_handlers.DepositMethod{})
	registry.Register("token_status", &rpc_handlers.TokenStatusMethod{})

	// Journal Methods
	registry.Register("history", &rpc_handlers.HistoryMethod{})
	registry.Register("record", &rpc_handlers.RecordMethod{})
}
