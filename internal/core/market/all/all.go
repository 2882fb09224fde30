// Package all registers every market command with the market registry.
package all

import (
	_ "github.com/LeJamon/nftmarketd/internal/core/market/admin"
	_ "github.com/LeJamon/nftmarketd/internal/core/market/auction"
	_ "github.com/LeJamon/nftmarketd/internal/core/market/listing"
)
