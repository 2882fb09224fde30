package listing

import (
	"strconv"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
	"github.com/LeJamon/nftmarketd/internal/core/ledger/entry"
	"github.com/LeJamon/nftmarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeBuyBatch, func() market.Command {
		return &BuyBatch{}
	})
}

// Ask names one listing in a batch purchase.
type Ask struct {
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
}

// BuyBatch purchases several listings at once. The attached funds must
// equal the sum of their prices, and either every ask settles or none does.
type BuyBatch struct {
	Asks []Ask `json:"asks"`
}

func NewBuyBatch(asks ...Ask) *BuyBatch {
	return &BuyBatch{Asks: asks}
}

func (b *BuyBatch) CommandType() market.CommandType {
	return market.TypeBuyBatch
}

func (b *BuyBatch) Validate() error {
	if len(b.Asks) == 0 {
		return market.NewError(market.MktVAL_EMPTY_BATCH, "no asks")
	}
	seen := make(map[Ask]struct{}, len(b.Asks))
	for _, ask := range b.Asks {
		if err := market.ValidateToken(ask.Collection, ask.TokenID); err != nil {
			return err
		}
		if _, dup := seen[ask]; dup {
			return market.NewError(market.MktVAL_DUPLICATE_ASK, "%s/%s listed twice", ask.Collection, ask.TokenID)
		}
		seen[ask] = struct{}{}
	}
	return nil
}

func (b *BuyBatch) Apply(ctx *market.ApplyContext) market.Result {
	if len(b.Asks) > ctx.Config.MaxBatchSize {
		return ctx.Fail(market.MktVAL_BATCH_TOO_LARGE, "%d asks, limit %d", len(b.Asks), ctx.Config.MaxBatchSize)
	}
	buyer := ctx.Env.Caller

	// Pass 1: validate every ask and total the price without writing.
	listings := make([]*entry.Listing, 0, len(b.Asks))
	var total amount.Amount
	for _, ask := range b.Asks {
		listing, r := ctx.Listing(ask.Collection, ask.TokenID)
		if !r.IsSuccess() {
			return ctx.Fail(r, "%s/%s: %s", ask.Collection, ask.TokenID, r.Message())
		}
		if listing.Seller == buyer {
			return ctx.Fail(market.MktVAL_SELF_TRADE, "%s/%s is sold by the buyer", ask.Collection, ask.TokenID)
		}
		var err error
		if total, err = total.Add(listing.Price); err != nil {
			return ctx.Fail(market.MktVAL_OVERFLOW, "batch total: %v", err)
		}
		listings = append(listings, listing)
	}
	if r := ctx.RequireFunds(total); !r.IsSuccess() {
		return r
	}

	// Pass 2: settle. A failure here discards the staged view, so no
	// partial settlement is committed.
	var fees amount.Amount
	for _, listing := range listings {
		split, r := settle(ctx, listing, buyer, false)
		if !r.IsSuccess() {
			return r
		}
		fees, _ = fees.Add(split.Fee)
	}
	if r := ctx.AdjustCounts(-len(listings), 0); !r.IsSuccess() {
		return r
	}

	ctx.Attr("buyer", buyer)
	ctx.Attr("asks", strconv.Itoa(len(listings)))
	ctx.AttrAmount("price", total)
	ctx.AttrAmount("royalty", fees)
	return market.MktSUCCESS
}
