package amount

import "fmt"

// Split is the division of a sale price between the seller and the fee
// recipient.
type Split struct {
	Price        Amount
	Fee          Amount
	SellerAmount Amount
}

// SplitRoyalty computes fee = floor(price * pct / 100) and gives the rest to
// the seller, so the rounding remainder always lands on the seller side and
// Fee + SellerAmount == Price.
func SplitRoyalty(price Amount, pct uint32) (Split, error) {
	if pct > MaxRoyaltyPct {
		return Split{}, fmt.Errorf("royalty %d%% above %d%%: %w", pct, MaxRoyaltyPct, ErrBadRatio)
	}
	fee, err := price.MulRatio(uint64(pct), uint64(MaxRoyaltyPct))
	if err != nil {
		return Split{}, err
	}
	seller, err := price.Sub(fee)
	if err != nil {
		return Split{}, err
	}
	return Split{Price: price, Fee: fee, SellerAmount: seller}, nil
}
