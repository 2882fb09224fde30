package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOverflow(t *testing.T) {
	sum, err := New(10).Add(2)
	require.NoError(t, err)
	assert.Equal(t, Amount(12), sum)

	_, err = Max.Add(1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = New(1).Sub(2)
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestSum(t *testing.T) {
	total, err := Sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Amount(6), total)

	_, err = Sum(Max, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMulRatioLargeValues(t *testing.T) {
	got, err := Max.MulRatio(50, 100)
	require.NoError(t, err)
	assert.Equal(t, Max/2, got)

	_, err = New(1).MulRatio(1, 0)
	assert.ErrorIs(t, err, ErrBadRatio)
}

func TestSplitRoyalty(t *testing.T) {
	tests := []struct {
		name   string
		price  Amount
		pct    uint32
		fee    Amount
		seller Amount
	}{
		{"five percent of 100", 100, 5, 5, 95},
		{"remainder goes to seller", 99, 5, 4, 95},
		{"zero royalty", 100, 0, 0, 100},
		{"full royalty", 100, 100, 100, 0},
		{"tiny price rounds fee to zero", 19, 5, 0, 19},
		{"max price", Max, 3, 553402322211286548, 17893341751498265067},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := SplitRoyalty(tt.price, tt.pct)
			require.NoError(t, err)
			assert.Equal(t, tt.fee, split.Fee)
			assert.Equal(t, tt.seller, split.SellerAmount)
			total, err := split.Fee.Add(split.SellerAmount)
			require.NoError(t, err)
			assert.Equal(t, tt.price, total)
		})
	}

	_, err := SplitRoyalty(100, 101)
	assert.ErrorIs(t, err, ErrBadRatio)
}
