package amount

import (
	"errors"
	"math"
	"math/bits"
	"strconv"
)

// Amount is a quantity of the native currency in base units.
type Amount uint64

// Max is the largest representable amount.
const Max Amount = math.MaxUint64

// MaxRoyaltyPct is the upper bound of a royalty percentage.
const MaxRoyaltyPct uint32 = 100

var (
	// ErrOverflow is returned when an operation would exceed Max.
	ErrOverflow = errors.New("amount overflow")

	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("amount underflow")

	// ErrBadRatio is returned for a zero denominator or a numerator above it.
	ErrBadRatio = errors.New("invalid ratio")
)

func New(units uint64) Amount {
	return Amount(units)
}

// Parse reads a decimal amount in base units.
func Parse(s string) (Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Amount(v), nil
}

func (a Amount) Uint64() uint64 {
	return uint64(a)
}

func (a Amount) IsZero() bool {
	return a == 0
}

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Add returns a+b or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return Amount(sum), nil
}

// Sub returns a-b or ErrUnderflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff, borrow := bits.Sub64(uint64(a), uint64(b), 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return Amount(diff), nil
}

// MulRatio returns floor(a * num / den). The product is held in 128 bits so
// the intermediate never overflows; num must not exceed den.
func (a Amount) MulRatio(num, den uint64) (Amount, error) {
	if den == 0 || num > den {
		return 0, ErrBadRatio
	}
	hi, lo := bits.Mul64(uint64(a), num)
	q, _ := bits.Div64(hi, lo, den)
	return Amount(q), nil
}

// Sum adds every amount, failing on the first overflow.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return 0, err
		}
	}
	return total, nil
}
