package market

import "fmt"

// Result represents a command result code
type Result int

// Command result codes, grouped by category:
// mktVAL (-299..-200), mktAUTH (-199..-100), mktINTERNAL (-399..-300),
// mktCONFLICT (100..199), mktNOT_FOUND (200..299), mktPAY (300..399).
const (
	MktSUCCESS Result = 0

	// Validation: malformed, zero or out-of-range parameters
	MktVAL_MALFORMED       Result = -299
	MktVAL_ZERO_PRICE      Result = -298
	MktVAL_ZERO_STEP       Result = -297
	MktVAL_BAD_TIME_RANGE  Result = -296
	MktVAL_START_IN_PAST   Result = -295
	MktVAL_BAD_ROYALTY     Result = -294
	MktVAL_SELF_TRADE      Result = -293
	MktVAL_OVERFLOW        Result = -292
	MktVAL_BAD_ADDRESS     Result = -291
	MktVAL_EMPTY_BATCH     Result = -290
	MktVAL_DUPLICATE_ASK   Result = -289
	MktVAL_BID_TOO_LOW     Result = -288
	MktVAL_BATCH_TOO_LARGE Result = -287

	// Authorization: caller lacks the required role or ownership
	MktAUTH_NOT_OWNER          Result = -199
	MktAUTH_NOT_SELLER         Result = -198
	MktAUTH_NOT_DEPOSITOR      Result = -197
	MktAUTH_OWNERSHIP_MISMATCH Result = -196
	MktAUTH_NOT_COLLECTION     Result = -195

	// Internal: invariant or collaborator failures, never the caller's fault
	MktINTERNAL        Result = -399
	MktINTERNAL_QUERY  Result = -398
	MktUNKNOWN_COMMAND Result = -397

	// State conflict: the record exists or is in the wrong state
	MktCONFLICT_DEPOSIT_EXISTS Result = 100
	MktCONFLICT_TOKEN_BUSY     Result = 101
	MktCONFLICT_AUCTION_STATUS Result = 102
	MktCONFLICT_TOO_EARLY      Result = 103
	MktCONFLICT_AUCTION_OVER   Result = 104
	MktCONFLICT_ALREADY_ADMIN  Result = 105
	MktCONFLICT_GENESIS_EXISTS Result = 106

	// Not found: no record for the given key
	MktNOT_FOUND_LISTING Result = 200
	MktNOT_FOUND_AUCTION Result = 201
	MktNOT_FOUND_DEPOSIT Result = 202
	MktNOT_FOUND_ADMIN   Result = 203
	MktNOT_FOUND_STATE   Result = 204
	MktNOT_FOUND_TOKEN   Result = 205

	// Payment: attached funds do not match what the command requires
	MktPAY_MISMATCH         Result = 300
	MktPAY_WRONG_DENOM      Result = 301
	MktPAY_UNEXPECTED_FUNDS Result = 302
)

var resultNames = map[Result]string{
	MktSUCCESS:                 "mktSUCCESS",
	MktVAL_MALFORMED:           "mktVAL_MALFORMED",
	MktVAL_ZERO_PRICE:          "mktVAL_ZERO_PRICE",
	MktVAL_ZERO_STEP:           "mktVAL_ZERO_STEP",
	MktVAL_BAD_TIME_RANGE:      "mktVAL_BAD_TIME_RANGE",
	MktVAL_START_IN_PAST:       "mktVAL_START_IN_PAST",
	MktVAL_BAD_ROYALTY:         "mktVAL_BAD_ROYALTY",
	MktVAL_SELF_TRADE:          "mktVAL_SELF_TRADE",
	MktVAL_OVERFLOW:            "mktVAL_OVERFLOW",
	MktVAL_BAD_ADDRESS:         "mktVAL_BAD_ADDRESS",
	MktVAL_EMPTY_BATCH:         "mktVAL_EMPTY_BATCH",
	MktVAL_DUPLICATE_ASK:       "mktVAL_DUPLICATE_ASK",
	MktVAL_BID_TOO_LOW:         "mktVAL_BID_TOO_LOW",
	MktVAL_BATCH_TOO_LARGE:     "mktVAL_BATCH_TOO_LARGE",
	MktAUTH_NOT_OWNER:          "mktAUTH_NOT_OWNER",
	MktAUTH_NOT_SELLER:         "mktAUTH_NOT_SELLER",
	MktAUTH_NOT_DEPOSITOR:      "mktAUTH_NOT_DEPOSITOR",
	MktAUTH_OWNERSHIP_MISMATCH: "mktAUTH_OWNERSHIP_MISMATCH",
	MktAUTH_NOT_COLLECTION:     "mktAUTH_NOT_COLLECTION",
	MktINTERNAL:                "mktINTERNAL",
	MktINTERNAL_QUERY:          "mktINTERNAL_QUERY",
	MktUNKNOWN_COMMAND:         "mktUNKNOWN_COMMAND",
	MktCONFLICT_DEPOSIT_EXISTS: "mktCONFLICT_DEPOSIT_EXISTS",
	MktCONFLICT_TOKEN_BUSY:     "mktCONFLICT_TOKEN_BUSY",
	MktCONFLICT_AUCTION_STATUS: "mktCONFLICT_AUCTION_STATUS",
	MktCONFLICT_TOO_EARLY:      "mktCONFLICT_TOO_EARLY",
	MktCONFLICT_AUCTION_OVER:   "mktCONFLICT_AUCTION_OVER",
	MktCONFLICT_ALREADY_ADMIN:  "mktCONFLICT_ALREADY_ADMIN",
	MktCONFLICT_GENESIS_EXISTS: "mktCONFLICT_GENESIS_EXISTS",
	MktNOT_FOUND_LISTING:       "mktNOT_FOUND_LISTING",
	MktNOT_FOUND_AUCTION:       "mktNOT_FOUND_AUCTION",
	MktNOT_FOUND_DEPOSIT:       "mktNOT_FOUND_DEPOSIT",
	MktNOT_FOUND_ADMIN:         "mktNOT_FOUND_ADMIN",
	MktNOT_FOUND_STATE:         "mktNOT_FOUND_STATE",
	MktNOT_FOUND_TOKEN:         "mktNOT_FOUND_TOKEN",
	MktPAY_MISMATCH:            "mktPAY_MISMATCH",
	MktPAY_WRONG_DENOM:         "mktPAY_WRONG_DENOM",
	MktPAY_UNEXPECTED_FUNDS:    "mktPAY_UNEXPECTED_FUNDS",
}

var resultByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the token name of the result
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// ResultFromName resolves a token name such as "mktSUCCESS".
func ResultFromName(name string) (Result, bool) {
	r, ok := resultByName[name]
	return r, ok
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == MktSUCCESS
}

// Category classifies a result into one of the error families.
type Category int

const (
	CategoryNone Category = iota
	CategoryValidation
	CategoryAuthorization
	CategoryStateConflict
	CategoryNotFound
	CategoryPayment
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "ValidationError"
	case CategoryAuthorization:
		return "AuthorizationError"
	case CategoryStateConflict:
		return "StateConflict"
	case CategoryNotFound:
		return "NotFoundError"
	case CategoryPayment:
		return "PaymentError"
	case CategoryInternal:
		return "InternalError"
	default:
		return "None"
	}
}

// Category returns the error family of r.
func (r Result) Category() Category {
	switch {
	case r == MktSUCCESS:
		return CategoryNone
	case r >= -299 && r <= -200:
		return CategoryValidation
	case r >= -199 && r <= -100:
		return CategoryAuthorization
	case r >= 100 && r <= 199:
		return CategoryStateConflict
	case r >= 200 && r <= 299:
		return CategoryNotFound
	case r >= 300 && r <= 399:
		return CategoryPayment
	default:
		return CategoryInternal
	}
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case MktSUCCESS:
		return "The command was applied."
	case MktVAL_MALFORMED:
		return "The command is ill-formed."
	case MktVAL_ZERO_PRICE:
		return "Price must be positive."
	case MktVAL_ZERO_STEP:
		return "Minimum bid step must be positive."
	case MktVAL_BAD_TIME_RANGE:
		return "End time is before start time."
	case MktVAL_START_IN_PAST:
		return "Start time is in the past."
	case MktVAL_BAD_ROYALTY:
		return "Royalty percentage must be at most 100."
	case MktVAL_SELF_TRADE:
		return "Buyer may not be the seller."
	case MktVAL_OVERFLOW:
		return "Amount arithmetic overflowed."
	case MktVAL_BAD_ADDRESS:
		return "Malformed address."
	case MktVAL_EMPTY_BATCH:
		return "Batch contains no asks."
	case MktVAL_DUPLICATE_ASK:
		return "Batch names the same token twice."
	case MktVAL_BID_TOO_LOW:
		return "Bid is below the start price or the minimum increment."
	case MktVAL_BATCH_TOO_LARGE:
		return "Batch exceeds the maximum number of asks."
	case MktAUTH_NOT_OWNER:
		return "Only the marketplace owner may do this."
	case MktAUTH_NOT_SELLER:
		return "Only the seller or an admin may do this."
	case MktAUTH_NOT_DEPOSITOR:
		return "Only the depositor of the token may do this."
	case MktAUTH_OWNERSHIP_MISMATCH:
		return "The custody contract reports another owner."
	case MktAUTH_NOT_COLLECTION:
		return "Caller is neither the token owner nor its collection."
	case MktINTERNAL:
		return "Internal error."
	case MktINTERNAL_QUERY:
		return "The custody contract could not be queried."
	case MktUNKNOWN_COMMAND:
		return "Unknown command."
	case MktCONFLICT_DEPOSIT_EXISTS:
		return "The token is already deposited."
	case MktCONFLICT_TOKEN_BUSY:
		return "The token is already listed or auctioned."
	case MktCONFLICT_AUCTION_STATUS:
		return "The auction is not in the required status."
	case MktCONFLICT_TOO_EARLY:
		return "The auction time has not been reached."
	case MktCONFLICT_AUCTION_OVER:
		return "The auction bidding window has closed."
	case MktCONFLICT_ALREADY_ADMIN:
		return "The address is already an admin."
	case MktCONFLICT_GENESIS_EXISTS:
		return "The marketplace is already initialized."
	case MktNOT_FOUND_LISTING:
		return "No listing for this token."
	case MktNOT_FOUND_AUCTION:
		return "No auction for this token."
	case MktNOT_FOUND_DEPOSIT:
		return "No deposit for this token."
	case MktNOT_FOUND_ADMIN:
		return "The address is not an admin."
	case MktNOT_FOUND_STATE:
		return "The marketplace is not initialized."
	case MktNOT_FOUND_TOKEN:
		return "The token is not held by the marketplace."
	case MktPAY_MISMATCH:
		return "Attached funds do not equal the required amount."
	case MktPAY_WRONG_DENOM:
		return "Attached funds are in the wrong denomination."
	case MktPAY_UNEXPECTED_FUNDS:
		return "This command does not accept funds."
	default:
		return r.String()
	}
}

// Err returns nil for success and a *ResultError otherwise.
func (r Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &ResultError{Result: r}
}
