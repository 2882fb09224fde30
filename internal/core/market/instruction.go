package market

import (
	"fmt"

	"github.com/LeJamon/nftmarketd/internal/core/amount"
)

// InstructionKind distinguishes outbound requests to collaborators.
type InstructionKind string

const (
	// KindTransferCustody moves a token between holders on the custody
	// contract.
	KindTransferCustody InstructionKind = "transfer_custody"
	// KindPay sends native currency from the marketplace to an account.
	KindPay InstructionKind = "pay"
	// KindCollect moves native currency from an account into marketplace
	// custody.
	KindCollect InstructionKind = "collect"
)

// Instruction is a request evaluated by a collaborator after the command
// that emitted it has committed.
type Instruction struct {
	Kind       InstructionKind `json:"kind"`
	Collection string          `json:"collection,omitempty"`
	TokenID    string          `json:"token_id,omitempty"`
	From       string          `json:"from,omitempty"`
	To         string          `json:"to,omitempty"`
	Denom      string          `json:"denom,omitempty"`
	Amount     amount.Amount   `json:"amount,omitempty"`
}

// TransferCustody builds a token transfer from one holder to another.
func TransferCustody(collection, tokenID, from, to string) Instruction {
	return Instruction{Kind: KindTransferCustody, Collection: collection, TokenID: tokenID, From: from, To: to}
}

// Pay builds a currency payment out of the marketplace.
func Pay(to, denom string, amt amount.Amount) Instruction {
	return Instruction{Kind: KindPay, To: to, Denom: denom, Amount: amt}
}

// Collect builds a currency transfer into the marketplace.
func Collect(from, denom string, amt amount.Amount) Instruction {
	return Instruction{Kind: KindCollect, From: from, Denom: denom, Amount: amt}
}

func (i Instruction) String() string {
	switch i.Kind {
	case KindTransferCustody:
		return fmt.Sprintf("transfer %s/%s %s -> %s", i.Collection, i.TokenID, i.From, i.To)
	case KindPay:
		return fmt.Sprintf("pay %s%s -> %s", i.Amount, i.Denom, i.To)
	case KindCollect:
		return fmt.Sprintf("collect %s%s <- %s", i.Amount, i.Denom, i.From)
	default:
		return string(i.Kind)
	}
}

// Attribute is one key/value pair of a command's audit record.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
