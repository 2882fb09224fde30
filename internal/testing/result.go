package testing

import "github.com/LeJamon/nftmarketd/internal/core/market"

// Result is the outcome of a command submitted through a TestEnv.
type Result struct {
	market.ApplyResult

	// Dispatched are the instructions handed to the collaborators, including
	// the implicit collect of attached funds. Empty for failed commands.
	Dispatched []market.Instruction

	// DispatchErr is the first collaborator failure, if any.
	DispatchErr error
}

// Code returns the result code name (e.g. "mktSUCCESS").
func (r *Result) Code() string {
	return r.Result.String()
}

// Success reports whether the command was applied and fully dispatched.
func (r *Result) Success() bool {
	return r.Result.IsSuccess() && r.DispatchErr == nil
}

// InstructionsOf returns the emitted instructions of one kind, in order.
func (r *Result) InstructionsOf(kind market.InstructionKind) []market.Instruction {
	var out []market.Instruction
	for _, ins := range r.Instructions {
		if ins.Kind == kind {
			out = append(out, ins)
		}
	}
	return out
}
