package collab

import (
	"context"
	"fmt"

	"github.com/LeJamon/nftmarketd/internal/core/market"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DispatchError reports the first instruction a collaborator rejected.
type DispatchError struct {
	Index       int
	Instruction market.Instruction
	Err         error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.Index, e.Instruction, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Dispatcher executes the instructions of a committed command.
//
// Custody transfers and currency movements go to independent collaborators
// and run in two concurrent lanes. Each lane keeps the emitted order, so a
// bid's Collect always reaches the bank before the refund it funds.
type Dispatcher struct {
	custody Custody
	bank    Bank
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil logger uses zap.L().
func NewDispatcher(custody Custody, bank Bank, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Dispatcher{custody: custody, bank: bank, logger: logger.Named("dispatch")}
}

type indexed struct {
	index int
	ins   market.Instruction
}

// Dispatch runs every instruction and returns the first failure.
func (d *Dispatcher) Dispatch(ctx context.Context, instructions []market.Instruction) error {
	var custodyLane, bankLane []indexed
	for i, ins := range instructions {
		switch ins.Kind {
		case market.KindTransferCustody:
			custodyLane = append(custodyLane, indexed{i, ins})
		case market.KindPay, market.KindCollect:
			bankLane = append(bankLane, indexed{i, ins})
		default:
			return &DispatchError{Index: i, Instruction: ins, Err: fmt.Errorf("unknown instruction kind %q", ins.Kind)}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.runLane(gctx, custodyLane) })
	g.Go(func() error { return d.runLane(gctx, bankLane) })
	return g.Wait()
}

func (d *Dispatcher) runLane(ctx context.Context, lane []indexed) error {
	for _, item := range lane {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.execute(ctx, item.ins); err != nil {
			d.logger.Error("instruction failed",
				zap.Int("index", item.index),
				zap.String("instruction", item.ins.String()),
				zap.Error(err))
			return &DispatchError{Index: item.index, Instruction: item.ins, Err: err}
		}
		d.logger.Debug("instruction executed", zap.String("instruction", item.ins.String()))
	}
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, ins market.Instruction) error {
	switch ins.Kind {
	case market.KindTransferCustody:
		return d.custody.Transfer(ctx, ins.Collection, ins.TokenID, ins.From, ins.To)
	case market.KindCollect:
		return d.bank.Collect(ctx, ins.From, ins.Denom, ins.Amount)
	default:
		return d.bank.Pay(ctx, ins.To, ins.Denom, ins.Amount)
	}
}

// WithAttachedFunds returns the instructions a successful command needs
// dispatched, including the transfer of funds attached to the call. Funds
// the command already collects explicitly are not collected twice.
func WithAttachedFunds(env market.Env, instructions []market.Instruction) []market.Instruction {
	if env.Funds.IsZero() {
		return instructions
	}
	for _, ins := range instructions {
		if ins.Kind == market.KindCollect && ins.From == env.Caller {
			return instructions
		}
	}
	out := make([]market.Instruction, 0, len(instructions)+1)
	out = append(out, market.Collect(env.Caller, env.Funds.Denom, env.Funds.Amount))
	return append(out, instructions...)
}
