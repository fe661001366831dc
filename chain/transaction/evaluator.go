package transaction

import (
	"fmt"
	"time"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/types"
)

// EvaluationState is shared by the operations of one transaction
type EvaluationState struct {
	state *state.State
	check *state.CheckState

	// IsProposed marks a transaction executed on behalf of an approved proposal
	IsProposed bool
	// SkipFee disables fee preparation and payment
	SkipFee bool
	// SkipFeeScheduleCheck accepts any declared fee
	SkipFeeScheduleCheck bool
	// FeeOnly charges the fee of applied operations without running their writes
	FeeOnly bool

	Results []protocol.Result
}

// NewEvaluationState wraps context, a *state.CheckState only allows evaluation without apply
func NewEvaluationState(context state.Interface) *EvaluationState {
	switch s := context.(type) {
	case *state.State:
		return &EvaluationState{state: s, check: state.NewCheckState(s)}
	case *state.CheckState:
		return &EvaluationState{check: s}
	}
	panic(fmt.Sprintf("unknown state %T", context))
}

// State is the mutable state or nil in check mode
func (e *EvaluationState) State() *state.State {
	return e.state
}

func (e *EvaluationState) CheckState() *state.CheckState {
	return e.check
}

// Context is what an evaluator sees while checking one operation
type Context struct {
	*state.CheckState

	Trx    *EvaluationState
	Fee    FeeContext
	Now    time.Time
	Params protocol.ChainParameters
}

// Evaluator checks operations of one kind against the state
type Evaluator interface {
	OpType() types.OpType
	// DoEvaluate runs the read-only checks and returns what applies the operation
	DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error)
}

// Applier writes an evaluated operation into the state
type Applier interface {
	DoApply(ctx *Context, s *state.State) (protocol.Result, error)
}

// ApplierFunc adapts a function to Applier
type ApplierFunc func(ctx *Context, s *state.State) (protocol.Result, error)

func (f ApplierFunc) DoApply(ctx *Context, s *state.State) (protocol.Result, error) {
	return f(ctx, s)
}

// feePayer is implemented by evaluators that book the core fee in their own way
type feePayer interface {
	PayFee(ctx *Context, s *state.State, op protocol.Operation) error
}

// feeExtender is implemented by evaluators whose fee depends on the state
type feeExtender interface {
	ExtendedContext(ctx *Context, op protocol.Operation) (fees.ExtendedContext, error)
}

// evaluate runs op through ev: validation, fee preparation, the evaluator checks and, if apply is set,
// fee payment followed by the evaluator writes
func evaluate(ev Evaluator, trx *EvaluationState, op protocol.Operation, apply bool) (protocol.Result, error) {
	if op.Type() != ev.OpType() {
		return protocol.Result{}, code.NewInvalidOperation("%s can not be evaluated as %s", op.Type(), ev.OpType())
	}
	if err := op.Validate(); err != nil {
		return protocol.Result{}, err
	}
	if apply && trx.state == nil {
		return protocol.Result{}, code.NewInvalidOperation("can not apply %s to a read-only state", op.Type())
	}

	app := trx.check.App()
	ctx := &Context{
		CheckState: trx.check,
		Trx:        trx,
		Now:        app.HeadBlockTime(),
		Params:     app.Parameters(),
	}

	if !trx.SkipFee {
		fee, err := prepareFee(ctx, op.FeePayer(), op.GetFee())
		if err != nil {
			return protocol.Result{}, err
		}
		ctx.Fee = fee

		if !trx.SkipFeeScheduleCheck {
			required, err := requiredFee(ctx, ev, op)
			if err != nil {
				return protocol.Result{}, err
			}
			prepareFeeFromCoinSeconds(ctx, op.Type(), &ctx.Fee)
			if err := ctx.Fee.cover(required); err != nil {
				return protocol.Result{}, err
			}
		}
	}

	applier, err := ev.DoEvaluate(ctx, op)
	if err != nil {
		return protocol.Result{}, err
	}
	ctx.Fee.advance(StageEvaluated)

	if !apply {
		return protocol.Result{}, nil
	}

	s := trx.state
	if !trx.SkipFee {
		if err := convertFee(s, ctx.Fee); err != nil {
			return protocol.Result{}, err
		}
		if payer, ok := ev.(feePayer); ok {
			err = payer.PayFee(ctx, s, op)
		} else {
			err = payFee(s, ctx.Fee, ctx.Params)
		}
		if err != nil {
			return protocol.Result{}, err
		}
		if err := payFeeWithCoinSeconds(s, ctx.Fee, ctx.Now); err != nil {
			return protocol.Result{}, err
		}
	}

	if trx.FeeOnly {
		if err := debitFee(s, ctx.Fee, trx.SkipFee); err != nil {
			return protocol.Result{}, err
		}
		ctx.Fee.advance(StageFeePaidWithoutApply)
		return protocol.Result{}, nil
	}

	result, err := applier.DoApply(ctx, s)
	if err != nil {
		return protocol.Result{}, err
	}

	if err := debitFee(s, ctx.Fee, trx.SkipFee); err != nil {
		return protocol.Result{}, err
	}
	ctx.Fee.advance(StageApplied)

	return result, nil
}

func debitFee(s *state.State, fee FeeContext, skip bool) error {
	if skip {
		return nil
	}
	return s.Accounts.AdjustBalance(fee.Payer, types.NewAsset(-fee.Fee.Amount, fee.Fee.AssetID))
}

func wrongOperation(ev Evaluator, op protocol.Operation) error {
	return code.NewInvalidOperation("%T is not a %s operation", op, ev.OpType())
}
