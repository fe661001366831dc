package transaction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/log"
	"github.com/pkg/errors"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// Response represents standard response from tx delivery/check
type Response struct {
	Code    uint32                    `json:"code,omitempty"`
	Data    []byte                    `json:"data,omitempty"`
	Log     string                    `json:"log,omitempty"`
	Info    string                    `json:"-"`
	Results []protocol.Result         `json:"results,omitempty"`
	Tags    []abcTypes.EventAttribute `json:"tags,omitempty"`
}

// Observer is notified around every dispatched evaluation. Every PreEvaluate is followed by
// exactly one PostEvaluate or EvaluationFailed. Observer errors never change the outcome.
type Observer interface {
	PreEvaluate(trx *EvaluationState, op protocol.Operation, apply bool, ev Evaluator) error
	PostEvaluate(trx *EvaluationState, op protocol.Operation, apply bool, ev Evaluator, result protocol.Result) error
	EvaluationFailed(trx *EvaluationState, op protocol.Operation, apply bool, ev Evaluator, err error) error
}

// Executor routes operations to the evaluator of their kind
type Executor struct {
	evaluators [types.OpTypeCount]Evaluator
	observers  []Observer
	logger     log.Logger
}

// NewExecutor returns an executor with every operation kind registered
func NewExecutor(observers ...Observer) *Executor {
	e := &Executor{
		observers: observers,
		logger:    log.With("module", "executor"),
	}

	for _, ev := range []Evaluator{
		&TransferEvaluator{},
		&AccountCreateEvaluator{},
		&AccountUpdateEvaluator{},
		&AccountWhitelistEvaluator{},
		&AccountUpgradeEvaluator{},
		&CommitteeMemberCreateEvaluator{},
		&CommitteeMemberUpdateEvaluator{},
		&CommitteeMemberUpdateGlobalParametersEvaluator{},
		&OverrideTransferEvaluator{},
		&TransferV2Evaluator{},
		&CommitteeMemberUpdateCoreAssetEvaluator{},
	} {
		e.Register(ev)
	}

	return e
}

// Register replaces the evaluator of ev.OpType()
func (e *Executor) Register(ev Evaluator) {
	t := ev.OpType()
	if !t.IsValid() {
		panic(fmt.Sprintf("can not register evaluator of unknown operation type %d", t))
	}
	e.evaluators[t] = ev
}

func (e *Executor) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Evaluate checks op and, if apply is set, writes it into the state of trx.
// A failed operation may leave partial writes, ApplyTransaction reverts them.
func (e *Executor) Evaluate(trx *EvaluationState, op protocol.Operation, apply bool) (result protocol.Result, err error) {
	t := op.Type()
	if !t.IsValid() || e.evaluators[t] == nil {
		return protocol.Result{}, code.NewUnknownOperation(t.String())
	}
	ev := e.evaluators[t]

	e.notify("pre_evaluate", func(o Observer) error { return o.PreEvaluate(trx, op, apply, ev) })

	defer func() {
		if r := recover(); r != nil {
			failure := fmt.Errorf("evaluation of %s panicked: %v", op, r)
			e.notify("evaluation_failed", func(o Observer) error { return o.EvaluationFailed(trx, op, apply, ev, failure) })
			panic(r)
		}
	}()

	result, err = evaluate(ev, trx, op, apply)
	if err != nil {
		err = errors.Wrapf(err, "%s", op)
		e.notify("evaluation_failed", func(o Observer) error { return o.EvaluationFailed(trx, op, apply, ev, err) })
		return protocol.Result{}, err
	}

	e.notify("post_evaluate", func(o Observer) error { return o.PostEvaluate(trx, op, apply, ev, result) })
	return result, nil
}

// notify calls fn for every observer, logging and dropping their errors and panics
func (e *Executor) notify(hook string, fn func(o Observer) error) {
	for _, o := range e.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("Observer panicked", "hook", hook, "observer", fmt.Sprintf("%T", o), "panic", r)
				}
			}()
			if err := fn(o); err != nil {
				e.logger.Error("Observer failed", "hook", hook, "observer", fmt.Sprintf("%T", o), "err", err)
			}
		}()
	}
}

// ApplyTransaction evaluates the operations of tx in order. With a mutable state they are applied
// atomically: a failing operation reverts the writes of every earlier one.
func (e *Executor) ApplyTransaction(trx *EvaluationState, tx *protocol.Transaction) error {
	if len(tx.Operations) == 0 {
		return code.NewInvalidOperation("transaction has no operations")
	}

	s := trx.State()
	if s == nil {
		for i, op := range tx.Operations {
			if _, err := e.Evaluate(trx, op, false); err != nil {
				return errors.Wrapf(err, "operation %d", i)
			}
		}
		return nil
	}

	snapshot := s.Snapshot()
	results := make([]protocol.Result, 0, len(tx.Operations))
	for i, op := range tx.Operations {
		result, err := e.Evaluate(trx, op, true)
		if err != nil {
			s.RevertToSnapshot(snapshot)
			return errors.Wrapf(err, "operation %d", i)
		}
		results = append(results, result)
	}
	trx.Results = append(trx.Results, results...)

	return nil
}

// RunTx executes transaction in given context. A *state.CheckState context only evaluates it.
func (e *Executor) RunTx(context state.Interface, tx *protocol.Transaction, proposed bool) Response {
	trx := NewEvaluationState(context)
	trx.IsProposed = proposed

	hash, err := tx.Hash()
	if err != nil {
		return Response{
			Code: code.InvalidOperation,
			Log:  err.Error(),
			Info: EncodeError(code.NewInvalidOperation("%s", err)),
		}
	}

	if err := e.ApplyTransaction(trx, tx); err != nil {
		response := Response{
			Code: code.Of(err),
			Data: hash,
			Log:  err.Error(),
		}
		if coded, ok := code.Cause(err); ok {
			response.Info = coded.EncodeInfo()
		}
		return response
	}

	response := Response{
		Code:    code.OK,
		Data:    hash,
		Results: trx.Results,
	}

	if trx.State() == nil {
		return response
	}

	response.Tags = append(response.Tags,
		abcTypes.EventAttribute{Key: []byte("tx.hash"), Value: []byte(hex.EncodeToString(hash)), Index: true},
	)
	for i, op := range tx.Operations {
		response.Tags = append(response.Tags,
			abcTypes.EventAttribute{Key: []byte("tx.type"), Value: []byte(op.Type().String()), Index: true},
			abcTypes.EventAttribute{Key: []byte("tx.fee_payer"), Value: []byte(op.FeePayer().String()), Index: true},
		)
		if !trx.Results[i].IsVoid() {
			response.Tags = append(response.Tags,
				abcTypes.EventAttribute{Key: []byte("tx.new_object"), Value: []byte(trx.Results[i].String()), Index: true},
			)
		}
	}

	return response
}

// EncodeError encodes error to json
func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}
