package transaction

import (
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/log"
)

// LogObserver writes every evaluation outcome to a logger
type LogObserver struct {
	logger log.Logger
}

func NewLogObserver(logger log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) PreEvaluate(trx *EvaluationState, op protocol.Operation, apply bool, ev Evaluator) error {
	l.logger.Debug("Evaluating operation", "type", op.Type(), "apply", apply, "proposed", trx.IsProposed)
	return nil
}

func (l *LogObserver) PostEvaluate(trx *EvaluationState, op protocol.Operation, apply bool, ev Evaluator, result protocol.Result) error {
	l.logger.Debug("Operation evaluated", "type", op.Type(), "apply", apply, "result", result)
	return nil
}

func (l *LogObserver) EvaluationFailed(trx *EvaluationState, op protocol.Operation, apply bool, ev Evaluator, err error) error {
	l.logger.Info("Operation rejected", "type", op.Type(), "apply", apply, "err", err)
	return nil
}
