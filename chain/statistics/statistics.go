package statistics

import (
	"strconv"
	"sync"
	"time"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/transaction"
	"github.com/prometheus/client_golang/prometheus"
)

// Data collects evaluation metrics. It is a transaction.Observer.
type Data struct {
	evaluations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	fees        *prometheus.CounterVec
	duration    *prometheus.HistogramVec

	started struct {
		sync.Mutex
		at map[protocol.Operation]time.Time
	}
}

// New creates the metrics of namespace and registers them with reg
func New(namespace string, reg prometheus.Registerer) *Data {
	evaluations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Evaluated operations by type and mode",
		},
		[]string{"type", "apply"},
	)
	reg.MustRegister(evaluations)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_failures_total",
			Help:      "Rejected operations by type and result code",
		},
		[]string{"type", "code"},
	)
	reg.MustRegister(failures)
	fees := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_declared_total",
			Help:      "Fees declared by applied operations by type and fee asset",
		},
		[]string{"type", "asset"},
	)
	reg.MustRegister(fees)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating an operation",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		},
		[]string{"type"},
	)
	reg.MustRegister(duration)

	d := &Data{
		evaluations: evaluations,
		failures:    failures,
		fees:        fees,
		duration:    duration,
	}
	d.started.at = map[protocol.Operation]time.Time{}

	return d
}

func (d *Data) PreEvaluate(trx *transaction.EvaluationState, op protocol.Operation, apply bool, ev transaction.Evaluator) error {
	if d == nil {
		return nil
	}

	d.started.Lock()
	defer d.started.Unlock()
	d.started.at[op] = time.Now()

	return nil
}

func (d *Data) PostEvaluate(trx *transaction.EvaluationState, op protocol.Operation, apply bool, ev transaction.Evaluator, result protocol.Result) error {
	if d == nil {
		return nil
	}

	t := op.Type().String()
	d.observeDuration(op)
	d.evaluations.WithLabelValues(t, strconv.FormatBool(apply)).Inc()
	if apply && !trx.SkipFee {
		fee := op.GetFee()
		d.fees.WithLabelValues(t, fee.AssetID.String()).Add(float64(fee.Amount))
	}

	return nil
}

func (d *Data) EvaluationFailed(trx *transaction.EvaluationState, op protocol.Operation, apply bool, ev transaction.Evaluator, err error) error {
	if d == nil {
		return nil
	}

	t := op.Type().String()
	d.observeDuration(op)
	d.evaluations.WithLabelValues(t, strconv.FormatBool(apply)).Inc()
	d.failures.WithLabelValues(t, strconv.FormatUint(uint64(code.Of(err)), 10)).Inc()

	return nil
}

func (d *Data) observeDuration(op protocol.Operation) {
	d.started.Lock()
	start, ok := d.started.at[op]
	delete(d.started.at, op)
	d.started.Unlock()

	if ok {
		d.duration.WithLabelValues(op.Type().String()).Observe(time.Since(start).Seconds())
	}
}
