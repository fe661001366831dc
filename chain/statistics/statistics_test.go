package statistics

import (
	"testing"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/state/app"
	"github.com/cryptonomex/graphene/chain/transaction"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/genesis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

const initAccount = types.ProxyToSelfAccount + 1

func TestObserverCountsEvaluations(t *testing.T) {
	s, err := state.NewState(0, db.NewMemDB(), 1024, 1, 0)
	require.NoError(t, err)
	require.NoError(t, s.Import(genesis.Default()))
	s.App.ModifyGlobal(func(g *app.GlobalProperties) {
		g.Parameters.CurrentFees.ZeroAllFees()
		g.Parameters.CurrentFees.Scale = types.Percent100
		g.Parameters.CurrentFees.Set(&fees.TransferParameters{Fee: 20})
	})

	reg := prometheus.NewRegistry()
	data := New("graphene", reg)
	executor := transaction.NewExecutor(data)

	transfer := func(amount int64) transaction.Response {
		return executor.RunTx(s, &protocol.Transaction{Operations: []protocol.Operation{
			&protocol.Transfer{Fee: types.CoreAmount(20), From: initAccount, To: types.CommitteeAccount, Amount: types.CoreAmount(amount)},
		}}, false)
	}

	require.Equal(t, code.OK, transfer(100).Code)
	require.Equal(t, code.OK, transfer(200).Code)
	require.Equal(t, code.InsufficientFunds, transfer(types.MaxShareSupply).Code)

	assert.Equal(t, float64(3), testutil.ToFloat64(data.evaluations.WithLabelValues("transfer", "true")))
	assert.Equal(t, float64(40), testutil.ToFloat64(data.fees.WithLabelValues("transfer", types.CoreAsset.String())))
	assert.Equal(t, float64(1), testutil.ToFloat64(data.failures.WithLabelValues("transfer", "104")))
	assert.Equal(t, 1, testutil.CollectAndCount(data.duration))
	assert.Empty(t, data.started.at)
}

func TestNilDataIsNoop(t *testing.T) {
	var data *Data
	assert.NoError(t, data.PreEvaluate(nil, &protocol.Transfer{}, false, nil))
	assert.NoError(t, data.PostEvaluate(nil, &protocol.Transfer{}, false, nil, protocol.Result{}))
	assert.NoError(t, data.EvaluationFailed(nil, &protocol.Transfer{}, false, nil, nil))
}
