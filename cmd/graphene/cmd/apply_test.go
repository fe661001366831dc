package cmd

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/stretchr/testify/require"
)

func TestLoadTransactions(t *testing.T) {
	txs := []protocol.Transaction{
		{Operations: []protocol.Operation{
			&protocol.Transfer{Fee: types.CoreAmount(20), From: types.ProxyToSelfAccount + 1, To: types.CommitteeAccount, Amount: types.CoreAmount(100)},
		}},
	}
	bz, err := protocol.Codec.MarshalJSON(txs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ops.json")
	require.NoError(t, ioutil.WriteFile(path, bz, 0600))

	loaded, err := loadTransactions(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, txs[0].Operations[0], loaded[0].Operations[0])

	_, err = loadTransactions(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
