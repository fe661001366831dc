package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/statistics"
	"github.com/cryptonomex/graphene/chain/transaction"
	"github.com/cryptonomex/graphene/genesis"
	"github.com/cryptonomex/graphene/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	db "github.com/tendermint/tm-db"
)

var Apply = &cobra.Command{
	Use:   "apply",
	Short: "Apply a list of transactions to a genesis state and print the results",
	RunE:  applyTransactions,
}

func init() {
	Apply.Flags().String("genesis", "", "genesis file (default is the configured genesis, or a built-in single member chain)")
	Apply.Flags().String("ops", "", "JSON file with an array of transactions")
	Apply.Flags().Bool("proposed", false, "evaluate transactions as if executed by an approved proposal")
	Apply.Flags().String("block-time", "", "RFC3339 time of the block the transactions are applied in")
}

type applyOutput struct {
	Responses []transaction.Response `json:"responses"`
	AppHash   string                 `json:"app_hash"`
	Height    int64                  `json:"height"`
}

func applyTransactions(cmd *cobra.Command, args []string) error {
	logger := log.With("module", "main")

	opsPath, _ := cmd.Flags().GetString("ops")
	if opsPath == "" {
		return errors.New("--ops is required")
	}
	proposed, _ := cmd.Flags().GetBool("proposed")

	appState, err := loadGenesis(cmd)
	if err != nil {
		return err
	}

	txs, err := loadTransactions(opsPath)
	if err != nil {
		return err
	}

	ldb, err := db.NewDB("state", db.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return errors.Wrap(err, "can't open state db")
	}
	defer ldb.Close()

	s, err := state.NewState(0, ldb, cfg.StateCacheSize, cfg.KeepLastStates, 0)
	if err != nil {
		return err
	}
	if err := s.Import(appState); err != nil {
		return errors.Wrap(err, "can't import genesis")
	}

	if blockTime, _ := cmd.Flags().GetString("block-time"); blockTime != "" {
		t, err := time.Parse(time.RFC3339, blockTime)
		if err != nil {
			return errors.Wrap(err, "invalid --block-time")
		}
		s.SetBlock(1, t)
	}

	executor := transaction.NewExecutor(transaction.NewLogObserver(log.With("module", "evaluator")))
	if cfg.Prometheus {
		executor.AddObserver(statistics.New(cfg.PrometheusNamespace, prometheus.DefaultRegisterer))
	}

	output := applyOutput{}
	for i := range txs {
		response := executor.RunTx(s, &txs[i], proposed)
		logger.Info("Applied transaction", "index", i, "code", response.Code, "log", response.Log)
		output.Responses = append(output.Responses, response)
	}

	if err := s.Check(); err != nil {
		return errors.Wrap(err, "state check failed")
	}

	hash, err := s.Commit()
	if err != nil {
		return err
	}
	output.AppHash = hex.EncodeToString(hash)
	output.Height = s.Height()

	bz, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func loadGenesis(cmd *cobra.Command) (*genesis.AppState, error) {
	path, _ := cmd.Flags().GetString("genesis")
	if path == "" {
		path = cfg.GenesisFile()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return genesis.Default(), nil
		}
	}

	return genesis.Load(path)
}

func loadTransactions(path string) ([]protocol.Transaction, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var txs []protocol.Transaction
	if err := protocol.Codec.UnmarshalJSON(bz, &txs); err != nil {
		return nil, errors.Wrapf(err, "can't decode transactions from %s", path)
	}

	return txs, nil
}
