package cmd

import (
	"fmt"
	"time"

	"github.com/cryptonomex/graphene/cmd/utils"
	"github.com/cryptonomex/graphene/config"
	"github.com/cryptonomex/graphene/genesis"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var Init = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory with a default config and genesis",
	RunE: func(cmd *cobra.Command, args []string) error {
		home := utils.GetGrapheneHome()
		config.EnsureRoot(home)

		path := cfg.GenesisFile()
		if tmos.FileExists(path) {
			fmt.Println("Genesis already exists:", path)
			return nil
		}

		appState := genesis.Default()
		if genesisTime, _ := cmd.Flags().GetString("genesis-time"); genesisTime != "" {
			t, err := time.Parse(time.RFC3339, genesisTime)
			if err != nil {
				return errors.Wrap(err, "invalid --genesis-time")
			}
			appState.GenesisTime = t.UTC()
		}
		if err := appState.Verify(); err != nil {
			return err
		}

		bz, err := appState.MarshalIndent()
		if err != nil {
			return err
		}
		if err := tmos.WriteFile(path, bz, 0644); err != nil {
			return err
		}

		fmt.Println("Initialized", home)
		return nil
	},
}

func init() {
	Init.Flags().String("genesis-time", "", "RFC3339 genesis time of the generated state")
}
