package cmd

import (
	"os"

	"github.com/cryptonomex/graphene/cmd/utils"
	"github.com/cryptonomex/graphene/config"
	"github.com/cryptonomex/graphene/log"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "graphene",
	Short: "Graphene operation evaluator",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := utils.GetGrapheneConfigPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg = config.GetConfig()
		} else {
			cfg, err = config.ReadConfigFile(path)
			if err != nil {
				return err
			}
			if cfg.RootDir == "" {
				cfg.SetRoot(utils.GetGrapheneHome())
			}
		}

		if err := cfg.ValidateBasic(); err != nil {
			return err
		}

		log.InitLog(cfg)
		return nil
	},
}
