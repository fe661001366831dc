package main

import (
	"github.com/cryptonomex/graphene/cmd/graphene/cmd"
	"github.com/cryptonomex/graphene/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.GrapheneHome, "home-dir", "", "base dir (default is $HOME/.graphene)")
	rootCmd.PersistentFlags().StringVar(&utils.GrapheneConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")

	rootCmd.AddCommand(
		cmd.Init,
		cmd.Fees,
		cmd.Apply,
		cmd.Version)

	if err := cmd.RootCmd.Execute(); err != nil {
		panic(err)
	}
}
