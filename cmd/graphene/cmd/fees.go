package cmd

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/spf13/cobra"
)

var Fees = &cobra.Command{
	Use:   "fees",
	Short: "Print the default fee schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		bz, err := protocol.Codec.MarshalJSONIndent(fees.Default(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(bz))
		return nil
	},
}
