package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discolinks/discolinks"
	"github.com/discolinks/discolinks/internal/constants"
)

// realmsCmd represents the realms command
var realmsCmd = &cobra.Command{
	Use:   "realms",
	Short: "Print the known realms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, realm := range discolinks.Realms() {
			if realm == constants.DefaultRealm {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", realm)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), realm)
		}
	},
}

func init() {
	RootCmd.AddCommand(realmsCmd)
}
