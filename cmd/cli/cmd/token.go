package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/discolinks/discolinks"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Request an anonymous bearer token for a realm",
	Long: `Requests a bearer token for the realm given with --realm and prints it.
Useful to check that the API is reachable before a long export.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	RootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	realm := viper.GetString(CfgKeyRealm)
	if err := discolinks.ValidateRealm(realm); err != nil {
		return err
	}

	client, err := NewClientFunc(clientConfig())
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	logger.WithField("realm", realm).Debug("Requesting token")
	token, err := client.AcquireToken(cmd.Context(), realm)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
