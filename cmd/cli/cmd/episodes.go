package cmd

import (
	"github.com/spf13/cobra"
)

// episodesCmd represents the episodes command
var episodesCmd = &cobra.Command{
	Use:   "episodes <showId>",
	Short: "List the selected episodes of a show without resolving links",
	Long: `Lists the episodes of a show that a run with the same selection would export.
No playback links are requested and no file is written.

Examples:
  discolinks episodes 8613
  discolinks episodes 8613 -s 2
  discolinks episodes 123456 --isasset -r hgtv`,
	Args: showIDArgs,
	RunE: runEpisodes,
}

func init() {
	RootCmd.AddCommand(episodesCmd)
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	req := newRequest(args)
	proc, err := newProcessor(req, nil)
	if err != nil {
		return err
	}

	selection, err := proc.Select(cmd.Context(), req)
	if err != nil {
		return err
	}
	renderEpisodes(cmd.OutOrStdout(), selection)
	return nil
}
