package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/discolinks/discolinks/pkg/processor"
)

// runLinks is the root command: export the selected episodes of a show.
func runLinks(cmd *cobra.Command, args []string) error {
	req := newRequest(args)
	proc, err := newProcessor(req, processor.XLSXSinkFactory(AppFs, viper.GetString(CfgKeyOutputDir), logger))
	if err != nil {
		return err
	}

	report, err := proc.Run(cmd.Context(), req)
	if report != nil {
		renderReport(cmd.OutOrStdout(), report)
	}
	return err
}
