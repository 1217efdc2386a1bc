package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
)

var channelsCmd = &cobra.Command{
	Use:     "channels",
	Short:   "List notification channels",
	Aliases: []string{"integrations"},
	Args:    cobra.NoArgs,
	RunE:    runChannels,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, args []string) error {
	return runInfo(cmd, "channels", api.NewChannelsInfo(client, params()))
}
