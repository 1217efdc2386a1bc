package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List badge URLs for every tag in the project",
	Args:  cobra.NoArgs,
	RunE:  runBadges,
}

func init() {
	rootCmd.AddCommand(badgesCmd)
}

func runBadges(cmd *cobra.Command, args []string) error {
	return runInfo(cmd, "badges", api.NewBadgesInfo(client, params()))
}
