package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
)

var flipsCmd = &cobra.Command{
	Use:   "flips <uuid>",
	Short: "List a check's status changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlips,
}

func init() {
	rootCmd.AddCommand(flipsCmd)
}

func runFlips(cmd *cobra.Command, args []string) error {
	p := params()
	p.UUID = args[0]
	return runInfo(cmd, "flips", api.NewChecksFlipsInfo(client, p))
}
