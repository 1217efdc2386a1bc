package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
)

var pingsCmd = &cobra.Command{
	Use:   "pings <uuid>",
	Short: "List a check's recent pings",
	Args:  cobra.ExactArgs(1),
	RunE:  runPings,
}

func init() {
	rootCmd.AddCommand(pingsCmd)
}

func runPings(cmd *cobra.Command, args []string) error {
	p := params()
	p.UUID = args[0]
	return runInfo(cmd, "pings", api.NewChecksPingsInfo(client, p))
}
