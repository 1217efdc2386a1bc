package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
	"github.com/mamercad/community.healthchecksio/cli/watch"
)

var (
	checkTags     []string
	watchInterval time.Duration
)

var checksCmd = &cobra.Command{
	Use:   "checks [uuid]",
	Short: "List checks, filter them by tag, or show a single check",
	Long: `List checks, filter them by tag, or show a single check.

--tag may be repeated; only checks carrying every tag are returned.
Tags and a uuid are mutually exclusive.`,
	Aliases: []string{"ls"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runChecks,
}

func init() {
	checksCmd.Flags().StringArrayVarP(&checkTags, "tag", "t", nil, "only checks with this tag (repeatable)")
	checksCmd.Flags().DurationVarP(&watchInterval, "watch", "w", 0, "repeat the lookup on this interval until interrupted")
	rootCmd.AddCommand(checksCmd)
}

func runChecks(cmd *cobra.Command, args []string) error {
	p := params()
	p.Tags = checkTags
	if len(args) == 1 {
		p.UUID = args[0]
	}
	res := api.NewChecksInfo(client, p)

	if !cmd.Flags().Changed("watch") {
		return runInfo(cmd, "checks", res)
	}
	if watchInterval < time.Second {
		return fmt.Errorf("--watch interval must be at least 1s, got %s", watchInterval)
	}
	if !checkMode {
		if err := cfg.RequireToken(); err != nil {
			return err
		}
	}

	w := &watch.Watcher{
		Resource: res,
		Interval: watchInterval,
		OnOutcome: func(out api.Outcome) error {
			return report(cmd.OutOrStdout(), cfg.Output, "checks", out)
		},
		OnError: func(err error) {
			client.Logger.Errorf("%v", err)
		},
	}
	return w.Run(cmd.Context())
}
