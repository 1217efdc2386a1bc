package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
	"github.com/mamercad/community.healthchecksio/cli/config"
)

var (
	cfgFile   string
	apiURL    string
	timeout   time.Duration
	output    string
	checkMode bool
	verbose   bool

	cfg    *config.Config
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "hcio",
	Short: "Read-only lookups against the healthchecks.io API",
	Long: `hcio: look up healthchecks.io badges, channels, checks, flips and pings.

Every command performs a single GET and prints the API payload unchanged,
wrapped as {"changed": false, "data": ...} or {"failed": true, "msg": ...}.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, ".env")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("api") {
			loaded.APIURL = apiURL
		}
		if flags.Changed("timeout") {
			loaded.Timeout = timeout
		}
		if flags.Changed("output") {
			loaded.Output = output
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		client = api.New(cfg.APIURL, cfg.APIToken)
		client.HTTPClient.Timeout = cfg.Timeout
		client.Logger = &api.StdLogger{
			Log:     log.New(cmd.ErrOrStderr(), "hcio: ", 0),
			Verbose: verbose,
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/hcio/config.yaml)")
	flags.StringVar(&apiURL, "api", "", "healthchecks.io API URL (default https://healthchecks.io/api/v1)")
	flags.DurationVar(&timeout, "timeout", 0, "HTTP timeout (default 30s)")
	flags.StringVarP(&output, "output", "o", "", "output format: json, yaml or pretty (default json)")
	flags.BoolVar(&checkMode, "check", false, "check mode: report what would be fetched without calling the API")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")
}
