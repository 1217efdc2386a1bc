package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
	"github.com/mamercad/community.healthchecksio/cli/style"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, style.Banner.Render("⚡ hcio"))
		fmt.Fprintf(w, "  %s %s\n", style.Key.Render("Version"), style.Val.Render(api.Version))
		fmt.Fprintf(w, "  %s %s\n", style.Key.Render("API"), style.Val.Render(cfg.APIURL))
		fmt.Fprintln(w)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
