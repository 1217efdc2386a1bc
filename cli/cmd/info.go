package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mamercad/community.healthchecksio/cli/api"
)

func params() api.Params {
	return api.Params{CheckMode: checkMode}
}

// runInfo performs one lookup and reports its outcome. A failed outcome is
// printed and then returned as an error so the process exits non-zero.
func runInfo(cmd *cobra.Command, title string, res api.Resource) error {
	if !checkMode {
		if err := cfg.RequireToken(); err != nil {
			return err
		}
	}

	out, err := res.Get(cmd.Context())
	if err != nil {
		return err
	}
	if err := report(cmd.OutOrStdout(), cfg.Output, title, out); err != nil {
		return err
	}
	if out.Failed {
		return errors.New(out.Msg)
	}
	return nil
}
