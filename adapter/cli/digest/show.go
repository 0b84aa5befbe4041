package digest

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	digestDomain "github.com/Sc0remac/cadenzor/internal/digest/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DigestService == nil {
			return fmt.Errorf("digest cache requires redis")
		}

		payload, err := app.DigestService.Cached(cmd.Context(), app.CurrentUserID)
		if errors.Is(err, digestDomain.ErrNotCached) {
			fmt.Fprintln(cmd.OutOrStdout(), "no cached digest; run: cadenzor digest generate")
			return nil
		}
		if err != nil {
			return err
		}

		return printPayload(cmd, payload, showJSON)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the payload as JSON")
}
