// Package digest builds and inspects the daily digest.
package digest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	digestDomain "github.com/Sc0remac/cadenzor/internal/digest/domain"
)

// Cmd is the digest command group.
var Cmd = &cobra.Command{
	Use:   "digest",
	Short: "Daily digest and top actions",
}

func init() {
	Cmd.AddCommand(generateCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(invalidateCmd)
}

func printPayload(cmd *cobra.Command, payload digestDomain.Payload, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return cli.PrintJSON(out, payload)
	}

	fmt.Fprintf(out, "digest generated at %s\n", payload.GeneratedAt.Format("2006-01-02 15:04"))
	for _, project := range payload.Projects {
		fmt.Fprintf(out, "\n%s  (health %.0f, %d conflicts)\n",
			project.Name, project.Health.Score, project.Health.Conflicts)
		for _, action := range project.TopActions {
			fmt.Fprintf(out, "  %6.1f  [%s] %s\n", action.Score, action.Kind, action.Title)
		}
		for _, approval := range project.PendingApprovals {
			fmt.Fprintf(out, "  pending approval: %s\n", approval.Title)
		}
	}

	if len(payload.TopActions) > 0 {
		fmt.Fprintln(out, "\ntop actions across projects:")
		for _, action := range payload.TopActions {
			fmt.Fprintf(out, "  %6.1f  [%s] %s (%s)\n",
				action.Score, action.Kind, action.Title, action.ProjectName)
		}
	}
	return nil
}
