// Package score exposes the scoring engine over entity snapshot files.
package score

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

// Cmd is the score command group.
var Cmd = &cobra.Command{
	Use:   "score",
	Short: "Score entities by urgency",
}

var asJSON bool

func init() {
	Cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output the full score as JSON")
	Cmd.AddCommand(messageCmd)
	Cmd.AddCommand(taskCmd)
	Cmd.AddCommand(itemCmd)
	Cmd.AddCommand(threadCmd)
}

// printScore renders a score either as JSON or as the component trail.
func printScore(out io.Writer, title string, score domain.Score) error {
	if asJSON {
		return cli.PrintJSON(out, score)
	}

	fmt.Fprintf(out, "%s: %.2f\n", title, score.Total)
	for _, comp := range score.Components {
		fmt.Fprintf(out, "  %-24s %+.2f\n", comp.Label, comp.Delta)
	}
	return nil
}
