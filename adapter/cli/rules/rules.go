// Package rules manages stored rule sets and evaluates them against entity
// snapshots.
package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	rulesDomain "github.com/Sc0remac/cadenzor/internal/rules/domain"
)

// Cmd is the rules command group.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage and evaluate rule sets",
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(evalCmd)
	Cmd.AddCommand(removeCmd)
}

// repo returns the rule repository or an error when no database is wired.
func repo() (rulesDomain.Repository, error) {
	app := cli.GetApp()
	if app == nil || app.RuleRepo == nil {
		return nil, fmt.Errorf("rule storage requires a local database")
	}
	return app.RuleRepo, nil
}
