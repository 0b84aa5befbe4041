package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/rules/domain"
)

var addFile string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a rule set from a JSON definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repo()
		if err != nil {
			return err
		}

		var rule domain.RuleSet
		if err := cli.ReadSnapshot(addFile, &rule); err != nil {
			return err
		}
		if rule.Name == "" {
			return fmt.Errorf("rule definition needs a name")
		}
		if rule.Kind == "" {
			return fmt.Errorf("rule definition needs a kind")
		}

		if err := r.Save(cmd.Context(), &rule); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "stored rule %s (%s, %d leaves)\n",
			rule.ID, rule.Name, rule.Root.LeafCount())
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addFile, "file", "f", "-", "rule definition JSON file")
}
