package rules

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/internal/rules/domain"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List enabled rule sets for a kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repo()
		if err != nil {
			return err
		}

		rules, err := r.ListByKind(cmd.Context(), domain.RuleKind(listKind))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(rules) == 0 {
			fmt.Fprintln(out, "no rules")
			return nil
		}
		for _, rule := range rules {
			fmt.Fprintf(out, "%s  prio=%-3d leaves=%-3d %s\n",
				rule.ID, rule.Priority, rule.Root.LeafCount(), rule.Name)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listKind, "kind", "k", "", "rule kind (e.g. message, task)")
	_ = listCmd.MarkFlagRequired("kind")
}
