package rules

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/rules/domain"
)

var (
	evalEntityFile string
	evalKind       string
)

var evalCmd = &cobra.Command{
	Use:   "eval [rule-id]",
	Short: "Evaluate rules against an entity snapshot",
	Long: `Evaluate a stored rule (by id) or every enabled rule of a kind
against an entity snapshot. The snapshot is a flat JSON document whose
fields are addressed by the rules' dotted field paths.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repo()
		if err != nil {
			return err
		}

		var entity domain.MapEntity
		if err := cli.ReadSnapshot(evalEntityFile, &entity); err != nil {
			return err
		}

		var rules []*domain.RuleSet
		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule id: %w", err)
			}
			rule, err := r.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			rules = append(rules, rule)
		} else {
			if evalKind == "" {
				return fmt.Errorf("either a rule id or --kind is required")
			}
			list, err := r.ListByKind(cmd.Context(), domain.RuleKind(evalKind))
			if err != nil {
				return err
			}
			for i := range list {
				rules = append(rules, &list[i])
			}
		}

		now := time.Now()
		out := cmd.OutOrStdout()
		matched := 0
		for _, rule := range rules {
			verdict := "no match"
			if rule.Matches(entity, now) {
				verdict = "MATCH"
				matched++
			}
			fmt.Fprintf(out, "%-8s %s (%s)\n", verdict, rule.Name, rule.ID)
		}
		fmt.Fprintf(out, "%d of %d rule(s) matched\n", matched, len(rules))
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVarP(&evalEntityFile, "entity", "e", "-", "entity snapshot JSON file")
	evalCmd.Flags().StringVarP(&evalKind, "kind", "k", "", "evaluate all enabled rules of this kind")
}
