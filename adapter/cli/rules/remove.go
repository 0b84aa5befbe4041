package rules

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <rule-id>",
	Short: "Delete a stored rule set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repo()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid rule id: %w", err)
		}

		if err := r.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed rule %s\n", id)
		return nil
	},
}
