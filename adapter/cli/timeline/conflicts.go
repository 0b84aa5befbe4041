package timeline

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

var (
	conflictsFile  string
	bufferHours    float64
	tzJumpGapHours float64
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Detect conflicts between scheduled items",
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []domain.Item
		if err := cli.ReadSnapshot(conflictsFile, &items); err != nil {
			return err
		}

		opts := domain.DefaultDetectOptions()
		if cmd.Flags().Changed("buffer-hours") {
			opts.BufferHours = bufferHours
		}
		if cmd.Flags().Changed("tz-gap-hours") {
			opts.TimezoneJumpGapHours = tzJumpGapHours
		}

		conflicts := domain.DetectConflicts(items, opts)
		out := cmd.OutOrStdout()
		if asJSON {
			return cli.PrintJSON(out, conflicts)
		}

		if len(conflicts) == 0 {
			fmt.Fprintln(out, "no conflicts")
			return nil
		}
		for _, c := range conflicts {
			fmt.Fprintf(out, "[%s] %-18s %s\n", c.Severity, c.Kind, c.Message)
		}
		fmt.Fprintf(out, "%d conflict(s) across %d item(s)\n", len(conflicts), len(items))
		return nil
	},
}

func init() {
	conflictsCmd.Flags().StringVarP(&conflictsFile, "file", "f", "-", "items snapshot JSON file")
	conflictsCmd.Flags().Float64Var(&bufferHours, "buffer-hours", 24, "minimum spacing between same-territory items")
	conflictsCmd.Flags().Float64Var(&tzJumpGapHours, "tz-gap-hours", 6, "minimum gap when items switch timezones")
}
