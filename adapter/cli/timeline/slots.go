package timeline

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

var (
	slotsFile          string
	slotsFrom          string
	slotsTo            string
	slotsDuration      float64
	slotsCity          string
	slotsTerritory     string
	slotsBusinessHours bool
	slotsLimit         int
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Propose open slots between scheduled items",
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []domain.Item
		if err := cli.ReadSnapshot(slotsFile, &items); err != nil {
			return err
		}

		from, err := time.Parse(time.RFC3339, slotsFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := time.Parse(time.RFC3339, slotsTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		slots := domain.FindAvailableSlots(items, domain.SlotRequest{
			From:              from,
			To:                to,
			DurationHours:     slotsDuration,
			City:              slotsCity,
			Territory:         slotsTerritory,
			BusinessHoursOnly: slotsBusinessHours,
			Limit:             slotsLimit,
		})

		out := cmd.OutOrStdout()
		if asJSON {
			return cli.PrintJSON(out, slots)
		}

		if len(slots) == 0 {
			fmt.Fprintln(out, "no slots found")
			return nil
		}
		for _, s := range slots {
			fmt.Fprintf(out, "%-8s %s - %s  %s\n",
				s.Confidence,
				s.Start.Format(time.RFC3339),
				s.End.Format(time.RFC3339),
				s.Reason,
			)
		}
		return nil
	},
}

func init() {
	slotsCmd.Flags().StringVarP(&slotsFile, "file", "f", "-", "items snapshot JSON file")
	slotsCmd.Flags().StringVar(&slotsFrom, "from", "", "search window start (RFC3339)")
	slotsCmd.Flags().StringVar(&slotsTo, "to", "", "search window end (RFC3339)")
	slotsCmd.Flags().Float64Var(&slotsDuration, "duration", 2, "required duration in hours")
	slotsCmd.Flags().StringVar(&slotsCity, "city", "", "target city for travel buffers")
	slotsCmd.Flags().StringVar(&slotsTerritory, "territory", "", "target territory when no city is known")
	slotsCmd.Flags().BoolVar(&slotsBusinessHours, "business-hours", false, "propose weekday business-hour slots only")
	slotsCmd.Flags().IntVar(&slotsLimit, "limit", 0, "maximum proposals (0 uses the default)")
	_ = slotsCmd.MarkFlagRequired("from")
	_ = slotsCmd.MarkFlagRequired("to")
}
