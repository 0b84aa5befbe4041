// Package timeline exposes conflict detection and slot finding over item
// snapshot files.
package timeline

import "github.com/spf13/cobra"

// Cmd is the timeline command group.
var Cmd = &cobra.Command{
	Use:   "timeline",
	Short: "Timeline conflict detection and slot finding",
}

var asJSON bool

func init() {
	Cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output results as JSON")
	Cmd.AddCommand(conflictsCmd)
	Cmd.AddCommand(slotsCmd)
}
