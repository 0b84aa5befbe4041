package settings

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/adapter/cli"
	"github.com/Sc0remac/cadenzor/internal/priority/domain"
)

var presetCmd = &cobra.Command{
	Use:   "preset [slug]",
	Short: "List scheduling presets or apply one as stored overrides",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		cfg, err := cli.EffectiveScoringConfig(cmd.Context(), now)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, preset := range cfg.Presets {
				mode := "template"
				if preset.AutoActivate {
					mode = "auto"
					if preset.ActiveAt(now) {
						mode = "auto, active now"
					}
				}
				fmt.Fprintf(out, "%-16s %s (%s)\n", preset.Slug, preset.Name, mode)
			}
			return nil
		}

		preset, err := domain.FindPreset(cfg, args[0])
		if err != nil {
			return err
		}
		if len(preset.Overrides) == 0 {
			fmt.Fprintf(out, "preset %s has no overrides to apply\n", preset.Slug)
			return nil
		}

		app, err := requireApp()
		if err != nil {
			return err
		}
		if err := app.ConfigService.UpdateOverrides(cmd.Context(), app.CurrentUserID, preset.Overrides); err != nil {
			return err
		}
		fmt.Fprintf(out, "applied preset %s\n", preset.Slug)
		return nil
	},
}
