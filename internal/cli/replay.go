package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"hqtrivia-bot/internal/app"
	"hqtrivia-bot/internal/config"
)

// NewReplayCmd builds the CLI subcommand that re-scores archived rounds
// from their stored evidence.
func NewReplayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [round-id|show-id ...]",
		Short: "Re-run predictions over archived rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, err := buildRecordStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			harness := app.NewReplayHarness(store, app.WithReplayOutput(cmd.OutOrStdout()))
			_, err = harness.Run(ctx, splitFilter(args))
			return err
		},
	}
}

// splitFilter accepts both space- and comma-separated round selectors.
func splitFilter(args []string) []string {
	var filter []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter = append(filter, part)
			}
		}
	}
	return filter
}
