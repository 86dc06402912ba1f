package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hqtrivia-bot/internal/config"
	"hqtrivia-bot/internal/infra/evidence"
)

// NewCacheCmd groups the evidence-cache maintenance verbs.
func NewCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the evidence response cache",
	}
	cmd.AddCommand(cacheVerb(configPath, "prune", "Drop cached pages no archived round references",
		func(ctx context.Context, admin *evidence.Admin) error { return admin.Prune(ctx) }))
	cmd.AddCommand(cacheVerb(configPath, "refresh", "Fetch referenced pages missing from the cache",
		func(ctx context.Context, admin *evidence.Admin) error { return admin.Refresh(ctx) }))
	cmd.AddCommand(cacheVerb(configPath, "vacuum", "Drop empty and undecodable cache entries",
		func(ctx context.Context, admin *evidence.Admin) error { return admin.Vacuum(ctx) }))
	cmd.AddCommand(cacheVerb(configPath, "export", "Dump cached pages per round to the dump directory",
		func(ctx context.Context, admin *evidence.Admin) error { return admin.Export(ctx) }))
	cmd.AddCommand(cacheVerb(configPath, "import", "Load previously exported dumps into the cache",
		func(ctx context.Context, admin *evidence.Admin) error { return admin.Import(ctx) }))
	return cmd
}

func cacheVerb(configPath *string, verb, short string, run func(context.Context, *evidence.Admin) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			records, closeStore, err := buildRecordStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			store := buildCacheStore(cfg)
			fetcher := buildFetcher(cfg, store)
			admin := evidence.NewAdmin(store, records, fetcher, cfg.Cache.DumpDir,
				cfg.Search.BaseURL, cfg.Reference.BaseURL, cmd.OutOrStdout())
			if err := run(ctx, admin); err != nil {
				return fmt.Errorf("cache %s: %w", verb, err)
			}
			return nil
		},
	}
}
