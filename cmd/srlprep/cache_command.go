package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"srlprep/internal/cachestore"
	"srlprep/internal/config"
	"srlprep/internal/report"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the artifact cache",
	}
	cacheCmd.AddCommand(newCacheStatusCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stage ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *cachestore.Store, logger *slog.Logger) error {
				entries, err := store.Stages(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "cache at %s is empty\n", store.Dir())
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Stage,
						entry.RunID,
						entry.CompletedAt,
						fmt.Sprintf("%d", entry.Counts.Rows),
						fmt.Sprintf("%d", entry.Counts.Skipped),
						fmt.Sprintf("%d", entry.Counts.Dropped),
					})
				}
				report.RenderStages(out, rows)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached artifacts and reset the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("cache clear deletes every derived artifact; re-run with --yes to confirm")
			}
			return ctx.withStore(func(cfg *config.Config, store *cachestore.Store, logger *slog.Logger) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared cache at %s\n", store.Dir())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
