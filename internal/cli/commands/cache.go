package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/td2-chat-translator/internal/config"
	"github.com/MimeLyc/td2-chat-translator/internal/persistence"
)

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or purge the translation cache",
	}
	cmd.AddCommand(newCacheListCommand())
	cmd.AddCommand(newCachePurgeCommand())
	return cmd
}

func newCacheListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recently written cached translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			total, err := store.CountTranslations(ctx)
			if err != nil {
				return err
			}
			entries, err := store.ListTranslations(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%d cached translations\n\n", total)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "BACKEND\tLANG\tHITS\tTEXT\tTRANSLATION")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.Backend, e.Language, e.Hits, e.Body, e.Translation)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func newCachePurgeCommand() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached translations older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.DeleteTranslationsBefore(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached translations\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only delete entries last written longer ago than this (0 deletes everything)")
	return cmd
}

func openCache() (*persistence.SQLiteStore, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	store, err := persistence.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open translation cache: %w", err)
	}
	return store, nil
}
