package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcboard/internal/config"
	"github.com/hazz-dev/svcboard/internal/storage"
)

type historyStore interface {
	Recent(ctx context.Context, limit int) ([]storage.Entry, error)
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent add/delete attempts from the journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runHistory(cmd, cfg, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to print")
	return cmd
}

func runHistory(cmd *cobra.Command, cfg *config.Config, limit int) error {
	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return executeHistory(cmd, db, limit)
}

func executeHistory(cmd *cobra.Command, db historyStore, limit int) error {
	out := cmd.OutOrStdout()
	entries, err := db.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("querying history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No actions recorded. Run 'svcboard add' or 'svcboard delete' first.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tTARGET\tOUTCOME\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			humanize.Time(e.RecordedAt),
			e.Action,
			cleanCell(e.Target),
			e.Outcome,
			cleanCell(e.Error),
		)
	}
	w.Flush()
	return nil
}
