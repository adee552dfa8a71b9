package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/rows"
	"github.com/hazz-dev/svcboard/internal/view"
	"github.com/hazz-dev/svcboard/internal/watch"
)

var errListFailed = errors.New("listing services failed")

func listCmd() *cobra.Command {
	var watchFlag bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the services table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if !watchFlag {
				return executeList(cmd, a.ctrl)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			return executeWatch(ctx, cmd, a.ctrl, a.client, a.cfg.Watch.Interval.Duration)
		},
	}
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-list on the watch interval until interrupted")
	return cmd
}

// executeList loads the table once and prints it.
func executeList(cmd *cobra.Command, ctrl *view.Controller) error {
	table := &view.Table{}
	state := ctrl.Load(cmd.Context(), table)
	printTable(cmd.OutOrStdout(), table.Rows)
	if state == view.StateRenderedError {
		return errListFailed
	}
	return nil
}

// executeWatch prints a fresh table for every listing until ctx is done.
func executeWatch(ctx context.Context, cmd *cobra.Command, ctrl *view.Controller, lister watch.Lister, interval time.Duration) error {
	out := cmd.OutOrStdout()
	w := watch.New(lister, interval, nil)
	w.SetOnList(func(services []directory.Service, err error) {
		table := &view.Table{}
		ctrl.Render(table, services, err)
		fmt.Fprintf(out, "-- %s\n", time.Now().Format("15:04:05"))
		printTable(out, table.Rows)
	})
	w.Start(ctx)
	w.Wait()
	return nil
}

// printTable writes rows as aligned columns. A placeholder row is printed as
// its bare message.
func printTable(out io.Writer, table []rows.Row) {
	if len(table) == 1 && table[0].Placeholder {
		fmt.Fprintln(out, table[0].Cells[0].Text)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tNAME\tURL\tCREATED\tLAST UPDATED\tID")
	for _, r := range table {
		if r.Placeholder {
			fmt.Fprintln(w, r.Cells[0].Text)
			continue
		}
		for i, c := range r.Cells {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cellText(c))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func cellText(c rows.Cell) string {
	var s string
	switch c.Kind {
	case rows.KindActions:
		s = string(c.DeleteID)
	case rows.KindBadge, rows.KindLink, rows.KindText:
		s = c.Text
	}
	if s == "" {
		return "-"
	}
	return cleanCell(s)
}

// cellReplacer keeps tabwriter separators and line breaks out of cell text.
var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func cleanCell(s string) string {
	return cellReplacer.Replace(s)
}
