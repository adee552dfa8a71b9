package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/view"
)

func addCmd() *cobra.Command {
	var name, serviceURL string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a service, then print the refreshed table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()
			return executeAdd(cmd, a.ctrl, name, serviceURL)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "service name")
	cmd.Flags().StringVar(&serviceURL, "url", "", "service URL")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a service, then print the refreshed table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()
			return executeDelete(cmd, a.ctrl, directory.ID(args[0]))
		},
	}
}

// executeAdd submits name and serviceURL as the dashboard form would. The
// table is reprinted whatever the outcome; the create error is returned last.
func executeAdd(cmd *cobra.Command, ctrl *view.Controller, name, serviceURL string) error {
	form := url.Values{}
	form.Set(view.FieldName, name)
	form.Set(view.FieldURL, serviceURL)

	page := &view.Table{}
	err := ctrl.Submit(cmd.Context(), form, page)
	reload(cmd, ctrl, page)
	if err != nil {
		return fmt.Errorf("adding service: %w", err)
	}
	return nil
}

// executeDelete removes id and reprints the table whatever the outcome.
func executeDelete(cmd *cobra.Command, ctrl *view.Controller, id directory.ID) error {
	page := &view.Table{}
	err := ctrl.Delete(cmd.Context(), id, page)
	reload(cmd, ctrl, page)
	if err != nil {
		return fmt.Errorf("deleting service %s: %w", id, err)
	}
	return nil
}

// reload answers a page's reload request with a freshly loaded table.
func reload(cmd *cobra.Command, ctrl *view.Controller, page *view.Table) {
	if page.Reloads == 0 {
		return
	}
	fresh := &view.Table{}
	ctrl.Load(cmd.Context(), fresh)
	printTable(cmd.OutOrStdout(), fresh.Rows)
}
