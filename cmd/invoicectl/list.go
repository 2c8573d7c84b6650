package main

import (
	"fmt"
	"time"

	"invoicebook/internal/invoice"
	"invoicebook/internal/logger"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices with totals",
	Example: `  # Newest first
  invoicectl list

  # Search by code or customer, biggest totals first
  invoicectl list --q acme --sort total --dir desc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, false)
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the current quarter's invoices with totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{listCmd, dashboardCmd} {
		c.Flags().String("q", "", "Search text (id, code or customer name)")
		c.Flags().String("sort", "", "Sort field: id, code, customerName, issueDate, paid, amountExcl, vat, taxe, total, createdAt")
		c.Flags().String("dir", "", "Sort direction: asc or desc")
		rootCmd.AddCommand(c)
	}
}

func runView(cmd *cobra.Command, dashboard bool) error {
	log := logger.WithComponent("view")
	q, _ := cmd.Flags().GetString("q")
	field, _ := cmd.Flags().GetString("sort")
	dir, _ := cmd.Flags().GetString("dir")

	sort, err := invoice.ParseSort(field, dir)
	if err != nil {
		return err
	}

	session := newSession(cmd)
	if err := session.Reload(cmd.Context(), ""); err != nil {
		return failed(session, err)
	}
	log.Debug().Int("rows", len(session.Rows)).Msg("Invoices loaded")

	var res invoice.Result
	title := "Invoices"
	if dashboard {
		now := time.Now()
		res = session.Dashboard(q, sort, now)
		title = "Dashboard " + invoice.CurrentQuarter(now)
	} else {
		res = session.View(q, sort)
	}

	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(title))
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(res))
	return nil
}
