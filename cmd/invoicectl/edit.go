package main

import (
	"fmt"

	"invoicebook/internal/invoice"
	"invoicebook/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fieldFlags maps CLI flags onto invoice input keys.
var fieldFlags = []struct {
	flag, key, usage string
}{
	{"code", "code", "Invoice code (assigned by the server when empty)"},
	{"customer", "customerName", "Customer name"},
	{"date", "issueDate", "Issue date, YYYY-MM-DD"},
	{"rate", "dailyRate", "Daily rate; with --days derives all amounts"},
	{"days", "days", "Number of days billed"},
	{"amount", "amountExcl", "Amount excluding VAT"},
	{"vat", "vat", "VAT amount"},
	{"taxe", "taxe", "Tax amount"},
	{"url", "invoiceUrl", "Link to the invoice document"},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice",
	Example: `  # Explicit amounts
  invoicectl create --customer Acme --date 2025-11-01 --amount 1000 --vat 200 --taxe 730

  # From a daily rate
  invoicectl create --customer Acme --date 2025-11-01 --rate 500 --days 2`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of an existing invoice",
	Long: `Only the flags given on the command line are sent. With --revision the
update is refused when someone else changed the invoice in the meantime.`,
	Example: `  invoicectl update 3f6c... --paid
  invoicectl update 3f6c... --date 2026-01-15 --revision 2`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		for _, f := range fieldFlags {
			c.Flags().String(f.flag, "", f.usage)
		}
		c.Flags().Bool("paid", false, "Mark the invoice as paid")
		rootCmd.AddCommand(c)
	}
	updateCmd.Flags().Int64("revision", 0, "Expected current revision")
}

// changedFields collects the invoice keys whose flags were set.
func changedFields(flags *pflag.FlagSet) map[string]any {
	raw := map[string]any{}
	for _, f := range fieldFlags {
		if flags.Changed(f.flag) {
			v, _ := flags.GetString(f.flag)
			raw[f.key] = v
		}
	}
	if flags.Changed("paid") {
		paid, _ := flags.GetBool("paid")
		raw["paid"] = paid
	}
	return raw
}

// previewAmounts shows what a daily rate will bill before it is sent.
func previewAmounts(raw map[string]any) (invoice.Amounts, bool) {
	rateStr, ok := raw["dailyRate"].(string)
	if !ok {
		return invoice.Amounts{}, false
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return invoice.Amounts{}, false
	}
	days := decimal.Zero
	if s, ok := raw["days"].(string); ok {
		if d, err := decimal.NewFromString(s); err == nil {
			days = d
		}
	}
	return invoice.FromDailyRate(rate, days), true
}

func runCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create")
	raw := changedFields(cmd.Flags())

	if a, ok := previewAmounts(raw); ok {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Preview: "+formatAmounts(a)))
	}

	session := newSession(cmd)
	created, err := session.Create(cmd.Context(), raw)
	if err != nil {
		return failed(session, err)
	}
	log.Info().Str("invoice_id", created.ID).Str("code", created.Code).Msg("Invoice created")

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(invoice.View(session.Rows, "", invoice.DefaultSort)))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("update")
	raw := changedFields(cmd.Flags())
	if len(raw) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}
	revision, _ := cmd.Flags().GetInt64("revision")

	session := newSession(cmd)
	updated, err := session.Update(cmd.Context(), args[0], raw, revision)
	if err != nil {
		return failed(session, err)
	}
	log.Info().Str("invoice_id", updated.ID).Int64("revision", updated.Revision).Msg("Invoice updated")

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(invoice.View(session.Rows, "", invoice.DefaultSort)))
	return nil
}
