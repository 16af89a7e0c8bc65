package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/apex-am/internal/application/dto"
)

func businessesCmd(a *app) *cobra.Command {
	var (
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:     "businesses",
		Aliases: []string{"biz"},
		Short:   "List the businesses visible to the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			d, err := a.loadDashboard(ctx)
			if d != nil {
				defer d.Close()
			}
			if err != nil {
				return err
			}
			if msg := d.Feed().Error; msg != "" {
				return fmt.Errorf("%s", msg)
			}

			list := d.Businesses()
			list.SetSearch(search)
			list.SetPage(page)
			view := list.Current()

			w := cmd.OutOrStdout()
			if view.Empty {
				fmt.Fprintln(w, pageFooter(0, 0, 0, "businesses"))
				return nil
			}
			rows := make([][]string, 0, len(view.Items))
			for _, b := range view.Items {
				rows = append(rows, businessRow(b))
			}
			fmt.Fprintln(w, renderTable([]string{"ID", "Name", "Accountants", "Revenue", "Net profit", "Docs due"}, rows))
			fmt.Fprintln(w, pageFooter(view.Page, view.TotalPages, view.Total, "businesses"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name (case-insensitive)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.AddCommand(reportCmd(a))
	return cmd
}

func reportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download the portfolio PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			if err := a.requireUser(ctx); err != nil {
				return err
			}
			pdf, err := a.api.PortfolioPDF(ctx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Report saved to"), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "portfolio.pdf", "output file")
	return cmd
}

func businessRow(b dto.BusinessResponse) []string {
	names := make([]string, 0, len(b.Accountants))
	for _, acc := range b.Accountants {
		names = append(names, acc.FullName())
	}
	accountants := "-"
	if len(names) > 0 {
		accountants = strings.Join(names, ", ")
	}
	revenue, net, due := "-", "-", "-"
	if m := b.FinancialMetrics; m != nil {
		revenue, net = money(m.Revenue), money(m.NetProfit)
	}
	if m := b.Metrics; m != nil {
		due = strconv.Itoa(m.DocumentsDue)
	}
	return []string{b.ID, b.Name, accountants, revenue, net, due}
}
