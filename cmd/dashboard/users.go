package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/apex-am/internal/dashboard"
	"github.com/jhoicas/apex-am/internal/domain"
)

func usersCmd(a *app) *cobra.Command {
	var (
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users and their roles (root admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPromotion(func(p *dashboard.PromotionController) error {
				list := p.List()
				list.SetSearch(search)
				list.SetPage(page)
				view := list.Current()

				w := cmd.OutOrStdout()
				if view.Empty {
					fmt.Fprintln(w, pageFooter(0, 0, 0, "users"))
					return nil
				}
				rows := make([][]string, 0, len(view.Items))
				for _, u := range view.Items {
					editable := ""
					if p.CanEdit(u) {
						editable = "yes"
					}
					rows = append(rows, []string{u.ID, u.DisplayName(), u.Email, roleBadge(u.Role), editable})
				}
				fmt.Fprintln(w, renderTable([]string{"ID", "Name", "Email", "Role", "Editable"}, rows))
				fmt.Fprintln(w, pageFooter(view.Page, view.TotalPages, view.Total, "users"))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or email")
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	cmd.AddCommand(&cobra.Command{
		Use:   "set-role <user-id> <accountant|super_accountant>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPromotion(func(p *dashboard.PromotionController) error {
				ctx, cancel := a.context()
				defer cancel()
				return p.SetRole(ctx, args[0], args[1])
			})
		},
	})
	return cmd
}

func (a *app) withPromotion(fn func(*dashboard.PromotionController) error) error {
	ctx, cancel := a.context()
	defer cancel()
	d, err := a.loadDashboard(ctx)
	if d != nil {
		defer d.Close()
	}
	if err != nil {
		return err
	}
	p := d.Promotion()
	if p == nil {
		return domain.ErrForbidden
	}
	if msg := p.LoadError(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return fn(p)
}
