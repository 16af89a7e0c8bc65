package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/dashboard"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

func accountantsCmd(a *app) *cobra.Command {
	var businessID string
	cmd := &cobra.Command{
		Use:   "accountants",
		Short: "Manage the accountants assigned to a business",
	}
	cmd.PersistentFlags().StringVarP(&businessID, "business", "b", "", "business ID")
	_ = cmd.MarkPersistentFlagRequired("business")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show assigned and available accountants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDialog(businessID, func(dlg *dashboard.AssignmentDialog) error {
				printDialog(cmd.OutOrStdout(), dlg)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <accountant-id>",
		Short: "Assign an accountant to the business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDialog(businessID, func(dlg *dashboard.AssignmentDialog) error {
				ctx, cancel := a.context()
				defer cancel()
				return dlg.Add(ctx, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <accountant-id>",
		Short: "Remove an accountant from the business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDialog(businessID, func(dlg *dashboard.AssignmentDialog) error {
				ctx, cancel := a.context()
				defer cancel()
				return dlg.Remove(ctx, args[0])
			})
		},
	})
	return cmd
}

// withDialog abre el diálogo de asignación del negocio y lo cierra al terminar.
func (a *app) withDialog(businessID string, fn func(*dashboard.AssignmentDialog) error) error {
	ctx, cancel := a.context()
	defer cancel()
	d, err := a.loadDashboard(ctx)
	if d != nil {
		defer d.Close()
	}
	if err != nil {
		return err
	}
	dlg, err := d.OpenAssignment(ctx, businessID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dlg.Close(); cerr != nil {
			a.log.Warn().Err(cerr).Msg("diálogo cerrado con operación en curso")
		}
	}()
	return fn(dlg)
}

func printDialog(w io.Writer, dlg *dashboard.AssignmentDialog) {
	b := dlg.Business()
	fmt.Fprintln(w, titleStyle.Render(b.Name))
	fmt.Fprintln(w, "Assigned:")
	fmt.Fprintln(w, accountantTable(dlg.Allocated()))
	if dlg.CanManage() {
		fmt.Fprintln(w, "Available:")
		fmt.Fprintln(w, accountantTable(dlg.Available()))
	}
}

func accountantTable(list []dto.AccountantResponse) string {
	if len(list) == 0 {
		return mutedStyle.Render("  none")
	}
	rows := make([][]string, 0, len(list))
	for _, acc := range list {
		role := entity.RoleAccountant
		if acc.IsSuperAccountant {
			role = entity.RoleSuperAccountant
		}
		rows = append(rows, []string{acc.ID, acc.FullName(), acc.User.Email, policy.RoleLabel(role)})
	}
	return renderTable([]string{"ID", "Name", "Email", "Type"}, rows)
}
