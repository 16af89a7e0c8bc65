package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessResponse salida de un negocio con contables asignados y último snapshot de métricas.
type BusinessResponse struct {
	ID               string                    `json:"id"`
	Name             string                    `json:"name"`
	Description      string                    `json:"description,omitempty"`
	OwnerID          string                    `json:"owner_id"`
	IsActive         bool                      `json:"is_active"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
	Accountants      []AccountantResponse      `json:"accountants"`
	FinancialMetrics *FinancialMetricsResponse `json:"financial_metrics,omitempty"`
	Metrics          *BusinessMetricsResponse  `json:"metrics,omitempty"`
}

// HasAccountant informa si el contable está en la lista de asignados.
func (b BusinessResponse) HasAccountant(accountantID string) bool {
	for _, a := range b.Accountants {
		if a.ID == accountantID {
			return true
		}
	}
	return false
}

// FinancialMetricsResponse montos exactos (decimal) del último snapshot financiero.
type FinancialMetricsResponse struct {
	Revenue                     decimal.Decimal `json:"revenue"`
	GrossProfit                 decimal.Decimal `json:"gross_profit"`
	NetProfit                   decimal.Decimal `json:"net_profit"`
	TotalCosts                  decimal.Decimal `json:"total_costs"`
	PercentageChangeRevenue     decimal.Decimal `json:"percentage_change_revenue"`
	PercentageChangeGrossProfit decimal.Decimal `json:"percentage_change_gross_profit"`
	PercentageChangeNetProfit   decimal.Decimal `json:"percentage_change_net_profit"`
	PercentageChangeTotalCosts  decimal.Decimal `json:"percentage_change_total_costs"`
}

// BusinessMetricsResponse último snapshot operativo.
type BusinessMetricsResponse struct {
	DocumentsDue        int    `json:"documents_due"`
	OutstandingInvoices int    `json:"outstanding_invoices"`
	PendingApprovals    int    `json:"pending_approvals"`
	AccountingYearEnd   string `json:"accounting_year_end"`
}

// AssignAccountantRequest entrada para assign-accountant / remove-accountant.
type AssignAccountantRequest struct {
	AccountantID string `json:"accountant_id" validate:"required"`
}
