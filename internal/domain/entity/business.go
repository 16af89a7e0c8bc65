package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business es un cliente de la firma contable. Accountants es el conjunto de
// contables asignados (muchos a muchos, sin IDs duplicados).
type Business struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Accountants      []*Accountant
	FinancialMetrics *BusinessFinancialMetrics // último snapshot; nil si no hay
	Metrics          *BusinessMetrics          // último snapshot; nil si no hay
}

// HasAccountant informa si el contable ya está asignado al negocio.
func (b *Business) HasAccountant(accountantID string) bool {
	for _, a := range b.Accountants {
		if a.ID == accountantID {
			return true
		}
	}
	return false
}

// BusinessFinancialMetrics snapshot financiero de un negocio (producido por jobs del backend).
type BusinessFinancialMetrics struct {
	ID                          string
	BusinessID                  string
	Revenue                     decimal.Decimal
	GrossProfit                 decimal.Decimal
	NetProfit                   decimal.Decimal
	TotalCosts                  decimal.Decimal
	PercentageChangeRevenue     decimal.Decimal
	PercentageChangeGrossProfit decimal.Decimal
	PercentageChangeNetProfit   decimal.Decimal
	PercentageChangeTotalCosts  decimal.Decimal
	CreatedAt                   time.Time
}

// BusinessMetrics snapshot operativo de un negocio.
type BusinessMetrics struct {
	ID                  string
	BusinessID          string
	DocumentsDue        int
	OutstandingInvoices int
	PendingApprovals    int
	AccountingYearEnd   string // dd/mm/yyyy
	CreatedAt           time.Time
}
