package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apex-am/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(users repository.UserRepository, accountants repository.AccountantRepository) error) error
}

// PortfolioReport datos del reporte de cartera (lo que ve el usuario según su alcance).
type PortfolioReport struct {
	Title          string
	GeneratedAt    time.Time
	GeneratedBy    string
	RoleLabel      string
	Rows           []PortfolioRow
	TotalRevenue   decimal.Decimal
	TotalNetProfit decimal.Decimal
}

// PortfolioRow una fila por negocio.
type PortfolioRow struct {
	Name             string
	Accountants      int
	Revenue          decimal.Decimal
	NetProfit        decimal.Decimal
	RevenueChangePct decimal.Decimal
	DocumentsDue     int
	YearEnd          string
	HasMetrics       bool
}

// PortfolioPDFGenerator genera el PDF del reporte de cartera.
type PortfolioPDFGenerator interface {
	Generate(report *PortfolioReport) ([]byte, error)
}
