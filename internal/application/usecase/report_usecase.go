package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

// ReportUseCase genera el reporte PDF de la cartera visible para el actor.
type ReportUseCase struct {
	businesses *BusinessUseCase
	generator  PortfolioPDFGenerator
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(businesses *BusinessUseCase, generator PortfolioPDFGenerator) *ReportUseCase {
	return &ReportUseCase{businesses: businesses, generator: generator, now: time.Now}
}

// BuildPortfolio arma el modelo del reporte (sin renderizar).
func (uc *ReportUseCase) BuildPortfolio(ctx context.Context, actor *entity.User) (*PortfolioReport, error) {
	list, err := uc.businesses.scoped(ctx, actor)
	if err != nil {
		return nil, err
	}
	report := &PortfolioReport{
		Title:          "Business Portfolio",
		GeneratedAt:    uc.now(),
		GeneratedBy:    actor.FullName(),
		RoleLabel:      policy.RoleLabel(actor.Role),
		TotalRevenue:   decimal.Zero,
		TotalNetProfit: decimal.Zero,
	}
	for _, b := range list {
		row := PortfolioRow{Name: b.Name, Accountants: len(b.Accountants)}
		if fm := b.FinancialMetrics; fm != nil {
			row.HasMetrics = true
			row.Revenue = fm.Revenue
			row.NetProfit = fm.NetProfit
			row.RevenueChangePct = fm.PercentageChangeRevenue
			report.TotalRevenue = report.TotalRevenue.Add(fm.Revenue)
			report.TotalNetProfit = report.TotalNetProfit.Add(fm.NetProfit)
		}
		if m := b.Metrics; m != nil {
			row.DocumentsDue = m.DocumentsDue
			row.YearEnd = m.AccountingYearEnd
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// GeneratePortfolioPDF arma y renderiza el reporte.
func (uc *ReportUseCase) GeneratePortfolioPDF(ctx context.Context, actor *entity.User) ([]byte, error) {
	report, err := uc.BuildPortfolio(ctx, actor)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.generator.Generate(report)
	if err != nil {
		return nil, fmt.Errorf("generar PDF de cartera: %w", err)
	}
	return pdf, nil
}
