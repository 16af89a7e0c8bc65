package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/application/usecase"
)

type captureGenerator struct {
	got *usecase.PortfolioReport
	err error
}

func (g *captureGenerator) Generate(r *usecase.PortfolioReport) ([]byte, error) {
	g.got = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestGeneratePortfolioPDF_UsaAlcanceDelActor(t *testing.T) {
	f := newFixture(t)
	gen := &captureGenerator{}
	uc := usecase.NewReportUseCase(usecase.NewBusinessUseCase(f.biz, f.accs), gen)

	pdf, err := uc.GeneratePortfolioPDF(context.Background(), f.alice)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	require.Len(t, gen.got.Rows, 1)
	assert.Equal(t, "Tech Solutions Inc", gen.got.Rows[0].Name)
	assert.Equal(t, "Accountant", gen.got.RoleLabel)
	assert.Equal(t, "Alice Smith", gen.got.GeneratedBy)
	assert.Equal(t, "1250000", gen.got.TotalRevenue.String())
}

func TestBuildPortfolio_TotalesSoloConMetricas(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewReportUseCase(usecase.NewBusinessUseCase(f.biz, f.accs), &captureGenerator{})

	r, err := uc.BuildPortfolio(context.Background(), f.root)
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)
	assert.True(t, r.Rows[0].HasMetrics)
	assert.False(t, r.Rows[1].HasMetrics)
	assert.Equal(t, "450000", r.TotalNetProfit.String())
}

func TestGeneratePortfolioPDF_ErrorDelGenerador(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewReportUseCase(usecase.NewBusinessUseCase(f.biz, f.accs), &captureGenerator{err: errors.New("boom")})

	_, err := uc.GeneratePortfolioPDF(context.Background(), f.root)
	assert.ErrorContains(t, err, "boom")
}
