// Package seed carga los datos de demostración: tres usuarios (uno por rol) y
// doce negocios con su último snapshot de métricas. Lo usan cmd/seed sobre
// PostgreSQL y el modo demo en memoria de cmd/api.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/apex-am/internal/application/auth"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/repository"
)

// DemoPassword contraseña de todos los usuarios de demostración.
const DemoPassword = "password"

// Emails de los usuarios de demostración.
const (
	RootEmail       = "admin@example.com"
	SuperEmail      = "super@example.com"
	AccountantEmail = "accountant@example.com"
)

// Repos puertos sobre los que se cargan los datos.
type Repos struct {
	Users       repository.UserRepository
	Accountants repository.AccountantRepository
	Businesses  repository.BusinessRepository
}

// Result resumen de la carga.
type Result struct {
	Skipped    bool
	Users      int
	Businesses int
}

type demoUser struct {
	email, first, last, role string
}

var demoUsers = []demoUser{
	{RootEmail, "Alex", "Morgan", entity.RoleRootAdmin},
	{SuperEmail, "Sarah", "Johnson", entity.RoleSuperAccountant},
	{AccountantEmail, "Jane", "Doe", entity.RoleAccountant},
}

type sample struct {
	name, description                  string
	revenue, gross, net, costs         int64
	chRevenue, chGross, chNet, chCosts float64
	docsDue, outstanding, pending      int
	yearEnd                            string
	assignAccountant                   bool
}

var samples = []sample{
	{"Tech Solutions Inc", "Software development and IT consulting services", 1250000, 875000, 625000, 625000, 15.5, 12.8, 18.2, -8.5, 5, 12500, 3, "31/12/2024", true},
	{"Green Energy Co", "Renewable energy solutions and consulting", 890000, 623000, 445000, 445000, 22.1, 25.3, 28.7, -12.4, 3, 8900, 1, "31/12/2024", true},
	{"Global Logistics Ltd", "International shipping and logistics services", 2100000, 1470000, 1050000, 1050000, 8.9, 7.2, 9.8, 5.1, 8, 45000, 4, "31/12/2024", false},
	{"Creative Design Studio", "Graphic design and branding services", 450000, 315000, 225000, 225000, 18.7, 20.1, 22.5, -10.2, 2, 12000, 2, "31/12/2024", false},
	{"Healthcare Partners", "Medical practice management and consulting", 1800000, 1260000, 900000, 900000, 12.3, 11.8, 13.5, 2.8, 6, 28000, 3, "31/12/2024", false},
	{"Financial Advisory Group", "Investment and financial planning services", 3200000, 2240000, 1600000, 1600000, 14.2, 16.8, 19.5, -5.2, 4, 35000, 2, "31/12/2024", false},
	{"Manufacturing Solutions", "Industrial manufacturing and automation", 4500000, 3150000, 2250000, 2250000, 11.8, 13.2, 15.7, 3.4, 7, 68000, 5, "31/12/2024", false},
	{"Retail Innovations", "E-commerce and retail technology solutions", 2800000, 1960000, 1400000, 1400000, 25.6, 28.9, 32.1, -15.8, 3, 42000, 1, "31/12/2024", false},
	{"Construction Dynamics", "Commercial construction and project management", 3800000, 2660000, 1900000, 1900000, 9.4, 8.7, 11.2, 4.1, 9, 75000, 6, "31/12/2024", false},
	{"Legal Services Corp", "Corporate law and legal consulting", 2200000, 1540000, 1100000, 1100000, 16.8, 18.2, 21.5, -7.8, 4, 28000, 2, "31/12/2024", false},
	{"Marketing Masters", "Digital marketing and brand strategy", 950000, 665000, 475000, 475000, 19.3, 22.1, 25.8, -11.5, 2, 15000, 1, "31/12/2024", false},
	{"Real Estate Partners", "Commercial real estate investment and management", 5200000, 3640000, 2600000, 2600000, 13.7, 15.2, 17.8, 2.9, 5, 89000, 3, "31/12/2024", false},
}

// Load inserta los datos de demostración. Si el usuario root ya existe no hace nada.
func Load(ctx context.Context, repos Repos, log zerolog.Logger) (*Result, error) {
	existing, err := repos.Users.GetByEmail(ctx, RootEmail)
	if err != nil {
		return nil, fmt.Errorf("seed: comprobar datos existentes: %w", err)
	}
	if existing != nil {
		log.Info().Msg("la base ya contiene datos, se omite la carga")
		return &Result{Skipped: true}, nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("seed: hash de contraseña: %w", err)
	}

	now := time.Now().UTC()
	var (
		rootID       string
		superAccID   string
		accountantID string
	)
	for _, du := range demoUsers {
		u := &entity.User{
			ID:             uuid.New().String(),
			Username:       strings.SplitN(du.email, "@", 2)[0],
			Email:          du.email,
			HashedPassword: hash,
			Role:           du.role,
			FirstName:      du.first,
			LastName:       du.last,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("seed: crear usuario %s: %w", du.email, err)
		}
		if du.role == entity.RoleRootAdmin {
			rootID = u.ID
			continue
		}

		// Un perfil contable por usuario no root; el accountant queda bajo el super.
		a := &entity.Accountant{
			ID:                uuid.New().String(),
			UserID:            u.ID,
			IsSuperAccountant: du.role == entity.RoleSuperAccountant,
			FirstName:         du.first,
			LastName:          du.last,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if !a.IsSuperAccountant && superAccID != "" {
			managedBy := superAccID
			a.SuperAccountantID = &managedBy
		}
		if err := repos.Accountants.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("seed: crear contable %s: %w", du.email, err)
		}
		if a.IsSuperAccountant {
			superAccID = a.ID
		} else {
			accountantID = a.ID
		}
	}

	for _, s := range samples {
		b := &entity.Business{
			ID:          uuid.New().String(),
			Name:        s.name,
			Description: s.description,
			OwnerID:     rootID,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Businesses.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("seed: crear negocio %q: %w", s.name, err)
		}
		if err := repos.Businesses.SaveFinancialMetrics(ctx, financialFor(b.ID, s, now)); err != nil {
			return nil, fmt.Errorf("seed: métricas financieras %q: %w", s.name, err)
		}
		if err := repos.Businesses.SaveMetrics(ctx, &entity.BusinessMetrics{
			ID:                  uuid.New().String(),
			BusinessID:          b.ID,
			DocumentsDue:        s.docsDue,
			OutstandingInvoices: s.outstanding,
			PendingApprovals:    s.pending,
			AccountingYearEnd:   s.yearEnd,
			CreatedAt:           now,
		}); err != nil {
			return nil, fmt.Errorf("seed: métricas %q: %w", s.name, err)
		}
		if s.assignAccountant && accountantID != "" {
			if err := repos.Businesses.AssignAccountant(ctx, b.ID, accountantID); err != nil {
				return nil, fmt.Errorf("seed: asignar contable a %q: %w", s.name, err)
			}
		}
	}

	log.Info().Int("users", len(demoUsers)).Int("businesses", len(samples)).Msg("datos de demostración cargados")
	return &Result{Users: len(demoUsers), Businesses: len(samples)}, nil
}

func financialFor(businessID string, s sample, at time.Time) *entity.BusinessFinancialMetrics {
	return &entity.BusinessFinancialMetrics{
		ID:                          uuid.New().String(),
		BusinessID:                  businessID,
		Revenue:                     decimal.NewFromInt(s.revenue),
		GrossProfit:                 decimal.NewFromInt(s.gross),
		NetProfit:                   decimal.NewFromInt(s.net),
		TotalCosts:                  decimal.NewFromInt(s.costs),
		PercentageChangeRevenue:     decimal.NewFromFloat(s.chRevenue),
		PercentageChangeGrossProfit: decimal.NewFromFloat(s.chGross),
		PercentageChangeNetProfit:   decimal.NewFromFloat(s.chNet),
		PercentageChangeTotalCosts:  decimal.NewFromFloat(s.chCosts),
		CreatedAt:                   at,
	}
}
