package dto

import "github.com/jhoicas/apex-am/internal/domain/entity"

// FromUser convierte la entidad en su representación de transporte.
func FromUser(u *entity.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsers convierte una lista; nunca devuelve nil (JSON "[]").
func FromUsers(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// FromAccountant convierte un contable (con su usuario si está cargado).
func FromAccountant(a *entity.Accountant) AccountantResponse {
	if a == nil {
		return AccountantResponse{}
	}
	return AccountantResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		SuperAccountantID: a.SuperAccountantID,
		IsSuperAccountant: a.IsSuperAccountant,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		User:              FromUser(a.User),
	}
}

// FromAccountants convierte una lista; nunca devuelve nil.
func FromAccountants(list []*entity.Accountant) []AccountantResponse {
	out := make([]AccountantResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromAccountant(a))
	}
	return out
}

// FromBusiness convierte un negocio con sus contables y métricas.
func FromBusiness(b *entity.Business) BusinessResponse {
	if b == nil {
		return BusinessResponse{}
	}
	out := BusinessResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Accountants: FromAccountants(b.Accountants),
	}
	if fm := b.FinancialMetrics; fm != nil {
		out.FinancialMetrics = &FinancialMetricsResponse{
			Revenue:                     fm.Revenue,
			GrossProfit:                 fm.GrossProfit,
			NetProfit:                   fm.NetProfit,
			TotalCosts:                  fm.TotalCosts,
			PercentageChangeRevenue:     fm.PercentageChangeRevenue,
			PercentageChangeGrossProfit: fm.PercentageChangeGrossProfit,
			PercentageChangeNetProfit:   fm.PercentageChangeNetProfit,
			PercentageChangeTotalCosts:  fm.PercentageChangeTotalCosts,
		}
	}
	if m := b.Metrics; m != nil {
		out.Metrics = &BusinessMetricsResponse{
			DocumentsDue:        m.DocumentsDue,
			OutstandingInvoices: m.OutstandingInvoices,
			PendingApprovals:    m.PendingApprovals,
			AccountingYearEnd:   m.AccountingYearEnd,
		}
	}
	return out
}

// FromBusinesses convierte una lista; nunca devuelve nil.
func FromBusinesses(list []*entity.Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, FromBusiness(b))
	}
	return out
}
