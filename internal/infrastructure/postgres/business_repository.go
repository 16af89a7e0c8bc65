package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación de BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

const businessColumns = `b.id, b.name, b.description, b.owner_id, b.is_active, b.created_at, b.updated_at`

// Create persiste un negocio (sin contables ni métricas).
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	now := time.Now()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := r.q.Exec(ctx, `
		INSERT INTO businesses (id, name, description, owner_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Name, nullString(b.Description), b.OwnerID, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio con contables y último snapshot de métricas.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	list, err := r.query(ctx, `SELECT `+businessColumns+` FROM businesses b WHERE b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List todos los negocios por fecha de creación.
func (r *BusinessRepo) List(ctx context.Context) ([]*entity.Business, error) {
	return r.query(ctx, `SELECT `+businessColumns+` FROM businesses b ORDER BY b.created_at, b.name`)
}

// ListLinkedToUser negocios propios del usuario ∪ asignados a su perfil contable.
func (r *BusinessRepo) ListLinkedToUser(ctx context.Context, userID string) ([]*entity.Business, error) {
	return r.query(ctx, `
		SELECT `+businessColumns+`
		FROM businesses b
		WHERE b.owner_id = $1
		   OR EXISTS (
		       SELECT 1 FROM business_accountants ba
		       JOIN accountants a ON a.id = ba.accountant_id
		       WHERE ba.business_id = b.id AND a.user_id = $1)
		ORDER BY b.created_at, b.name`, userID)
}

func (r *BusinessRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Business, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Business, 0)
	byID := make(map[string]*entity.Business)
	for rows.Next() {
		var (
			b    entity.Business
			desc *string
		)
		if err := rows.Scan(&b.ID, &b.Name, &desc, &b.OwnerID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		b.Description = derefString(desc)
		list = append(list, &b)
		byID[b.ID] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}
	ids := make([]string, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.ID)
	}
	if err := r.loadAccountants(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadFinancialMetrics(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadMetrics(ctx, ids, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BusinessRepo) loadAccountants(ctx context.Context, ids []string, byID map[string]*entity.Business) error {
	rows, err := r.q.Query(ctx, `
		SELECT ba.business_id,
		       a.id, a.user_id, a.super_accountant_id, a.is_super_accountant, a.first_name, a.last_name,
		       a.created_at, a.updated_at,
		       u.id, u.username, u.email, u.hashed_password, u.role, u.first_name, u.last_name,
		       u.is_active, u.created_at, u.updated_at
		FROM business_accountants ba
		JOIN accountants a ON a.id = ba.accountant_id
		JOIN users u ON u.id = a.user_id
		WHERE ba.business_id = ANY($1)
		ORDER BY ba.assigned_at, a.id`, ids)
	if err != nil {
		return fmt.Errorf("load business accountants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var businessID string
		a, err := scanAccountant(prefixed{row: rows, first: &businessID})
		if err != nil {
			return fmt.Errorf("scan business accountant: %w", err)
		}
		if b := byID[businessID]; b != nil {
			b.Accountants = append(b.Accountants, a)
		}
	}
	return rows.Err()
}

func (r *BusinessRepo) loadFinancialMetrics(ctx context.Context, ids []string, byID map[string]*entity.Business) error {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (business_id)
		       id, business_id, revenue, gross_profit, net_profit, total_costs,
		       percentage_change_revenue, percentage_change_gross_profit,
		       percentage_change_net_profit, percentage_change_total_costs, created_at
		FROM business_financial_metrics
		WHERE business_id = ANY($1)
		ORDER BY business_id, created_at DESC`, ids)
	if err != nil {
		return fmt.Errorf("load financial metrics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.BusinessFinancialMetrics
		if err := rows.Scan(
			&m.ID, &m.BusinessID, &m.Revenue, &m.GrossProfit, &m.NetProfit, &m.TotalCosts,
			&m.PercentageChangeRevenue, &m.PercentageChangeGrossProfit,
			&m.PercentageChangeNetProfit, &m.PercentageChangeTotalCosts, &m.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan financial metrics: %w", err)
		}
		if b := byID[m.BusinessID]; b != nil {
			b.FinancialMetrics = &m
		}
	}
	return rows.Err()
}

func (r *BusinessRepo) loadMetrics(ctx context.Context, ids []string, byID map[string]*entity.Business) error {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (business_id)
		       id, business_id, documents_due, outstanding_invoices, pending_approvals,
		       accounting_year_end, created_at
		FROM business_metrics
		WHERE business_id = ANY($1)
		ORDER BY business_id, created_at DESC`, ids)
	if err != nil {
		return fmt.Errorf("load business metrics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.BusinessMetrics
		if err := rows.Scan(
			&m.ID, &m.BusinessID, &m.DocumentsDue, &m.OutstandingInvoices, &m.PendingApprovals,
			&m.AccountingYearEnd, &m.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan business metrics: %w", err)
		}
		if b := byID[m.BusinessID]; b != nil {
			b.Metrics = &m
		}
	}
	return rows.Err()
}

// AssignAccountant vincula el contable; ON CONFLICT DO NOTHING mantiene el conjunto sin duplicados.
func (r *BusinessRepo) AssignAccountant(ctx context.Context, businessID, accountantID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO business_accountants (business_id, accountant_id)
		VALUES ($1, $2)
		ON CONFLICT (business_id, accountant_id) DO NOTHING`, businessID, accountantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("assign accountant: %w", err)
	}
	return nil
}

// RemoveAccountant desvincula el contable; no falla si no estaba asignado.
func (r *BusinessRepo) RemoveAccountant(ctx context.Context, businessID, accountantID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM business_accountants WHERE business_id = $1 AND accountant_id = $2`, businessID, accountantID)
	if err != nil {
		return fmt.Errorf("remove accountant: %w", err)
	}
	return nil
}

// SaveFinancialMetrics agrega un snapshot financiero.
func (r *BusinessRepo) SaveFinancialMetrics(ctx context.Context, m *entity.BusinessFinancialMetrics) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO business_financial_metrics (
			id, business_id, revenue, gross_profit, net_profit, total_costs,
			percentage_change_revenue, percentage_change_gross_profit,
			percentage_change_net_profit, percentage_change_total_costs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.BusinessID, m.Revenue, m.GrossProfit, m.NetProfit, m.TotalCosts,
		m.PercentageChangeRevenue, m.PercentageChangeGrossProfit,
		m.PercentageChangeNetProfit, m.PercentageChangeTotalCosts, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert financial metrics: %w", err)
	}
	return nil
}

// SaveMetrics agrega un snapshot operativo.
func (r *BusinessRepo) SaveMetrics(ctx context.Context, m *entity.BusinessMetrics) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO business_metrics (id, business_id, documents_due, outstanding_invoices, pending_approvals, accounting_year_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.BusinessID, m.DocumentsDue, m.OutstandingInvoices, m.PendingApprovals, m.AccountingYearEnd, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business metrics: %w", err)
	}
	return nil
}

// prefixed antepone un destino extra al Scan para reutilizar scanAccountant
// con filas que traen business_id primero.
type prefixed struct {
	row   pgxScanner
	first *string
}

func (p prefixed) Scan(dest ...any) error {
	return p.row.Scan(append([]any{p.first}, dest...)...)
}
