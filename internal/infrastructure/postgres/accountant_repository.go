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

var _ repository.AccountantRepository = (*AccountantRepo)(nil)

// AccountantRepo implementación de AccountantRepository sobre PostgreSQL.
type AccountantRepo struct {
	q Querier
}

// NewAccountantRepository construye el adaptador. Pasar pool o tx.
func NewAccountantRepository(q Querier) *AccountantRepo {
	return &AccountantRepo{q: q}
}

// accountantSelect une el contable con su usuario (listados y detalle).
const accountantSelect = `
	SELECT a.id, a.user_id, a.super_accountant_id, a.is_super_accountant, a.first_name, a.last_name,
	       a.created_at, a.updated_at,
	       u.id, u.username, u.email, u.hashed_password, u.role, u.first_name, u.last_name,
	       u.is_active, u.created_at, u.updated_at
	FROM accountants a
	JOIN users u ON u.id = a.user_id`

// Create persiste un perfil contable nuevo.
func (r *AccountantRepo) Create(ctx context.Context, a *entity.Accountant) error {
	now := time.Now()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	_, err := r.q.Exec(ctx, `
		INSERT INTO accountants (id, user_id, super_accountant_id, is_super_accountant, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.SuperAccountantID, a.IsSuperAccountant,
		nullString(a.FirstName), nullString(a.LastName), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert accountant: %w", err)
	}
	return nil
}

// GetByID obtiene un contable con su usuario.
func (r *AccountantRepo) GetByID(ctx context.Context, id string) (*entity.Accountant, error) {
	return r.getOne(ctx, accountantSelect+` WHERE a.id = $1`, id)
}

// GetByUserID obtiene el perfil contable de un usuario.
func (r *AccountantRepo) GetByUserID(ctx context.Context, userID string) (*entity.Accountant, error) {
	return r.getOne(ctx, accountantSelect+` WHERE a.user_id = $1`, userID)
}

func (r *AccountantRepo) getOne(ctx context.Context, query string, arg string) (*entity.Accountant, error) {
	a, err := scanAccountant(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get accountant: %w", err)
	}
	return a, nil
}

// List todos los contables.
func (r *AccountantRepo) List(ctx context.Context) ([]*entity.Accountant, error) {
	return r.list(ctx, accountantSelect+` ORDER BY a.created_at, a.id`)
}

// ListManagedOrIndependent contables gestionados por superID más los independientes.
func (r *AccountantRepo) ListManagedOrIndependent(ctx context.Context, superID string) ([]*entity.Accountant, error) {
	return r.list(ctx, accountantSelect+`
		WHERE a.super_accountant_id IS NULL OR a.super_accountant_id = $1
		ORDER BY a.created_at, a.id`, superID)
}

func (r *AccountantRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Accountant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accountants: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Accountant, 0)
	for rows.Next() {
		a, err := scanAccountant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan accountant: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Upsert crea o actualiza el perfil asociado a a.UserID. Los nombres vacíos no pisan los existentes.
func (r *AccountantRepo) Upsert(ctx context.Context, a *entity.Accountant) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO accountants (id, user_id, super_accountant_id, is_super_accountant, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			super_accountant_id = EXCLUDED.super_accountant_id,
			is_super_accountant = EXCLUDED.is_super_accountant,
			first_name          = COALESCE(EXCLUDED.first_name, accountants.first_name),
			last_name           = COALESCE(EXCLUDED.last_name, accountants.last_name),
			updated_at          = NOW()
		RETURNING id, created_at, updated_at`,
		a.ID, a.UserID, a.SuperAccountantID, a.IsSuperAccountant,
		nullString(a.FirstName), nullString(a.LastName),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert accountant: %w", err)
	}
	return nil
}

// SetSuperAccountant fija (o limpia con nil) el super contable que gestiona al contable.
func (r *AccountantRepo) SetSuperAccountant(ctx context.Context, id string, superID *string) error {
	tag, err := r.q.Exec(ctx, `UPDATE accountants SET super_accountant_id = $2, updated_at = NOW() WHERE id = $1`, id, superID)
	if err != nil {
		return fmt.Errorf("set super accountant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountantNotFound
	}
	return nil
}

func scanAccountant(row pgxScanner) (*entity.Accountant, error) {
	var (
		a             entity.Accountant
		u             entity.User
		aFirst, aLast *string
		uFirst, uLast *string
	)
	if err := row.Scan(
		&a.ID, &a.UserID, &a.SuperAccountantID, &a.IsSuperAccountant, &aFirst, &aLast,
		&a.CreatedAt, &a.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Role, &uFirst, &uLast,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.FirstName, a.LastName = derefString(aFirst), derefString(aLast)
	u.FirstName, u.LastName = derefString(uFirst), derefString(uLast)
	a.User = &u
	return &a, nil
}
