package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/infrastructure/memory"
)

// fixture firma con root, un super, dos contables (uno gestionado, uno independiente) y dos negocios.
type fixture struct {
	store *memory.Store
	users *memory.UserRepo
	accs  *memory.AccountantRepo
	biz   *memory.BusinessRepo

	root, super, alice, bob    *entity.User
	superAcc, aliceAcc, bobAcc *entity.Accountant
	tech, green                *entity.Business
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	f := &fixture{
		store: s,
		users: memory.NewUserRepository(s),
		accs:  memory.NewAccountantRepository(s),
		biz:   memory.NewBusinessRepository(s),
	}
	now := time.Now()
	mkUser := func(id, email, role, first, last string) *entity.User {
		u := &entity.User{ID: id, Username: id, Email: email, Role: role, FirstName: first, LastName: last, IsActive: true, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, f.users.Create(ctx, u))
		return u
	}
	f.root = mkUser("u-root", "admin@example.com", entity.RoleRootAdmin, "Ada", "Root")
	f.super = mkUser("u-super", "super@example.com", entity.RoleSuperAccountant, "Sam", "Super")
	f.alice = mkUser("u-alice", "alice@example.com", entity.RoleAccountant, "Alice", "Smith")
	f.bob = mkUser("u-bob", "bob@example.com", entity.RoleAccountant, "Bob", "Jones")

	mkAcc := func(id string, u *entity.User, isSuper bool, superID *string) *entity.Accountant {
		a := &entity.Accountant{ID: id, UserID: u.ID, IsSuperAccountant: isSuper, SuperAccountantID: superID, FirstName: u.FirstName, LastName: u.LastName}
		require.NoError(t, f.accs.Create(ctx, a))
		return a
	}
	f.superAcc = mkAcc("a-super", f.super, true, nil)
	sid := f.superAcc.ID
	f.aliceAcc = mkAcc("a-alice", f.alice, false, &sid)
	f.bobAcc = mkAcc("a-bob", f.bob, false, nil)

	mkBiz := func(id, name string) *entity.Business {
		b := &entity.Business{ID: id, Name: name, OwnerID: f.root.ID, IsActive: true, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, f.biz.Create(ctx, b))
		return b
	}
	f.tech = mkBiz("b-tech", "Tech Solutions Inc")
	f.green = mkBiz("b-green", "Green Energy Co")
	require.NoError(t, f.biz.SaveFinancialMetrics(ctx, &entity.BusinessFinancialMetrics{
		BusinessID:              f.tech.ID,
		Revenue:                 decimal.RequireFromString("1250000"),
		NetProfit:               decimal.RequireFromString("450000"),
		PercentageChangeRevenue: decimal.RequireFromString("12.5"),
	}))
	require.NoError(t, f.biz.AssignAccountant(ctx, f.tech.ID, f.aliceAcc.ID))
	return f
}
