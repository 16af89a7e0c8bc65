package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/application/usecase"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
)

func ids(list []dto.AccountantResponse) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestAccountantList_AlcancePorRol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewAccountantUseCase(f.accs)

	all, err := uc.List(ctx, f.root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a-super", "a-alice", "a-bob"}, ids(all))

	// super: gestionados por él + independientes (el propio super no tiene super).
	scoped, err := uc.List(ctx, f.super)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a-super", "a-alice", "a-bob"}, ids(scoped))

	self, err := uc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-alice"}, ids(self))
}

func TestAccountantList_SuperNoVeGestionadosDeOtro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := "a-other-super"
	require.NoError(t, f.accs.SetSuperAccountant(ctx, f.bobAcc.ID, &other))

	scoped, err := usecase.NewAccountantUseCase(f.accs).List(ctx, f.super)
	require.NoError(t, err)
	assert.NotContains(t, ids(scoped), "a-bob")
}

func TestAccountantGet_ContableSoloASiMismo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewAccountantUseCase(f.accs)

	_, err := uc.GetByID(ctx, f.alice, f.bobAcc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.GetByID(ctx, f.alice, f.aliceAcc.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.User.Email)
	assert.Equal(t, "Alice Smith", got.FullName())

	_, err = uc.GetByID(ctx, f.root, "missing")
	assert.ErrorIs(t, err, domain.ErrAccountantNotFound)
}

func TestAccountant_RolDesconocidoSinAlcance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewAccountantUseCase(f.accs)
	intern := &entity.User{ID: "u-intern", Role: "intern"}

	_, err := uc.List(ctx, intern)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(ctx, intern, f.aliceAcc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAssignSuper_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewAccountantUseCase(f.accs)

	_, err := uc.AssignSuper(ctx, f.bobAcc.ID, dto.AssignSuperRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AssignSuper(ctx, "missing", dto.AssignSuperRequest{SuperAccountantID: f.superAcc.ID})
	assert.ErrorIs(t, err, domain.ErrAccountantNotFound)

	_, err = uc.AssignSuper(ctx, f.superAcc.ID, dto.AssignSuperRequest{SuperAccountantID: f.superAcc.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AssignSuper(ctx, f.bobAcc.ID, dto.AssignSuperRequest{SuperAccountantID: f.aliceAcc.ID})
	assert.ErrorIs(t, err, domain.ErrNotSuperAccountant)

	out, err := uc.AssignSuper(ctx, f.bobAcc.ID, dto.AssignSuperRequest{SuperAccountantID: f.superAcc.ID})
	require.NoError(t, err)
	require.NotNil(t, out.SuperAccountantID)
	assert.Equal(t, f.superAcc.ID, *out.SuperAccountantID)

	out, err = uc.RemoveSuper(ctx, f.bobAcc.ID)
	require.NoError(t, err)
	assert.Nil(t, out.SuperAccountantID)
}
