package dashboard_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
	"github.com/jhoicas/apex-am/internal/dashboard"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

func TestResolve_PorRol(t *testing.T) {
	cases := []struct {
		name      string
		user      *dto.UserResponse
		wantCall  string
		wantCount int
	}{
		{"root_admin pide todos", rootUser, "ListBusinesses", 12},
		{"super_accountant pide todos", superUser, "ListBusinesses", 12},
		{"accountant pide los vinculados", janeUser, "UserBusinesses", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI()
			got, err := dashboard.NewResolver(api).Resolve(context.Background(), tc.user)
			require.NoError(t, err)
			assert.Len(t, got, tc.wantCount)
			assert.Equal(t, 1, api.count(tc.wantCall))
			assert.Equal(t, 1, api.total())
		})
	}
}

func TestResolve_RolDesconocidoSinRed(t *testing.T) {
	api := newFakeAPI()
	_, err := dashboard.NewResolver(api).Resolve(context.Background(), &dto.UserResponse{ID: "x", Role: "intern"})
	assert.ErrorIs(t, err, policy.ErrRoleNotRecognized)
	assert.Zero(t, api.total())
}

// gatedSource deja cada petición pendiente hasta que el test la responde.
type gatedSource struct {
	calls chan chan []dto.BusinessResponse
}

func (g *gatedSource) ListBusinesses(ctx context.Context) ([]dto.BusinessResponse, error) {
	reply := make(chan []dto.BusinessResponse)
	g.calls <- reply
	return <-reply, nil
}

func (g *gatedSource) UserBusinesses(ctx context.Context, _ string) ([]dto.BusinessResponse, error) {
	return g.ListBusinesses(ctx)
}

func TestBusinessFeed_GanaLaUltimaPeticion(t *testing.T) {
	src := &gatedSource{calls: make(chan chan []dto.BusinessResponse)}
	feed := dashboard.NewBusinessFeed(dashboard.NewResolver(src), zerolog.Nop())
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { errs <- feed.Refresh(ctx, rootUser) }()
	first := <-src.calls
	go func() { errs <- feed.Refresh(ctx, rootUser) }()
	second := <-src.calls

	// La petición más nueva responde primero; la vieja llega después y se descarta.
	second <- []dto.BusinessResponse{{ID: "new"}}
	require.NoError(t, <-errs)
	first <- []dto.BusinessResponse{{ID: "old"}}
	assert.ErrorIs(t, <-errs, dashboard.ErrDiscarded)

	st := feed.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "new", st.Items[0].ID)
	assert.False(t, st.Loading)
}

func TestBusinessFeed_OrdenDeLlegadaNoImporta(t *testing.T) {
	src := &gatedSource{calls: make(chan chan []dto.BusinessResponse)}
	feed := dashboard.NewBusinessFeed(dashboard.NewResolver(src), zerolog.Nop())
	ctx := context.Background()

	errs := make(chan error, 2)
	go func() { errs <- feed.Refresh(ctx, rootUser) }()
	first := <-src.calls
	go func() { errs <- feed.Refresh(ctx, rootUser) }()
	second := <-src.calls

	first <- []dto.BusinessResponse{{ID: "old"}}
	assert.ErrorIs(t, <-errs, dashboard.ErrDiscarded)
	assert.True(t, feed.State().Loading)
	second <- []dto.BusinessResponse{{ID: "new"}}
	require.NoError(t, <-errs)

	assert.Equal(t, "new", feed.State().Items[0].ID)
}

func TestBusinessFeed_DetachDescartaRespuesta(t *testing.T) {
	src := &gatedSource{calls: make(chan chan []dto.BusinessResponse)}
	feed := dashboard.NewBusinessFeed(dashboard.NewResolver(src), zerolog.Nop())

	errs := make(chan error, 1)
	go func() { errs <- feed.Refresh(context.Background(), rootUser) }()
	pending := <-src.calls
	feed.Detach()
	pending <- []dto.BusinessResponse{{ID: "late"}}

	assert.ErrorIs(t, <-errs, dashboard.ErrDiscarded)
	assert.Empty(t, feed.State().Items)
	assert.ErrorIs(t, feed.Refresh(context.Background(), rootUser), dashboard.ErrDiscarded)
}

func TestBusinessFeed_ErrorVaciaLaLista(t *testing.T) {
	api := newFakeAPI()
	feed := dashboard.NewBusinessFeed(dashboard.NewResolver(api), zerolog.Nop())
	require.NoError(t, feed.Refresh(context.Background(), rootUser))
	require.Len(t, feed.State().Items, 12)

	api.listErr = &client.Error{Kind: client.KindServer, Status: 500, Message: "Internal server error"}
	err := feed.Refresh(context.Background(), rootUser)
	require.Error(t, err)

	st := feed.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, "Internal server error", st.Error)
}

func TestBusinessFeed_RolDesconocidoMuestraEstadoExplicito(t *testing.T) {
	feed := dashboard.NewBusinessFeed(dashboard.NewResolver(newFakeAPI()), zerolog.Nop())
	err := feed.Refresh(context.Background(), &dto.UserResponse{Role: "guest"})
	assert.ErrorIs(t, err, policy.ErrRoleNotRecognized)
	assert.Equal(t, "Role not recognized", feed.State().Error)
}
