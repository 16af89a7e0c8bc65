package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

// ErrDiscarded la respuesta llegó tarde (hay una petición más nueva o la vista se desmontó).
var ErrDiscarded = errors.New("response discarded")

// BusinessSource lecturas de negocios que usa el resolver.
type BusinessSource interface {
	ListBusinesses(ctx context.Context) ([]dto.BusinessResponse, error)
	UserBusinesses(ctx context.Context, userID string) ([]dto.BusinessResponse, error)
}

// Resolver decide qué negocios pedir según el rol del usuario.
type Resolver struct {
	api BusinessSource
}

func NewResolver(api BusinessSource) *Resolver { return &Resolver{api: api} }

// Resolve root_admin y super_accountant piden todos los negocios; accountant solo
// los vinculados. Un rol desconocido no genera llamada de red.
func (r *Resolver) Resolve(ctx context.Context, user *dto.UserResponse) ([]dto.BusinessResponse, error) {
	if user == nil {
		return nil, policy.ErrRoleNotRecognized
	}
	switch policy.BusinessScopeFor(user.Role) {
	case policy.ScopeAll:
		return r.api.ListBusinesses(ctx)
	case policy.ScopeLinked:
		return r.api.UserBusinesses(ctx, user.ID)
	default:
		return nil, policy.ErrRoleNotRecognized
	}
}

// FeedState estado visible de la lista de negocios.
type FeedState struct {
	Items   []dto.BusinessResponse
	Error   string // banner inline; "" si la última carga fue correcta
	Loading bool
}

// BusinessFeed aplica solo la respuesta de la última petición emitida.
type BusinessFeed struct {
	resolver *Resolver
	log      zerolog.Logger

	mu       sync.Mutex
	issued   uint64
	detached bool
	state    FeedState
}

func NewBusinessFeed(resolver *Resolver, log zerolog.Logger) *BusinessFeed {
	return &BusinessFeed{resolver: resolver, log: log}
}

// Refresh resuelve los negocios del usuario. Devuelve ErrDiscarded si al llegar
// la respuesta ya no es la última o la vista está desmontada.
func (f *BusinessFeed) Refresh(ctx context.Context, user *dto.UserResponse) error {
	f.mu.Lock()
	if f.detached {
		f.mu.Unlock()
		return ErrDiscarded
	}
	f.issued++
	ticket := f.issued
	f.state.Loading = true
	f.mu.Unlock()

	items, err := f.resolver.Resolve(ctx, user)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detached || ticket != f.issued {
		f.log.Debug().Uint64("ticket", ticket).Msg("respuesta de negocios descartada")
		return ErrDiscarded
	}
	f.state.Loading = false
	if err != nil {
		f.state.Items = nil
		f.state.Error = feedErrorMessage(err)
		f.log.Warn().Err(err).Msg("no se pudieron cargar los negocios")
		return err
	}
	if items == nil {
		items = []dto.BusinessResponse{}
	}
	f.state.Items = items
	f.state.Error = ""
	return nil
}

// State copia del estado actual.
func (f *BusinessFeed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Items = append([]dto.BusinessResponse(nil), f.state.Items...)
	return s
}

// Detach marca la vista como desmontada.
func (f *BusinessFeed) Detach() {
	f.mu.Lock()
	f.detached = true
	f.state.Loading = false
	f.mu.Unlock()
}

func feedErrorMessage(err error) string {
	if errors.Is(err, policy.ErrRoleNotRecognized) {
		return "Role not recognized"
	}
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return "Failed to load businesses"
}
