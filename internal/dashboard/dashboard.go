// Package dashboard contiene el estado del dashboard del cliente: resolución de
// negocios por rol, búsqueda y paginación, diálogo de asignación de contables y
// gestión de roles. No renderiza nada; la CLI y los tests consumen su estado.
package dashboard

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
	"github.com/jhoicas/apex-am/internal/domain/policy"
	"github.com/jhoicas/apex-am/internal/session"
)

// API todo lo que el dashboard necesita del backend.
type API interface {
	BusinessSource
	AssignmentAPI
	UserAPI
}

var _ API = (*client.Client)(nil)

// UserProvider fuente del usuario actual (la implementa *session.Session).
type UserProvider interface {
	RequireUser() (*dto.UserResponse, error)
}

var _ UserProvider = (*session.Session)(nil)

// Dashboard compone las vistas según las capacidades del rol del usuario.
type Dashboard struct {
	api    API
	users  UserProvider
	notify Notifier
	log    zerolog.Logger

	user       *dto.UserResponse
	caps       policy.Capabilities
	feed       *BusinessFeed
	businesses *ListView[dto.BusinessResponse]
	promotion  *PromotionController
}

func New(users UserProvider, api API, notify Notifier, log zerolog.Logger) *Dashboard {
	return &Dashboard{
		api:        api,
		users:      users,
		notify:     notifyOrDiscard(notify),
		log:        log,
		feed:       NewBusinessFeed(NewResolver(api), log),
		businesses: NewBusinessList(),
	}
}

// Load exige sesión (session.ErrLoginRequired sin llamadas de red), consulta la
// tabla de capacidades una vez y carga las vistas permitidas.
func (d *Dashboard) Load(ctx context.Context) error {
	u, err := d.users.RequireUser()
	if err != nil {
		return err
	}
	d.user = u
	d.caps = policy.Lookup(u.Role)
	if !d.caps.Recognized {
		d.log.Warn().Str("role", u.Role).Msg("rol no reconocido")
		return policy.ErrRoleNotRecognized
	}
	if err := d.RefreshBusinesses(ctx); err != nil {
		return err
	}
	if d.caps.Promote {
		d.promotion = NewPromotionController(d.api, d.notify, u.Role, d.log)
		if err := d.promotion.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RefreshBusinesses vuelve a resolver los negocios. Una respuesta descartada no es error.
func (d *Dashboard) RefreshBusinesses(ctx context.Context) error {
	if d.user == nil {
		return session.ErrLoginRequired
	}
	err := d.feed.Refresh(ctx, d.user)
	if errors.Is(err, ErrDiscarded) {
		return nil
	}
	d.businesses.SetItems(d.feed.State().Items)
	return err
}

// Capabilities capacidades del usuario cargado.
func (d *Dashboard) Capabilities() policy.Capabilities { return d.caps }

// User usuario cargado por Load.
func (d *Dashboard) User() *dto.UserResponse { return d.user }

// Tabs pestañas visibles.
func (d *Dashboard) Tabs() []policy.Tab { return append([]policy.Tab(nil), d.caps.Tabs...) }

// Businesses vista paginada de negocios.
func (d *Dashboard) Businesses() *ListView[dto.BusinessResponse] { return d.businesses }

// Feed estado de carga de negocios (banner de error incluido).
func (d *Dashboard) Feed() FeedState { return d.feed.State() }

// Promotion controlador de roles; nil si el usuario no puede promover.
func (d *Dashboard) Promotion() *PromotionController { return d.promotion }

// OpenAssignment abre el diálogo de contables del negocio. Tras cerrarlo conviene
// llamar a RefreshBusinesses para que las tarjetas reflejen el cambio.
func (d *Dashboard) OpenAssignment(ctx context.Context, businessID string) (*AssignmentDialog, error) {
	if d.user == nil {
		return nil, session.ErrLoginRequired
	}
	dlg := NewAssignmentDialog(d.api, d.notify, d.user.Role, businessID, d.log)
	if err := dlg.Open(ctx); err != nil {
		return nil, err
	}
	return dlg, nil
}

// Close desmonta las vistas: las respuestas pendientes se descartan.
func (d *Dashboard) Close() { d.feed.Detach() }
