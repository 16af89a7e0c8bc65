package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/entity"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

// UserAPI operaciones del backend que usa la gestión de roles.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	AssignRole(ctx context.Context, userID, newRole string, superAccountantID *string) (*dto.UserResponse, error)
}

// PromotionController pestaña "Manage Super Accountants". El cambio de rol no es
// optimista: la lista solo refleja lo que devuelve el servidor.
type PromotionController struct {
	api    UserAPI
	notify Notifier
	actor  string
	log    zerolog.Logger
	list   *ListView[dto.UserResponse]

	mu         sync.Mutex
	inProgress bool
	state      MutationState
	loadErr    string
}

func NewPromotionController(api UserAPI, notify Notifier, actorRole string, log zerolog.Logger) *PromotionController {
	return &PromotionController{
		api:    api,
		notify: notifyOrDiscard(notify),
		actor:  actorRole,
		log:    log,
		list:   NewUserList(),
	}
}

// Load pide GET /users/ y vuelca el resultado en la lista.
func (p *PromotionController) Load(ctx context.Context) error {
	users, err := p.api.ListUsers(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.loadErr = client.Message(err)
		p.list.SetItems(nil)
		p.log.Warn().Err(err).Msg("no se pudo cargar la lista de usuarios")
		return err
	}
	p.loadErr = ""
	p.list.SetItems(users)
	return nil
}

// SetRole cambia el rol del usuario entre accountant y super_accountant.
func (p *PromotionController) SetRole(ctx context.Context, userID, newRole string) error {
	if !policy.CanPromote(p.actor) {
		return domain.ErrForbidden
	}
	if !policy.IsAssignableRole(newRole) {
		return domain.ErrInvalidRole
	}
	target, ok := p.findUser(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	if target.Role == entity.RoleRootAdmin {
		return domain.ErrImmutableRole
	}
	if target.Role == newRole {
		return nil
	}

	p.mu.Lock()
	if p.inProgress {
		p.mu.Unlock()
		return ErrOperationInProgress
	}
	p.inProgress = true
	p.state = MutationInFlight
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inProgress = false
		p.mu.Unlock()
	}()

	if _, err := p.api.AssignRole(ctx, userID, newRole, nil); err != nil {
		p.mu.Lock()
		p.state = MutationRolledBack
		p.mu.Unlock()
		p.log.Warn().Err(err).Str("user_id", userID).Str("role", newRole).Msg("cambio de rol fallido")
		msg := client.Message(err)
		if msg == "" {
			msg = "Failed to update role"
		}
		p.notify.Notify(failure(msg))
		return err
	}

	p.mu.Lock()
	p.state = MutationCommitted
	p.mu.Unlock()
	p.notify.Notify(success(fmt.Sprintf("Role of %s updated to %s successfully!", target.DisplayName(), policy.RoleLabel(newRole))))

	// El nuevo rol puede cambiar qué filas se ven: se recarga y se vuelve a la página 1.
	// El cambio ya está confirmado: un fallo al refrescar queda en LoadError.
	if err := p.Load(ctx); err != nil {
		p.log.Warn().Err(err).Str("user_id", userID).Str("role", newRole).Msg("rol actualizado pero no se pudo refrescar la lista")
	}
	p.list.SetPage(1)
	return nil
}

func (p *PromotionController) findUser(id string) (dto.UserResponse, bool) {
	// Se busca en toda la colección: la fila puede estar oculta por la búsqueda.
	for _, u := range p.list.Items() {
		if u.ID == id {
			return u, true
		}
	}
	return dto.UserResponse{}, false
}

// List vista paginada de usuarios (búsqueda por nombre o email).
func (p *PromotionController) List() *ListView[dto.UserResponse] { return p.list }

// RoleBadge etiqueta del rol que la vista muestra para el usuario.
func (p *PromotionController) RoleBadge(userID string) string {
	u, ok := p.findUser(userID)
	if !ok {
		return ""
	}
	return policy.RoleLabel(u.Role)
}

// CanEdit false para root_admin (rol inmutable) o si el actor no puede promover.
func (p *PromotionController) CanEdit(u dto.UserResponse) bool {
	return policy.CanPromote(p.actor) && u.Role != entity.RoleRootAdmin
}

func (p *PromotionController) State() MutationState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *PromotionController) InProgress() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inProgress
}

func (p *PromotionController) LoadError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}
