package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
	"github.com/jhoicas/apex-am/internal/domain"
	"github.com/jhoicas/apex-am/internal/domain/policy"
)

var (
	ErrOperationInProgress = errors.New("another operation is in progress")
	ErrAlreadyAllocated    = errors.New("accountant already assigned to this business")
	ErrNotAllocated        = errors.New("accountant is not assigned to this business")
	ErrUnknownAccountant   = errors.New("accountant not found")
	ErrDialogClosed        = errors.New("dialog is not open")
)

// MutationState ciclo de vida de la última mutación.
type MutationState int

const (
	MutationIdle MutationState = iota
	MutationInFlight
	MutationCommitted
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationInFlight:
		return "in_flight"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// AssignmentAPI operaciones del backend que usa el diálogo de asignación.
type AssignmentAPI interface {
	GetBusiness(ctx context.Context, id string) (*dto.BusinessResponse, error)
	ListAccountants(ctx context.Context) ([]dto.AccountantResponse, error)
	AssignAccountant(ctx context.Context, businessID, accountantID string) (*dto.MessageResponse, error)
	RemoveAccountant(ctx context.Context, businessID, accountantID string) (*dto.MessageResponse, error)
}

// AssignmentDialog estado del diálogo "Manage Accountants" de un negocio. La lista
// allocated solo cambia tras una confirmación del servidor.
type AssignmentDialog struct {
	api        AssignmentAPI
	notify     Notifier
	actorRole  string
	businessID string
	log        zerolog.Logger

	mu         sync.Mutex
	open       bool
	business   dto.BusinessResponse
	pool       []dto.AccountantResponse
	allocated  []dto.AccountantResponse
	available  []dto.AccountantResponse
	inProgress bool
	state      MutationState
	loadErr    string
}

// NewAssignmentDialog crea el diálogo para businessID; actorRole decide si se permiten mutaciones.
func NewAssignmentDialog(api AssignmentAPI, notify Notifier, actorRole, businessID string, log zerolog.Logger) *AssignmentDialog {
	return &AssignmentDialog{
		api:        api,
		notify:     notifyOrDiscard(notify),
		actorRole:  actorRole,
		businessID: businessID,
		log:        log.With().Str("business_id", businessID).Logger(),
	}
}

// Open carga en paralelo el negocio y el pool de contables. Con una mutación en
// curso devuelve ErrOperationInProgress y no toca el estado.
func (d *AssignmentDialog) Open(ctx context.Context) error {
	if d.InProgress() {
		return ErrOperationInProgress
	}
	business, pool, err := d.fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inProgress {
		return ErrOperationInProgress
	}
	if err != nil {
		d.loadErr = client.Message(err)
		d.open = false
		return err
	}
	d.open = true
	d.loadErr = ""
	d.state = MutationIdle
	d.applyLocked(business, pool)
	return nil
}

// Close cierra el diálogo salvo que haya una mutación en curso.
func (d *AssignmentDialog) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inProgress {
		return ErrOperationInProgress
	}
	d.open = false
	return nil
}

// Add asigna el contable al negocio.
func (d *AssignmentDialog) Add(ctx context.Context, accountantID string) error {
	acc, err := d.begin(func() (dto.AccountantResponse, error) {
		if containsAccountant(d.allocated, accountantID) {
			return dto.AccountantResponse{}, ErrAlreadyAllocated
		}
		a, ok := findAccountant(d.pool, accountantID)
		if !ok {
			return dto.AccountantResponse{}, ErrUnknownAccountant
		}
		return a, nil
	})
	if err != nil {
		return err
	}

	if _, err := d.api.AssignAccountant(ctx, d.businessID, accountantID); err != nil {
		d.rollback(err, "Failed to add accountant")
		return err
	}

	d.mu.Lock()
	d.allocated = append(d.allocated, acc)
	d.available = availableFrom(d.pool, d.allocated)
	d.state = MutationCommitted
	d.mu.Unlock()
	d.notify.Notify(success(fmt.Sprintf("Accountant %s added successfully!", acc.FullName())))

	d.reconcile(ctx)
	return nil
}

// Remove quita el contable del negocio.
func (d *AssignmentDialog) Remove(ctx context.Context, accountantID string) error {
	acc, err := d.begin(func() (dto.AccountantResponse, error) {
		a, ok := findAccountant(d.allocated, accountantID)
		if !ok {
			return dto.AccountantResponse{}, ErrNotAllocated
		}
		return a, nil
	})
	if err != nil {
		return err
	}

	if _, err := d.api.RemoveAccountant(ctx, d.businessID, accountantID); err != nil {
		d.rollback(err, "Failed to remove accountant")
		return err
	}

	d.mu.Lock()
	d.allocated = withoutAccountant(d.allocated, accountantID)
	d.available = availableFrom(d.pool, d.allocated)
	d.state = MutationCommitted
	d.mu.Unlock()
	d.notify.Notify(success(fmt.Sprintf("Accountant %s removed successfully!", acc.FullName())))

	d.reconcile(ctx)
	return nil
}

// begin valida precondiciones y activa la guarda in-progress.
func (d *AssignmentDialog) begin(check func() (dto.AccountantResponse, error)) (dto.AccountantResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return dto.AccountantResponse{}, ErrDialogClosed
	}
	if d.inProgress {
		return dto.AccountantResponse{}, ErrOperationInProgress
	}
	if !policy.CanManageAssignments(d.actorRole) {
		return dto.AccountantResponse{}, domain.ErrForbidden
	}
	acc, err := check()
	if err != nil {
		return dto.AccountantResponse{}, err
	}
	d.inProgress = true
	d.state = MutationInFlight
	return acc, nil
}

func (d *AssignmentDialog) rollback(err error, fallback string) {
	d.mu.Lock()
	d.inProgress = false
	d.state = MutationRolledBack
	d.mu.Unlock()

	d.log.Warn().Err(err).Msg("mutación de asignación fallida")
	msg := client.Message(err)
	if msg == "" {
		msg = fallback
	}
	d.notify.Notify(failure(msg))
}

// reconcile vuelve a pedir negocio y pool tras una mutación confirmada. Si falla
// se conserva el estado local ya confirmado.
func (d *AssignmentDialog) reconcile(ctx context.Context) {
	business, pool, err := d.fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inProgress = false
	if err != nil {
		d.log.Warn().Err(err).Msg("no se pudo refrescar el diálogo tras la mutación")
		return
	}
	d.applyLocked(business, pool)
}

func (d *AssignmentDialog) fetch(ctx context.Context) (*dto.BusinessResponse, []dto.AccountantResponse, error) {
	var (
		business *dto.BusinessResponse
		pool     []dto.AccountantResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := d.api.GetBusiness(gctx, d.businessID)
		business = b
		return err
	})
	g.Go(func() error {
		p, err := d.api.ListAccountants(gctx)
		pool = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return business, pool, nil
}

func (d *AssignmentDialog) applyLocked(business *dto.BusinessResponse, pool []dto.AccountantResponse) {
	if business != nil {
		d.business = *business
		d.allocated = dedupeAccountants(business.Accountants)
	}
	d.pool = append([]dto.AccountantResponse(nil), pool...)
	d.available = availableFrom(d.pool, d.allocated)
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (d *AssignmentDialog) Business() dto.BusinessResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.business
}

func (d *AssignmentDialog) Allocated() []dto.AccountantResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dto.AccountantResponse{}, d.allocated...)
}

func (d *AssignmentDialog) Available() []dto.AccountantResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dto.AccountantResponse{}, d.available...)
}

func (d *AssignmentDialog) State() MutationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *AssignmentDialog) InProgress() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inProgress
}

// CanClose false mientras haya una mutación en vuelo.
func (d *AssignmentDialog) CanClose() bool { return !d.InProgress() }

// CanManage informa si el actor ve los controles de añadir/quitar.
func (d *AssignmentDialog) CanManage() bool { return policy.CanManageAssignments(d.actorRole) }

// LoadError mensaje del último fallo de Open.
func (d *AssignmentDialog) LoadError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadErr
}

// ── helpers ───────────────────────────────────────────────────────────────────

func findAccountant(list []dto.AccountantResponse, id string) (dto.AccountantResponse, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return dto.AccountantResponse{}, false
}

func containsAccountant(list []dto.AccountantResponse, id string) bool {
	_, ok := findAccountant(list, id)
	return ok
}

func withoutAccountant(list []dto.AccountantResponse, id string) []dto.AccountantResponse {
	out := make([]dto.AccountantResponse, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func dedupeAccountants(list []dto.AccountantResponse) []dto.AccountantResponse {
	seen := make(map[string]struct{}, len(list))
	out := make([]dto.AccountantResponse, 0, len(list))
	for _, a := range list {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

// availableFrom pool menos los asignados, en el orden del pool.
func availableFrom(pool, allocated []dto.AccountantResponse) []dto.AccountantResponse {
	out := make([]dto.AccountantResponse, 0, len(pool))
	for _, a := range pool {
		if !containsAccountant(allocated, a.ID) {
			out = append(out, a)
		}
	}
	return out
}
