package dashboard

import "sync"

// NotificationType tipo de toast.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

// Notification toast transitorio mostrado al usuario.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// Notifier recibe los toasts de los controladores.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Recorder acumula notificaciones en memoria (CLI y tests).
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All copia de las notificaciones recibidas, en orden.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last última notificación; ok=false si no hay ninguna.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Drain devuelve y vacía las notificaciones pendientes.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

func notifyOrDiscard(n Notifier) Notifier {
	if n == nil {
		return NotifierFunc(func(Notification) {})
	}
	return n
}

func success(msg string) Notification { return Notification{Type: NotifySuccess, Message: msg} }

func failure(msg string) Notification { return Notification{Type: NotifyError, Message: msg} }
