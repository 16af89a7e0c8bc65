package dashboard

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jhoicas/apex-am/internal/application/dto"
)

// Tamaños de página fijos por vista.
const (
	BusinessPageSize = 9
	UserPageSize     = 10
)

// PageView porción visible de una lista filtrada.
type PageView[T any] struct {
	Items      []T
	Page       int // 1-based; 0 si no hay resultados
	TotalPages int
	Total      int // elementos tras el filtro
	Search     string
	Empty      bool
}

// HasNext informa si existe una página siguiente.
func (p PageView[T]) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev informa si existe una página anterior.
func (p PageView[T]) HasPrev() bool { return p.Page > 1 }

// ListView búsqueda y paginación sobre una colección. fields devuelve los
// textos de cada elemento sobre los que se busca.
type ListView[T any] struct {
	pageSize int
	fields   func(T) []string

	mu     sync.Mutex
	items  []T
	search string
	page   int
}

// NewListView crea la vista; pageSize < 1 se trata como 1.
func NewListView[T any](pageSize int, fields func(T) []string) *ListView[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &ListView[T]{pageSize: pageSize, fields: fields, page: 1}
}

// NewBusinessList lista de negocios filtrada por nombre.
func NewBusinessList() *ListView[dto.BusinessResponse] {
	return NewListView(BusinessPageSize, func(b dto.BusinessResponse) []string {
		return []string{b.Name}
	})
}

// NewUserList lista de usuarios filtrada por nombre o email.
func NewUserList() *ListView[dto.UserResponse] {
	return NewListView(UserPageSize, func(u dto.UserResponse) []string {
		return []string{strings.TrimSpace(u.FirstName + " " + u.LastName), u.Email}
	})
}

// SetItems reemplaza la colección conservando búsqueda y página (ajustada al rango).
func (v *ListView[T]) SetItems(items []T) {
	v.mu.Lock()
	v.items = append([]T(nil), items...)
	v.mu.Unlock()
}

// Items colección completa, sin filtrar.
func (v *ListView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// SetSearch cambia el término de búsqueda y vuelve a la página 1.
func (v *ListView[T]) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.page = 1
	v.mu.Unlock()
}

// SetPage salta a la página p (ajustada a [1, totalPages]).
func (v *ListView[T]) SetPage(p int) {
	v.mu.Lock()
	v.page = p
	v.mu.Unlock()
}

// Next avanza una página si es posible.
func (v *ListView[T]) Next() {
	cur := v.Current()
	if cur.HasNext() {
		v.SetPage(cur.Page + 1)
	}
}

// Prev retrocede una página si es posible.
func (v *ListView[T]) Prev() {
	cur := v.Current()
	if cur.HasPrev() {
		v.SetPage(cur.Page - 1)
	}
}

// Filtered elementos que coinciden con la búsqueda, en el orden original.
func (v *ListView[T]) Filtered() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filteredLocked()
}

// Current página visible.
func (v *ListView[T]) Current() PageView[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := v.filteredLocked()
	out := PageView[T]{Total: len(filtered), Search: v.search}
	if len(filtered) == 0 {
		out.Empty = true
		out.Items = []T{}
		return out
	}
	out.TotalPages = (len(filtered) + v.pageSize - 1) / v.pageSize
	out.Page = min(max(v.page, 1), out.TotalPages)

	start := (out.Page - 1) * v.pageSize
	end := min(start+v.pageSize, len(filtered))
	out.Items = append([]T(nil), filtered[start:end]...)
	return out
}

func (v *ListView[T]) filteredLocked() []T {
	if v.search == "" {
		return append([]T(nil), v.items...)
	}
	// Subcadena sobre el término tal cual: los espacios también cuentan.
	fold := cases.Fold()
	needle := fold.String(v.search)

	out := make([]T, 0, len(v.items))
	for _, it := range v.items {
		for _, f := range v.fields(it) {
			if strings.Contains(fold.String(f), needle) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
