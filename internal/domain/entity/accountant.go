package entity

import "time"

// Accountant es el perfil contable de un usuario no root (1:1 con User vía UserID).
// IsSuperAccountant debe coincidir con User.Role == RoleSuperAccountant.
type Accountant struct {
	ID                string
	UserID            string
	SuperAccountantID *string // super contable que lo gestiona; nil = independiente
	IsSuperAccountant bool
	FirstName         string
	LastName          string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// User se carga junto al contable en los listados (email y rol para la UI).
	User *User
}

// FullName devuelve "Nombre Apellido"; si no hay nombres usa el email del usuario.
func (a *Accountant) FullName() string {
	fallback := a.ID
	if a.User != nil {
		fallback = a.User.Email
	}
	return displayName(a.FirstName, a.LastName, fallback)
}

// IsManagedBy informa si el contable está bajo el super contable indicado.
func (a *Accountant) IsManagedBy(superAccountantID string) bool {
	return a.SuperAccountantID != nil && *a.SuperAccountantID == superAccountantID
}
