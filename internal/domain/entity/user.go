package entity

import "time"

// Roles válidos para User.
const (
	RoleRootAdmin       = "root_admin"
	RoleSuperAccountant = "super_accountant"
	RoleAccountant      = "accountant"
)

// User representa una cuenta del sistema. El rol es autoritativo en el servidor.
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string // bcrypt hash, nunca plano en dominio después de persistir
	Role           string // root_admin, super_accountant, accountant
	FirstName      string
	LastName       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName devuelve "Nombre Apellido" o el email si no hay nombre.
func (u *User) FullName() string {
	return displayName(u.FirstName, u.LastName, u.Email)
}

func displayName(first, last, fallback string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	default:
		return fallback
	}
}
