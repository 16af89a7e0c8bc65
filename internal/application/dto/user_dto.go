package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName "Nombre Apellido" o el email si faltan nombres.
func (u UserResponse) DisplayName() string {
	return joinName(u.FirstName, u.LastName, u.Email)
}

// AssignRoleRequest entrada para POST /users/{id}/assign-role.
type AssignRoleRequest struct {
	NewRole           string  `json:"new_role" validate:"required,oneof=accountant super_accountant"`
	SuperAccountantID *string `json:"super_accountant_id,omitempty"`
}

func joinName(first, last, fallback string) string {
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
