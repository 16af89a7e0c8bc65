package dto

import "time"

// AccountantResponse salida de un contable con su usuario embebido.
type AccountantResponse struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	SuperAccountantID *string      `json:"super_accountant_id"`
	IsSuperAccountant bool         `json:"is_super_accountant"`
	FirstName         string       `json:"first_name,omitempty"`
	LastName          string       `json:"last_name,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	User              UserResponse `json:"user"`
}

// FullName "Nombre Apellido"; usa el email del usuario si faltan nombres.
func (a AccountantResponse) FullName() string {
	return joinName(a.FirstName, a.LastName, a.User.Email)
}

// AssignSuperRequest entrada para POST /accountants/{id}/assign-super.
type AssignSuperRequest struct {
	SuperAccountantID string `json:"super_accountant_id" validate:"required"`
}
