package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountantNotFound = errors.New("accountant not found")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = errors.New("invalid role")
	ErrImmutableRole      = errors.New("root admin role cannot be changed")
	ErrNotSuperAccountant = errors.New("referenced accountant is not a super accountant")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInactiveUser       = errors.New("inactive user")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")
)
