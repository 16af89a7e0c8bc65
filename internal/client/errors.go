package client

import (
	"errors"
	"fmt"
)

// Kind clasifica los fallos de una llamada a la API.
type Kind string

const (
	KindAuth       Kind = "auth"       // 401 / 403
	KindNetwork    Kind = "network"    // transporte, timeout, cancelación
	KindValidation Kind = "validation" // otros 4xx con detalle del servidor
	KindServer     Kind = "server"     // 5xx
	KindParse      Kind = "parse"      // cuerpo no decodificable
)

// Error fallo tipado de la API. Message es apto para mostrarse al usuario.
type Error struct {
	Kind    Kind
	Status  int // 0 si no hubo respuesta HTTP
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf devuelve la clase del error o "" si no es un *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAuth informa si err es un fallo de autenticación/autorización.
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsUnauthorized informa si err es un 401 (token inválido o expirado).
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAuth && e.Status == 401
}

// Message extrae el mensaje visible de cualquier error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}
