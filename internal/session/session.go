// Package session mantiene el estado de autenticación del cliente: token
// persistido y usuario actual cargado desde /users/me.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/apex-am/internal/application/dto"
	"github.com/jhoicas/apex-am/internal/client"
)

// ErrLoginRequired no hay sesión: la vista debe redirigir al login.
var ErrLoginRequired = errors.New("login required")

// API operaciones del backend que necesita la sesión (la implementa *client.Client).
type API interface {
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	CurrentUser(ctx context.Context) (*dto.UserResponse, error)
}

var _ API = (*client.Client)(nil)

// Session objeto de sesión explícito; seguro para uso concurrente.
type Session struct {
	store TokenStore
	api   API
	log   zerolog.Logger

	mu      sync.RWMutex
	user    *dto.UserResponse
	lastErr string
}

// New crea la sesión (sin usuario hasta Init o Login).
func New(store TokenStore, api API, log zerolog.Logger) *Session {
	return &Session{store: store, api: api, log: log}
}

// Init restaura la sesión desde el token guardado. Sin token no hay llamada de red.
// Un fallo de autenticación borra el token; un fallo de red lo conserva.
func (s *Session) Init(ctx context.Context) error {
	tok, err := s.store.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo leer el token guardado")
	}
	if tok == "" {
		s.setUser(nil, "")
		return nil
	}
	u, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("no se pudo restaurar la sesión")
		if client.IsAuth(err) {
			s.clearToken()
			s.setUser(nil, "")
			return nil
		}
		s.setUser(nil, client.Message(err))
		return err
	}
	s.setUser(u, "")
	return nil
}

// Login autentica, guarda el token y carga el usuario. Si algo falla deja la
// sesión cerrada y devuelve el error.
func (s *Session) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.setUser(nil, "Email and password are required")
		return &client.Error{Kind: client.KindValidation, Message: "Email and password are required"}
	}

	tok, err := s.api.Login(ctx, email, password)
	if err == nil {
		err = s.store.Save(tok.AccessToken)
	}
	var u *dto.UserResponse
	if err == nil {
		u, err = s.api.CurrentUser(ctx)
	}
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("login fallido")
		s.clearToken()
		s.setUser(nil, client.Message(err))
		return err
	}
	s.log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("sesión iniciada")
	s.setUser(u, "")
	return nil
}

// Logout borra token y usuario.
func (s *Session) Logout() {
	s.clearToken()
	s.setUser(nil, "")
}

// User usuario actual o nil.
func (s *Session) User() *dto.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// RequireUser devuelve el usuario o ErrLoginRequired.
func (s *Session) RequireUser() (*dto.UserResponse, error) {
	if u := s.User(); u != nil {
		return u, nil
	}
	return nil, ErrLoginRequired
}

// LastError mensaje del último fallo de Init/Login ("" si no hubo).
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Session) setUser(u *dto.UserResponse, errMsg string) {
	s.mu.Lock()
	s.user = u
	s.lastErr = errMsg
	s.mu.Unlock()
}

func (s *Session) clearToken() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo borrar el token")
	}
}
