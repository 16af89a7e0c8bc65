// Package memory implementa los puertos de persistencia en memoria. Se usa en
// pruebas de casos de uso y handlers y en el modo demo del servidor (APP_STORAGE=memory).
package memory

import (
	"sync"

	"github.com/jhoicas/apex-am/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*entity.User
	accountants map[string]*entity.Accountant
	businesses  map[string]*entity.Business
	order       []string                   // orden de inserción de negocios
	assigned    map[string]map[string]bool // businessID -> accountantIDs
	assignOrder map[string][]string
	financial   map[string]*entity.BusinessFinancialMetrics
	metrics     map[string]*entity.BusinessMetrics
	userOrder   []string
	accOrder    []string
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*entity.User),
		accountants: make(map[string]*entity.Accountant),
		businesses:  make(map[string]*entity.Business),
		assigned:    make(map[string]map[string]bool),
		assignOrder: make(map[string][]string),
		financial:   make(map[string]*entity.BusinessFinancialMetrics),
		metrics:     make(map[string]*entity.BusinessMetrics),
	}
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// accountantLocked devuelve una copia con el User embebido; requiere mu tomado.
func (s *Store) accountantLocked(id string) *entity.Accountant {
	a, ok := s.accountants[id]
	if !ok {
		return nil
	}
	c := *a
	if a.SuperAccountantID != nil {
		sid := *a.SuperAccountantID
		c.SuperAccountantID = &sid
	}
	c.User = cloneUser(s.users[a.UserID])
	return &c
}

// businessLocked devuelve una copia con contables y métricas; requiere mu tomado.
func (s *Store) businessLocked(id string) *entity.Business {
	b, ok := s.businesses[id]
	if !ok {
		return nil
	}
	c := *b
	c.Accountants = nil
	for _, accID := range s.assignOrder[id] {
		if s.assigned[id][accID] {
			if a := s.accountantLocked(accID); a != nil {
				c.Accountants = append(c.Accountants, a)
			}
		}
	}
	if fm, ok := s.financial[id]; ok {
		cp := *fm
		c.FinancialMetrics = &cp
	}
	if m, ok := s.metrics[id]; ok {
		cp := *m
		c.Metrics = &cp
	}
	return &c
}
