// Package policy contiene la tabla de capacidades por rol. Es el único punto que
// traduce un rol a pestañas, permisos y alcance de datos; servidor y cliente la
// consultan en lugar de comparar strings de rol por todo el código.
package policy

import (
	"errors"

	"github.com/jhoicas/apex-am/internal/domain/entity"
)

// ErrRoleNotRecognized se devuelve cuando el rol del usuario no está en la tabla.
var ErrRoleNotRecognized = errors.New("role not recognized")

// Tab identificador de pestaña visible en el dashboard.
type Tab string

const (
	TabBusinesses             Tab = "businesses"
	TabManageSuperAccountants Tab = "manage_super_accountants"
)

// Scope alcance de datos (negocios o contables) que un rol puede consultar.
type Scope int

const (
	ScopeNone    Scope = iota // rol desconocido: nada
	ScopeLinked               // negocios propios o asignados al usuario
	ScopeAll                  // todo
	ScopeManaged              // contables que gestiona más los independientes
	ScopeSelf                 // solo el propio registro
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeLinked:
		return "linked"
	case ScopeManaged:
		return "managed"
	case ScopeSelf:
		return "self"
	default:
		return "none"
	}
}

// Capabilities lo que un rol puede ver y hacer.
type Capabilities struct {
	Role              string
	Label             string
	Recognized        bool
	Tabs              []Tab
	ManageAssignments bool // asignar/quitar contables de negocios, gestionar super contables
	Promote           bool // cambiar rol accountant <-> super_accountant
	ListUsers         bool
	BusinessScope     Scope
	AccountantScope   Scope
}

var table = map[string]Capabilities{
	entity.RoleRootAdmin: {
		Label:             "Root Admin",
		Tabs:              []Tab{TabBusinesses, TabManageSuperAccountants},
		ManageAssignments: true,
		Promote:           true,
		ListUsers:         true,
		BusinessScope:     ScopeAll,
		AccountantScope:   ScopeAll,
	},
	// super_accountant comparte ScopeAll con root_admin en negocios (comportamiento observado).
	entity.RoleSuperAccountant: {
		Label:             "Super Accountant",
		Tabs:              []Tab{TabBusinesses},
		ManageAssignments: true,
		ListUsers:         true,
		BusinessScope:     ScopeAll,
		AccountantScope:   ScopeManaged,
	},
	entity.RoleAccountant: {
		Label:           "Accountant",
		Tabs:            []Tab{TabBusinesses},
		BusinessScope:   ScopeLinked,
		AccountantScope: ScopeSelf,
	},
}

// Lookup devuelve las capacidades del rol. Un rol desconocido devuelve
// Recognized=false y ninguna capacidad.
func Lookup(role string) Capabilities {
	c, ok := table[role]
	if !ok {
		return Capabilities{Role: role, Label: "Unknown Role", BusinessScope: ScopeNone, AccountantScope: ScopeNone}
	}
	c.Role = role
	c.Recognized = true
	c.Tabs = append([]Tab(nil), c.Tabs...) // el llamador no debe poder mutar la tabla
	return c
}

// VisibleTabs pestañas ordenadas visibles para el rol (vacío si no se reconoce).
func VisibleTabs(role string) []Tab { return Lookup(role).Tabs }

// CanManageAssignments true para root_admin y super_accountant.
func CanManageAssignments(role string) bool { return Lookup(role).ManageAssignments }

// CanPromote true solo para root_admin.
func CanPromote(role string) bool { return Lookup(role).Promote }

// BusinessScopeFor alcance de negocios del rol.
func BusinessScopeFor(role string) Scope { return Lookup(role).BusinessScope }

// AccountantScopeFor alcance de contables visibles para el rol.
func AccountantScopeFor(role string) Scope { return Lookup(role).AccountantScope }

// RoleLabel etiqueta legible del rol ("Super Accountant").
func RoleLabel(role string) string { return Lookup(role).Label }

// IsAssignableRole roles que se pueden asignar con el control de promoción.
func IsAssignableRole(role string) bool {
	return role == entity.RoleAccountant || role == entity.RoleSuperAccountant
}
