package entity

import "time"

// Claves de permiso soportadas (conjunto fijo de banderas booleanas).
const (
	PermManageUsers    = "manageUsers"
	PermWriteInventory = "writeInventory"
	PermWriteHistory   = "writeHistory"
	PermViewDashboard  = "viewDashboard"
)

// Permissions banderas de autorización de un usuario.
type Permissions struct {
	ManageUsers    bool `json:"manageUsers"`
	WriteInventory bool `json:"writeInventory"`
	WriteHistory   bool `json:"writeHistory"`
	ViewDashboard  bool `json:"viewDashboard"`
}

// Has evalúa una clave de permiso; clave desconocida = false (fail-closed).
func (p Permissions) Has(key string) bool {
	switch key {
	case PermManageUsers:
		return p.ManageUsers
	case PermWriteInventory:
		return p.WriteInventory
	case PermWriteHistory:
		return p.WriteHistory
	case PermViewDashboard:
		return p.ViewDashboard
	}
	return false
}

// AnyWrite indica si el usuario tiene al menos un permiso de escritura;
// sin ninguno, la sesión se degrada a solo lectura.
func (p Permissions) AnyWrite() bool {
	return p.ManageUsers || p.WriteInventory || p.WriteHistory
}

// Audit sellos de creación y última modificación de un registro.
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// User representa un operador del sistema.
// FirstName es clave de unicidad: su forma normalizada (trim + case-fold)
// debe ser distinta entre todos los usuarios en todo momento.
type User struct {
	ID          string      `json:"id"` // opaco, generado al crear, nunca reutilizado
	FirstName   string      `json:"firstName"`
	Role        string      `json:"role"`
	Active      bool        `json:"active"`
	Permissions Permissions `json:"permissions"`
	Audit       Audit       `json:"audit"`
}
