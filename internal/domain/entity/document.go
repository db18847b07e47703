package entity

import (
	"time"

	"github.com/jhoicas/inventario-store/internal/domain"
)

// SchemaVersion versión actual del esquema del documento persistido.
// Un payload con otra versión se rechaza en la carga (documento bloqueado).
const SchemaVersion = 1

// Roles de sesión válidos.
const (
	RoleAdmin       = "ADMIN"
	RoleManager     = "MANAGER"
	RoleStaff       = "STAFF"
	RoleSystemAdmin = "SYSTEM_ADMIN" // mantenimiento: siempre solo lectura
)

// ValidRole indica si el tag de rol pertenece al conjunto soportado.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff, RoleSystemAdmin:
		return true
	}
	return false
}

// Meta metadatos del documento raíz.
type Meta struct {
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Session rol vigente y puntero al usuario activo.
type Session struct {
	Role         string `json:"role"`
	ActiveUserID string `json:"activeUserId"`
}

// Flags estado de bloqueo del documento. Invariante: Locked implica ReadOnly.
type Flags struct {
	Locked     bool        `json:"locked"`
	LockReason string      `json:"lockReason,omitempty"`
	LockCode   domain.Kind `json:"lockCode,omitempty"`
	ReadOnly   bool        `json:"readOnly"`
}

// Collections las tres colecciones ordenadas del documento.
type Collections struct {
	Users   []*User         `json:"users"`
	Items   []*Item         `json:"items"`
	History []*HistoryEntry `json:"history"`
}

// Document agregado raíz: todo el estado durable vive aquí y se persiste
// como un único payload serializado en una sola ranura del medio externo.
type Document struct {
	Meta        Meta        `json:"meta"`
	Session     Session     `json:"session"`
	Flags       Flags       `json:"flags"`
	Collections Collections `json:"collections"`
}

// NewDocument crea un documento vacío y sano con la versión de esquema actual.
func NewDocument(role string, now time.Time) *Document {
	return &Document{
		Meta:    Meta{SchemaVersion: SchemaVersion, CreatedAt: now, UpdatedAt: now},
		Session: Session{Role: role},
		Collections: Collections{
			Users:   []*User{},
			Items:   []*Item{},
			History: []*HistoryEntry{},
		},
	}
}

// NewLockedDocument crea un documento vacío bloqueado (solo lectura forzada).
// Se usa cuando la carga falla o cuando una escritura de persistencia es
// rechazada: el estado en memoria anterior se descarta por completo.
func NewLockedDocument(code domain.Kind, reason, role string, now time.Time) *Document {
	doc := NewDocument(role, now)
	doc.Flags = Flags{Locked: true, LockCode: code, LockReason: reason, ReadOnly: true}
	return doc
}

// Clone copia profunda del documento; las instantáneas para suscriptores y
// lecturas se sirven siempre sobre clones para que nadie mute el original.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Collections.Users = make([]*User, len(d.Collections.Users))
	for i, u := range d.Collections.Users {
		cu := *u
		out.Collections.Users[i] = &cu
	}
	out.Collections.Items = make([]*Item, len(d.Collections.Items))
	for i, it := range d.Collections.Items {
		ci := *it
		out.Collections.Items[i] = &ci
	}
	out.Collections.History = make([]*HistoryEntry, len(d.Collections.History))
	for i, h := range d.Collections.History {
		ch := *h
		out.Collections.History[i] = &ch
	}
	return &out
}

// FindUser busca un usuario por ID; nil si no existe.
func (d *Document) FindUser(id string) *User {
	for _, u := range d.Collections.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindItem busca un artículo por número; nil si no existe.
func (d *Document) FindItem(articleNo string) *Item {
	for _, it := range d.Collections.Items {
		if it.ArticleNo == articleNo {
			return it
		}
	}
	return nil
}

// ActiveUserCount cantidad de usuarios activos.
func (d *Document) ActiveUserCount() int {
	n := 0
	for _, u := range d.Collections.Users {
		if u.Active {
			n++
		}
	}
	return n
}
