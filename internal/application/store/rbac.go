package store

import (
	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// Can evalúa una clave de permiso contra el usuario activo resuelto.
// Devuelve false salvo que el almacén esté inicializado, sin bloquear, sin
// solo-lectura, y el usuario activo esté activo y porte la bandera.
//
// La resolución puede corregir el puntero de usuario activo; esa corrección
// se persiste a mejor esfuerzo, por eso Can pasa por mutate.
func (s *Store) Can(permissionKey string) bool {
	allowed := false
	_ = s.mutate(func() (bool, error) {
		if !s.initialized || s.doc.Flags.Locked || s.doc.Flags.ReadOnly {
			return false, nil
		}
		u, repicked := s.resolveActiveUserLocked()
		if u == nil {
			return repicked, nil
		}
		allowed = u.Permissions.Has(permissionKey)
		if repicked {
			return true, s.writeLocked()
		}
		return false, nil
	})
	return allowed
}

// resolveActiveUserLocked resuelve el usuario activo de la sesión. Si el
// puntero apunta a un usuario ausente o inactivo, re-elige de forma
// determinista: primero un usuario activo cuyo rol coincida con el rol de
// sesión, si no el primer activo en orden de colección.
func (s *Store) resolveActiveUserLocked() (u *entity.User, repicked bool) {
	current := s.doc.FindUser(s.doc.Session.ActiveUserID)
	if current != nil && current.Active {
		return current, false
	}

	var pick *entity.User
	for _, c := range s.doc.Collections.Users {
		if c.Active && c.Role == s.doc.Session.Role {
			pick = c
			break
		}
	}
	if pick == nil {
		for _, c := range s.doc.Collections.Users {
			if c.Active {
				pick = c
				break
			}
		}
	}
	if pick == nil {
		if s.doc.Session.ActiveUserID == "" {
			return nil, false
		}
		s.doc.Session.ActiveUserID = ""
		return nil, true
	}
	s.doc.Session.ActiveUserID = pick.ID
	return pick, true
}

// repickForRoleLocked fuerza el puntero hacia un usuario activo del rol dado
// si existe; si no, cae en la resolución normal.
func (s *Store) repickForRoleLocked(role string) {
	for _, c := range s.doc.Collections.Users {
		if c.Active && c.Role == role {
			s.doc.Session.ActiveUserID = c.ID
			return
		}
	}
	s.resolveActiveUserLocked()
}

// deriveReadOnlyLocked recalcula la bandera de solo lectura: bloqueado o rol
// SYSTEM_ADMIN fuerzan solo lectura; si no, depende de que el usuario activo
// tenga algún permiso de escritura.
func (s *Store) deriveReadOnlyLocked() {
	if s.doc.Flags.Locked {
		s.doc.Flags.ReadOnly = true
		return
	}
	if s.doc.Session.Role == entity.RoleSystemAdmin {
		s.doc.Flags.ReadOnly = true
		return
	}
	u, _ := s.resolveActiveUserLocked()
	s.doc.Flags.ReadOnly = u == nil || !u.Permissions.AnyWrite()
}

// gateLocked valida que la mutación esté permitida: documento escribible y
// usuario activo con el permiso requerido. Devuelve la etiqueta de actor para
// la auditoría.
func (s *Store) gateLocked(permissionKey string) (actor string, err error) {
	if err := s.writableLocked(); err != nil {
		return "", err
	}
	u, _ := s.resolveActiveUserLocked()
	if u == nil || !u.Permissions.Has(permissionKey) {
		return "", domain.ErrPermissionDenied
	}
	return u.FirstName, nil
}
