package store

import (
	"fmt"

	"github.com/jhoicas/inventario-store/internal/application/dto"
	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
	"github.com/jhoicas/inventario-store/internal/domain/schema"
)

// UsersRegistry fachada CRUD sobre la colección de usuarios; aplica las
// invariantes de entidad (unicidad de nombre, piso de usuarios activos) vía
// el contrato de esquema.
type UsersRegistry struct {
	s *Store
}

// Users acceso a la fachada de usuarios.
func (s *Store) Users() *UsersRegistry {
	return &UsersRegistry{s: s}
}

// Create crea un usuario con ID fresco. Exige el permiso de gestión de
// usuarios y unicidad del nombre (insensible a trim y mayúsculas) contra
// todos los existentes.
func (r *UsersRegistry) Create(firstName string, perms dto.PermissionsPatch) (*entity.User, error) {
	var created *entity.User
	err := r.s.mutate(func() (bool, error) {
		actor, err := r.s.gateLocked(entity.PermManageUsers)
		if err != nil {
			return false, err
		}
		name, err := schema.ValidateUserName(firstName)
		if err != nil {
			return false, err
		}
		if r.findByFoldedNameLocked(name, "") != nil {
			return false, fmt.Errorf("%w: %q", domain.ErrUserNameNotUnique, name)
		}

		now := r.s.now()
		u := &entity.User{
			ID:          r.s.newID(),
			FirstName:   name,
			Role:        entity.RoleStaff,
			Active:      true,
			Permissions: applyPermissions(perms),
			Audit:       entity.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor},
		}
		r.s.doc.Collections.Users = append(r.s.doc.Collections.Users, u)
		r.s.appendHistoryLocked(entity.EventUserCreated, "", 0, actor, "usuario "+name)
		if err := r.s.writeLocked(); err != nil {
			return true, err
		}
		cu := *u
		created = &cu
		return true, nil
	})
	return created, err
}

// Update aplica un parche a un usuario. El conjunto de permisos se reemplaza
// completo (no se mezcla); viewDashboard vale true si el parche no lo trae.
func (r *UsersRegistry) Update(id string, patch dto.UserPatch) (*entity.User, error) {
	var updated *entity.User
	err := r.s.mutate(func() (bool, error) {
		actor, err := r.s.gateLocked(entity.PermManageUsers)
		if err != nil {
			return false, err
		}
		u := r.s.doc.FindUser(id)
		if u == nil {
			return false, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}

		name := u.FirstName
		if patch.FirstName != nil {
			name, err = schema.ValidateUserName(*patch.FirstName)
			if err != nil {
				return false, err
			}
			if r.findByFoldedNameLocked(name, u.ID) != nil {
				return false, fmt.Errorf("%w: %q", domain.ErrUserNameNotUnique, name)
			}
		}
		role := u.Role
		if patch.Role != nil {
			if !entity.ValidRole(*patch.Role) {
				return false, fmt.Errorf("%w: %q", domain.ErrInvalidRole, *patch.Role)
			}
			role = *patch.Role
		}

		u.FirstName = name
		u.Role = role
		if patch.Permissions != nil {
			u.Permissions = applyPermissions(*patch.Permissions)
		}
		u.Audit.UpdatedAt = r.s.now()
		u.Audit.UpdatedBy = actor

		// los permisos del usuario activo pudieron cambiar
		r.s.deriveReadOnlyLocked()
		r.s.appendHistoryLocked(entity.EventUserUpdated, "", 0, actor, "usuario "+name)
		if err := r.s.writeLocked(); err != nil {
			return true, err
		}
		cu := *u
		updated = &cu
		return true, nil
	})
	return updated, err
}

// SetActive activa o desactiva un usuario. Desactivar al último activo se
// rechaza siempre (el piso de un usuario activo nunca se rompe); desactivar
// al usuario de la sesión dispara la re-elección determinista.
func (r *UsersRegistry) SetActive(id string, active bool) error {
	return r.s.mutate(func() (bool, error) {
		actor, err := r.s.gateLocked(entity.PermManageUsers)
		if err != nil {
			return false, err
		}
		u := r.s.doc.FindUser(id)
		if u == nil {
			return false, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		if u.Active == active {
			return false, nil
		}
		if !active && r.s.doc.ActiveUserCount() == 1 {
			return false, domain.ErrLastActiveUser
		}

		u.Active = active
		u.Audit.UpdatedAt = r.s.now()
		u.Audit.UpdatedBy = actor
		event := entity.EventUserActivated
		if !active {
			event = entity.EventUserDeactivated
		}
		if !active && r.s.doc.Session.ActiveUserID == u.ID {
			r.s.resolveActiveUserLocked()
		}
		r.s.deriveReadOnlyLocked()
		r.s.appendHistoryLocked(event, "", 0, actor, "usuario "+u.FirstName)
		return true, r.s.writeLocked()
	})
}

// List devuelve copias de todos los usuarios en orden de colección.
// Solo exige inicialización, ningún permiso.
func (r *UsersRegistry) List() ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.initialized {
		return nil, domain.ErrNotInitialized
	}
	out := make([]*entity.User, 0, len(r.s.doc.Collections.Users))
	for _, u := range r.s.doc.Collections.Users {
		cu := *u
		out = append(out, &cu)
	}
	return out, nil
}

func (r *UsersRegistry) findByFoldedNameLocked(name, excludeID string) *entity.User {
	folded := schema.FoldName(name)
	for _, u := range r.s.doc.Collections.Users {
		if u.ID != excludeID && schema.FoldName(u.FirstName) == folded {
			return u
		}
	}
	return nil
}

// applyPermissions materializa el reemplazo completo del conjunto de
// permisos; viewDashboard por defecto true si no viene especificado.
func applyPermissions(p dto.PermissionsPatch) entity.Permissions {
	view := true
	if p.ViewDashboard != nil {
		view = *p.ViewDashboard
	}
	return entity.Permissions{
		ManageUsers:    p.ManageUsers,
		WriteInventory: p.WriteInventory,
		WriteHistory:   p.WriteHistory,
		ViewDashboard:  view,
	}
}
