// Package store implementa el almacén de documentos: un motor de datos en
// proceso que posee todo el estado durable (usuarios, artículos, historial)
// detrás de un único payload serializado en una ranura del medio de
// persistencia. Orquesta carga/validación/arranque/guardado, aloja la máquina
// de estados de bloqueo y expone la superficie de comandos, consultas y
// suscripción que consumen las capas de presentación.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-store/internal/application/dto"
	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
	"github.com/jhoicas/inventario-store/internal/domain/repository"
	"github.com/jhoicas/inventario-store/internal/domain/schema"
	"github.com/jhoicas/inventario-store/pkg/logger"
)

// DeleteGuard gancho de guardas referenciales previo al borrado de un
// artículo. Hoy siempre permite; punto de extensión reservado.
type DeleteGuard func(item *entity.Item) error

// Options dependencias del almacén. Solo Slot y Repo son obligatorias;
// Now y NewID se inyectan en tests para fijar tiempos e IDs.
type Options struct {
	Slot  string
	Repo  repository.SlotStore
	Log   *logger.Logger
	Now   func() time.Time
	NewID func() string
	Guard DeleteGuard
}

// Store instancia explícita del almacén (sin globales ambientales): se pasa
// por referencia a todos los colaboradores, de modo que los tests pueden
// correr varias instancias aisladas en paralelo.
//
// Toda mutación se serializa tras un único mutex exclusivo; las lecturas se
// sirven sobre instantáneas clonadas bajo esa misma sección y la notificación
// a suscriptores ocurre ya liberada.
type Store struct {
	mu    sync.Mutex
	slot  string
	repo  repository.SlotStore
	log   *logger.Logger
	now   func() time.Time
	newID func() string
	guard DeleteGuard

	doc         *entity.Document
	initialized bool
	demoSeeded  bool

	listeners  map[int]func(dto.Snapshot)
	listenerID int
}

// New construye el almacén sin cargar nada todavía; Initialize hace la carga.
func New(opts Options) *Store {
	s := &Store{
		slot:      opts.Slot,
		repo:      opts.Repo,
		log:       opts.Log,
		now:       opts.Now,
		newID:     opts.NewID,
		guard:     opts.Guard,
		listeners: map[int]func(dto.Snapshot){},
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Initialize lee la ranura del adaptador y deja el almacén operativo:
//   - ranura ausente o vacía  -> documento nuevo vacío (y arranque demo)
//   - payload válido          -> documento normalizado por el contrato
//   - payload inválido        -> documento bloqueado con el código del defecto
//
// Nunca entra en pánico por entrada externa: el peor caso es quedar en modo
// bloqueado consultable vía GetStatus.
func (s *Store) Initialize(roleHint string) error {
	role := strings.TrimSpace(roleHint)
	if role == "" {
		role = entity.RoleStaff
	}
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, roleHint)
	}

	return s.mutate(func() (bool, error) {
		now := s.now()
		payload, ok, err := s.repo.Get(s.slot)
		if err != nil {
			// lectura fallida del medio: fail-closed, documento bloqueado
			s.installLocked(domain.KindCorruptPayload, "lectura de la ranura fallida: "+err.Error(), role, now)
			return true, fmt.Errorf("%w: %v", domain.ErrCorruptPayload, err)
		}

		if !ok || strings.TrimSpace(payload) == "" {
			s.doc = entity.NewDocument(role, now)
			s.initialized = true
			s.bootstrapDemoLocked()
			s.log.Info().Str("slot", s.slot).Msg("documento nuevo inicializado")
			return true, nil
		}

		doc, verr := schema.ValidateRoot(payload, now)
		if verr != nil {
			s.installLocked(domain.KindOf(verr), verr.Error(), role, now)
			s.log.Warn().Str("slot", s.slot).Err(verr).Msg("payload rechazado por el contrato; documento bloqueado")
			return true, verr
		}

		s.doc = doc
		s.initialized = true
		s.doc.Session.Role = role
		s.resolveActiveUserLocked()
		s.deriveReadOnlyLocked()
		s.bootstrapDemoLocked()
		s.log.Info().
			Str("slot", s.slot).
			Int("users", len(doc.Collections.Users)).
			Int("items", len(doc.Collections.Items)).
			Msg("documento cargado")
		return true, nil
	})
}

// Save estampa meta.updatedAt e intenta la escritura. Rechaza en bloqueado o
// solo lectura. Ante fallo de escritura NO revierte al estado anterior en
// memoria: reemplaza el documento completo por uno bloqueado-vacío (contrato
// fail-to-safe: una escritura fallida equivale a medio no confiable).
func (s *Store) Save() error {
	return s.mutate(func() (bool, error) {
		if err := s.writableLocked(); err != nil {
			return false, err
		}
		return true, s.writeLocked()
	})
}

// ResetDemo reemplaza el documento completo por los datos demo y lo persiste.
func (s *Store) ResetDemo() error {
	return s.mutate(func() (bool, error) {
		if err := s.writableLocked(); err != nil {
			return false, err
		}
		s.doc = demoDocument(s.doc.Session.Role, s.now(), s.newID)
		s.demoSeeded = true
		s.resolveActiveUserLocked()
		s.deriveReadOnlyLocked()
		s.log.Info().Msg("documento restablecido con datos demo")
		return true, s.writeLocked()
	})
}

// SetRole cambia el rol de sesión, rederiva solo-lectura y el usuario activo,
// y persiste si procede (mejor esfuerzo: un fallo dispara el bloqueo total).
func (s *Store) SetRole(role string) error {
	return s.mutate(func() (bool, error) {
		if !s.initialized {
			return false, domain.ErrNotInitialized
		}
		if !entity.ValidRole(role) {
			return false, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
		}
		s.doc.Session.Role = role
		s.repickForRoleLocked(role)
		s.deriveReadOnlyLocked()
		if !s.doc.Flags.Locked && !s.doc.Flags.ReadOnly {
			return true, s.writeLocked()
		}
		return true, nil
	})
}

// GetState devuelve una copia profunda inmutable del documento.
func (s *Store) GetState() (*dto.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, domain.ErrNotInitialized
	}
	snap := s.snapshotLocked()
	return &snap, nil
}

// GetStatus estado derivado consultable en todo momento, incluso sin
// inicializar o bloqueado: la UI pinta un banner estable con esto.
func (s *Store) GetStatus() dto.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// ── internos ─────────────────────────────────────────────────────────────────

// mutate serializa una mutación tras el mutex y entrega la instantánea a los
// suscriptores fuera de la sección crítica. Se notifica cuando la mutación
// tuvo efecto o cuando el fallo de escritura reemplazó el documento.
func (s *Store) mutate(fn func() (changed bool, err error)) error {
	s.mu.Lock()
	changed, err := fn()
	var snap *dto.Snapshot
	var targets []func(dto.Snapshot)
	if changed || errors.Is(err, domain.ErrStorageWriteBlocked) {
		sn := s.snapshotLocked()
		snap = &sn
		targets = s.listenerListLocked()
	}
	s.mu.Unlock()

	if snap != nil {
		s.notify(targets, *snap)
	}
	return err
}

// writableLocked rechaza mutaciones sin inicializar, bloqueadas o de solo
// lectura; los tres motivos devuelven errores distinguibles.
func (s *Store) writableLocked() error {
	if !s.initialized {
		return domain.ErrNotInitialized
	}
	if s.doc.Flags.Locked {
		return fmt.Errorf("%w: %s", domain.ErrLocked, s.doc.Flags.LockReason)
	}
	if s.doc.Flags.ReadOnly {
		return domain.ErrReadOnly
	}
	return nil
}

// writeLocked estampa y escribe el documento. Ante rechazo del medio instala
// el documento bloqueado-vacío: la mutación recién intentada (incluida su
// entrada de auditoría) se pierde con él.
func (s *Store) writeLocked() error {
	s.doc.Meta.UpdatedAt = s.now()
	payload, err := json.Marshal(s.doc)
	if err != nil {
		// marshal de structs propios; si falla es invariante interna rota
		panic(fmt.Sprintf("serializar documento: %v", err))
	}
	if err := s.repo.Set(s.slot, string(payload)); err != nil {
		role := s.doc.Session.Role
		s.installLocked(domain.KindStorageWriteBlocked, "escritura rechazada por el medio: "+err.Error(), role, s.now())
		s.log.Error().Err(err).Str("slot", s.slot).Msg("escritura bloqueada; documento reemplazado por bloqueado-vacío")
		return fmt.Errorf("%w: %v", domain.ErrStorageWriteBlocked, err)
	}
	return nil
}

// installLocked instala un documento bloqueado-vacío y marca el almacén como
// inicializado (el estado bloqueado es consultable, no una excepción).
func (s *Store) installLocked(code domain.Kind, reason, role string, now time.Time) {
	s.doc = entity.NewLockedDocument(code, reason, role, now)
	s.initialized = true
}

// bootstrapDemoLocked puebla los datos demo si la colección de artículos está
// vacía y el documento no está bloqueado, e intenta persistirlos. Los
// usuarios existentes se respetan: los enlatados solo entran si no hay
// ninguno. La escritura aquí es de sistema: se hace aunque la sesión haya
// quedado en solo lectura.
func (s *Store) bootstrapDemoLocked() {
	if s.doc.Flags.Locked || len(s.doc.Collections.Items) > 0 {
		return
	}
	now := s.now()
	if len(s.doc.Collections.Users) == 0 {
		s.doc.Collections.Users = demoUsers(now, s.newID)
	}
	s.doc.Collections.Items = demoItems(now)
	s.doc.Collections.History = append(s.doc.Collections.History, bootstrapEntry(now))
	s.demoSeeded = true
	s.resolveActiveUserLocked()
	s.deriveReadOnlyLocked()
	if err := s.writeLocked(); err != nil {
		return
	}
	s.log.Info().Msg("datos demo poblados")
}

func (s *Store) statusLocked() dto.Status {
	if !s.initialized {
		return dto.Status{OK: false, ErrorKind: domain.KindNotInitialized, Reason: domain.ErrNotInitialized.Error()}
	}
	st := dto.Status{
		Locked:   s.doc.Flags.Locked,
		ReadOnly: s.doc.Flags.ReadOnly,
		Role:     s.doc.Session.Role,
		DebugInfo: fmt.Sprintf("users=%d items=%d history=%d",
			len(s.doc.Collections.Users), len(s.doc.Collections.Items), len(s.doc.Collections.History)),
	}
	switch {
	case s.doc.Flags.Locked:
		st.Status = dto.StatusCorrupt
		st.ErrorKind = s.doc.Flags.LockCode
		st.Reason = s.doc.Flags.LockReason
	case len(s.doc.Collections.Items) == 0 && !s.demoSeeded:
		st.Status = dto.StatusEmpty
		st.OK = true
	default:
		st.Status = dto.StatusOK
		st.OK = true
	}
	return st
}

func (s *Store) snapshotLocked() dto.Snapshot {
	return dto.Snapshot{Document: s.doc.Clone(), Status: s.statusLocked()}
}
