// Package memory adaptador de persistencia en memoria: para tests y para el
// backend "memory" de la aplicación. Permite inyectar fallos de escritura
// para ejercitar la política de bloqueo total del almacén.
package memory

import (
	"errors"
	"sync"

	"github.com/jhoicas/inventario-store/internal/domain/repository"
)

var _ repository.SlotStore = (*SlotStore)(nil)

// SlotStore ranuras en un mapa protegido por mutex.
type SlotStore struct {
	mu       sync.Mutex
	slots    map[string]string
	writeErr error
}

// NewSlotStore crea el adaptador vacío.
func NewSlotStore() *SlotStore {
	return &SlotStore{slots: map[string]string{}}
}

// FailWrites hace que todo Set posterior falle con err (nil lo desactiva).
func (m *SlotStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Get devuelve el payload y si la ranura existe.
func (m *SlotStore) Get(slot string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.slots[slot]
	return payload, ok, nil
}

// Set escribe el payload completo; respeta el fallo inyectado.
func (m *SlotStore) Set(slot, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.slots[slot] = payload
	return nil
}

// Remove elimina la ranura.
func (m *SlotStore) Remove(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

// CountingSlotStore decorador que cuenta llamadas a Set; los tests lo usan
// para verificar que un documento bloqueado nunca toca el adaptador.
type CountingSlotStore struct {
	*SlotStore
	mu   sync.Mutex
	sets int
}

// NewCountingSlotStore envuelve un SlotStore nuevo.
func NewCountingSlotStore() *CountingSlotStore {
	return &CountingSlotStore{SlotStore: NewSlotStore()}
}

// Set cuenta y delega.
func (c *CountingSlotStore) Set(slot, payload string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.SlotStore.Set(slot, payload)
}

// Sets número de escrituras intentadas.
func (c *CountingSlotStore) Sets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

// ErrQuotaExceeded error de ejemplo para inyectar en tests.
var ErrQuotaExceeded = errors.New("cuota de almacenamiento excedida")
