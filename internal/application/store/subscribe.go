package store

import "github.com/jhoicas/inventario-store/internal/application/dto"

// Subscribe registra un escucha que recibe de inmediato una instantánea
// síncrona y luego una nueva tras cada mutación exitosa (o tras el reemplazo
// por fallo de escritura). Devuelve la función para desuscribirse.
//
// La lista de escuchas se copia antes de iterar: un escucha que se desuscribe
// durante la notificación no corrompe el recorrido. El pánico de un escucha
// se aísla y nunca impide la entrega al resto ni aborta la mutación.
func (s *Store) Subscribe(listener func(dto.Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	s.listenerID++
	id := s.listenerID
	s.listeners[id] = listener
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.deliver(listener, snap)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) listenerListLocked() []func(dto.Snapshot) {
	out := make([]func(dto.Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func (s *Store) notify(targets []func(dto.Snapshot), snap dto.Snapshot) {
	for _, fn := range targets {
		s.deliver(fn, snap)
	}
}

func (s *Store) deliver(fn func(dto.Snapshot), snap dto.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Msg("escucha de suscripción falló; se descarta")
		}
	}()
	fn(snap)
}
