// Package file adaptador de persistencia sobre el sistema de archivos: cada
// ranura es un archivo bajo el directorio de datos. Backend por defecto de la
// aplicación.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/inventario-store/internal/domain/repository"
)

var _ repository.SlotStore = (*SlotStore)(nil)

// SlotStore ranuras como archivos .json bajo dataDir.
type SlotStore struct {
	dataDir string
}

// NewSlotStore crea el adaptador y asegura el directorio de datos.
func NewSlotStore(dataDir string) (*SlotStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos: %w", err)
	}
	return &SlotStore{dataDir: dataDir}, nil
}

// Get devuelve el payload y si la ranura existe.
func (f *SlotStore) Get(slot string) (string, bool, error) {
	data, err := os.ReadFile(f.path(slot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("leer ranura %s: %w", slot, err)
	}
	return string(data), true, nil
}

// Set escribe el payload completo de forma atómica (archivo temporal +
// rename) para que una caída a mitad de escritura no deje payload truncado.
func (f *SlotStore) Set(slot, payload string) error {
	path := f.path(slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(payload), 0o644); err != nil {
		return fmt.Errorf("escribir ranura %s: %w", slot, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publicar ranura %s: %w", slot, err)
	}
	return nil
}

// Remove elimina la ranura; ausente no es error.
func (f *SlotStore) Remove(slot string) error {
	err := os.Remove(f.path(slot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("eliminar ranura %s: %w", slot, err)
	}
	return nil
}

// path sanea el nombre de la ranura para que nunca escape del directorio.
func (f *SlotStore) path(slot string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, slot)
	return filepath.Join(f.dataDir, safe+".json")
}
