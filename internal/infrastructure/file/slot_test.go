package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-store/internal/infrastructure/file"
)

func TestSlotStore_CicloCompleto(t *testing.T) {
	store, err := file.NewSlotStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get("inventario.doc")
	require.NoError(t, err)
	assert.False(t, ok, "ranura ausente no es error")

	require.NoError(t, store.Set("inventario.doc", `{"meta":{}}`))
	payload, ok, err := store.Get("inventario.doc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"meta":{}}`, payload)

	require.NoError(t, store.Remove("inventario.doc"))
	_, ok, err = store.Get("inventario.doc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Remove("inventario.doc"), "remover dos veces es inocuo")
}

func TestSlotStore_NombreDeRanuraSaneado(t *testing.T) {
	dir := t.TempDir()
	store, err := file.NewSlotStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("../fuera/de/lugar", "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "el payload queda dentro del directorio de datos")
	assert.Equal(t, filepath.Ext(entries[0].Name()), ".json")
}
