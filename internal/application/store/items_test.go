package store_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-store/internal/application/dto"
	"github.com/jhoicas/inventario-store/internal/application/store"
	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
	"github.com/jhoicas/inventario-store/internal/domain/schema"
	"github.com/jhoicas/inventario-store/internal/infrastructure/memory"
)

func validItemInput(articleNo string) schema.ItemInput {
	return schema.ItemInput{
		ArticleNo:  articleNo,
		PackSize:   "10 kg",
		Supplier:   "S",
		Category:   "C",
		PricePerKg: decimal.NewFromInt(10),
		MinLevel:   5,
		TempClass:  entity.TempFrozen,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario C: crear dos veces el mismo número de artículo.
// ──────────────────────────────────────────────────────────────────────────────

func TestItemsCreate_ArticleNoDuplicado(t *testing.T) {
	st, _ := initializedStore(t)
	base := len(mustItems(t, st))

	created, err := st.Items().Create(validItemInput("FZ-001"))
	require.NoError(t, err)
	assert.Equal(t, "FZ-001", created.ArticleNo)
	assert.Zero(t, created.OnHand, "onHand arranca en cero")

	_, err = st.Items().Create(validItemInput("FZ-001"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemArticleNoNotUnique)
	assert.Len(t, mustItems(t, st), base+1, "el conteo sube exactamente en uno")
}

func TestItemsCreate_NormalizaLaClave(t *testing.T) {
	st, _ := initializedStore(t)
	created, err := st.Items().Create(validItemInput("  fz-002 "))
	require.NoError(t, err)
	assert.Equal(t, "FZ-002", created.ArticleNo)

	// duplicado con otra capitalización también choca
	_, err = st.Items().Create(validItemInput("fz-002"))
	assert.ErrorIs(t, err, domain.ErrItemArticleNoNotUnique)
}

func TestItemsCreate_AgregaAuditoria(t *testing.T) {
	st, _ := initializedStore(t)
	before := len(mustHistory(t, st))

	_, err := st.Items().Create(validItemInput("FZ-003"))
	require.NoError(t, err)

	history := mustHistory(t, st)
	require.Len(t, history, before+1, "exactamente una entrada por mutación")
	last := history[len(history)-1]
	assert.Equal(t, entity.EventItemCreated, last.Event)
	assert.Equal(t, "FZ-003", last.ArticleNo)
	assert.Equal(t, "Ana", last.Actor, "la etiqueta de actor es el usuario activo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Inmutabilidad de la clave
// ──────────────────────────────────────────────────────────────────────────────

func TestItemsUpdate_ArticleNoInmutable(t *testing.T) {
	st, _ := initializedStore(t)

	otro := "FZ-999"
	_, err := st.Items().Update("FZ-100", dto.ItemPatch{ArticleNo: &otro})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemArticleNoImmutable)

	snap, err := st.GetState()
	require.NoError(t, err)
	assert.NotNil(t, snap.Document.FindItem("FZ-100"), "el registro queda intacto")
	assert.Nil(t, snap.Document.FindItem("FZ-999"))
}

func TestItemsUpdate_MismaClaveNoEsCambio(t *testing.T) {
	st, _ := initializedStore(t)

	mismo := " fz-100 "
	supplier := "Proveedor Nuevo"
	updated, err := st.Items().Update("FZ-100", dto.ItemPatch{ArticleNo: &mismo, Supplier: &supplier})
	require.NoError(t, err, "repetir la clave canónica no cuenta como intento de cambio")
	assert.Equal(t, "Proveedor Nuevo", updated.Supplier)
}

func TestItemsUpdate_RevalidaElConjunto(t *testing.T) {
	st, _ := initializedStore(t)

	vacio := "  "
	_, err := st.Items().Update("FZ-100", dto.ItemPatch{Supplier: &vacio})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemInvalid)

	snap, _ := st.GetState()
	assert.Equal(t, "Avícola del Norte", snap.Document.FindItem("FZ-100").Supplier,
		"sin escrituras parciales: el registro no se toca si la revalidación falla")
}

func TestItemsUpdate_OnHandLegado(t *testing.T) {
	st, _ := initializedStore(t)

	onHand := 42.5
	updated, err := st.Items().Update("AM-300", dto.ItemPatch{OnHand: &onHand})
	require.NoError(t, err)
	assert.Equal(t, 42.5, updated.OnHand)
}

func TestItemsArchive(t *testing.T) {
	st, _ := initializedStore(t)

	archived, err := st.Items().Archive("CH-200")
	require.NoError(t, err)
	assert.False(t, archived.IsActive, "archivado = inactivo, no borrado")

	snap, _ := st.GetState()
	assert.NotNil(t, snap.Document.FindItem("CH-200"))

	history := mustHistory(t, st)
	assert.Equal(t, entity.EventItemArchived, history[len(history)-1].Event)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado con guarda
// ──────────────────────────────────────────────────────────────────────────────

func TestItemsDelete(t *testing.T) {
	st, _ := initializedStore(t)

	require.NoError(t, st.Items().Delete("FZ-100"))
	snap, _ := st.GetState()
	assert.Nil(t, snap.Document.FindItem("FZ-100"))

	err := st.Items().Delete("FZ-100")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemsDelete_GuardaRechaza(t *testing.T) {
	st := store.New(store.Options{
		Slot: testSlot,
		Repo: memory.NewSlotStore(),
		Guard: func(it *entity.Item) error {
			return errors.New("referenciado por historial")
		},
	})
	require.NoError(t, st.Initialize(entity.RoleAdmin))

	err := st.Items().Delete("FZ-100")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemDeleteGuarded)

	snap, _ := st.GetState()
	assert.NotNil(t, snap.Document.FindItem("FZ-100"), "la guarda deja el registro en su lugar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta de solo lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestItemsQuery_Filtros(t *testing.T) {
	st, _ := initializedStore(t)
	_, err := st.Items().Archive("CH-200")
	require.NoError(t, err)

	soloActivos, err := st.Items().Query(dto.ItemQuery{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, soloActivos, 2)

	porCategoria, err := st.Items().Query(dto.ItemQuery{Category: "Granos"})
	require.NoError(t, err)
	require.Len(t, porCategoria, 1)
	assert.Equal(t, "AM-300", porCategoria[0].ArticleNo)

	// texto libre insensible a mayúsculas sobre articleNo/supplier/category
	porTexto, err := st.Items().Query(dto.ItemQuery{Text: "avícola"})
	require.NoError(t, err)
	require.Len(t, porTexto, 1)
	assert.Equal(t, "FZ-100", porTexto[0].ArticleNo)
}

func TestItemsQuery_Orden(t *testing.T) {
	st, _ := initializedStore(t)

	porPrecio, err := st.Items().Query(dto.ItemQuery{SortBy: dto.SortByPricePerKg})
	require.NoError(t, err)
	require.Len(t, porPrecio, 3)
	assert.Equal(t, "AM-300", porPrecio[0].ArticleNo, "ascendente por precio")
	assert.Equal(t, "CH-200", porPrecio[2].ArticleNo)

	desc, err := st.Items().Query(dto.ItemQuery{SortBy: dto.SortByPricePerKg, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, "CH-200", desc[0].ArticleNo, "descendente invierte")

	porArticulo, err := st.Items().Query(dto.ItemQuery{SortBy: dto.SortByArticleNo})
	require.NoError(t, err)
	assert.Equal(t, "AM-300", porArticulo[0].ArticleNo)
}

func TestItemsQuery_SinPermisoIgualLee(t *testing.T) {
	st, _ := initializedStore(t)
	require.NoError(t, st.SetRole(entity.RoleStaff))
	require.True(t, st.GetStatus().ReadOnly, "STAFF demo no escribe")

	items, err := st.Items().List()
	require.NoError(t, err)
	assert.Len(t, items, 3, "las lecturas no exigen permiso, solo inicialización")
}

// helpers

func mustItems(t *testing.T, st *store.Store) []*entity.Item {
	t.Helper()
	items, err := st.Items().List()
	require.NoError(t, err)
	return items
}

func mustHistory(t *testing.T, st *store.Store) []*entity.HistoryEntry {
	t.Helper()
	snap, err := st.GetState()
	require.NoError(t, err)
	return snap.Document.Collections.History
}
