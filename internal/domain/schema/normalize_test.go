package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
	"github.com/jhoicas/inventario-store/internal/domain/schema"
)

func TestFoldName(t *testing.T) {
	assert.Equal(t, schema.FoldName("  ANA  "), schema.FoldName("ana"))
	assert.Equal(t, schema.FoldName("José"), schema.FoldName("JOSÉ"))
	assert.Equal(t, "", schema.FoldName("   "))
}

func TestNormalizeUser_DescartaSinIDorNombre(t *testing.T) {
	_, ok := schema.NormalizeUser(map[string]any{"firstName": "Ana"}, testNow)
	assert.False(t, ok, "sin id se descarta")

	_, ok = schema.NormalizeUser(map[string]any{"id": "u1", "firstName": "   "}, testNow)
	assert.False(t, ok, "nombre solo espacios se descarta")
}

func TestNormalizeUser_Defaults(t *testing.T) {
	u, ok := schema.NormalizeUser(map[string]any{"id": "u1", "name": "Ana", "role": "jefe"}, testNow)
	require.True(t, ok)
	assert.Equal(t, "Ana", u.FirstName, "el alias legado name alimenta firstName")
	assert.Equal(t, entity.RoleStaff, u.Role, "rol desconocido cae en STAFF")
	assert.True(t, u.Active)
	assert.True(t, u.Permissions.ViewDashboard, "sin banderas queda solo vista del panel")
	assert.False(t, u.Permissions.AnyWrite())
	assert.Equal(t, testNow, u.Audit.CreatedAt)
}

func TestNormalizeItem_PrecioNegativoYMinNegativoSeSanean(t *testing.T) {
	it, ok := schema.NormalizeItem(map[string]any{
		"articleNo": "am-9", "price": -3.5, "min": -2,
	}, testNow)
	require.True(t, ok)
	assert.True(t, it.PricePerKg.IsZero(), "precio negativo se sanea a cero en la carga permisiva")
	assert.Equal(t, 0, it.MinLevel)
	assert.Equal(t, "AM-9", it.ArticleNo)
	assert.Equal(t, "AM-9", it.Name, "sin nombre el espejo legado usa el número de artículo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad: la normalización es idempotente. Normalizar el resultado de una
// normalización (serializado de vuelta a la forma laxa, timestamps fijos)
// devuelve exactamente el mismo registro.
// ──────────────────────────────────────────────────────────────────────────────

func toLooseMap(t *rapid.T, v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestNormalizeItem_Idempotente(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := map[string]any{
			"articleNo": rapid.StringMatching(`[A-Za-z][A-Za-z0-9_-]{0,11}`).Draw(rt, "articleNo"),
			"supplier":  rapid.StringMatching(`[A-Za-zÁÉÍÓÚáéíóúñ ]{0,12}`).Draw(rt, "supplier"),
			"category":  rapid.StringMatching(`[A-Za-z]{0,8}`).Draw(rt, "category"),
			"price":     rapid.Float64Range(-10, 1000).Draw(rt, "price"),
			"min":       float64(rapid.IntRange(-5, 500).Draw(rt, "min")),
			"stock":     rapid.Float64Range(0, 1e6).Draw(rt, "stock"),
			"tempClass": rapid.SampledFrom([]string{"FROZEN", "CHILLED", "AMBIENT", "TIBIO", ""}).Draw(rt, "tempClass"),
			"isActive":  rapid.Bool().Draw(rt, "isActive"),
		}

		first, ok := schema.NormalizeItem(m, testNow)
		if !ok {
			rt.Skip()
		}
		second, ok := schema.NormalizeItem(toLooseMap(rt, first), testNow)
		if !ok {
			rt.Fatalf("un registro normalizado jamás debe descartarse al renormalizar")
		}

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if string(a) != string(b) {
			rt.Fatalf("normalize(normalize(x)) != normalize(x):\n%s\n%s", a, b)
		}
	})
}

func TestNormalizeUser_Idempotente(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := map[string]any{
			"id":        rapid.StringMatching(`[a-z0-9-]{1,16}`).Draw(rt, "id"),
			"firstName": rapid.StringMatching(`[A-Za-zÁÉÍÓÚáéíóúñ]{1,10}`).Draw(rt, "firstName"),
			"role":      rapid.SampledFrom([]string{"ADMIN", "MANAGER", "STAFF", "SYSTEM_ADMIN", "otro"}).Draw(rt, "role"),
			"active":    rapid.Bool().Draw(rt, "active"),
			"permissions": map[string]any{
				"manageUsers":    rapid.Bool().Draw(rt, "manageUsers"),
				"writeInventory": rapid.Bool().Draw(rt, "writeInventory"),
				"writeHistory":   rapid.Bool().Draw(rt, "writeHistory"),
				"viewDashboard":  rapid.Bool().Draw(rt, "viewDashboard"),
			},
		}

		first, ok := schema.NormalizeUser(m, testNow)
		if !ok {
			rt.Skip()
		}
		second, ok := schema.NormalizeUser(toLooseMap(rt, first), testNow)
		if !ok {
			rt.Fatalf("un usuario normalizado jamás debe descartarse al renormalizar")
		}

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if string(a) != string(b) {
			rt.Fatalf("normalize(normalize(x)) != normalize(x):\n%s\n%s", a, b)
		}
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateNewItem: estricta, un campo inválido aborta todo con error específico.
// ──────────────────────────────────────────────────────────────────────────────

func validInput() schema.ItemInput {
	return schema.ItemInput{
		ArticleNo:  "FZ-001",
		PackSize:   "10 kg",
		Supplier:   "Proveedor",
		Category:   "Congelados",
		PricePerKg: decimal.NewFromFloat(10),
		MinLevel:   5,
		TempClass:  entity.TempFrozen,
	}
}

func TestValidateNewItem_Valido(t *testing.T) {
	it, err := schema.ValidateNewItem(validInput())
	require.NoError(t, err)
	assert.Equal(t, "FZ-001", it.ArticleNo)
	assert.True(t, it.IsActive, "IsActive nil vale activo")
	assert.Equal(t, "10 kg", it.Unit, "espejo legado sincronizado")
}

func TestValidateNewItem_CamposInvalidos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*schema.ItemInput)
	}{
		{"articleNo vacío", func(i *schema.ItemInput) { i.ArticleNo = "   " }},
		{"articleNo con caracteres ilegales", func(i *schema.ItemInput) { i.ArticleNo = "FZ 001!" }},
		{"supplier vacío", func(i *schema.ItemInput) { i.Supplier = " " }},
		{"category vacía", func(i *schema.ItemInput) { i.Category = "" }},
		{"precio negativo", func(i *schema.ItemInput) { i.PricePerKg = decimal.NewFromFloat(-0.01) }},
		{"minLevel negativo", func(i *schema.ItemInput) { i.MinLevel = -1 }},
		{"tempClass fuera del enum", func(i *schema.ItemInput) { i.TempClass = "TIBIO" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := schema.ValidateNewItem(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrItemInvalid)
		})
	}
}

func TestValidateNewItem_NormalizaArticleNo(t *testing.T) {
	input := validInput()
	input.ArticleNo = "  fz-002 "
	it, err := schema.ValidateNewItem(input)
	require.NoError(t, err)
	assert.Equal(t, "FZ-002", it.ArticleNo)
}
