package schema

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// Tablas de alias: cada concepto interno tiene un único punto donde se
// resuelven todos los nombres de campo que lo significaron en formas
// anteriores del payload. Aguas abajo solo existe el campo canónico
// (el canónico va primero en cada lista).
var (
	userAliases = map[string][]string{
		"id":          {"id", "userId"},
		"firstName":   {"firstName", "first_name", "name"},
		"role":        {"role"},
		"active":      {"active", "isActive"},
		"permissions": {"permissions", "perms"},
		"audit":       {"audit"},
	}

	itemAliases = map[string][]string{
		"articleNo":      {"articleNo", "article_no", "sku"},
		"packSize":       {"packSize", "pack_size", "unit"},
		"supplier":       {"supplier", "vendor"},
		"category":       {"category", "group"},
		"pricePerKg":     {"pricePerKg", "price_per_kg", "price"},
		"minLevel":       {"minLevel", "min_level", "min"},
		"tempClass":      {"tempClass", "temp"},
		"requiresExpiry": {"requiresExpiry", "requires_expiry"},
		"isActive":       {"isActive", "active"},
		"name":           {"name"},
		"onHand":         {"onHand", "on_hand", "stock"},
	}

	historyAliases = map[string][]string{
		"timestamp": {"timestamp", "ts", "date"},
		"event":     {"event", "type"},
		"articleNo": {"articleNo", "sku", "target"},
		"quantity":  {"quantity", "qty"},
		"actor":     {"actor", "user"},
		"note":      {"note", "notes"},
	}

	articleNoPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)
)

// FoldName normaliza un nombre para la comparación de unicidad:
// trim + case-fold Unicode.
func FoldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NormalizeArticleNo forma canónica del número de artículo: trim + mayúsculas.
func NormalizeArticleNo(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidArticleNo acepta solo alfanumérico, guion y guion bajo (ya canónico).
func ValidArticleNo(s string) bool {
	return articleNoPattern.MatchString(s)
}

// pick consulta la tabla de alias una sola vez y devuelve el primer campo
// presente en el registro.
func pick(m map[string]any, aliases map[string][]string, concept string) (any, bool) {
	for _, key := range aliases[concept] {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// NormalizeUser normalización permisiva de un registro de usuario.
// Sin id o sin nombre utilizable el registro se descarta (ok=false).
// Idempotente: normalizar un usuario ya normalizado devuelve lo mismo.
func NormalizeUser(m map[string]any, now time.Time) (*entity.User, bool) {
	id := strings.TrimSpace(asString(pickv(m, userAliases, "id")))
	firstName := strings.TrimSpace(asString(pickv(m, userAliases, "firstName")))
	if id == "" || FoldName(firstName) == "" {
		return nil, false
	}

	role := asString(pickv(m, userAliases, "role"))
	if !entity.ValidRole(role) {
		role = entity.RoleStaff
	}

	u := &entity.User{
		ID:          id,
		FirstName:   firstName,
		Role:        role,
		Active:      asBool(pickv(m, userAliases, "active"), true),
		Permissions: normalizePermissions(pickv(m, userAliases, "permissions")),
		Audit:       normalizeAudit(pickv(m, userAliases, "audit"), now),
	}
	return u, true
}

// NormalizeItem normalización permisiva de un registro de artículo, con
// promoción de la forma legada (sku/name/unit/min/stock). Solo el número de
// artículo es obligatorio; el resto recibe valores por defecto seguros.
func NormalizeItem(m map[string]any, now time.Time) (*entity.Item, bool) {
	articleNo := NormalizeArticleNo(asString(pickv(m, itemAliases, "articleNo")))
	if articleNo == "" || !ValidArticleNo(articleNo) {
		return nil, false
	}

	price := asDecimal(pickv(m, itemAliases, "pricePerKg"))
	if price.IsNegative() {
		price = decimal.Zero
	}
	minLevel := asInt(pickv(m, itemAliases, "minLevel"))
	if minLevel < 0 {
		minLevel = 0
	}
	tempClass := entity.TempClass(asString(pickv(m, itemAliases, "tempClass")))
	if !entity.ValidTempClass(tempClass) {
		tempClass = entity.TempAmbient
	}

	it := &entity.Item{
		ArticleNo:      articleNo,
		PackSize:       strings.TrimSpace(asString(pickv(m, itemAliases, "packSize"))),
		Supplier:       strings.TrimSpace(asString(pickv(m, itemAliases, "supplier"))),
		Category:       strings.TrimSpace(asString(pickv(m, itemAliases, "category"))),
		PricePerKg:     price,
		MinLevel:       minLevel,
		TempClass:      tempClass,
		RequiresExpiry: asBool(pickv(m, itemAliases, "requiresExpiry"), false),
		IsActive:       asBool(pickv(m, itemAliases, "isActive"), true),
		Audit:          normalizeAudit(m["audit"], now),
		Name:           strings.TrimSpace(asString(pickv(m, itemAliases, "name"))),
		OnHand:         asFloat(pickv(m, itemAliases, "onHand")),
	}
	it.SyncLegacy()
	return it, true
}

// NormalizeHistoryEntry normalización permisiva de un registro del historial.
// Un registro sin tipo de evento se descarta.
func NormalizeHistoryEntry(m map[string]any, now time.Time) (*entity.HistoryEntry, bool) {
	event := strings.TrimSpace(asString(pickv(m, historyAliases, "event")))
	if event == "" {
		return nil, false
	}
	return &entity.HistoryEntry{
		Timestamp: asTime(pickv(m, historyAliases, "timestamp"), now),
		Event:     event,
		ArticleNo: NormalizeArticleNo(asString(pickv(m, historyAliases, "articleNo"))),
		Quantity:  asFloat(pickv(m, historyAliases, "quantity")),
		Actor:     strings.TrimSpace(asString(pickv(m, historyAliases, "actor"))),
		Note:      strings.TrimSpace(asString(pickv(m, historyAliases, "note"))),
	}, true
}

func normalizePermissions(v any) entity.Permissions {
	m, _ := v.(map[string]any)
	if m == nil {
		// sin banderas: solo lectura del panel
		return entity.Permissions{ViewDashboard: true}
	}
	return entity.Permissions{
		ManageUsers:    asBool(firstOf(m, "manageUsers", "manage_users"), false),
		WriteInventory: asBool(firstOf(m, "writeInventory", "write_inventory"), false),
		WriteHistory:   asBool(firstOf(m, "writeHistory", "write_history"), false),
		ViewDashboard:  asBool(firstOf(m, "viewDashboard", "view_dashboard"), true),
	}
}

func normalizeAudit(v any, now time.Time) entity.Audit {
	m, _ := v.(map[string]any)
	if m == nil {
		return entity.Audit{CreatedAt: now, CreatedBy: "migración", UpdatedAt: now, UpdatedBy: "migración"}
	}
	return entity.Audit{
		CreatedAt: asTime(m["createdAt"], now),
		CreatedBy: asString(m["createdBy"]),
		UpdatedAt: asTime(m["updatedAt"], now),
		UpdatedBy: asString(m["updatedBy"]),
	}
}

// ── Conversiones laxas desde JSON no tipado ──────────────────────────────────

func pickv(m map[string]any, aliases map[string][]string, concept string) any {
	v, _ := pick(m, aliases, concept)
	return v
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	}
	return 0
}

func asInt(v any) int {
	return int(asFloat(v))
}

func asDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// asTime acepta RFC3339 o epoch en milisegundos (forma legada); cualquier
// otra cosa cae en el valor por defecto.
func asTime(v any, def time.Time) time.Time {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case float64:
		if t > 0 {
			return time.UnixMilli(int64(t)).UTC()
		}
	}
	return def
}
