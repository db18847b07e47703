package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// Claves de ordenamiento soportadas por ItemQuery.
const (
	SortByArticleNo  = "articleNo"
	SortByName       = "name"
	SortBySupplier   = "supplier"
	SortByCategory   = "category"
	SortByPricePerKg = "pricePerKg"
	SortByMinLevel   = "minLevel"
)

// ItemPatch parche parcial para actualizar un artículo: solo los campos no
// nil se aplican sobre el registro existente antes de revalidar el conjunto.
// ArticleNo está presente únicamente para detectar el intento de cambiarlo,
// que siempre se rechaza (la clave es inmutable).
type ItemPatch struct {
	ArticleNo      *string           `json:"articleNo,omitempty"`
	PackSize       *string           `json:"packSize,omitempty"`
	Supplier       *string           `json:"supplier,omitempty"`
	Category       *string           `json:"category,omitempty"`
	PricePerKg     *decimal.Decimal  `json:"pricePerKg,omitempty"`
	MinLevel       *int              `json:"minLevel,omitempty"`
	TempClass      *entity.TempClass `json:"tempClass,omitempty"`
	RequiresExpiry *bool             `json:"requiresExpiry,omitempty"`
	IsActive       *bool             `json:"isActive,omitempty"`
	Name           *string           `json:"name,omitempty"`
	OnHand         *float64          `json:"onHand,omitempty"` // espejo legado, único canal de stock por ahora
}

// ItemQuery filtros y orden para consultas de solo lectura.
type ItemQuery struct {
	Text       string `json:"text,omitempty"`     // texto libre sobre articleNo/supplier/category
	Category   string `json:"category,omitempty"` // igualdad exacta
	ActiveOnly bool   `json:"activeOnly,omitempty"`
	SortBy     string `json:"sortBy,omitempty"` // una de las claves SortBy*
	Descending bool   `json:"descending,omitempty"`
}

// UserPatch parche para actualizar un usuario. Permissions reemplaza el
// conjunto completo (no se mezcla); ViewDashboard nil vale true.
type UserPatch struct {
	FirstName   *string           `json:"firstName,omitempty"`
	Role        *string           `json:"role,omitempty"`
	Permissions *PermissionsPatch `json:"permissions,omitempty"`
}

// PermissionsPatch banderas explícitas del reemplazo de permisos.
type PermissionsPatch struct {
	ManageUsers    bool  `json:"manageUsers"`
	WriteInventory bool  `json:"writeInventory"`
	WriteHistory   bool  `json:"writeHistory"`
	ViewDashboard  *bool `json:"viewDashboard,omitempty"` // nil = true
}
