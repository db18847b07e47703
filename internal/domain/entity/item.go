package entity

import "github.com/shopspring/decimal"

// TempClass clase de temperatura de un artículo.
type TempClass string

const (
	TempFrozen  TempClass = "FROZEN"
	TempChilled TempClass = "CHILLED"
	TempAmbient TempClass = "AMBIENT"
)

// ValidTempClass indica si el valor pertenece al enum.
func ValidTempClass(tc TempClass) bool {
	switch tc {
	case TempFrozen, TempChilled, TempAmbient:
		return true
	}
	return false
}

// Item representa una entrada del catálogo de inventario.
// ArticleNo es la clave primaria: se normaliza a mayúsculas
// (alfanumérico/guion/guion bajo), es única y nunca cambia tras crearse.
// "Archivar" = IsActive false; el registro no se borra.
type Item struct {
	ArticleNo      string          `json:"articleNo"`
	PackSize       string          `json:"packSize"`
	Supplier       string          `json:"supplier"`
	Category       string          `json:"category"`
	PricePerKg     decimal.Decimal `json:"pricePerKg"`
	MinLevel       int             `json:"minLevel"`
	TempClass      TempClass       `json:"tempClass"`
	RequiresExpiry bool            `json:"requiresExpiry"`
	IsActive       bool            `json:"isActive"`
	Audit          Audit           `json:"audit"`

	// Espejo legado: campos derivados para consumidores que todavía leen la
	// forma antigua (sku/name/unit/onHand/min). No son fuente de verdad.
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	OnHand float64 `json:"onHand"`
	Min    int     `json:"min"`
}

// SyncLegacy recalcula el espejo legado a partir de los campos actuales.
// Se invoca tras toda normalización o mutación para que ambas formas
// nunca diverjan. OnHand se conserva tal cual (solo la forma legada lo porta).
func (i *Item) SyncLegacy() {
	i.Unit = i.PackSize
	i.Min = i.MinLevel
	if i.Name == "" {
		i.Name = i.ArticleNo
	}
}
