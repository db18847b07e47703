package schema

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// ItemInput entrada estricta para crear o revalidar un artículo completo.
// En actualizaciones el registro existente se mezcla con el parche y el
// resultado completo pasa de nuevo por ValidateNewItem: no hay escrituras
// parciales.
type ItemInput struct {
	ArticleNo      string
	PackSize       string
	Supplier       string
	Category       string
	PricePerKg     decimal.Decimal
	MinLevel       int
	TempClass      entity.TempClass
	RequiresExpiry bool
	IsActive       *bool // nil = activo
}

// ValidateNewItem validación estricta: cualquier campo inválido aborta la
// operación completa con un error específico. Devuelve el artículo tipado
// sin sellos de auditoría (los pone el registro al aplicar la mutación).
func ValidateNewItem(input ItemInput) (*entity.Item, error) {
	articleNo := NormalizeArticleNo(input.ArticleNo)
	if articleNo == "" {
		return nil, fmt.Errorf("%w: articleNo es obligatorio", domain.ErrItemInvalid)
	}
	if !ValidArticleNo(articleNo) {
		return nil, fmt.Errorf("%w: articleNo %q admite solo alfanumérico, guion y guion bajo", domain.ErrItemInvalid, articleNo)
	}
	supplier := strings.TrimSpace(input.Supplier)
	if supplier == "" {
		return nil, fmt.Errorf("%w: supplier es obligatorio", domain.ErrItemInvalid)
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: category es obligatorio", domain.ErrItemInvalid)
	}
	if input.PricePerKg.IsNegative() {
		return nil, fmt.Errorf("%w: pricePerKg no puede ser negativo", domain.ErrItemInvalid)
	}
	if input.MinLevel < 0 {
		return nil, fmt.Errorf("%w: minLevel no puede ser negativo", domain.ErrItemInvalid)
	}
	if !entity.ValidTempClass(input.TempClass) {
		return nil, fmt.Errorf("%w: tempClass %q fuera del enum FROZEN|CHILLED|AMBIENT", domain.ErrItemInvalid, input.TempClass)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	it := &entity.Item{
		ArticleNo:      articleNo,
		PackSize:       strings.TrimSpace(input.PackSize),
		Supplier:       supplier,
		Category:       category,
		PricePerKg:     input.PricePerKg,
		MinLevel:       input.MinLevel,
		TempClass:      input.TempClass,
		RequiresExpiry: input.RequiresExpiry,
		IsActive:       active,
	}
	it.SyncLegacy()
	return it, nil
}

// ValidateUserName valida el nombre para crear/renombrar un usuario; la
// unicidad contra la colección la comprueba el registro con FoldName.
func ValidateUserName(firstName string) (string, error) {
	name := strings.TrimSpace(firstName)
	if FoldName(name) == "" {
		return "", fmt.Errorf("%w: firstName es obligatorio", domain.ErrUserInvalid)
	}
	return name, nil
}
