package store

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-store/internal/application/dto"
	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
	"github.com/jhoicas/inventario-store/internal/domain/schema"
)

// ItemsRegistry fachada CRUD sobre el catálogo de artículos. Toda escritura
// pasa por la validación estricta del contrato; la clave ArticleNo es
// inmutable y única.
type ItemsRegistry struct {
	s *Store
}

// Items acceso a la fachada de artículos.
func (s *Store) Items() *ItemsRegistry {
	return &ItemsRegistry{s: s}
}

// Create valida estrictamente la entrada, exige unicidad del número de
// artículo e inicializa el espejo legado (onHand) en cero.
func (r *ItemsRegistry) Create(input schema.ItemInput) (*entity.Item, error) {
	var created *entity.Item
	err := r.s.mutate(func() (bool, error) {
		actor, err := r.s.gateLocked(entity.PermWriteInventory)
		if err != nil {
			return false, err
		}
		it, err := schema.ValidateNewItem(input)
		if err != nil {
			return false, err
		}
		if r.s.doc.FindItem(it.ArticleNo) != nil {
			return false, fmt.Errorf("%w: %s", domain.ErrItemArticleNoNotUnique, it.ArticleNo)
		}

		now := r.s.now()
		it.OnHand = 0
		it.Audit = entity.Audit{CreatedAt: now, CreatedBy: actor, UpdatedAt: now, UpdatedBy: actor}
		it.SyncLegacy()
		r.s.doc.Collections.Items = append(r.s.doc.Collections.Items, it)
		r.s.appendHistoryLocked(entity.EventItemCreated, it.ArticleNo, 0, actor, "artículo creado")
		if err := r.s.writeLocked(); err != nil {
			return true, err
		}
		ci := *it
		created = &ci
		return true, nil
	})
	return created, err
}

// Update mezcla el parche sobre el registro existente y revalida el conjunto
// completo (sin escrituras parciales). Cualquier intento de cambiar el número
// de artículo falla con su error dedicado y deja el registro intacto.
func (r *ItemsRegistry) Update(articleNo string, patch dto.ItemPatch) (*entity.Item, error) {
	return r.update(articleNo, patch, entity.EventItemUpdated, "artículo actualizado")
}

// Archive azúcar sobre Update: marca el artículo inactivo sin borrarlo.
func (r *ItemsRegistry) Archive(articleNo string) (*entity.Item, error) {
	inactive := false
	return r.update(articleNo, dto.ItemPatch{IsActive: &inactive}, entity.EventItemArchived, "artículo archivado")
}

func (r *ItemsRegistry) update(articleNo string, patch dto.ItemPatch, event, note string) (*entity.Item, error) {
	var updated *entity.Item
	err := r.s.mutate(func() (bool, error) {
		actor, err := r.s.gateLocked(entity.PermWriteInventory)
		if err != nil {
			return false, err
		}
		canon := schema.NormalizeArticleNo(articleNo)
		it := r.s.doc.FindItem(canon)
		if it == nil {
			return false, fmt.Errorf("%w: %s", domain.ErrItemNotFound, canon)
		}
		if patch.ArticleNo != nil && schema.NormalizeArticleNo(*patch.ArticleNo) != it.ArticleNo {
			return false, fmt.Errorf("%w: %s", domain.ErrItemArticleNoImmutable, it.ArticleNo)
		}

		merged := mergeItemPatch(it, patch)
		valid, err := schema.ValidateNewItem(merged)
		if err != nil {
			return false, err
		}

		// aplicar recién tras validar: el registro no se toca si algo falló
		it.PackSize = valid.PackSize
		it.Supplier = valid.Supplier
		it.Category = valid.Category
		it.PricePerKg = valid.PricePerKg
		it.MinLevel = valid.MinLevel
		it.TempClass = valid.TempClass
		it.RequiresExpiry = valid.RequiresExpiry
		it.IsActive = valid.IsActive
		if patch.Name != nil {
			it.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.OnHand != nil {
			it.OnHand = *patch.OnHand
		}
		it.Audit.UpdatedAt = r.s.now()
		it.Audit.UpdatedBy = actor
		it.SyncLegacy()

		r.s.appendHistoryLocked(event, it.ArticleNo, 0, actor, note)
		if err := r.s.writeLocked(); err != nil {
			return true, err
		}
		ci := *it
		updated = &ci
		return true, nil
	})
	return updated, err
}

// Delete borra un artículo tras pasar la guarda de borrado (punto de
// extensión para chequeos referenciales; hoy siempre permite).
func (r *ItemsRegistry) Delete(articleNo string) error {
	return r.s.mutate(func() (bool, error) {
		actor, err := r.s.gateLocked(entity.PermWriteInventory)
		if err != nil {
			return false, err
		}
		canon := schema.NormalizeArticleNo(articleNo)
		idx := -1
		for i, it := range r.s.doc.Collections.Items {
			if it.ArticleNo == canon {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, fmt.Errorf("%w: %s", domain.ErrItemNotFound, canon)
		}
		if r.s.guard != nil {
			if gerr := r.s.guard(r.s.doc.Collections.Items[idx]); gerr != nil {
				return false, fmt.Errorf("%w: %v", domain.ErrItemDeleteGuarded, gerr)
			}
		}

		items := r.s.doc.Collections.Items
		r.s.doc.Collections.Items = append(items[:idx], items[idx+1:]...)
		r.s.appendHistoryLocked(entity.EventItemDeleted, canon, 0, actor, "artículo borrado")
		return true, r.s.writeLocked()
	})
}

// List devuelve copias de todos los artículos en orden de colección. Solo
// exige inicialización, ningún permiso.
func (r *ItemsRegistry) List() ([]*entity.Item, error) {
	return r.Query(dto.ItemQuery{})
}

// Query lectura con filtro de texto libre (articleNo/supplier/category),
// igualdad de categoría, solo-activos y ordenamiento por clave fija con
// comparación de cadenas sensible al locale.
func (r *ItemsRegistry) Query(q dto.ItemQuery) ([]*entity.Item, error) {
	r.s.mu.Lock()
	if !r.s.initialized {
		r.s.mu.Unlock()
		return nil, domain.ErrNotInitialized
	}
	out := make([]*entity.Item, 0, len(r.s.doc.Collections.Items))
	text := schema.FoldName(q.Text)
	for _, it := range r.s.doc.Collections.Items {
		if q.ActiveOnly && !it.IsActive {
			continue
		}
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		if text != "" && !matchesText(it, text) {
			continue
		}
		ci := *it
		out = append(out, &ci)
	}
	r.s.mu.Unlock()

	if q.SortBy != "" {
		sortItems(out, q.SortBy, q.Descending)
	}
	return out, nil
}

func matchesText(it *entity.Item, foldedText string) bool {
	return strings.Contains(schema.FoldName(it.ArticleNo), foldedText) ||
		strings.Contains(schema.FoldName(it.Supplier), foldedText) ||
		strings.Contains(schema.FoldName(it.Category), foldedText)
}

func sortItems(items []*entity.Item, sortBy string, descending bool) {
	col := collate.New(language.Spanish)
	less := func(a, b *entity.Item) bool {
		switch sortBy {
		case dto.SortByName:
			return col.CompareString(a.Name, b.Name) < 0
		case dto.SortBySupplier:
			return col.CompareString(a.Supplier, b.Supplier) < 0
		case dto.SortByCategory:
			return col.CompareString(a.Category, b.Category) < 0
		case dto.SortByPricePerKg:
			return a.PricePerKg.LessThan(b.PricePerKg)
		case dto.SortByMinLevel:
			return a.MinLevel < b.MinLevel
		default: // SortByArticleNo
			return col.CompareString(a.ArticleNo, b.ArticleNo) < 0
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// mergeItemPatch produce la entrada completa para revalidar: campo presente
// en el parche gana, el resto viene del registro existente.
func mergeItemPatch(it *entity.Item, patch dto.ItemPatch) schema.ItemInput {
	input := schema.ItemInput{
		ArticleNo:      it.ArticleNo,
		PackSize:       it.PackSize,
		Supplier:       it.Supplier,
		Category:       it.Category,
		PricePerKg:     it.PricePerKg,
		MinLevel:       it.MinLevel,
		TempClass:      it.TempClass,
		RequiresExpiry: it.RequiresExpiry,
	}
	active := it.IsActive
	input.IsActive = &active
	if patch.PackSize != nil {
		input.PackSize = *patch.PackSize
	}
	if patch.Supplier != nil {
		input.Supplier = *patch.Supplier
	}
	if patch.Category != nil {
		input.Category = *patch.Category
	}
	if patch.PricePerKg != nil {
		input.PricePerKg = *patch.PricePerKg
	}
	if patch.MinLevel != nil {
		input.MinLevel = *patch.MinLevel
	}
	if patch.TempClass != nil {
		input.TempClass = *patch.TempClass
	}
	if patch.RequiresExpiry != nil {
		input.RequiresExpiry = *patch.RequiresExpiry
	}
	if patch.IsActive != nil {
		input.IsActive = patch.IsActive
	}
	return input
}
