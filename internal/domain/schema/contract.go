// Package schema contiene el contrato de esquema del documento persistido:
// funciones puras de validación y normalización, sin E/S. Convierte el payload
// externo no tipado en registros internos fuertemente tipados, o lo rechaza.
//
// La estrictez es asimétrica a propósito: un defecto en la forma raíz
// (meta, sesión, colecciones) invalida toda la carga y el documento queda
// bloqueado; un registro individual malformado simplemente se descarta de su
// colección sin afectar al resto.
package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// rawRoot forma laxa del payload antes de validar. Los registros de las
// colecciones quedan como mapas para resolver alias de campos legados.
type rawRoot struct {
	Meta        *rawMeta                   `json:"meta"`
	Session     *rawSession                `json:"session"`
	Flags       *rawFlags                  `json:"flags"`
	Collections map[string]json.RawMessage `json:"collections"`
}

type rawMeta struct {
	SchemaVersion *int `json:"schemaVersion"`
	CreatedAt     any  `json:"createdAt"`
	UpdatedAt     any  `json:"updatedAt"`
}

type rawSession struct {
	Role         string `json:"role"`
	ActiveUserID string `json:"activeUserId"`
}

type rawFlags struct {
	Locked     bool   `json:"locked"`
	LockReason string `json:"lockReason"`
	LockCode   string `json:"lockCode"`
	ReadOnly   bool   `json:"readOnly"`
}

// Cadena de migraciones por versión de esquema: la posición n migra un
// documento de versión n a n+1 antes de normalizar. Hoy solo existe la
// versión 1; la promoción de la forma legada pre-versionada (sku/name/min)
// ocurre en las tablas de alias de normalize.go.
var migrations = []func(*rawRoot) error{}

// ValidateRoot valida la forma raíz del payload y normaliza las colecciones.
// Cualquier defecto raíz falla la carga completa: JSON ilegible, meta o
// sesión ausentes, versión de esquema distinta, rol inválido o arreglos
// requeridos faltantes. now fija los timestamps por defecto (la función
// sigue siendo pura: mismo input, mismo output).
func ValidateRoot(raw string, now time.Time) (*entity.Document, error) {
	var root rawRoot
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptPayload, err)
	}

	if root.Meta == nil {
		return nil, fmt.Errorf("%w: falta meta", domain.ErrInvalidRoot)
	}
	if root.Meta.SchemaVersion == nil {
		return nil, fmt.Errorf("%w: falta meta.schemaVersion", domain.ErrInvalidRoot)
	}
	version := *root.Meta.SchemaVersion
	if version < 1 || version > entity.SchemaVersion {
		return nil, fmt.Errorf("%w: se esperaba %d, llegó %d",
			domain.ErrInvalidSchemaVersion, entity.SchemaVersion, version)
	}
	for v := version; v < entity.SchemaVersion; v++ {
		if err := migrations[v-1](&root); err != nil {
			return nil, fmt.Errorf("%w: migración v%d: %v", domain.ErrInvalidRoot, v, err)
		}
	}

	if root.Session == nil {
		return nil, fmt.Errorf("%w: falta session", domain.ErrInvalidRoot)
	}
	if !entity.ValidRole(root.Session.Role) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, root.Session.Role)
	}

	if root.Collections == nil {
		return nil, fmt.Errorf("%w: falta collections", domain.ErrInvalidRoot)
	}
	users, err := decodeRecords(root.Collections, "users")
	if err != nil {
		return nil, err
	}
	items, err := decodeRecords(root.Collections, "items")
	if err != nil {
		return nil, err
	}
	history, err := decodeRecords(root.Collections, "history")
	if err != nil {
		return nil, err
	}

	doc := entity.NewDocument(root.Session.Role, now)
	doc.Meta.CreatedAt = asTime(root.Meta.CreatedAt, now)
	doc.Meta.UpdatedAt = asTime(root.Meta.UpdatedAt, now)
	doc.Session.ActiveUserID = root.Session.ActiveUserID
	if root.Flags != nil {
		doc.Flags = entity.Flags{
			Locked:     root.Flags.Locked,
			LockReason: root.Flags.LockReason,
			LockCode:   domain.Kind(root.Flags.LockCode),
			ReadOnly:   root.Flags.ReadOnly || root.Flags.Locked, // locked implica readOnly
		}
	}

	// Normalización permisiva registro a registro: lo irrecuperable se descarta.
	for _, m := range users {
		if u, ok := NormalizeUser(m, now); ok {
			doc.Collections.Users = append(doc.Collections.Users, u)
		}
	}
	for _, m := range items {
		if it, ok := NormalizeItem(m, now); ok {
			doc.Collections.Items = append(doc.Collections.Items, it)
		}
	}
	for _, m := range history {
		if h, ok := NormalizeHistoryEntry(m, now); ok {
			doc.Collections.History = append(doc.Collections.History, h)
		}
	}
	return doc, nil
}

// decodeRecords exige que la colección exista y sea un arreglo; cada registro
// queda como mapa laxo para la resolución de alias.
func decodeRecords(collections map[string]json.RawMessage, name string) ([]map[string]any, error) {
	rawList, ok := collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: falta collections.%s", domain.ErrInvalidRoot, name)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(rawList, &records); err != nil {
		return nil, fmt.Errorf("%w: collections.%s no es un arreglo", domain.ErrInvalidRoot, name)
	}
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		var m map[string]any
		if err := json.Unmarshal(r, &m); err != nil || m == nil {
			// registro que ni siquiera es objeto: se descarta, no es defecto raíz
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
