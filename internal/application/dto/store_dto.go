package dto

import (
	"github.com/jhoicas/inventario-store/internal/domain"
	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// Estados derivados del documento (no se persisten; se calculan de flags y
// tamaños de colección).
const (
	StatusOK      = "OK"
	StatusEmpty   = "EMPTY"
	StatusCorrupt = "CORRUPT"
)

// Status superficie de consulta para que la UI pinte un banner estable en
// lugar de romperse: estado derivado, código de error y banderas de bloqueo.
type Status struct {
	OK        bool        `json:"ok"`
	Status    string      `json:"status"`
	ErrorKind domain.Kind `json:"errorKind,omitempty"`
	Locked    bool        `json:"locked"`
	ReadOnly  bool        `json:"readOnly"`
	Role      string      `json:"role"`
	Reason    string      `json:"reason,omitempty"`
	DebugInfo string      `json:"debugInfo,omitempty"`
}

// Snapshot copia profunda inmutable del documento, entregada a suscriptores
// y lecturas. Quien la recibe puede quedársela sin riesgo de aliasing.
type Snapshot struct {
	Document *entity.Document `json:"document"`
	Status   Status           `json:"status"`
}

// Result resultado plano {ok, errorKind, reason} para consumidores que no
// quieren desenvolver errores de Go.
type Result struct {
	OK        bool        `json:"ok"`
	ErrorKind domain.Kind `json:"errorKind,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// ResultOf convierte un error de dominio en Result.
func ResultOf(err error) Result {
	if err == nil {
		return Result{OK: true}
	}
	return Result{OK: false, ErrorKind: domain.KindOf(err), Reason: err.Error()}
}
