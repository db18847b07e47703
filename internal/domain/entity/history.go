package entity

import "time"

// Tipos de evento del historial de auditoría.
const (
	EventBootstrap       = "BOOTSTRAP"
	EventUserCreated     = "USER_CREATED"
	EventUserUpdated     = "USER_UPDATED"
	EventUserActivated   = "USER_ACTIVATED"
	EventUserDeactivated = "USER_DEACTIVATED"
	EventItemCreated     = "ITEM_CREATED"
	EventItemUpdated     = "ITEM_UPDATED"
	EventItemArchived    = "ITEM_ARCHIVED"
	EventItemDeleted     = "ITEM_DELETED"
)

// HistoryEntry registro de auditoría, solo-agregar: nunca se muta tras el
// append. Quantity es 0 salvo que el evento porte una cantidad.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	ArticleNo string    `json:"articleNo,omitempty"` // vacío si el evento no apunta a un artículo
	Quantity  float64   `json:"quantity"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
}
