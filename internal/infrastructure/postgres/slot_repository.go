package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-store/internal/domain/repository"
)

var _ repository.SlotStore = (*SlotRepo)(nil)

// SlotRepo implementación del puerto SlotStore sobre PostgreSQL: una tabla
// con una fila por ranura, el documento completo como columna de texto.
type SlotRepo struct {
	pool *pgxpool.Pool
}

// NewSlotRepository construye el adaptador de persistencia de ranuras.
func NewSlotRepository(pool *pgxpool.Pool) *SlotRepo {
	return &SlotRepo{pool: pool}
}

// EnsureSchema crea la tabla de ranuras si no existe.
func (r *SlotRepo) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS document_slots (
			slot       TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("crear tabla document_slots: %w", err)
	}
	return nil
}

// Get devuelve el payload y si la ranura existe.
func (r *SlotRepo) Get(slot string) (string, bool, error) {
	var payload string
	err := r.pool.QueryRow(context.Background(),
		`SELECT payload FROM document_slots WHERE slot = $1`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get slot: %w", err)
	}
	return payload, true, nil
}

// Set escribe el payload completo (upsert sobre la fila de la ranura).
func (r *SlotRepo) Set(slot, payload string) error {
	query := `
		INSERT INTO document_slots (slot, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	if _, err := r.pool.Exec(context.Background(), query, slot, payload); err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}

// Remove elimina la ranura.
func (r *SlotRepo) Remove(slot string) error {
	if _, err := r.pool.Exec(context.Background(),
		`DELETE FROM document_slots WHERE slot = $1`, slot); err != nil {
		return fmt.Errorf("remove slot: %w", err)
	}
	return nil
}
