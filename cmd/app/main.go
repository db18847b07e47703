package main

import (
	"context"

	"github.com/jhoicas/inventario-store/internal/application/dto"
	"github.com/jhoicas/inventario-store/internal/application/store"
	"github.com/jhoicas/inventario-store/internal/domain/repository"
	infrafile "github.com/jhoicas/inventario-store/internal/infrastructure/file"
	"github.com/jhoicas/inventario-store/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-store/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-store/pkg/config"
	"github.com/jhoicas/inventario-store/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando almacén de documentos")

	repo := buildSlotStore(cfg, log)

	st := store.New(store.Options{
		Slot: cfg.Store.Slot,
		Repo: repo,
		Log:  log,
	})

	// Suscriptor de observabilidad: cada mutación exitosa queda en el log.
	unsubscribe := st.Subscribe(func(snap dto.Snapshot) {
		log.Debug().
			Str("status", snap.Status.Status).
			Bool("locked", snap.Status.Locked).
			Str("debug", snap.Status.DebugInfo).
			Msg("instantánea del documento")
	})
	defer unsubscribe()

	if err := st.Initialize(cfg.Store.Role); err != nil {
		// el almacén queda en modo bloqueado consultable, no se aborta
		log.Warn().Err(err).Msg("inicialización degradada")
	}

	status := st.GetStatus()
	log.Info().
		Bool("ok", status.OK).
		Str("status", status.Status).
		Str("role", status.Role).
		Bool("readOnly", status.ReadOnly).
		Str("errorKind", string(status.ErrorKind)).
		Str("debug", status.DebugInfo).
		Msg("almacén inicializado")
}

func buildSlotStore(cfg *config.Config, log *logger.Logger) repository.SlotStore {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewSlotStore()
	case config.BackendPostgres:
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		repo := postgres.NewSlotRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema de ranuras")
		}
		return repo
	default:
		repo, err := infrafile.NewSlotStore(cfg.Store.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("adaptador de archivos")
		}
		return repo
	}
}
