package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-store/internal/domain/entity"
)

// Datos demo enlatados: 3 artículos, 4 usuarios (uno por rol) y una entrada
// de arranque en el historial. Son fijos para que los escenarios de prueba y
// las capturas de la UI sean reproducibles.

func demoUsers(now time.Time, newID func() string) []*entity.User {
	audit := entity.Audit{CreatedAt: now, CreatedBy: "sistema", UpdatedAt: now, UpdatedBy: "sistema"}
	return []*entity.User{
		{
			ID: newID(), FirstName: "Ana", Role: entity.RoleAdmin, Active: true,
			Permissions: entity.Permissions{ManageUsers: true, WriteInventory: true, WriteHistory: true, ViewDashboard: true},
			Audit:       audit,
		},
		{
			ID: newID(), FirstName: "Bruno", Role: entity.RoleManager, Active: true,
			Permissions: entity.Permissions{WriteInventory: true, WriteHistory: true, ViewDashboard: true},
			Audit:       audit,
		},
		{
			ID: newID(), FirstName: "Carla", Role: entity.RoleStaff, Active: true,
			Permissions: entity.Permissions{ViewDashboard: true},
			Audit:       audit,
		},
		{
			ID: newID(), FirstName: "Soporte", Role: entity.RoleSystemAdmin, Active: true,
			Permissions: entity.Permissions{ViewDashboard: true},
			Audit:       audit,
		},
	}
}

func demoItems(now time.Time) []*entity.Item {
	audit := entity.Audit{CreatedAt: now, CreatedBy: "sistema", UpdatedAt: now, UpdatedBy: "sistema"}
	items := []*entity.Item{
		{
			ArticleNo: "FZ-100", Name: "Pollo entero congelado", PackSize: "10 kg",
			Supplier: "Avícola del Norte", Category: "Carnes",
			PricePerKg: decimal.NewFromFloat(8.50), MinLevel: 12,
			TempClass: entity.TempFrozen, RequiresExpiry: true, IsActive: true, Audit: audit,
		},
		{
			ArticleNo: "CH-200", Name: "Queso campesino", PackSize: "2.5 kg",
			Supplier: "Lácteos La Sabana", Category: "Lácteos",
			PricePerKg: decimal.NewFromFloat(14.20), MinLevel: 8,
			TempClass: entity.TempChilled, RequiresExpiry: true, IsActive: true, Audit: audit,
		},
		{
			ArticleNo: "AM-300", Name: "Arroz blanco", PackSize: "25 kg",
			Supplier: "Molinos del Valle", Category: "Granos",
			PricePerKg: decimal.NewFromFloat(1.95), MinLevel: 20,
			TempClass: entity.TempAmbient, RequiresExpiry: false, IsActive: true, Audit: audit,
		},
	}
	for _, it := range items {
		it.SyncLegacy()
	}
	return items
}

func bootstrapEntry(now time.Time) *entity.HistoryEntry {
	return &entity.HistoryEntry{
		Timestamp: now,
		Event:     entity.EventBootstrap,
		Actor:     "sistema",
		Note:      "datos demo poblados",
	}
}

// demoDocument documento demo completo; lo usa ResetDemo para el reemplazo
// total.
func demoDocument(role string, now time.Time, newID func() string) *entity.Document {
	doc := entity.NewDocument(role, now)
	doc.Collections.Users = demoUsers(now, newID)
	doc.Collections.Items = demoItems(now)
	doc.Collections.History = []*entity.HistoryEntry{bootstrapEntry(now)}
	return doc
}
