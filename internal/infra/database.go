package infra

import (
	"fmt"

	"essence/backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies idempotent SQL patches that
// GORM cannot express (extensions, check constraints on existing tables).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration
// tests against a disposable database.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on PostgreSQL < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.StockDistribuidor{},
		&model.TransferenciaStock{},
		&model.Venta{},
		&model.ReporteDefectuoso{},
		&model.HistorialGanancia{},
		&model.SaldoUsuario{},
		&model.ConfigGamificacion{},
		&model.GanadorPeriodo{},
		&model.NivelComision{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully
// handle on its own. Each statement uses IF NOT EXISTS / existence-check
// semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Non-negative stock pools are enforced in SQL as well as in the
		// guarded UPDATEs; a bug anywhere else still cannot persist a
		// negative quantity.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock_deposito') THEN
		    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock_deposito CHECK (stock_deposito >= 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_distribuidores_cantidad') THEN
		    ALTER TABLE stock_distribuidores ADD CONSTRAINT chk_stock_distribuidores_cantidad CHECK (cantidad >= 0);
		  END IF;
		END $$`,
		// Seed the gamification singleton so the first read never races.
		`INSERT INTO config_gamificacion (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
