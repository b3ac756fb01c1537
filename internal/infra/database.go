package infra

import (
	"fmt"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBOptions struct {
	AutoMigrate bool
	Tracing     bool
}

// NewDatabase opens the pgx-backed GORM pool. TranslateError makes unique
// violations surface as gorm.ErrDuplicatedKey, which the services rely on.
func NewDatabase(dsn string, opts DBOptions) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

	if opts.Tracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			return nil, fmt.Errorf("otelgorm: %w", err)
		}
	}

	if opts.AutoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// RunMigrations creates/updates every table and then applies the patches
// AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Estudiante{},
		&model.Caja{},
		&model.Pago{},
		&model.DetallePago{},
		&model.Egreso{},
		&model.CajaFuerte{},
		&model.MovimientoCajaFuerte{},
		&model.InventarioEfectivo{},
		&model.Auditoria{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL: partial unique indexes and CHECK
// constraints the ledger relies on.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"una sola caja abierta", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_cajas_una_abierta
    ON cajas ((estado)) WHERE estado = 'ABIERTA'`},
		{"un cierre por caja en la caja fuerte", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_mov_cf_cierre_caja
    ON movimientos_caja_fuerte (caja_id) WHERE categoria = 'CIERRE_CAJA'`},
		{"inventario sin cantidades negativas", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_inventario_cantidad') THEN
    ALTER TABLE inventario_efectivo
      ADD CONSTRAINT ck_inventario_cantidad CHECK (cantidad >= 0);
  END IF;
END $$`},
		{"movimientos con monto positivo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_movimiento_cf_monto') THEN
    ALTER TABLE movimientos_caja_fuerte
      ADD CONSTRAINT ck_movimiento_cf_monto CHECK (monto > 0);
  END IF;
END $$`},
		{"tipo de movimiento", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ck_movimiento_cf_tipo') THEN
    ALTER TABLE movimientos_caja_fuerte
      ADD CONSTRAINT ck_movimiento_cf_tipo CHECK (tipo IN ('INGRESO', 'EGRESO'));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
