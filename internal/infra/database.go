package infra

import (
	"fmt"

	"clubpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create or update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (extensions, composite indexes).
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

// RunMigrations applies the full schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() lives in pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.InventoryMovement{},
		&model.InventoryStock{},
		&model.PaymentMethod{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Court{},
		&model.Booking{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL for indexes AutoMigrate cannot
// express. Safe to re-run on an already-patched schema.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// FIFO replay scans one product's ledger ordered by time
		`CREATE INDEX IF NOT EXISTS idx_movements_product_created
		     ON inventory_movements (product_id, created_at)`,
		// agenda queries scan one court's bookings by start time
		`CREATE INDEX IF NOT EXISTS idx_bookings_court_start
		     ON bookings (court_id, start_at)`,
		// report queries filter charged bookings by charge time
		`CREATE INDEX IF NOT EXISTS idx_bookings_charged_at
		     ON bookings (charged_at) WHERE charged_at IS NOT NULL`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
