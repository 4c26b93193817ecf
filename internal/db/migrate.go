package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the database drivers and file source for
	// golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fmsys/inventory-app/internal/models"
)

// Connect opens the database selected by dsn and brings the schema up to
// date. SQL migrations run when MIGRATIONS=1|true|yes; otherwise GORM
// AutoMigrate keeps the four tables current (dev convenience). DB_SEED=1
// loads a small demo dataset.
func Connect(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty; check the environment configuration")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		if IsPostgresDSN(dsn) {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			conn, err = gorm.Open(sqlite.Open(dsn), cfg)
		}
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		toMigrate := []any{
			&models.InventoryItem{}, &models.InventoryDetail{}, &models.Supplier{}, &models.Warranty{},
		}
		for _, m := range toMigrate {
			if migErr := conn.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"inventory_items", "inventory_details", "suppliers", "warranties"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(conn)
	}
	return conn, nil
}

func seed(conn *gorm.DB) {
	items := []models.InventoryItem{
		{ItemNumber: "FM-1001", ItemName: "Rack mount kit", Category: "Mounting", TotalQuantity: 10, InStockQuantity: 0, UnitCostAUD: 45.00},
		{ItemNumber: "FM-2040", ItemName: "Controller board", Category: "Electronics", TotalQuantity: 4, InStockQuantity: 0, UnitCostAUD: 320.50},
	}
	for _, it := range items {
		var existing models.InventoryItem
		if err := conn.Where("lower(item_number) = ?", strings.ToLower(it.ItemNumber)).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&it)
		}
	}
	suppliers := []models.Supplier{
		{SupplierID: "SUP-01", SupplierName: "Harbour Electrical"},
		{SupplierID: "SUP-02", SupplierName: "Bayside Components"},
	}
	for _, s := range suppliers {
		var existing models.Supplier
		if err := conn.Where("lower(supplier_id) = ?", strings.ToLower(s.SupplierID)).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&s)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", MigrateDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
