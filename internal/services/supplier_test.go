package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fmsys/inventory-app/internal/models"
	"github.com/fmsys/inventory-app/internal/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Supplier{}, &models.InventoryDetail{}, &models.Warranty{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSupplierRenameCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(store.NewGormStore(db))
	ctx := context.Background()

	if err := db.Create(&models.Supplier{SupplierID: "SUP1", SupplierName: "First"}).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	for _, serial := range []string{"S1", "S2"} {
		d := models.InventoryDetail{SerialNumber: serial, ItemNumber: "X1", SupplierID: "SUP1", SoldStatus: models.StatusNotSold}
		if err := db.Create(&d).Error; err != nil {
			t.Fatalf("seed detail: %v", err)
		}
	}

	if err := svc.Rename(ctx, "SUP1", "SUP2", "Renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	var count int64
	db.Model(&models.InventoryDetail{}).Where("supplier_id = ?", "SUP2").Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 cascaded rows got %d", count)
	}
	var sup models.Supplier
	if err := db.Where("supplier_id = ?", "SUP2").First(&sup).Error; err != nil {
		t.Fatalf("renamed supplier: %v", err)
	}
	if sup.SupplierName != "Renamed" {
		t.Fatalf("name not applied: %q", sup.SupplierName)
	}
}

func TestSupplierRenameConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(store.NewGormStore(db))
	ctx := context.Background()
	for _, id := range []string{"SUP2", "SUP3"} {
		if err := db.Create(&models.Supplier{SupplierID: id}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	err := svc.Rename(ctx, "SUP2", "sup3", "Whatever")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestSupplierRenameValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(store.NewGormStore(db))
	if err := svc.Rename(context.Background(), "", "SUP2", "x"); !errors.Is(err, ErrSupplierIDRequired) {
		t.Fatalf("expected id-required error got %v", err)
	}
	if err := svc.Rename(context.Background(), "SUP1", "", "x"); !errors.Is(err, ErrSupplierIDRequired) {
		t.Fatalf("expected id-required error got %v", err)
	}
}

func TestSupplierRenameSameIDUpdatesName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(store.NewGormStore(db))
	if err := db.Create(&models.Supplier{SupplierID: "SUP1", SupplierName: "Old"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Case-only change counts as the same id: no cascade, no conflict.
	if err := svc.Rename(context.Background(), "SUP1", "sup1", "New"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	var sup models.Supplier
	if err := db.First(&sup).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if sup.SupplierName != "New" {
		t.Fatalf("expected name updated got %q", sup.SupplierName)
	}
}

func TestSupplierCreateConflictAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(store.NewGormStore(db))
	ctx := context.Background()

	if _, err := svc.Create(ctx, "SUP1", "First"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, "sup1", "Duplicate")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict got %v", err)
	}
	if err := svc.Delete(ctx, "SUP1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "SUP1"); !errors.Is(err, ErrSupplierNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}
