package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fmsys/inventory-app/internal/engine"
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
	if err := db.AutoMigrate(&models.InventoryItem{}, &models.InventoryDetail{}, &models.Supplier{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newDetailHandler(t *testing.T) (*DetailHandler, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	st := store.NewGormStore(db)
	return NewDetailHandler(engine.New(st, nil), st), db
}

func TestDetailAddSingleObject(t *testing.T) {
	h, db := newDetailHandler(t)
	if err := db.Create(&models.InventoryItem{ItemNumber: "X1", ItemName: "x", TotalQuantity: 5}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/inventory-details/add",
		strings.NewReader(`{"serialNumber":"S1","itemNumber":"X1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Add(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var item models.InventoryItem
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.InStockQuantity != 1 {
		t.Fatalf("expected in-stock 1 got %d", item.InStockQuantity)
	}
}

func TestDetailAddArrayWithUnknownItem(t *testing.T) {
	h, _ := newDetailHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory-details/add",
		strings.NewReader(`[{"serialNumber":"S1","itemNumber":"NOPE"}]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Add(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "not_found" || len(body.Details) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestDetailAddQuotaExceededMapsTo422(t *testing.T) {
	h, db := newDetailHandler(t)
	if err := db.Create(&models.InventoryItem{ItemNumber: "X1", ItemName: "x", TotalQuantity: 1, InStockQuantity: 1}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/inventory-details/add",
		strings.NewReader(`{"serialNumber":"S1","itemNumber":"X1"}`))
	w := httptest.NewRecorder()
	h.Add(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", w.Code, w.Body.String())
	}
}

func TestDetailToggleSold(t *testing.T) {
	h, db := newDetailHandler(t)
	if err := db.Create(&models.InventoryItem{ItemNumber: "X1", ItemName: "x", TotalQuantity: 5, InStockQuantity: 4}).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	if err := db.Create(&models.InventoryDetail{SerialNumber: "S1", ItemNumber: "X1", SoldStatus: models.StatusNotSold}).Error; err != nil {
		t.Fatalf("seed detail: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/inventory-details/sold",
		strings.NewReader(`{"serialNumber":"S1","itemNumber":"X1"}`))
	w := httptest.NewRecorder()
	h.ToggleSold(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		UpdatedRecord models.InventoryDetail `json:"updatedRecord"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UpdatedRecord.SoldStatus != models.StatusSold {
		t.Fatalf("expected Sold got %q", body.UpdatedRecord.SoldStatus)
	}
}

func TestDetailDeleteNotFound(t *testing.T) {
	h, _ := newDetailHandler(t)
	req := httptest.NewRequest(http.MethodDelete, "/api/inventory-details",
		strings.NewReader(`{"serialNumber":"S404","itemNumber":"X404"}`))
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestDetailListUsesHumanLabels(t *testing.T) {
	h, db := newDetailHandler(t)
	d := models.InventoryDetail{SerialNumber: "S1", ItemNumber: "X1", SupplierID: "SUP1", SoldStatus: models.StatusNotSold}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/inventory-details?itemNumber=x1", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	// The API keeps the legacy human-readable column labels.
	if !strings.Contains(w.Body.String(), `"Serial Number":"S1"`) {
		t.Fatalf("expected labeled JSON, got %s", w.Body.String())
	}
}
