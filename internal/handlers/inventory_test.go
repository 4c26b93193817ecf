package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fmsys/inventory-app/internal/engine"
	"github.com/fmsys/inventory-app/internal/models"
	"github.com/fmsys/inventory-app/internal/store"
)

func TestInventoryCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	st := store.NewGormStore(db)
	h := NewInventoryHandler(engine.New(st, nil), st)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory",
		strings.NewReader(`{"itemNumber":"X1","itemName":"Rack kit","category":"Mounting","quantity":5,"unitCost":45}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/inventory?itemName=rack", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var items []models.InventoryItem
	if err := json.Unmarshal(w2.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].TotalQuantity != 5 || items[0].InStockQuantity != 0 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestInventoryCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	st := store.NewGormStore(db)
	h := NewInventoryHandler(engine.New(st, nil), st)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory", strings.NewReader(`{"itemName":"no number"}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestInventoryAddPurchaseAndDelete(t *testing.T) {
	db := setupTestDB(t)
	st := store.NewGormStore(db)
	h := NewInventoryHandler(engine.New(st, nil), st)
	if err := db.Create(&models.InventoryItem{ItemNumber: "X1", ItemName: "x", TotalQuantity: 5}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/inventory/X1", strings.NewReader(`{"quantity":3}`))
	w := httptest.NewRecorder()
	h.AddPurchase(w, req, "X1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var item models.InventoryItem
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if item.TotalQuantity != 8 {
		t.Fatalf("expected total 8 got %d", item.TotalQuantity)
	}

	req2 := httptest.NewRequest(http.MethodDelete, "/api/inventory/X1", nil)
	w2 := httptest.NewRecorder()
	h.Delete(w2, req2, "X1")
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	w3 := httptest.NewRecorder()
	h.Delete(w3, httptest.NewRequest(http.MethodDelete, "/api/inventory/X1", nil), "X1")
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w3.Code)
	}
}

func TestInventoryUpdateRename(t *testing.T) {
	db := setupTestDB(t)
	st := store.NewGormStore(db)
	h := NewInventoryHandler(engine.New(st, nil), st)
	if err := db.Create(&models.InventoryItem{ItemNumber: "X1", ItemName: "x", TotalQuantity: 5, InStockQuantity: 1}).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	if err := db.Create(&models.InventoryDetail{SerialNumber: "S1", ItemNumber: "X1", SoldStatus: models.StatusNotSold}).Error; err != nil {
		t.Fatalf("seed detail: %v", err)
	}

	body := `{"oldItemNumber":"X1","item":{"itemNumber":"Y1","itemName":"renamed","totalQuantity":5,"inStockQuantity":1}}`
	req := httptest.NewRequest(http.MethodPut, "/api/inventory/edit", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var d models.InventoryDetail
	if err := db.First(&d).Error; err != nil {
		t.Fatalf("load detail: %v", err)
	}
	if d.ItemNumber != "Y1" {
		t.Fatalf("cascade missing, detail still on %s", d.ItemNumber)
	}
}
