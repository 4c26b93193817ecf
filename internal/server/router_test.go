package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fmsys/inventory-app/internal/models"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryItem{}, &models.InventoryDetail{}, &models.Supplier{}, &models.Warranty{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, Options{CORSOrigin: "http://localhost:3000"})
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)
	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "ok") {
			t.Fatalf("%s: unexpected body %s", path, w.Body.String())
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/inventory", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected origin header %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/inventory", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", w.Code)
	}
	if allow := w.Header().Get("Allow"); !strings.Contains(allow, "GET") {
		t.Fatalf("expected Allow header, got %q", allow)
	}
}

func TestEndToEndAddStockFlow(t *testing.T) {
	h := newTestRouter(t)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	if w := post("/api/inventory", `{"itemNumber":"X1","itemName":"Rack kit","quantity":2}`); w.Code != http.StatusCreated {
		t.Fatalf("create item: %d %s", w.Code, w.Body.String())
	}
	if w := post("/api/inventory-details/add", `[{"serialNumber":"S1","itemNumber":"X1"},{"serialNumber":"S2","itemNumber":"X1"}]`); w.Code != http.StatusCreated {
		t.Fatalf("add details: %d %s", w.Code, w.Body.String())
	}
	// Third unit exceeds the total of 2.
	if w := post("/api/inventory-details/add", `{"serialNumber":"S3","itemNumber":"X1"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d %s", w.Code, w.Body.String())
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inventory?itemNumber=X1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"In-Stock Quantity":2`) {
		t.Fatalf("expected in-stock 2 in body: %s", w.Body.String())
	}
}

func TestWarrantyRoutes(t *testing.T) {
	h := newTestRouter(t)

	body := `{"customerName":"Jo","customerNumber":"C1","invoice":"INV100","invoiceDate":"01/01/2024",` +
		`"items":[{"items":"Board","serialNumber":"S1","template":"standard","years":24,"start":"01/01/2024"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/warranty", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create warranty: %d %s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/warranty?invoice=INV100", nil))
	if !strings.Contains(w2.Body.String(), `"Years":"Two-Years"`) || !strings.Contains(w2.Body.String(), `"End":"01/01/2026"`) {
		t.Fatalf("derived fields missing: %s", w2.Body.String())
	}

	req3 := httptest.NewRequest(http.MethodPut, "/api/warranty/flags",
		strings.NewReader(`{"invoice":"INV100","serialNumber":"S1","flag":"uploadToXero"}`))
	w3 := httptest.NewRecorder()
	h.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("toggle flag: %d %s", w3.Code, w3.Body.String())
	}

	req4 := httptest.NewRequest(http.MethodDelete, "/api/warranty/INV100?serialNumber=S1", nil)
	w4 := httptest.NewRecorder()
	h.ServeHTTP(w4, req4)
	if w4.Code != http.StatusOK {
		t.Fatalf("delete warranty: %d %s", w4.Code, w4.Body.String())
	}
}

func TestSupplierRenameRoute(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/suppliers", strings.NewReader(`{"supplierID":"SUP1","supplierName":"Harbour"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create supplier: %d %s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodPut, "/api/suppliers/edit/SUP1",
		strings.NewReader(`{"newSupplierID":"SUP2","supplierName":"Harbour"}`))
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("rename supplier: %d %s", w2.Code, w2.Body.String())
	}

	w3 := httptest.NewRecorder()
	h.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/api/suppliers?supplierID=SUP2", nil))
	if !strings.Contains(w3.Body.String(), `"Supplier ID":"SUP2"`) {
		t.Fatalf("renamed supplier missing: %s", w3.Body.String())
	}
}
