package handlers

import (
	"net/http"

	"github.com/fmsys/inventory-app/internal/httpx"
	"github.com/fmsys/inventory-app/internal/services"
	"github.com/fmsys/inventory-app/internal/store"
)

// SupplierHandler serves /api/suppliers.
type SupplierHandler struct {
	Svc *services.SupplierService
}

func NewSupplierHandler(svc *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{Svc: svc}
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Svc.Search(r.Context(), store.SupplierFilter{
		SupplierID:   q.Get("supplierID"),
		SupplierName: q.Get("supplierName"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SupplierID   string `json:"supplierID"`
		SupplierName string `json:"supplierName"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	sup, err := h.Svc.Create(r.Context(), input.SupplierID, input.SupplierName)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sup)
}

// Rename handles PUT /api/suppliers/edit/{oldSupplierID}.
func (h *SupplierHandler) Rename(w http.ResponseWriter, r *http.Request, oldSupplierID string) {
	var input struct {
		NewSupplierID string `json:"newSupplierID"`
		SupplierName  string `json:"supplierName"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if err := h.Svc.Rename(r.Context(), oldSupplierID, input.NewSupplierID, input.SupplierName); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "supplier updated successfully"})
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request, supplierID string) {
	if err := h.Svc.Delete(r.Context(), supplierID); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "supplier deleted successfully"})
}
