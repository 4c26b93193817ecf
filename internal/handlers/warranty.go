package handlers

import (
	"net/http"

	"github.com/fmsys/inventory-app/internal/httpx"
	"github.com/fmsys/inventory-app/internal/services"
	"github.com/fmsys/inventory-app/internal/store"
)

// WarrantyHandler serves /api/warranty.
type WarrantyHandler struct {
	Svc *services.WarrantyService
}

func NewWarrantyHandler(svc *services.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{Svc: svc}
}

func (h *WarrantyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Svc.Search(r.Context(), store.WarrantyFilter{
		CustomerNumber: q.Get("customerNumber"),
		CustomerName:   q.Get("customerName"),
		Invoice:        q.Get("invoice"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Create handles POST /api/warranty: one invoice header plus a batch of
// item lines, inserted together.
func (h *WarrantyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		services.WarrantyHeader
		Items []services.WarrantyItem `json:"items"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if err := h.Svc.CreateBatch(r.Context(), input.WarrantyHeader, input.Items); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "warranty record added successfully"})
}

// Edit handles PUT /api/warranty/edit.
func (h *WarrantyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var input services.WarrantyUpdate
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if err := h.Svc.Update(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "warranty record updated successfully"})
}

// ToggleFlag handles PUT /api/warranty/flags, flipping one of the two
// independent yes/no flags.
func (h *WarrantyHandler) ToggleFlag(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Invoice      string `json:"invoice"`
		SerialNumber string `json:"serialNumber"`
		Flag         string `json:"flag"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	rec, err := h.Svc.ToggleFlag(r.Context(), input.Invoice, input.SerialNumber, input.Flag)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updatedRecord": rec})
}

// Delete handles DELETE /api/warranty/{invoice}?serialNumber=...
func (h *WarrantyHandler) Delete(w http.ResponseWriter, r *http.Request, invoice string) {
	serial := r.URL.Query().Get("serialNumber")
	if err := h.Svc.Delete(r.Context(), invoice, serial); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "warranty record deleted successfully"})
}
