package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fmsys/inventory-app/internal/engine"
	"github.com/fmsys/inventory-app/internal/httpx"
	"github.com/fmsys/inventory-app/internal/store"
)

// DetailHandler serves the serialized-unit routes under
// /api/inventory-details.
type DetailHandler struct {
	Engine *engine.Engine
	Store  store.Store
}

func NewDetailHandler(e *engine.Engine, st store.Store) *DetailHandler {
	return &DetailHandler{Engine: e, Store: st}
}

// List handles GET /api/inventory-details with LIKE filters.
func (h *DetailHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Store.SearchDetails(r.Context(), store.DetailFilter{
		SerialNumber: q.Get("serialNumber"),
		ItemNumber:   q.Get("itemNumber"),
		SupplierID:   q.Get("supplierID"),
		SoldStatus:   q.Get("soldStatus"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Add handles POST /api/inventory-details/add. The body is either a single
// record object or an array of them; the whole batch is validated and
// applied atomically.
func (h *DetailHandler) Add(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := httpx.Decode(r, &raw); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	var recs []engine.DetailInput
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &recs); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
			return
		}
	} else {
		var one engine.DetailInput
		if err := json.Unmarshal(raw, &one); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
			return
		}
		recs = []engine.DetailInput{one}
	}
	if err := h.Engine.AddDetailBatch(r.Context(), recs); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "inventory detail(s) added successfully",
		"count":   len(recs),
	})
}

// Edit handles PUT /api/inventory-details/edit, including transfers between
// items when the item number changes.
func (h *DetailHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OldSerialNumber string `json:"oldSerialNumber"`
		OldItemNumber   string `json:"oldItemNumber"`
		NewSerialNumber string `json:"newSerialNumber"`
		NewItemNumber   string `json:"newItemNumber"`
		SupplierID      string `json:"supplierId"`
		SupplierInvoice string `json:"supplierInvoice"`
		PartNumber      string `json:"partNumber"`
		Remark          string `json:"remark"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	upd := engine.DetailInput{
		SerialNumber:    input.NewSerialNumber,
		ItemNumber:      input.NewItemNumber,
		SupplierID:      input.SupplierID,
		SupplierInvoice: input.SupplierInvoice,
		PartNumber:      input.PartNumber,
		Remark:          input.Remark,
	}
	if err := h.Engine.UpdateDetail(r.Context(), input.OldSerialNumber, input.OldItemNumber, upd); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "inventory detail updated successfully"})
}

// ToggleSold handles PUT /api/inventory-details/sold.
func (h *DetailHandler) ToggleSold(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SerialNumber string `json:"serialNumber"`
		ItemNumber   string `json:"itemNumber"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	d, err := h.Engine.ToggleSold(r.Context(), input.SerialNumber, input.ItemNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updatedRecord": d})
}

// Delete handles DELETE /api/inventory-details with the pair in the body.
func (h *DetailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SerialNumber string `json:"serialNumber"`
		ItemNumber   string `json:"itemNumber"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if err := h.Engine.DeleteDetail(r.Context(), input.SerialNumber, input.ItemNumber); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "inventory record deleted successfully"})
}
