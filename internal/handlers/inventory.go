package handlers

import (
	"net/http"
	"strings"

	"github.com/fmsys/inventory-app/internal/engine"
	"github.com/fmsys/inventory-app/internal/httpx"
	"github.com/fmsys/inventory-app/internal/models"
	"github.com/fmsys/inventory-app/internal/store"
	"github.com/fmsys/inventory-app/internal/validation"
)

// InventoryHandler serves the item-master routes under /api/inventory.
type InventoryHandler struct {
	Engine *engine.Engine
	Store  store.Store
}

func NewInventoryHandler(e *engine.Engine, st store.Store) *InventoryHandler {
	return &InventoryHandler{Engine: e, Store: st}
}

// List handles GET /api/inventory with LIKE filters.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Store.SearchItems(r.Context(), store.ItemFilter{
		ItemNumber: q.Get("itemNumber"),
		ItemName:   q.Get("itemName"),
		Category:   q.Get("category"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Create handles POST /api/inventory. New items start with the purchased
// quantity as total and nothing in stock.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ItemNumber string  `json:"itemNumber"`
		ItemName   string  `json:"itemName"`
		Category   string  `json:"category"`
		Quantity   int     `json:"quantity"`
		Length     float64 `json:"length"`
		Width      float64 `json:"width"`
		Height     float64 `json:"height"`
		Weight     float64 `json:"weight"`
		UnitCost   float64 `json:"unitCost"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("itemNumber", input.ItemNumber, v)
	validation.Required("itemName", input.ItemName, v)
	validation.NonNegativeInt("quantity", input.Quantity, v)
	validation.NonNegativeFloat("unitCost", input.UnitCost, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "validation_error", "validation failed", v)
		return
	}
	item := models.InventoryItem{
		ItemNumber:    strings.TrimSpace(input.ItemNumber),
		ItemName:      input.ItemName,
		Category:      input.Category,
		TotalQuantity: input.Quantity,
		LengthCM:      input.Length,
		WidthCM:       input.Width,
		HeightCM:      input.Height,
		WeightKG:      input.Weight,
		UnitCostAUD:   input.UnitCost,
	}
	if err := h.Engine.CreateItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// AddPurchase handles PUT /api/inventory/{itemNumber}: increment the total
// quantity by the purchased amount.
func (h *InventoryHandler) AddPurchase(w http.ResponseWriter, r *http.Request, itemNumber string) {
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if err := h.Engine.AddPurchase(r.Context(), itemNumber, input.Quantity); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "item quantity updated successfully"})
}

// Update handles PUT /api/inventory/edit: full field edit, including a
// possible item-number rename with its detail-row cascade.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OldItemNumber string            `json:"oldItemNumber"`
		Item          engine.ItemUpdate `json:"item"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	if err := h.Engine.UpdateItem(r.Context(), input.OldItemNumber, input.Item); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "inventory updated successfully"})
}

// Delete handles DELETE /api/inventory/{itemNumber}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request, itemNumber string) {
	if err := h.Engine.DeleteItem(r.Context(), itemNumber); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "item deleted successfully"})
}
