// Package engine keeps inventory quantities and references consistent.
//
// Every InventoryItem must satisfy 0 <= in-stock <= total at all times, and
// detail rows must be unique per (serial, item) pair and reference existing
// items and suppliers. The schema does not enforce any of this; the engine
// does, running each multi-step mutation inside one transaction while
// holding per-item-number locks so concurrent writers cannot interleave.
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fmsys/inventory-app/internal/models"
	"github.com/fmsys/inventory-app/internal/store"
)

// DetailInput is one incoming detail record in a batch add or an edit.
type DetailInput struct {
	SerialNumber    string `json:"serialNumber"`
	ItemNumber      string `json:"itemNumber"`
	SupplierID      string `json:"supplierId"`
	SupplierInvoice string `json:"supplierInvoice"`
	PartNumber      string `json:"partNumber"`
	Remark          string `json:"remark"`
}

// ItemUpdate carries an inventory item edit, possibly renaming the item
// number itself.
type ItemUpdate struct {
	NewItemNumber   string  `json:"itemNumber"`
	ItemName        string  `json:"itemName"`
	Category        string  `json:"category"`
	TotalQuantity   int     `json:"totalQuantity"`
	InStockQuantity int     `json:"inStockQuantity"`
	LengthCM        float64 `json:"length"`
	WidthCM         float64 `json:"width"`
	HeightCM        float64 `json:"height"`
	WeightKG        float64 `json:"weight"`
	UnitCostAUD     float64 `json:"unitCost"`
}

type Engine struct {
	store store.Store
	locks *keyLock
	log   *zap.Logger
}

func New(st store.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, locks: newKeyLock(), log: log}
}

func key(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return models.NA
	}
	return v
}

// ValidateBatch runs the pre-write checks over a batch of detail records
// and returns the first failing stage as a classified error with one detail
// message per offending record. Stages, in order:
//
//  1. missing serial/item number (short-circuits)
//  2. duplicate (serial, item) pairs within the batch
//  3. unknown item numbers and supplier ids, aggregated
//  4. (serial, item) pairs that already exist, aggregated
//  5. per-item quota: in-stock + proposed increments must stay <= total
func (e *Engine) ValidateBatch(ctx context.Context, recs []DetailInput) error {
	if len(recs) == 0 {
		return validationErr("at least one record is required")
	}
	for _, r := range recs {
		if strings.TrimSpace(r.SerialNumber) == "" || strings.TrimSpace(r.ItemNumber) == "" {
			return validationErr("serial number and item number are required for every record")
		}
	}

	seen := map[store.Pair]bool{}
	var dups []string
	for _, r := range recs {
		p := store.Pair{SerialNumber: key(r.SerialNumber), ItemNumber: key(r.ItemNumber)}
		if seen[p] {
			dups = append(dups, fmt.Sprintf("%s / %s", r.ItemNumber, r.SerialNumber))
		}
		seen[p] = true
	}
	if len(dups) > 0 {
		return &Error{Kind: KindConflict, Message: "duplicate records in batch", Details: dups}
	}

	itemNumbers := make([]string, 0, len(recs))
	supplierIDs := make([]string, 0, len(recs))
	pairs := make([]store.Pair, 0, len(recs))
	for _, r := range recs {
		itemNumbers = append(itemNumbers, r.ItemNumber)
		if strings.TrimSpace(r.SupplierID) != "" && r.SupplierID != models.NA {
			supplierIDs = append(supplierIDs, r.SupplierID)
		}
		pairs = append(pairs, store.Pair{SerialNumber: r.SerialNumber, ItemNumber: r.ItemNumber})
	}

	items, err := e.store.ItemsByNumbers(ctx, itemNumbers)
	if err != nil {
		return err
	}
	suppliers, err := e.store.SuppliersByIDs(ctx, supplierIDs)
	if err != nil {
		return err
	}
	var missing []string
	for _, r := range recs {
		if _, ok := items[key(r.ItemNumber)]; !ok {
			missing = append(missing, "item number "+r.ItemNumber+" does not exist")
		}
	}
	for _, id := range supplierIDs {
		if _, ok := suppliers[key(id)]; !ok {
			missing = append(missing, "supplier ID "+id+" does not exist")
		}
	}
	if len(missing) > 0 {
		return &Error{Kind: KindNotFound, Message: "unknown references", Details: missing}
	}

	existing, err := e.store.ExistingPairs(ctx, pairs)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		details := make([]string, 0, len(existing))
		for _, p := range existing {
			details = append(details, fmt.Sprintf("%s / %s already exists", p.ItemNumber, p.SerialNumber))
		}
		return &Error{Kind: KindConflict, Message: "records already exist", Details: details}
	}

	increments := map[string]int{}
	for _, r := range recs {
		increments[key(r.ItemNumber)]++
	}
	var over []string
	for num, inc := range increments {
		item := items[num]
		if item.InStockQuantity+inc > item.TotalQuantity {
			over = append(over, fmt.Sprintf("%s: in-stock %d + %d exceeds total %d",
				item.ItemNumber, item.InStockQuantity, inc, item.TotalQuantity))
		}
	}
	if len(over) > 0 {
		return &Error{Kind: KindQuotaExceeded, Message: "in-stock quantity would exceed total quantity", Details: over}
	}
	return nil
}

// AddDetailBatch validates the batch and, if it passes, inserts every row
// and increments the owning items' in-stock counts. All writes share one
// transaction: a failure partway rolls back the whole batch.
func (e *Engine) AddDetailBatch(ctx context.Context, recs []DetailInput) error {
	keys := make([]string, 0, len(recs))
	for _, r := range recs {
		keys = append(keys, r.ItemNumber)
	}
	release := e.locks.acquire(keys...)
	defer release()

	if err := e.ValidateBatch(ctx, recs); err != nil {
		return err
	}
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		for _, r := range recs {
			d := models.InventoryDetail{
				SerialNumber:    strings.TrimSpace(r.SerialNumber),
				ItemNumber:      strings.TrimSpace(r.ItemNumber),
				SupplierID:      orNA(r.SupplierID),
				SupplierInvoice: orNA(r.SupplierInvoice),
				PartNumber:      orNA(r.PartNumber),
				Remark:          orNA(r.Remark),
				SoldStatus:      models.StatusNotSold,
			}
			if err := tx.CreateDetail(ctx, &d); err != nil {
				return err
			}
			if _, err := tx.AdjustItemQuantities(ctx, r.ItemNumber, 0, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("inventory details added", zap.Int("records", len(recs)))
	return nil
}

// DeleteDetail removes one unit. A unit still in stock ("Not Sold") gives
// its in-stock count back; a sold unit was already removed from in-stock
// accounting at sale time, so only the row goes.
func (e *Engine) DeleteDetail(ctx context.Context, serialNumber, itemNumber string) error {
	if strings.TrimSpace(serialNumber) == "" || strings.TrimSpace(itemNumber) == "" {
		return validationErr("serial number and item number are required")
	}
	release := e.locks.acquire(itemNumber)
	defer release()

	return e.store.WithTx(ctx, func(tx store.Store) error {
		d, err := tx.DetailByPair(ctx, serialNumber, itemNumber)
		if err != nil {
			return err
		}
		if d == nil {
			return notFoundErr("record %s / %s not found", itemNumber, serialNumber)
		}
		if d.SoldStatus != models.StatusSold {
			item, err := tx.ItemByNumber(ctx, itemNumber)
			if err != nil {
				return err
			}
			if item == nil {
				return notFoundErr("item number %s does not exist", itemNumber)
			}
			if item.InStockQuantity-1 < 0 {
				return invariantErr("in-stock quantity for %s would fall below zero", item.ItemNumber)
			}
			if _, err := tx.AdjustItemQuantities(ctx, itemNumber, 0, -1); err != nil {
				return err
			}
		}
		n, err := tx.DeleteDetail(ctx, serialNumber, itemNumber)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFoundErr("record %s / %s not found", itemNumber, serialNumber)
		}
		return nil
	})
}

// ToggleSold flips a unit's sold status and adjusts the owning item. A sale
// removes the unit from inventory entirely (total and in-stock both drop by
// one); undoing the sale returns it (both rise by one). This is the
// total-adjusting policy; see DESIGN.md for why it was chosen over the
// in-stock-only variant.
func (e *Engine) ToggleSold(ctx context.Context, serialNumber, itemNumber string) (*models.InventoryDetail, error) {
	if strings.TrimSpace(serialNumber) == "" || strings.TrimSpace(itemNumber) == "" {
		return nil, validationErr("serial number and item number are required")
	}
	release := e.locks.acquire(itemNumber)
	defer release()

	var out *models.InventoryDetail
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		d, err := tx.DetailByPair(ctx, serialNumber, itemNumber)
		if err != nil {
			return err
		}
		if d == nil {
			return notFoundErr("record %s / %s not found", itemNumber, serialNumber)
		}
		item, err := tx.ItemByNumber(ctx, itemNumber)
		if err != nil {
			return err
		}
		if item == nil {
			return notFoundErr("item number %s does not exist", itemNumber)
		}
		if d.SoldStatus == models.StatusSold {
			d.SoldStatus = models.StatusNotSold
			if _, err := tx.AdjustItemQuantities(ctx, itemNumber, 1, 1); err != nil {
				return err
			}
		} else {
			if item.InStockQuantity-1 < 0 || item.TotalQuantity-1 < 0 {
				return invariantErr("quantities for %s would fall below zero", item.ItemNumber)
			}
			d.SoldStatus = models.StatusSold
			if _, err := tx.AdjustItemQuantities(ctx, itemNumber, -1, -1); err != nil {
				return err
			}
		}
		if err := tx.SaveDetail(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("sold status toggled",
		zap.String("item", out.ItemNumber),
		zap.String("serial", out.SerialNumber),
		zap.String("status", out.SoldStatus))
	return out, nil
}

// UpdateDetail edits a detail row. When the item number changes, quantity
// bookkeeping transfers between the old and new item according to the
// unit's sold status, and the edit is rejected outright if the new pair
// already exists or either new reference is unknown.
func (e *Engine) UpdateDetail(ctx context.Context, oldSerial, oldItem string, upd DetailInput) error {
	if strings.TrimSpace(upd.SerialNumber) == "" || strings.TrimSpace(upd.ItemNumber) == "" {
		return validationErr("serial number and item number are required")
	}
	release := e.locks.acquire(oldItem, upd.ItemNumber)
	defer release()

	return e.store.WithTx(ctx, func(tx store.Store) error {
		d, err := tx.DetailByPair(ctx, oldSerial, oldItem)
		if err != nil {
			return err
		}
		if d == nil {
			return notFoundErr("record %s / %s not found", oldItem, oldSerial)
		}
		pairChanged := key(upd.SerialNumber) != key(oldSerial) || key(upd.ItemNumber) != key(oldItem)
		if pairChanged {
			other, err := tx.DetailByPair(ctx, upd.SerialNumber, upd.ItemNumber)
			if err != nil {
				return err
			}
			if other != nil {
				return conflictErr("record %s / %s already exists", upd.ItemNumber, upd.SerialNumber)
			}
		}
		newItem, err := tx.ItemByNumber(ctx, upd.ItemNumber)
		if err != nil {
			return err
		}
		if newItem == nil {
			return notFoundErr("item number %s does not exist", upd.ItemNumber)
		}
		if sid := strings.TrimSpace(upd.SupplierID); sid != "" && sid != models.NA {
			sup, err := tx.SupplierByID(ctx, sid)
			if err != nil {
				return err
			}
			if sup == nil {
				return notFoundErr("supplier ID %s does not exist", sid)
			}
		}

		if key(upd.ItemNumber) != key(oldItem) {
			oldOwner, err := tx.ItemByNumber(ctx, oldItem)
			if err != nil {
				return err
			}
			if oldOwner == nil {
				return notFoundErr("item number %s does not exist", oldItem)
			}
			if d.SoldStatus != models.StatusSold {
				// unit is on the shelf: move one in-stock count across
				if oldOwner.InStockQuantity-1 < 0 {
					return invariantErr("in-stock quantity for %s would fall below zero", oldOwner.ItemNumber)
				}
				if newItem.InStockQuantity+1 > newItem.TotalQuantity {
					return quotaErr("%s: in-stock %d + 1 exceeds total %d",
						newItem.ItemNumber, newItem.InStockQuantity, newItem.TotalQuantity)
				}
				if _, err := tx.AdjustItemQuantities(ctx, oldItem, 0, -1); err != nil {
					return err
				}
				if _, err := tx.AdjustItemQuantities(ctx, upd.ItemNumber, 0, 1); err != nil {
					return err
				}
			} else {
				// sold unit: capacity returns to the old item and leaves the new one
				if newItem.TotalQuantity-1 < newItem.InStockQuantity {
					return invariantErr("%s: total %d - 1 would fall below in-stock %d",
						newItem.ItemNumber, newItem.TotalQuantity, newItem.InStockQuantity)
				}
				if _, err := tx.AdjustItemQuantities(ctx, oldItem, 1, 0); err != nil {
					return err
				}
				if _, err := tx.AdjustItemQuantities(ctx, upd.ItemNumber, -1, 0); err != nil {
					return err
				}
			}
		}

		d.SerialNumber = strings.TrimSpace(upd.SerialNumber)
		d.ItemNumber = strings.TrimSpace(upd.ItemNumber)
		d.SupplierID = orNA(upd.SupplierID)
		d.SupplierInvoice = orNA(upd.SupplierInvoice)
		d.PartNumber = orNA(upd.PartNumber)
		d.Remark = orNA(upd.Remark)
		return tx.SaveDetail(ctx, d)
	})
}

// UpdateItem edits an inventory item. Renaming the item number first guards
// against detail rows already living under the new number, then rewrites
// every detail row from the old number, then applies the field updates.
func (e *Engine) UpdateItem(ctx context.Context, oldNumber string, upd ItemUpdate) error {
	if strings.TrimSpace(oldNumber) == "" || strings.TrimSpace(upd.NewItemNumber) == "" {
		return validationErr("item number is required")
	}
	if upd.TotalQuantity < 0 || upd.InStockQuantity < 0 {
		return validationErr("quantities must not be negative")
	}
	if upd.InStockQuantity > upd.TotalQuantity {
		return invariantErr("in-stock quantity %d exceeds total quantity %d", upd.InStockQuantity, upd.TotalQuantity)
	}
	release := e.locks.acquire(oldNumber, upd.NewItemNumber)
	defer release()

	return e.store.WithTx(ctx, func(tx store.Store) error {
		item, err := tx.ItemByNumber(ctx, oldNumber)
		if err != nil {
			return err
		}
		if item == nil {
			return notFoundErr("item number %s does not exist", oldNumber)
		}
		if key(upd.NewItemNumber) != key(oldNumber) {
			other, err := tx.ItemByNumber(ctx, upd.NewItemNumber)
			if err != nil {
				return err
			}
			if other != nil {
				return conflictErr("item number %s already exists", upd.NewItemNumber)
			}
			n, err := tx.CountDetailsForItem(ctx, upd.NewItemNumber)
			if err != nil {
				return err
			}
			if n > 0 {
				return conflictErr("detail records already use item number %s", upd.NewItemNumber)
			}
			if err := tx.RewriteDetailItemNumber(ctx, oldNumber, strings.TrimSpace(upd.NewItemNumber)); err != nil {
				return err
			}
		}
		item.ItemNumber = strings.TrimSpace(upd.NewItemNumber)
		item.ItemName = upd.ItemName
		item.Category = upd.Category
		item.TotalQuantity = upd.TotalQuantity
		item.InStockQuantity = upd.InStockQuantity
		item.LengthCM = upd.LengthCM
		item.WidthCM = upd.WidthCM
		item.HeightCM = upd.HeightCM
		item.WeightKG = upd.WeightKG
		item.UnitCostAUD = upd.UnitCostAUD
		return tx.SaveItem(ctx, item)
	})
}

// AddPurchase records newly purchased stock by raising the item's total
// quantity. In-stock only rises later, when the units arrive and their
// detail rows are added.
func (e *Engine) AddPurchase(ctx context.Context, itemNumber string, quantity int) error {
	if strings.TrimSpace(itemNumber) == "" {
		return validationErr("item number is required")
	}
	if quantity <= 0 {
		return validationErr("quantity must be positive")
	}
	release := e.locks.acquire(itemNumber)
	defer release()

	return e.store.WithTx(ctx, func(tx store.Store) error {
		n, err := tx.AdjustItemQuantities(ctx, itemNumber, quantity, 0)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFoundErr("item number %s does not exist", itemNumber)
		}
		return nil
	})
}

// CreateItem inserts a new item master row. Purchased quantity starts as
// total; nothing is in stock until detail rows arrive.
func (e *Engine) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	if strings.TrimSpace(item.ItemNumber) == "" {
		return validationErr("item number is required")
	}
	if item.TotalQuantity < 0 || item.InStockQuantity < 0 {
		return validationErr("quantities must not be negative")
	}
	if item.InStockQuantity > item.TotalQuantity {
		return invariantErr("in-stock quantity %d exceeds total quantity %d", item.InStockQuantity, item.TotalQuantity)
	}
	release := e.locks.acquire(item.ItemNumber)
	defer release()

	return e.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.ItemByNumber(ctx, item.ItemNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflictErr("item number %s already exists", item.ItemNumber)
		}
		return tx.CreateItem(ctx, item)
	})
}

// DeleteItem removes an item master row.
func (e *Engine) DeleteItem(ctx context.Context, itemNumber string) error {
	if strings.TrimSpace(itemNumber) == "" {
		return validationErr("item number is required")
	}
	release := e.locks.acquire(itemNumber)
	defer release()

	return e.store.WithTx(ctx, func(tx store.Store) error {
		n, err := tx.DeleteItem(ctx, itemNumber)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFoundErr("item number %s does not exist", itemNumber)
		}
		return nil
	})
}
