package store

import (
	"context"

	"github.com/fmsys/inventory-app/internal/models"
)

// Pair identifies one inventory detail row.
type Pair struct {
	SerialNumber string
	ItemNumber   string
}

// ItemFilter holds LIKE-style search terms for the item master.
type ItemFilter struct {
	ItemNumber string
	ItemName   string
	Category   string
}

// DetailFilter holds LIKE-style search terms for detail rows.
type DetailFilter struct {
	SerialNumber string
	ItemNumber   string
	SupplierID   string
	SoldStatus   string
}

// SupplierFilter holds LIKE-style search terms for suppliers.
type SupplierFilter struct {
	SupplierID   string
	SupplierName string
}

// WarrantyFilter holds LIKE-style search terms for warranty rows.
type WarrantyFilter struct {
	CustomerNumber string
	CustomerName   string
	Invoice        string
}

// Store is the data-access contract consumed by the engine, services and
// handlers. Lookups by key are case-insensitive and return (nil, nil) when
// no row matches; batched lookups return maps keyed by the lower-cased key
// so callers can resolve many references in one query instead of a loop.
type Store interface {
	// WithTx runs fn against a transactional view of the store. Any error
	// rolls the whole transaction back.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Inventory items.
	ItemByNumber(ctx context.Context, itemNumber string) (*models.InventoryItem, error)
	ItemsByNumbers(ctx context.Context, itemNumbers []string) (map[string]models.InventoryItem, error)
	SearchItems(ctx context.Context, f ItemFilter) ([]models.InventoryItem, error)
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	SaveItem(ctx context.Context, item *models.InventoryItem) error
	AdjustItemQuantities(ctx context.Context, itemNumber string, totalDelta, inStockDelta int) (int64, error)
	DeleteItem(ctx context.Context, itemNumber string) (int64, error)

	// Inventory detail rows.
	DetailByPair(ctx context.Context, serialNumber, itemNumber string) (*models.InventoryDetail, error)
	ExistingPairs(ctx context.Context, pairs []Pair) ([]Pair, error)
	SearchDetails(ctx context.Context, f DetailFilter) ([]models.InventoryDetail, error)
	CreateDetail(ctx context.Context, d *models.InventoryDetail) error
	SaveDetail(ctx context.Context, d *models.InventoryDetail) error
	DeleteDetail(ctx context.Context, serialNumber, itemNumber string) (int64, error)
	CountDetailsForItem(ctx context.Context, itemNumber string) (int64, error)
	RewriteDetailItemNumber(ctx context.Context, oldNumber, newNumber string) error
	RewriteDetailSupplierID(ctx context.Context, oldID, newID string) error

	// Suppliers.
	SupplierByID(ctx context.Context, supplierID string) (*models.Supplier, error)
	SuppliersByIDs(ctx context.Context, supplierIDs []string) (map[string]models.Supplier, error)
	SearchSuppliers(ctx context.Context, f SupplierFilter) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	SaveSupplier(ctx context.Context, s *models.Supplier) error
	DeleteSupplier(ctx context.Context, supplierID string) (int64, error)

	// Warranty rows.
	WarrantyByPair(ctx context.Context, invoice, serialNumber string) (*models.Warranty, error)
	SearchWarranties(ctx context.Context, f WarrantyFilter) ([]models.Warranty, error)
	CreateWarranties(ctx context.Context, rows []models.Warranty) error
	SaveWarranty(ctx context.Context, w *models.Warranty) error
	DeleteWarranty(ctx context.Context, invoice, serialNumber string) (int64, error)
}
