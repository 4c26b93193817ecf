package models

import "time"

// Sold status values stored on inventory detail rows.
const (
	StatusSold    = "Sold"
	StatusNotSold = "Not Sold"
)

// NA is the sentinel stored for optional detail fields left blank.
const NA = "N/A"

// InventoryItem is one SKU in the item master. ItemNumber is the external
// key, unique case-insensitively. The JSON tags carry the human-readable
// column labels the front end displays; internally everything is typed.
type InventoryItem struct {
	ID              uint    `gorm:"primaryKey" json:"-"`
	ItemNumber      string  `gorm:"size:80;not null;uniqueIndex" json:"Item Number"`
	ItemName        string  `gorm:"not null" json:"Item Name"`
	Category        string  `json:"Category"`
	TotalQuantity   int     `gorm:"not null;default:0" json:"Total Quantity"`
	InStockQuantity int     `gorm:"not null;default:0" json:"In-Stock Quantity"`
	LengthCM        float64 `json:"Length(cm)"`
	WidthCM         float64 `json:"Width(cm)"`
	HeightCM        float64 `json:"Height(cm)"`
	WeightKG        float64 `json:"Weight(kg)"`
	UnitCostAUD     float64 `json:"Unit Cost(AUD)"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// InventoryDetail is one serialized physical unit of an item. The pair
// (SerialNumber, ItemNumber) is unique case-insensitively and ItemNumber
// must reference an existing InventoryItem; both rules are enforced by the
// engine, not the schema.
type InventoryDetail struct {
	ID              uint   `gorm:"primaryKey" json:"-"`
	SerialNumber    string `gorm:"size:120;not null;index:idx_serial_item,unique,priority:1" json:"Serial Number"`
	ItemNumber      string `gorm:"size:80;not null;index:idx_serial_item,unique,priority:2" json:"Item Number"`
	SupplierID      string `gorm:"size:80" json:"Supplier ID"`
	SupplierInvoice string `json:"Supplier Invoice"`
	PartNumber      string `json:"Part Number"`
	Remark          string `json:"Remark"`
	SoldStatus      string `gorm:"not null;default:'Not Sold'" json:"Sold Status"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}
