package models

import "time"

// Supplier is a parts supplier. SupplierID is unique case-insensitively;
// renaming it cascades to every InventoryDetail row referencing the old id.
type Supplier struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	SupplierID   string `gorm:"size:80;not null;uniqueIndex" json:"Supplier ID"`
	SupplierName string `json:"Supplier Name"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
