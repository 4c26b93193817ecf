package models

import "time"

// Flag values for the UploadToXero / EmailCustomer columns.
const (
	FlagYes = "yes"
	FlagNo  = "no"
)

// Warranty is one warranty line. Rows are created in a batch sharing one
// invoice header and identified per (Invoice, SerialNumber) pair. Start and
// End are stored as DD/MM/YYYY strings, matching the documents the office
// prints; End is derived as Start plus the parsed duration.
type Warranty struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	CustomerNumber string `json:"Customer Number"`
	CustomerName   string `json:"Customer Name"`
	Invoice        string `gorm:"size:80;not null;index:idx_invoice_serial,priority:1" json:"Invoice"`
	InvoiceDate    string `json:"Invoice Date"`
	Items          string `json:"Items"`
	SerialNumber   string `gorm:"size:120;not null;index:idx_invoice_serial,priority:2" json:"Serial Number"`
	Template       string `json:"Template"`
	Years          string `json:"Years"`
	Start          string `json:"Start"`
	End            string `json:"End"`
	UploadToXero   string `gorm:"not null;default:'no'" json:"Upload to Xero"`
	EmailCustomer  string `gorm:"not null;default:'no'" json:"Email Customer"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}
