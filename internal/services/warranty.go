package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fmsys/inventory-app/internal/models"
	"github.com/fmsys/inventory-app/internal/store"
)

var (
	ErrWarrantyNotFound = errors.New("warranty record not found")
	ErrWarrantyExists   = errors.New("warranty record already exists")
	ErrUnknownFlag      = errors.New("unknown warranty flag")
)

// ValidationError aggregates missing/malformed warranty input fields.
type ValidationError struct{ Problems []string }

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// WarrantyHeader holds the fields shared by every row of a batch.
type WarrantyHeader struct {
	CustomerName   string `json:"customerName"`
	CustomerNumber string `json:"customerNumber"`
	Invoice        string `json:"invoice"`
	InvoiceDate    string `json:"invoiceDate"`
}

// WarrantyItem is one line of a warranty batch. Months carries the duration
// code (12, 24, 36, 1, 3 or 6) the office enters; Start is DD/MM/YYYY.
type WarrantyItem struct {
	Items        string `json:"items"`
	SerialNumber string `json:"serialNumber"`
	Template     string `json:"template"`
	Months       int    `json:"years"`
	Start        string `json:"start"`
}

// WarrantyUpdate carries an edit, possibly changing the row's identity.
type WarrantyUpdate struct {
	CustomerNumber  string `json:"customerNumber"`
	CustomerName    string `json:"customerName"`
	InvoiceDate     string `json:"invoiceDate"`
	OldInvoice      string `json:"oldInvoice"`
	NewInvoice      string `json:"newInvoice"`
	Items           string `json:"items"`
	OldSerialNumber string `json:"oldSerialNumber"`
	NewSerialNumber string `json:"newSerialNumber"`
	Template        string `json:"template"`
	Years           string `json:"years"`
	Start           string `json:"start"`
	End             string `json:"end"`
}

const dateLayout = "02/01/2006"

// DurationLabel converts a numeric month code to its printed label.
func DurationLabel(months int) string {
	switch months {
	case 12:
		return "One-Year"
	case 24:
		return "Two-Years"
	case 36:
		return "Three-Years"
	case 1:
		return "One-Month"
	case 3:
		return "Three-Months"
	case 6:
		return "Six-Months"
	default:
		return "Unknown Duration"
	}
}

// WarrantyService owns warranty batch creation, edits, deletion and the two
// independent per-row flags.
type WarrantyService struct {
	store store.Store
}

func NewWarrantyService(st store.Store) *WarrantyService {
	return &WarrantyService{store: st}
}

func (s *WarrantyService) Search(ctx context.Context, f store.WarrantyFilter) ([]models.Warranty, error) {
	return s.store.SearchWarranties(ctx, f)
}

// CreateBatch validates the header and items, derives each row's duration
// label and end date (start + months), and inserts one row per item in a
// single transaction.
func (s *WarrantyService) CreateBatch(ctx context.Context, h WarrantyHeader, items []WarrantyItem) error {
	var problems []string
	if strings.TrimSpace(h.CustomerName) == "" {
		problems = append(problems, "customer name is required")
	}
	if strings.TrimSpace(h.CustomerNumber) == "" {
		problems = append(problems, "customer number is required")
	}
	if strings.TrimSpace(h.Invoice) == "" {
		problems = append(problems, "invoice is required")
	}
	if strings.TrimSpace(h.InvoiceDate) == "" {
		problems = append(problems, "invoice date is required")
	}
	if len(items) == 0 {
		problems = append(problems, "at least one item is required")
	}
	rows := make([]models.Warranty, 0, len(items))
	for i, it := range items {
		start, err := time.Parse(dateLayout, strings.TrimSpace(it.Start))
		if err != nil {
			problems = append(problems, fmt.Sprintf("item %d: invalid start date %q", i+1, it.Start))
			continue
		}
		end := start.AddDate(0, it.Months, 0)
		serial := it.SerialNumber
		if strings.TrimSpace(serial) == "" {
			serial = models.NA
		}
		rows = append(rows, models.Warranty{
			CustomerNumber: h.CustomerNumber,
			CustomerName:   h.CustomerName,
			Invoice:        h.Invoice,
			InvoiceDate:    h.InvoiceDate,
			Items:          it.Items,
			SerialNumber:   serial,
			Template:       it.Template,
			Years:          DurationLabel(it.Months),
			Start:          start.Format(dateLayout),
			End:            end.Format(dateLayout),
			UploadToXero:   models.FlagNo,
			EmailCustomer:  models.FlagNo,
		})
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return s.store.WithTx(ctx, func(tx store.Store) error {
		return tx.CreateWarranties(ctx, rows)
	})
}

// Update edits one warranty row, identified by its old (invoice, serial)
// pair. Identity changes are rejected when the new pair is already taken.
func (s *WarrantyService) Update(ctx context.Context, u WarrantyUpdate) error {
	var problems []string
	required := map[string]string{
		"customer number": u.CustomerNumber,
		"customer name":   u.CustomerName,
		"invoice date":    u.InvoiceDate,
		"old invoice":     u.OldInvoice,
		"new invoice":     u.NewInvoice,
		"items":           u.Items,
		"old serial":      u.OldSerialNumber,
		"new serial":      u.NewSerialNumber,
		"template":        u.Template,
		"years":           u.Years,
		"start":           u.Start,
		"end":             u.End,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			problems = append(problems, name+" is required")
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return s.store.WithTx(ctx, func(tx store.Store) error {
		w, err := tx.WarrantyByPair(ctx, u.OldInvoice, u.OldSerialNumber)
		if err != nil {
			return err
		}
		if w == nil {
			return ErrWarrantyNotFound
		}
		identityChanged := !strings.EqualFold(u.OldInvoice, u.NewInvoice) ||
			!strings.EqualFold(u.OldSerialNumber, u.NewSerialNumber)
		if identityChanged {
			other, err := tx.WarrantyByPair(ctx, u.NewInvoice, u.NewSerialNumber)
			if err != nil {
				return err
			}
			if other != nil {
				return ErrWarrantyExists
			}
		}
		w.CustomerNumber = u.CustomerNumber
		w.CustomerName = u.CustomerName
		w.InvoiceDate = u.InvoiceDate
		w.Invoice = strings.TrimSpace(u.NewInvoice)
		w.Items = u.Items
		w.SerialNumber = strings.TrimSpace(u.NewSerialNumber)
		w.Template = u.Template
		w.Years = u.Years
		w.Start = u.Start
		w.End = u.End
		return tx.SaveWarranty(ctx, w)
	})
}

func (s *WarrantyService) Delete(ctx context.Context, invoice, serialNumber string) error {
	n, err := s.store.DeleteWarranty(ctx, invoice, serialNumber)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWarrantyNotFound
	}
	return nil
}

// Warranty flag names accepted by ToggleFlag.
const (
	FlagUploadToXero  = "uploadToXero"
	FlagEmailCustomer = "emailCustomer"
)

// ToggleFlag flips one of the two independent yes/no flags on a row.
func (s *WarrantyService) ToggleFlag(ctx context.Context, invoice, serialNumber, flag string) (*models.Warranty, error) {
	var out *models.Warranty
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		w, err := tx.WarrantyByPair(ctx, invoice, serialNumber)
		if err != nil {
			return err
		}
		if w == nil {
			return ErrWarrantyNotFound
		}
		switch flag {
		case FlagUploadToXero:
			w.UploadToXero = flip(w.UploadToXero)
		case FlagEmailCustomer:
			w.EmailCustomer = flip(w.EmailCustomer)
		default:
			return ErrUnknownFlag
		}
		if err := tx.SaveWarranty(ctx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func flip(v string) string {
	if v == models.FlagYes {
		return models.FlagNo
	}
	return models.FlagYes
}
