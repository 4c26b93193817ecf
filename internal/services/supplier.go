package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fmsys/inventory-app/internal/models"
	"github.com/fmsys/inventory-app/internal/store"
)

var (
	ErrSupplierIDRequired = errors.New("both old and new supplier IDs must be provided")
	ErrSupplierNotFound   = errors.New("supplier not found")
)

// ConflictError reports a supplier ID collision.
type ConflictError struct{ SupplierID string }

func (e *ConflictError) Error() string {
	return fmt.Sprintf("the supplier ID %s already exists", e.SupplierID)
}

// SupplierService owns supplier CRUD, including the rename cascade that
// rewrites every inventory detail row referencing the old supplier ID.
type SupplierService struct {
	store store.Store

	// serializes renames so two concurrent renames cannot both pass the
	// uniqueness check
	mu sync.Mutex
}

func NewSupplierService(st store.Store) *SupplierService {
	return &SupplierService{store: st}
}

func (s *SupplierService) Search(ctx context.Context, f store.SupplierFilter) ([]models.Supplier, error) {
	return s.store.SearchSuppliers(ctx, f)
}

func (s *SupplierService) Create(ctx context.Context, supplierID, supplierName string) (*models.Supplier, error) {
	if strings.TrimSpace(supplierID) == "" {
		supplierID = models.NA
	}
	if strings.TrimSpace(supplierName) == "" {
		supplierName = models.NA
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.store.SupplierByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{SupplierID: supplierID}
	}
	sup := models.Supplier{SupplierID: strings.TrimSpace(supplierID), SupplierName: supplierName}
	if err := s.store.CreateSupplier(ctx, &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}

// Rename changes a supplier's ID (and name). When the ID actually changes,
// the new ID must be free and every detail row referencing the old ID is
// rewritten first, inside the same transaction as the supplier row update.
func (s *SupplierService) Rename(ctx context.Context, oldID, newID, name string) error {
	if strings.TrimSpace(oldID) == "" || strings.TrimSpace(newID) == "" {
		return ErrSupplierIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.WithTx(ctx, func(tx store.Store) error {
		sup, err := tx.SupplierByID(ctx, oldID)
		if err != nil {
			return err
		}
		if sup == nil {
			return ErrSupplierNotFound
		}
		if !strings.EqualFold(strings.TrimSpace(oldID), strings.TrimSpace(newID)) {
			existing, err := tx.SupplierByID(ctx, newID)
			if err != nil {
				return err
			}
			if existing != nil {
				return &ConflictError{SupplierID: newID}
			}
			if err := tx.RewriteDetailSupplierID(ctx, oldID, strings.TrimSpace(newID)); err != nil {
				return err
			}
		}
		sup.SupplierID = strings.TrimSpace(newID)
		sup.SupplierName = name
		return tx.SaveSupplier(ctx, sup)
	})
}

func (s *SupplierService) Delete(ctx context.Context, supplierID string) error {
	n, err := s.store.DeleteSupplier(ctx, supplierID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSupplierNotFound
	}
	return nil
}
