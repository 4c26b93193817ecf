package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fmsys/inventory-app/internal/models"
)

// GormStore implements Store on top of *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func lower(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

func lowerAll(vs []string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, lower(v))
	}
	return out
}

// --- inventory items ---

func (s *GormStore) ItemByNumber(ctx context.Context, itemNumber string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.WithContext(ctx).Where("lower(item_number) = ?", lower(itemNumber)).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) ItemsByNumbers(ctx context.Context, itemNumbers []string) (map[string]models.InventoryItem, error) {
	out := map[string]models.InventoryItem{}
	if len(itemNumbers) == 0 {
		return out, nil
	}
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).Where("lower(item_number) IN ?", lowerAll(itemNumbers)).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[lower(it.ItemNumber)] = it
	}
	return out, nil
}

func (s *GormStore) SearchItems(ctx context.Context, f ItemFilter) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Model(&models.InventoryItem{})
	if f.ItemNumber != "" {
		q = q.Where("lower(item_number) LIKE ?", "%"+lower(f.ItemNumber)+"%")
	}
	if f.ItemName != "" {
		q = q.Where("lower(item_name) LIKE ?", "%"+lower(f.ItemName)+"%")
	}
	if f.Category != "" {
		q = q.Where("lower(category) LIKE ?", "%"+lower(f.Category)+"%")
	}
	var items []models.InventoryItem
	if err := q.Order("item_number asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *GormStore) SaveItem(ctx context.Context, item *models.InventoryItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *GormStore) AdjustItemQuantities(ctx context.Context, itemNumber string, totalDelta, inStockDelta int) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("lower(item_number) = ?", lower(itemNumber)).
		Updates(map[string]any{
			"total_quantity":    gorm.Expr("total_quantity + ?", totalDelta),
			"in_stock_quantity": gorm.Expr("in_stock_quantity + ?", inStockDelta),
		})
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteItem(ctx context.Context, itemNumber string) (int64, error) {
	res := s.db.WithContext(ctx).Where("lower(item_number) = ?", lower(itemNumber)).Delete(&models.InventoryItem{})
	return res.RowsAffected, res.Error
}

// --- inventory detail rows ---

func (s *GormStore) DetailByPair(ctx context.Context, serialNumber, itemNumber string) (*models.InventoryDetail, error) {
	var d models.InventoryDetail
	err := s.db.WithContext(ctx).
		Where("lower(serial_number) = ? AND lower(item_number) = ?", lower(serialNumber), lower(itemNumber)).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ExistingPairs returns the subset of pairs already present, resolved in a
// single query rather than one lookup per record.
func (s *GormStore) ExistingPairs(ctx context.Context, pairs []Pair) ([]Pair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	serials := make([]string, 0, len(pairs))
	for _, p := range pairs {
		serials = append(serials, lower(p.SerialNumber))
	}
	var rows []models.InventoryDetail
	if err := s.db.WithContext(ctx).Where("lower(serial_number) IN ?", serials).Find(&rows).Error; err != nil {
		return nil, err
	}
	wanted := map[Pair]bool{}
	for _, p := range pairs {
		wanted[Pair{lower(p.SerialNumber), lower(p.ItemNumber)}] = true
	}
	var found []Pair
	for _, r := range rows {
		if wanted[Pair{lower(r.SerialNumber), lower(r.ItemNumber)}] {
			found = append(found, Pair{r.SerialNumber, r.ItemNumber})
		}
	}
	return found, nil
}

func (s *GormStore) SearchDetails(ctx context.Context, f DetailFilter) ([]models.InventoryDetail, error) {
	q := s.db.WithContext(ctx).Model(&models.InventoryDetail{})
	if f.SerialNumber != "" {
		q = q.Where("lower(serial_number) LIKE ?", "%"+lower(f.SerialNumber)+"%")
	}
	if f.ItemNumber != "" {
		q = q.Where("lower(item_number) LIKE ?", "%"+lower(f.ItemNumber)+"%")
	}
	if f.SupplierID != "" {
		q = q.Where("lower(supplier_id) LIKE ?", "%"+lower(f.SupplierID)+"%")
	}
	if f.SoldStatus != "" {
		q = q.Where("lower(sold_status) LIKE ?", "%"+lower(f.SoldStatus)+"%")
	}
	var rows []models.InventoryDetail
	if err := q.Order("item_number asc, serial_number asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CreateDetail(ctx context.Context, d *models.InventoryDetail) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *GormStore) SaveDetail(ctx context.Context, d *models.InventoryDetail) error {
	return s.db.WithContext(ctx).Save(d).Error
}

func (s *GormStore) DeleteDetail(ctx context.Context, serialNumber, itemNumber string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("lower(serial_number) = ? AND lower(item_number) = ?", lower(serialNumber), lower(itemNumber)).
		Delete(&models.InventoryDetail{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) CountDetailsForItem(ctx context.Context, itemNumber string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.InventoryDetail{}).
		Where("lower(item_number) = ?", lower(itemNumber)).Count(&n).Error
	return n, err
}

func (s *GormStore) RewriteDetailItemNumber(ctx context.Context, oldNumber, newNumber string) error {
	return s.db.WithContext(ctx).Model(&models.InventoryDetail{}).
		Where("lower(item_number) = ?", lower(oldNumber)).
		Update("item_number", newNumber).Error
}

func (s *GormStore) RewriteDetailSupplierID(ctx context.Context, oldID, newID string) error {
	return s.db.WithContext(ctx).Model(&models.InventoryDetail{}).
		Where("lower(supplier_id) = ?", lower(oldID)).
		Update("supplier_id", newID).Error
}

// --- suppliers ---

func (s *GormStore) SupplierByID(ctx context.Context, supplierID string) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.db.WithContext(ctx).Where("lower(supplier_id) = ?", lower(supplierID)).First(&sup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *GormStore) SuppliersByIDs(ctx context.Context, supplierIDs []string) (map[string]models.Supplier, error) {
	out := map[string]models.Supplier{}
	if len(supplierIDs) == 0 {
		return out, nil
	}
	var rows []models.Supplier
	if err := s.db.WithContext(ctx).Where("lower(supplier_id) IN ?", lowerAll(supplierIDs)).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[lower(r.SupplierID)] = r
	}
	return out, nil
}

func (s *GormStore) SearchSuppliers(ctx context.Context, f SupplierFilter) ([]models.Supplier, error) {
	q := s.db.WithContext(ctx).Model(&models.Supplier{})
	if f.SupplierID != "" {
		q = q.Where("lower(supplier_id) LIKE ?", "%"+lower(f.SupplierID)+"%")
	}
	if f.SupplierName != "" {
		q = q.Where("lower(supplier_name) LIKE ?", "%"+lower(f.SupplierName)+"%")
	}
	var rows []models.Supplier
	if err := q.Order("supplier_id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	return s.db.WithContext(ctx).Create(sup).Error
}

func (s *GormStore) SaveSupplier(ctx context.Context, sup *models.Supplier) error {
	return s.db.WithContext(ctx).Save(sup).Error
}

func (s *GormStore) DeleteSupplier(ctx context.Context, supplierID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("lower(supplier_id) = ?", lower(supplierID)).Delete(&models.Supplier{})
	return res.RowsAffected, res.Error
}

// --- warranty rows ---

func (s *GormStore) WarrantyByPair(ctx context.Context, invoice, serialNumber string) (*models.Warranty, error) {
	var w models.Warranty
	err := s.db.WithContext(ctx).
		Where("lower(invoice) = ? AND lower(serial_number) = ?", lower(invoice), lower(serialNumber)).
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *GormStore) SearchWarranties(ctx context.Context, f WarrantyFilter) ([]models.Warranty, error) {
	q := s.db.WithContext(ctx).Model(&models.Warranty{})
	if f.CustomerNumber != "" {
		q = q.Where("lower(customer_number) LIKE ?", "%"+lower(f.CustomerNumber)+"%")
	}
	if f.CustomerName != "" {
		q = q.Where("lower(customer_name) LIKE ?", "%"+lower(f.CustomerName)+"%")
	}
	if f.Invoice != "" {
		q = q.Where("lower(invoice) LIKE ?", "%"+lower(f.Invoice)+"%")
	}
	var rows []models.Warranty
	if err := q.Order("invoice asc, serial_number asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) CreateWarranties(ctx context.Context, rows []models.Warranty) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

func (s *GormStore) SaveWarranty(ctx context.Context, w *models.Warranty) error {
	return s.db.WithContext(ctx).Save(w).Error
}

func (s *GormStore) DeleteWarranty(ctx context.Context, invoice, serialNumber string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("lower(invoice) = ? AND lower(serial_number) = ?", lower(invoice), lower(serialNumber)).
		Delete(&models.Warranty{})
	return res.RowsAffected, res.Error
}
