package printing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"comanda-system/internal/database/models"
)

var ErrPrinterNotFound = errors.New("printer not found")

// PrinterStore resolves printer configurations for dispatch and backs the
// admin CRUD surface.
type PrinterStore interface {
	Get(ctx context.Context, id int64) (*models.PrinterConfig, error)
	ListActive(ctx context.Context, printerType string) ([]models.PrinterConfig, error)
}

type GormPrinterStore struct {
	db *gorm.DB
}

func NewGormPrinterStore(db *gorm.DB) *GormPrinterStore {
	return &GormPrinterStore{db: db}
}

func (s *GormPrinterStore) Get(ctx context.Context, id int64) (*models.PrinterConfig, error) {
	var printer models.PrinterConfig
	err := s.db.WithContext(ctx).First(&printer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPrinterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &printer, nil
}

// ListActive returns active printers of one type, or all active printers
// when printerType is empty.
func (s *GormPrinterStore) ListActive(ctx context.Context, printerType string) ([]models.PrinterConfig, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if printerType != "" {
		query = query.Where("printer_type = ?", printerType)
	}

	var printers []models.PrinterConfig
	if err := query.Order("id").Find(&printers).Error; err != nil {
		return nil, err
	}
	return printers, nil
}

func (s *GormPrinterStore) Create(ctx context.Context, printer *models.PrinterConfig) error {
	if printer.Port == 0 {
		printer.Port = 9100
	}
	printer.IsActive = true
	return s.db.WithContext(ctx).Create(printer).Error
}

func (s *GormPrinterStore) Update(ctx context.Context, printer *models.PrinterConfig) error {
	return s.db.WithContext(ctx).Save(printer).Error
}

// Deactivate soft deletes: historical print results keep a valid reference.
func (s *GormPrinterStore) Deactivate(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.PrinterConfig{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPrinterNotFound
	}
	return nil
}
