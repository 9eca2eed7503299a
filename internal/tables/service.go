package tables

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"comanda-system/internal/database/models"
)

var ErrTableNotFound = errors.New("table not found")

// activeStatuses are the order statuses that keep a table busy. The
// computed view wins over the stored status field when deciding whether a
// table really has open work.
var activeStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TableView is a table plus its derived occupancy, computed from
// non-terminal orders rather than the stored status.
type TableView struct {
	models.Table
	ActiveOrdersCount int64 `json:"active_orders_count"`
	HasActiveOrders   bool  `json:"has_active_orders"`
}

func (s *Service) List(ctx context.Context, locationID *int64) ([]TableView, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	var tabs []models.Table
	if err := query.Order("table_number").Find(&tabs).Error; err != nil {
		return nil, err
	}

	counts, err := s.activeOrderCounts(ctx, tabs)
	if err != nil {
		return nil, err
	}

	views := make([]TableView, 0, len(tabs))
	for _, tab := range tabs {
		count := counts[tab.ID]
		views = append(views, TableView{
			Table:             tab,
			ActiveOrdersCount: count,
			HasActiveOrders:   count > 0,
		})
	}
	return views, nil
}

// activeOrderCounts fetches the open-order count for all listed tables in
// one grouped query.
func (s *Service) activeOrderCounts(ctx context.Context, tabs []models.Table) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(tabs))
	if len(tabs) == 0 {
		return counts, nil
	}

	ids := make([]int64, 0, len(tabs))
	for _, tab := range tabs {
		ids = append(ids, tab.ID)
	}

	var rows []struct {
		TableID int64
		Count   int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("table_id, COUNT(*) AS count").
		Where("table_id IN ? AND status IN ?", ids, activeStatuses).
		Group("table_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TableID] = row.Count
	}
	return counts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Table, error) {
	var tab models.Table
	err := s.db.WithContext(ctx).First(&tab, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tab, nil
}

func (s *Service) Create(ctx context.Context, tab *models.Table) error {
	if tab.Status == "" {
		tab.Status = models.TableStatusAvailable
	}
	if !IsValidStatus(tab.Status) {
		return errors.New("invalid table status")
	}
	tab.IsActive = true
	return s.db.WithContext(ctx).Create(tab).Error
}

func (s *Service) Update(ctx context.Context, tab *models.Table) error {
	return s.db.WithContext(ctx).Save(tab).Error
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Table, error) {
	if !IsValidStatus(status) {
		return nil, errors.New("invalid table status")
	}
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTableNotFound
	}
	return s.Get(ctx, id)
}

// Deactivate soft deletes so historical orders keep their table reference.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTableNotFound
	}
	return nil
}

func IsValidStatus(status string) bool {
	switch status {
	case models.TableStatusAvailable, models.TableStatusOccupied,
		models.TableStatusReserved, models.TableStatusCleaning:
		return true
	}
	return false
}
