package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"comanda-system/internal/database/models"
)

const (
	menuCategoriesCacheKey = "menu:categories"
	menuItemsCacheKey      = "menu:items"
	menuCacheTTL           = 5 * time.Minute
)

var (
	ErrCategoryNotFound = errors.New("menu category not found")
	ErrItemNotFound     = errors.New("menu item not found")
)

type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

func (s *Service) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if s.cacheGet(ctx, menuCategoriesCacheKey, &categories) {
		return categories, nil
	}

	err := s.db.WithContext(ctx).Where("is_active = ?", true).
		Order("sort_order, name").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, menuCategoriesCacheKey, categories)
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	if !isValidDestination(category.PrinterDestination) {
		return errors.New("invalid printer destination")
	}
	category.IsActive = true
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateCategory(ctx context.Context, category *models.MenuCategory) error {
	if !isValidDestination(category.PrinterDestination) {
		return errors.New("invalid printer destination")
	}
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) ListItems(ctx context.Context, categoryID *int64) ([]models.MenuItem, error) {
	if categoryID == nil {
		var items []models.MenuItem
		if s.cacheGet(ctx, menuItemsCacheKey, &items) {
			return items, nil
		}

		err := s.db.WithContext(ctx).Preload("Category").
			Where("is_active = ?", true).
			Order("sort_order, name").Find(&items).Error
		if err != nil {
			return nil, err
		}

		s.cacheSet(ctx, menuItemsCacheKey, items)
		return items, nil
	}

	var items []models.MenuItem
	err := s.db.WithContext(ctx).Preload("Category").
		Where("is_active = ? AND category_id = ?", true, *categoryID).
		Order("sort_order, name").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).Preload("Category").First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if _, err := s.GetCategory(ctx, item.CategoryID); err != nil {
		return err
	}
	item.IsActive = true
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeactivateItem soft deletes so order item snapshots keep their reference.
func (s *Service) DeactivateItem(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	s.invalidate(ctx)
	return nil
}

// SetLocationPrice upserts the location/channel scoped price row for an item.
func (s *Service) SetLocationPrice(ctx context.Context, price *models.LocationPrice) error {
	if _, err := s.GetItem(ctx, price.MenuItemID); err != nil {
		return err
	}

	var existing models.LocationPrice
	err := s.db.WithContext(ctx).
		Where("menu_item_id = ? AND location_id = ?", price.MenuItemID, price.LocationID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(price).Error; err != nil {
			return err
		}
		s.invalidate(ctx)
		return nil
	}
	if err != nil {
		return err
	}

	price.ID = existing.ID
	price.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(price).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, data, menuCacheTTL).Err()
}

func (s *Service) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, menuCategoriesCacheKey, menuItemsCacheKey).Err()
}

// isValidDestination accepts only the destinations the ticket formatter can
// route items to. The receipt printer is not a category target: every order
// already gets a receipt ticket covering all items.
func isValidDestination(destination string) bool {
	switch destination {
	case "", models.DestinationKitchen, models.DestinationBar:
		return true
	}
	return false
}
