package locations

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"comanda-system/internal/database/models"
)

var ErrLocationNotFound = errors.New("location not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	err := s.db.WithContext(ctx).Where("is_active = ?", true).
		Order("name").Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	err := s.db.WithContext(ctx).First(&location, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (s *Service) Create(ctx context.Context, location *models.Location) error {
	location.IsActive = true
	return s.db.WithContext(ctx).Create(location).Error
}

func (s *Service) Update(ctx context.Context, location *models.Location) error {
	return s.db.WithContext(ctx).Save(location).Error
}

// Deactivate soft deletes; tables and prices keep their references.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Location{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLocationNotFound
	}
	return nil
}
