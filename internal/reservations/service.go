package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"comanda-system/internal/database/models"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTableNotFound       = errors.New("table not found")
)

// conflictWindow is the blocking interval around an existing booking: a new
// reservation within two hours of a confirmed one on the same table is
// rejected.
const conflictWindow = 2 * time.Hour

// blockingStatuses are the reservation statuses that hold a table.
// Cancelled and no-show bookings free the slot.
var blockingStatuses = []string{
	models.ReservationStatusConfirmed,
	models.ReservationStatusCompleted,
}

// ConflictError carries the booking that already holds the slot so the
// caller can show it to the customer.
type ConflictError struct {
	Existing *models.Reservation
}

func (e *ConflictError) Error() string {
	return "table is already reserved during this time period"
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsBlocking reports whether a reservation in the given status holds its
// table against new bookings.
func IsBlocking(status string) bool {
	for _, s := range blockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool {
	switch status {
	case models.ReservationStatusConfirmed, models.ReservationStatusCancelled,
		models.ReservationStatusCompleted, models.ReservationStatusNoShow:
		return true
	}
	return false
}

// ConflictBounds returns the interval an existing booking must fall inside
// to block a new one at the given time.
func ConflictBounds(at time.Time) (time.Time, time.Time) {
	return at.Add(-conflictWindow), at.Add(conflictWindow)
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	TableID         int64
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	PartySize       int32
	ReservationDate time.Time
	Notes           string
}

type UpdateInput struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerEmail   *string
	PartySize       *int32
	ReservationDate *time.Time
	Status          *string
	Notes           *string
}

type ListFilter struct {
	TableID      *int64
	Status       string
	DateFrom     *time.Time
	DateTo       *time.Time
	CustomerName string
	Page         int
	PerPage      int
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*models.Reservation, error) {
	if in.CustomerName == "" {
		return nil, validationErrorf("customer name is required")
	}
	if in.PartySize < 1 {
		return nil, validationErrorf("party size must be at least 1")
	}
	if !in.ReservationDate.After(time.Now()) {
		return nil, validationErrorf("reservation date must be in the future")
	}

	var table models.Table
	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", in.TableID, true).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	if in.PartySize > table.Capacity {
		return nil, validationErrorf("party size (%d) exceeds table capacity (%d)", in.PartySize, table.Capacity)
	}

	if existing, err := s.conflicting(ctx, in.TableID, in.ReservationDate); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &ConflictError{Existing: existing}
	}

	reservation := models.Reservation{
		TableID:         in.TableID,
		CustomerName:    in.CustomerName,
		PartySize:       in.PartySize,
		ReservationDate: in.ReservationDate,
		Status:          models.ReservationStatusConfirmed,
		CreatedBy:       userID,
	}
	if in.CustomerPhone != "" {
		phone := in.CustomerPhone
		reservation.CustomerPhone = &phone
	}
	if in.CustomerEmail != "" {
		email := in.CustomerEmail
		reservation.CustomerEmail = &email
	}
	if in.Notes != "" {
		notes := in.Notes
		reservation.Notes = &notes
	}

	if err := s.db.WithContext(ctx).Create(&reservation).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, reservation.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Preload("Table").First(&reservation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Reservation, error) {
	query := s.db.WithContext(ctx).Model(&models.Reservation{}).Preload("Table")

	if filter.TableID != nil {
		query = query.Where("table_id = ?", *filter.TableID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("reservation_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("reservation_date <= ?", *filter.DateTo)
	}
	if filter.CustomerName != "" {
		query = query.Where("customer_name ILIKE ?", "%"+filter.CustomerName+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 100 {
		perPage = 100
	}

	var reservations []models.Reservation
	err := query.Order("reservation_date DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.Reservation, error) {
	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CustomerName != nil {
		if *in.CustomerName == "" {
			return nil, validationErrorf("customer name is required")
		}
		reservation.CustomerName = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		reservation.CustomerPhone = in.CustomerPhone
	}
	if in.CustomerEmail != nil {
		reservation.CustomerEmail = in.CustomerEmail
	}
	if in.PartySize != nil {
		if *in.PartySize < 1 {
			return nil, validationErrorf("party size must be at least 1")
		}
		if reservation.Table != nil && *in.PartySize > reservation.Table.Capacity {
			return nil, validationErrorf("party size (%d) exceeds table capacity (%d)",
				*in.PartySize, reservation.Table.Capacity)
		}
		reservation.PartySize = *in.PartySize
	}
	if in.ReservationDate != nil {
		if !in.ReservationDate.After(time.Now()) {
			return nil, validationErrorf("reservation date must be in the future")
		}
		reservation.ReservationDate = *in.ReservationDate
	}
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, validationErrorf("invalid status %q", *in.Status)
		}
		reservation.Status = *in.Status
	}
	if in.Notes != nil {
		reservation.Notes = in.Notes
	}

	if err := s.db.WithContext(ctx).Save(reservation).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Cancel is a status change, not a delete.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.ReservationStatusCancelled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// TableAvailability answers "can this table be booked at that time", with
// the blocking reservation attached when it cannot.
type TableAvailability struct {
	Table       models.Table        `json:"table"`
	Available   bool                `json:"available"`
	Conflicting *models.Reservation `json:"conflicting_reservation,omitempty"`
}

func (s *Service) CheckAvailability(ctx context.Context, at time.Time, tableID *int64, partySize *int32) ([]TableAvailability, error) {
	if !at.After(time.Now()) {
		return nil, validationErrorf("reservation date must be in the future")
	}

	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if tableID != nil {
		query = query.Where("id = ?", *tableID)
	}
	if partySize != nil {
		query = query.Where("capacity >= ?", *partySize)
	}

	var tabs []models.Table
	if err := query.Order("table_number").Find(&tabs).Error; err != nil {
		return nil, err
	}

	availability := make([]TableAvailability, 0, len(tabs))
	for _, tab := range tabs {
		existing, err := s.conflicting(ctx, tab.ID, at)
		if err != nil {
			return nil, err
		}
		availability = append(availability, TableAvailability{
			Table:       tab,
			Available:   existing == nil,
			Conflicting: existing,
		})
	}
	return availability, nil
}

// Today lists the day's bookings that still hold a table, earliest first.
func (s *Service) Today(ctx context.Context) ([]models.Reservation, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var reservations []models.Reservation
	err := s.db.WithContext(ctx).Preload("Table").
		Where("reservation_date >= ? AND reservation_date < ? AND status IN ?", start, end, blockingStatuses).
		Order("reservation_date ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Service) conflicting(ctx context.Context, tableID int64, at time.Time) (*models.Reservation, error) {
	start, end := ConflictBounds(at)

	var existing models.Reservation
	err := s.db.WithContext(ctx).
		Where("table_id = ? AND reservation_date BETWEEN ? AND ? AND status IN ?",
			tableID, start, end, blockingStatuses).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}
