package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"comanda-system/internal/database/models"
	"comanda-system/internal/events"
)

type Service struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewService(db *gorm.DB, publisher events.Publisher) *Service {
	return &Service{db: db, publisher: publisher}
}

type CreateOrderItemInput struct {
	MenuItemID          int64
	Quantity            int32
	SpecialInstructions string
}

type CreateOrderInput struct {
	OrderType      string
	TableID        *int64
	LocationID     *int64
	Items          []CreateOrderItemInput
	Notes          string
	CustomerName   string
	DiscountAmount string
}

type ListFilter struct {
	Status    string
	TableID   *int64
	OrderType string
	DateFrom  *time.Time
	DateTo    *time.Time
	// UserID restricts results to one waiter's orders.
	UserID *int64
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateOrderInput) (*models.Order, error) {
	if in.OrderType == "" {
		in.OrderType = models.OrderTypeDineIn
	}
	if in.OrderType != models.OrderTypeDineIn && in.OrderType != models.OrderTypeTakeaway {
		return nil, validationErrorf("invalid order type %q", in.OrderType)
	}
	if len(in.Items) == 0 {
		return nil, validationErrorf("order items are required")
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, validationErrorf("quantity must be at least 1 for menu item %d", item.MenuItemID)
		}
	}

	discount := decimal.Zero
	if in.DiscountAmount != "" {
		var err error
		discount, err = decimal.NewFromString(in.DiscountAmount)
		if err != nil {
			return nil, validationErrorf("invalid discount amount %q", in.DiscountAmount)
		}
		if discount.IsNegative() {
			return nil, validationErrorf("discount amount must not be negative")
		}
	}

	var table *models.Table
	if in.OrderType == models.OrderTypeDineIn {
		if in.TableID == nil {
			return nil, validationErrorf("table is required for dine-in orders")
		}
		table = &models.Table{}
		err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", *in.TableID, true).First(table).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		if err != nil {
			return nil, err
		}
	} else {
		// Takeaway orders never reference a table.
		in.TableID = nil
	}

	locationID := in.LocationID
	if locationID == nil && table != nil {
		locationID = &table.LocationID
	}

	order := models.Order{
		OrderNumber:    GenerateOrderNumber(),
		TableID:        in.TableID,
		UserID:         userID,
		LocationID:     locationID,
		OrderType:      in.OrderType,
		Status:         models.OrderStatusPending,
		DiscountAmount: discount.StringFixed(2),
		Version:        1,
	}
	if in.Notes != "" {
		order.Notes = &in.Notes
	}
	if in.OrderType == models.OrderTypeTakeaway {
		name := in.CustomerName
		if name == "" {
			name = "Guest"
		}
		order.CustomerName = &name
	}

	lineTotals := make([]decimal.Decimal, 0, len(in.Items))
	orderItems := make([]models.OrderItem, 0, len(in.Items))
	for _, itemIn := range in.Items {
		var menuItem models.MenuItem
		err := s.db.WithContext(ctx).Preload("Category").First(&menuItem, itemIn.MenuItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		if err != nil {
			return nil, err
		}

		locPrice, err := s.locationPrice(ctx, menuItem.ID, locationID)
		if err != nil {
			return nil, err
		}

		if !IsOrderable(&menuItem, locPrice, in.OrderType) {
			return nil, validationErrorf("menu item %q is not available for %s", menuItem.Name, in.OrderType)
		}

		unitPrice, err := ResolveUnitPrice(&menuItem, locPrice, in.OrderType)
		if err != nil {
			return nil, err
		}
		lineTotal := LineTotal(unitPrice, itemIn.Quantity)
		lineTotals = append(lineTotals, lineTotal)

		orderItem := models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   itemIn.Quantity,
			UnitPrice:  unitPrice.StringFixed(2),
			TotalPrice: lineTotal.StringFixed(2),
		}
		if itemIn.SpecialInstructions != "" {
			instructions := itemIn.SpecialInstructions
			orderItem.SpecialInstructions = &instructions
		}
		orderItems = append(orderItems, orderItem)
	}

	order.TotalAmount = ComputeTotal(lineTotals, discount).StringFixed(2)
	order.Items = orderItems

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		EventType:   events.EventNewOrder,
		OrderID:     created.ID,
		OrderNumber: created.OrderNumber,
		TableNumber: tableNumber(created),
		WaiterName:  waiterName(created),
		TotalAmount: created.TotalAmount,
		NewStatus:   created.Status,
		Timestamp:   time.Now(),
	})

	return created, nil
}

func (s *Service) AdvanceStatus(ctx context.Context, orderID int64, target string) (*models.Order, error) {
	if !IsValidStatus(target) {
		return nil, validationErrorf("invalid status %q", target)
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, target) {
		return nil, &IllegalTransitionError{From: order.Status, To: target}
	}

	// Conditional update: a concurrent writer bumps the version and this
	// update matches zero rows instead of silently overwriting.
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":     target,
			"version":    order.Version + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrVersionConflict
	}

	updated, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		EventType:   events.EventOrderStatusChanged,
		OrderID:     updated.ID,
		OrderNumber: updated.OrderNumber,
		TableNumber: tableNumber(updated),
		OldStatus:   order.Status,
		NewStatus:   updated.Status,
		Timestamp:   time.Now(),
	})

	return updated, nil
}

func (s *Service) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.MenuItem.Category").
		Preload("Table").
		Preload("Waiter").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).
		Preload("Items.MenuItem.Category").
		Preload("Table").
		Preload("Waiter")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TableID != nil {
		query = query.Where("table_id = ?", *filter.TableID)
	}
	if filter.OrderType != "" {
		query = query.Where("order_type = ?", filter.OrderType)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// AddItem appends a line to an order that has not yet been sent to the
// kitchen and recomputes the total.
func (s *Service) AddItem(ctx context.Context, orderID int64, in CreateOrderItemInput) (*models.Order, error) {
	if in.Quantity < 1 {
		return nil, validationErrorf("quantity must be at least 1")
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, validationErrorf("cannot modify items of a %s order", order.Status)
	}

	var menuItem models.MenuItem
	err = s.db.WithContext(ctx).Preload("Category").First(&menuItem, in.MenuItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}

	locPrice, err := s.locationPrice(ctx, menuItem.ID, order.LocationID)
	if err != nil {
		return nil, err
	}
	if !IsOrderable(&menuItem, locPrice, order.OrderType) {
		return nil, validationErrorf("menu item %q is not available for %s", menuItem.Name, order.OrderType)
	}

	unitPrice, err := ResolveUnitPrice(&menuItem, locPrice, order.OrderType)
	if err != nil {
		return nil, err
	}
	lineTotal := LineTotal(unitPrice, in.Quantity)

	item := models.OrderItem{
		OrderID:    order.ID,
		MenuItemID: menuItem.ID,
		Quantity:   in.Quantity,
		UnitPrice:  unitPrice.StringFixed(2),
		TotalPrice: lineTotal.StringFixed(2),
	}
	if in.SpecialInstructions != "" {
		instructions := in.SpecialInstructions
		item.SpecialInstructions = &instructions
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, order.ID)
}

// RemoveItem deletes a line from an order that has not yet been sent to the
// kitchen and recomputes the total.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID int64) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, validationErrorf("cannot modify items of a %s order", order.Status)
	}

	var item models.OrderItem
	err = s.db.WithContext(ctx).Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErrorf("order item %d not found", itemID)
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, order.ID)
}

func (s *Service) recomputeTotal(tx *gorm.DB, orderID int64) error {
	var order models.Order
	if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
		return err
	}

	discount, err := decimal.NewFromString(order.DiscountAmount)
	if err != nil {
		discount = decimal.Zero
	}

	lineTotals := make([]decimal.Decimal, 0, len(order.Items))
	for _, item := range order.Items {
		lt, err := decimal.NewFromString(item.TotalPrice)
		if err != nil {
			return err
		}
		lineTotals = append(lineTotals, lt)
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"total_amount": ComputeTotal(lineTotals, discount).StringFixed(2),
			"updated_at":   time.Now(),
		}).Error
}

func (s *Service) locationPrice(ctx context.Context, menuItemID int64, locationID *int64) (*models.LocationPrice, error) {
	if locationID == nil {
		return nil, nil
	}
	var locPrice models.LocationPrice
	err := s.db.WithContext(ctx).
		Where("menu_item_id = ? AND location_id = ?", menuItemID, *locationID).
		First(&locPrice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &locPrice, nil
}

// publish is best effort: a broken relay never fails an order operation.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("orders: failed to publish %s for order %s: %v", event.EventType, event.OrderNumber, err)
	}
}

func tableNumber(order *models.Order) *string {
	if order.Table == nil {
		return nil
	}
	number := order.Table.TableNumber
	return &number
}

func waiterName(order *models.Order) string {
	if order.Waiter == nil {
		return ""
	}
	return order.Waiter.Firstname + " " + order.Waiter.Lastname
}
