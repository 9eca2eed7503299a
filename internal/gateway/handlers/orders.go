package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/database/models"
	"comanda-system/internal/gateway/middleware"
	"comanda-system/internal/orders"
)

type OrdersHandler struct {
	orders *orders.Service
}

func NewOrdersHandler(service *orders.Service) *OrdersHandler {
	return &OrdersHandler{orders: service}
}

type CreateOrderItemRequest struct {
	MenuItemID          int64  `json:"menu_item_id" binding:"required"`
	Quantity            int32  `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type CreateOrderRequest struct {
	OrderType      string                   `json:"order_type,omitempty"`
	TableID        *int64                   `json:"table_id,omitempty"`
	LocationID     *int64                   `json:"location_id,omitempty"`
	Items          []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes          string                   `json:"notes,omitempty"`
	CustomerName   string                   `json:"customer_name,omitempty"`
	DiscountAmount string                   `json:"discount_amount,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListOrdersQuery struct {
	Status    string `form:"status,omitempty"`
	TableID   *int64 `form:"table_id,omitempty"`
	OrderType string `form:"order_type,omitempty"`
	DateFrom  string `form:"date_from,omitempty"`
	DateTo    string `form:"date_to,omitempty"`
}

// --- Views ---

type orderItemView struct {
	ID                  int64   `json:"id"`
	MenuItemID          int64   `json:"menu_item_id"`
	Name                string  `json:"name"`
	Destination         string  `json:"printer_destination,omitempty"`
	Quantity            int32   `json:"quantity"`
	UnitPrice           string  `json:"unit_price"`
	TotalPrice          string  `json:"total_price"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

type orderView struct {
	ID             int64           `json:"id"`
	OrderNumber    string          `json:"order_number"`
	OrderType      string          `json:"order_type"`
	Status         string          `json:"status"`
	TableID        *int64          `json:"table_id,omitempty"`
	TableNumber    *string         `json:"table_number,omitempty"`
	WaiterName     string          `json:"waiter_name,omitempty"`
	CustomerName   *string         `json:"customer_name,omitempty"`
	TotalAmount    string          `json:"total_amount"`
	DiscountAmount string          `json:"discount_amount"`
	Notes          *string         `json:"notes,omitempty"`
	Version        int64           `json:"version"`
	Items          []orderItemView `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func orderToView(order *models.Order) orderView {
	view := orderView{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		OrderType:      order.OrderType,
		Status:         order.Status,
		TableID:        order.TableID,
		CustomerName:   order.CustomerName,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		Notes:          order.Notes,
		Version:        order.Version,
		Items:          make([]orderItemView, 0, len(order.Items)),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.Table != nil {
		number := order.Table.TableNumber
		view.TableNumber = &number
	}
	if order.Waiter != nil {
		view.WaiterName = order.Waiter.Firstname + " " + order.Waiter.Lastname
	}
	for _, item := range order.Items {
		itemView := orderItemView{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			SpecialInstructions: item.SpecialInstructions,
		}
		if item.MenuItem != nil {
			itemView.Name = item.MenuItem.Name
			if item.MenuItem.Category != nil {
				itemView.Destination = item.MenuItem.Category.PrinterDestination
			}
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}

// --- Handlers ---

func (h *OrdersHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items := make([]orders.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orders.CreateOrderItemInput{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	userID := c.GetInt64(middleware.ContextUserID)
	order, err := h.orders.Create(ctx, userID, orders.CreateOrderInput{
		OrderType:      req.OrderType,
		TableID:        req.TableID,
		LocationID:     req.LocationID,
		Items:          items,
		Notes:          req.Notes,
		CustomerName:   req.CustomerName,
		DiscountAmount: req.DiscountAmount,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order created successfully", gin.H{
		"order": orderToView(order),
	}))
}

func (h *OrdersHandler) List(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	filter := orders.ListFilter{
		Status:    query.Status,
		TableID:   query.TableID,
		OrderType: query.OrderType,
	}
	if query.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, query.DateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date_from"))
			return
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse(time.RFC3339, query.DateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date_to"))
			return
		}
		filter.DateTo = &to
	}

	// Waiters only see their own orders.
	if c.GetString(middleware.ContextRole) == models.RoleWaiter {
		userID := c.GetInt64(middleware.ContextUserID)
		filter.UserID = &userID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.orders.List(ctx, filter)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	views := make([]orderView, 0, len(list))
	for i := range list {
		views = append(views, orderToView(&list[i]))
	}

	c.JSON(http.StatusOK, successResponse("Orders retrieved", gin.H{
		"orders": views,
	}))
}

func (h *OrdersHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order retrieved", gin.H{
		"order": orderToView(order),
	}))
}

func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Status is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.orders.AdvanceStatus(ctx, orderID, req.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order status updated", gin.H{
		"order": orderToView(order),
	}))
}

func (h *OrdersHandler) AddItem(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req CreateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.orders.AddItem(ctx, orderID, orders.CreateOrderItemInput{
		MenuItemID:          req.MenuItemID,
		Quantity:            req.Quantity,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Item added to order", gin.H{
		"order": orderToView(order),
	}))
}

func (h *OrdersHandler) RemoveItem(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.orders.RemoveItem(ctx, orderID, itemID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Item removed from order", gin.H{
		"order": orderToView(order),
	}))
}

func respondOrderError(c *gin.Context, err error) {
	var validationErr *orders.ValidationError
	var transitionErr *orders.IllegalTransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorResponse(validationErr.Message))
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, errorResponse(transitionErr.Error()))
	// A missing table or menu item is a bad reference inside the request
	// body, not a missing resource at the URL.
	case errors.Is(err, orders.ErrTableNotFound),
		errors.Is(err, orders.ErrMenuItemNotFound):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, orders.ErrVersionConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}
