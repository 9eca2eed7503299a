package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/database/models"
	"comanda-system/internal/menu"
)

type MenuHandler struct {
	menu *menu.Service
}

func NewMenuHandler(service *menu.Service) *MenuHandler {
	return &MenuHandler{menu: service}
}

type CreateCategoryRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        *string `json:"description,omitempty"`
	SortOrder          int32   `json:"sort_order,omitempty"`
	PrinterDestination string  `json:"printer_destination,omitempty"`
}

type CreateMenuItemRequest struct {
	Name                string  `json:"name" binding:"required"`
	Description         *string `json:"description,omitempty"`
	Price               string  `json:"price" binding:"required"`
	TakeawayPrice       *string `json:"takeaway_price,omitempty"`
	CategoryID          int64   `json:"category_id" binding:"required"`
	IsAvailable         *bool   `json:"is_available,omitempty"`
	IsAvailableTakeaway *bool   `json:"is_available_takeaway,omitempty"`
	IsTakeawayOnly      bool    `json:"is_takeaway_only,omitempty"`
	PreparationTime     int32   `json:"preparation_time,omitempty"`
	SortOrder           int32   `json:"sort_order,omitempty"`
}

type UpdateMenuItemRequest struct {
	Name                *string `json:"name,omitempty"`
	Description         *string `json:"description,omitempty"`
	Price               *string `json:"price,omitempty"`
	TakeawayPrice       *string `json:"takeaway_price,omitempty"`
	CategoryID          *int64  `json:"category_id,omitempty"`
	IsAvailable         *bool   `json:"is_available,omitempty"`
	IsAvailableTakeaway *bool   `json:"is_available_takeaway,omitempty"`
	IsTakeawayOnly      *bool   `json:"is_takeaway_only,omitempty"`
	SortOrder           *int32  `json:"sort_order,omitempty"`
}

type SetLocationPriceRequest struct {
	LocationID          int64   `json:"location_id" binding:"required"`
	DineInPrice         *string `json:"dine_in_price,omitempty"`
	TakeawayPrice       *string `json:"takeaway_price,omitempty"`
	IsAvailable         *bool   `json:"is_available,omitempty"`
	IsAvailableTakeaway *bool   `json:"is_available_takeaway,omitempty"`
}

func (h *MenuHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	categories, err := h.menu.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list categories"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Categories retrieved", gin.H{
		"categories": categories,
	}))
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	category := models.MenuCategory{
		Name:               req.Name,
		Description:        req.Description,
		SortOrder:          req.SortOrder,
		PrinterDestination: req.PrinterDestination,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.menu.CreateCategory(ctx, &category); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Category created", gin.H{
		"category": category,
	}))
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid category ID"))
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	category, err := h.menu.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, menu.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load category"))
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	category.SortOrder = req.SortOrder
	category.PrinterDestination = req.PrinterDestination

	if err := h.menu.UpdateCategory(ctx, category); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, successResponse("Category updated", gin.H{
		"category": category,
	}))
}

func (h *MenuHandler) ListItems(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid category_id"))
			return
		}
		categoryID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.menu.ListItems(ctx, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list menu items"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Menu items retrieved", gin.H{
		"items": items,
	}))
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	item := models.MenuItem{
		Name:                req.Name,
		Description:         req.Description,
		Price:               req.Price,
		TakeawayPrice:       req.TakeawayPrice,
		CategoryID:          req.CategoryID,
		IsAvailable:         true,
		IsAvailableTakeaway: true,
		IsTakeawayOnly:      req.IsTakeawayOnly,
		PreparationTime:     req.PreparationTime,
		SortOrder:           req.SortOrder,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsAvailableTakeaway != nil {
		item.IsAvailableTakeaway = *req.IsAvailableTakeaway
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.menu.CreateItem(ctx, &item); err != nil {
		if errors.Is(err, menu.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Menu item created", gin.H{
		"item": item,
	}))
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item ID"))
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	item, err := h.menu.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load menu item"))
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.TakeawayPrice != nil {
		item.TakeawayPrice = req.TakeawayPrice
	}
	if req.CategoryID != nil {
		item.CategoryID = *req.CategoryID
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.IsAvailableTakeaway != nil {
		item.IsAvailableTakeaway = *req.IsAvailableTakeaway
	}
	if req.IsTakeawayOnly != nil {
		item.IsTakeawayOnly = *req.IsTakeawayOnly
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	if err := h.menu.UpdateItem(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update menu item"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Menu item updated", gin.H{
		"item": item,
	}))
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.menu.DeactivateItem(ctx, itemID); err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete menu item"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Menu item deleted", nil))
}

func (h *MenuHandler) SetLocationPrice(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid item ID"))
		return
	}

	var req SetLocationPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	price := models.LocationPrice{
		MenuItemID:          itemID,
		LocationID:          req.LocationID,
		DineInPrice:         req.DineInPrice,
		TakeawayPrice:       req.TakeawayPrice,
		IsAvailable:         true,
		IsAvailableTakeaway: true,
	}
	if req.IsAvailable != nil {
		price.IsAvailable = *req.IsAvailable
	}
	if req.IsAvailableTakeaway != nil {
		price.IsAvailableTakeaway = *req.IsAvailableTakeaway
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.menu.SetLocationPrice(ctx, &price); err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, successResponse("Location price set", gin.H{
		"location_price": price,
	}))
}
