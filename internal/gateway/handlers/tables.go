package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/database/models"
	"comanda-system/internal/tables"
)

type TablesHandler struct {
	tables *tables.Service
}

func NewTablesHandler(service *tables.Service) *TablesHandler {
	return &TablesHandler{tables: service}
}

type CreateTableRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
	LocationID  int64  `json:"location_id" binding:"required"`
	Capacity    int32  `json:"capacity,omitempty"`
	Status      string `json:"status,omitempty"`
	XPosition   int32  `json:"x_position,omitempty"`
	YPosition   int32  `json:"y_position,omitempty"`
}

type UpdateTableRequest struct {
	TableNumber *string `json:"table_number,omitempty"`
	Capacity    *int32  `json:"capacity,omitempty"`
	XPosition   *int32  `json:"x_position,omitempty"`
	YPosition   *int32  `json:"y_position,omitempty"`
}

type UpdateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TablesHandler) List(c *gin.Context) {
	var locationID *int64
	if raw := c.Query("location_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid location_id"))
			return
		}
		locationID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	views, err := h.tables.List(ctx, locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list tables"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Tables retrieved", gin.H{
		"tables": views,
	}))
}

func (h *TablesHandler) Create(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 4
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		LocationID:  req.LocationID,
		Capacity:    capacity,
		Status:      req.Status,
		XPosition:   req.XPosition,
		YPosition:   req.YPosition,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.tables.Create(ctx, &table); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Table created", gin.H{
		"table": table,
	}))
}

func (h *TablesHandler) Update(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	table, err := h.tables.Get(ctx, tableID)
	if err != nil {
		if errors.Is(err, tables.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load table"))
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.XPosition != nil {
		table.XPosition = *req.XPosition
	}
	if req.YPosition != nil {
		table.YPosition = *req.YPosition
	}

	if err := h.tables.Update(ctx, table); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update table"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Table updated", gin.H{
		"table": table,
	}))
}

func (h *TablesHandler) UpdateStatus(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	var req UpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Status is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	table, err := h.tables.UpdateStatus(ctx, tableID, req.Status)
	if err != nil {
		if errors.Is(err, tables.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, successResponse("Table status updated", gin.H{
		"table": table,
	}))
}

func (h *TablesHandler) Delete(c *gin.Context) {
	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.tables.Deactivate(ctx, tableID); err != nil {
		if errors.Is(err, tables.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete table"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Table deleted", nil))
}
