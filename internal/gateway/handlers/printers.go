package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/database/models"
	"comanda-system/internal/orders"
	"comanda-system/internal/printing"
)

type PrintersHandler struct {
	dispatcher *printing.Dispatcher
	store      *printing.GormPrinterStore
}

func NewPrintersHandler(dispatcher *printing.Dispatcher, store *printing.GormPrinterStore) *PrintersHandler {
	return &PrintersHandler{dispatcher: dispatcher, store: store}
}

type PrintOrderRequest struct {
	PrinterType string `json:"printer_type,omitempty"`
}

type CreatePrinterRequest struct {
	Name        string `json:"name" binding:"required"`
	PrinterType string `json:"printer_type" binding:"required"`
	IPAddress   string `json:"ip_address" binding:"required"`
	Port        int32  `json:"port,omitempty"`
	LocationID  *int64 `json:"location_id,omitempty"`
}

type UpdatePrinterRequest struct {
	Name        *string `json:"name,omitempty"`
	PrinterType *string `json:"printer_type,omitempty"`
	IPAddress   *string `json:"ip_address,omitempty"`
	Port        *int32  `json:"port,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func validPrinterType(printerType string) bool {
	switch printerType {
	case models.DestinationKitchen, models.DestinationBar, models.DestinationReceipt:
		return true
	}
	return false
}

func (h *PrintersHandler) PrintOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req PrintOrderRequest
	// Body is optional; an absent body means print everything.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if req.PrinterType == "" {
		req.PrinterType = "all"
	}
	if req.PrinterType != "all" && !validPrinterType(req.PrinterType) {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid printer type"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	results, err := h.dispatcher.PrintOrder(ctx, orderID, req.PrinterType)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Print dispatch failed"))
		return
	}

	successful := 0
	for _, result := range results {
		if result.Success {
			successful++
		}
	}

	c.JSON(http.StatusOK, successResponse(
		fmt.Sprintf("Print job completed. %d/%d printers successful.", successful, len(results)),
		gin.H{"results": results},
	))
}

func (h *PrintersHandler) TestPrinter(c *gin.Context) {
	printerID, err := strconv.ParseInt(c.Param("printerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid printer ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.dispatcher.TestPrinter(ctx, printerID)
	if err != nil {
		if errors.Is(err, printing.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Printer test failed"))
		return
	}

	message := "Test page sent successfully"
	if !result.Success {
		message = result.Error
	}
	c.JSON(http.StatusOK, successResponse(message, gin.H{
		"success":      result.Success,
		"printer_name": result.PrinterName,
	}))
}

func (h *PrintersHandler) ListConfigs(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	printers, err := h.store.ListActive(ctx, c.Query("printer_type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list printers"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Printers retrieved", gin.H{
		"printers": printers,
	}))
}

func (h *PrintersHandler) CreateConfig(c *gin.Context) {
	var req CreatePrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if !validPrinterType(req.PrinterType) {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid printer type"))
		return
	}

	printer := models.PrinterConfig{
		Name:        req.Name,
		PrinterType: req.PrinterType,
		IPAddress:   req.IPAddress,
		Port:        req.Port,
		LocationID:  req.LocationID,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.store.Create(ctx, &printer); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create printer"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Printer configuration created", gin.H{
		"printer": printer,
	}))
}

func (h *PrintersHandler) UpdateConfig(c *gin.Context) {
	printerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid printer ID"))
		return
	}

	var req UpdatePrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	printer, err := h.store.Get(ctx, printerID)
	if err != nil {
		if errors.Is(err, printing.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load printer"))
		return
	}

	if req.Name != nil {
		printer.Name = *req.Name
	}
	if req.PrinterType != nil {
		if !validPrinterType(*req.PrinterType) {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid printer type"))
			return
		}
		printer.PrinterType = *req.PrinterType
	}
	if req.IPAddress != nil {
		printer.IPAddress = *req.IPAddress
	}
	if req.Port != nil {
		printer.Port = *req.Port
	}
	if req.IsActive != nil {
		printer.IsActive = *req.IsActive
	}

	if err := h.store.Update(ctx, printer); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update printer"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Printer configuration updated", gin.H{
		"printer": printer,
	}))
}

func (h *PrintersHandler) DeleteConfig(c *gin.Context) {
	printerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid printer ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.store.Deactivate(ctx, printerID); err != nil {
		if errors.Is(err, printing.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete printer"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Printer configuration deleted", nil))
}
