package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/database/models"
	"comanda-system/internal/locations"
)

type LocationsHandler struct {
	locations *locations.Service
}

func NewLocationsHandler(service *locations.Service) *LocationsHandler {
	return &LocationsHandler{locations: service}
}

type CreateLocationRequest struct {
	Name        string  `json:"name" binding:"required"`
	DisplayName string  `json:"display_name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (h *LocationsHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.locations.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list locations"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Locations retrieved", gin.H{
		"locations": list,
	}))
}

func (h *LocationsHandler) Create(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	location := models.Location{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Address:     req.Address,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.locations.Create(ctx, &location); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Location created", gin.H{
		"location": location,
	}))
}

func (h *LocationsHandler) Update(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid location ID"))
		return
	}

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	location, err := h.locations.Get(ctx, locationID)
	if err != nil {
		if errors.Is(err, locations.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load location"))
		return
	}

	location.Name = req.Name
	location.DisplayName = req.DisplayName
	location.Description = req.Description
	location.Address = req.Address

	if err := h.locations.Update(ctx, location); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update location"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Location updated", gin.H{
		"location": location,
	}))
}

func (h *LocationsHandler) Delete(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid location ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.locations.Deactivate(ctx, locationID); err != nil {
		if errors.Is(err, locations.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete location"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Location deleted", nil))
}
