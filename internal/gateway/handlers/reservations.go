package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comanda-system/internal/gateway/middleware"
	"comanda-system/internal/reservations"
)

type ReservationsHandler struct {
	reservations *reservations.Service
}

func NewReservationsHandler(service *reservations.Service) *ReservationsHandler {
	return &ReservationsHandler{reservations: service}
}

type CreateReservationRequest struct {
	TableID         int64  `json:"table_id" binding:"required"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	PartySize       int32  `json:"party_size" binding:"required,min=1"`
	ReservationDate string `json:"reservation_date" binding:"required"`
	Notes           string `json:"notes,omitempty"`
}

type UpdateReservationRequest struct {
	CustomerName    *string `json:"customer_name,omitempty"`
	CustomerPhone   *string `json:"customer_phone,omitempty"`
	CustomerEmail   *string `json:"customer_email,omitempty"`
	PartySize       *int32  `json:"party_size,omitempty"`
	ReservationDate *string `json:"reservation_date,omitempty"`
	Status          *string `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type ListReservationsQuery struct {
	TableID      *int64 `form:"table_id,omitempty"`
	Status       string `form:"status,omitempty"`
	DateFrom     string `form:"date_from,omitempty"`
	DateTo       string `form:"date_to,omitempty"`
	CustomerName string `form:"customer_name,omitempty"`
	Page         int    `form:"page,omitempty"`
	PerPage      int    `form:"per_page,omitempty"`
}

func (h *ReservationsHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	reservationDate, err := time.Parse(time.RFC3339, req.ReservationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid reservation date format, use RFC 3339"))
		return
	}

	userID := c.GetInt64(middleware.ContextUserID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reservation, err := h.reservations.Create(ctx, userID, reservations.CreateInput{
		TableID:         req.TableID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		PartySize:       req.PartySize,
		ReservationDate: reservationDate,
		Notes:           req.Notes,
	})
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Reservation created successfully", gin.H{
		"reservation": reservation,
	}))
}

func (h *ReservationsHandler) List(c *gin.Context) {
	var query ListReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	filter := reservations.ListFilter{
		TableID:      query.TableID,
		Status:       query.Status,
		CustomerName: query.CustomerName,
		Page:         query.Page,
		PerPage:      query.PerPage,
	}
	if query.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, query.DateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date_from format"))
			return
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := time.Parse(time.RFC3339, query.DateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date_to format"))
			return
		}
		filter.DateTo = &to
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.reservations.List(ctx, filter)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Reservations retrieved", gin.H{
		"reservations": list,
	}))
}

func (h *ReservationsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid reservation ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reservation, err := h.reservations.Get(ctx, id)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Reservation retrieved", gin.H{
		"reservation": reservation,
	}))
}

func (h *ReservationsHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid reservation ID"))
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	in := reservations.UpdateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PartySize:     req.PartySize,
		Status:        req.Status,
		Notes:         req.Notes,
	}
	if req.ReservationDate != nil {
		reservationDate, err := time.Parse(time.RFC3339, *req.ReservationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid reservation date format, use RFC 3339"))
			return
		}
		in.ReservationDate = &reservationDate
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	reservation, err := h.reservations.Update(ctx, id, in)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Reservation updated successfully", gin.H{
		"reservation": reservation,
	}))
}

func (h *ReservationsHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid reservation ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.reservations.Cancel(ctx, id); err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Reservation cancelled successfully", nil))
}

func (h *ReservationsHandler) CheckAvailability(c *gin.Context) {
	dateParam := c.Query("reservation_date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, errorResponse("reservation_date is required"))
		return
	}
	at, err := time.Parse(time.RFC3339, dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid reservation date format, use RFC 3339"))
		return
	}

	var tableID *int64
	if param := c.Query("table_id"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid table ID"))
			return
		}
		tableID = &id
	}
	var partySize *int32
	if param := c.Query("party_size"); param != "" {
		size, err := strconv.ParseInt(param, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid party size"))
			return
		}
		size32 := int32(size)
		partySize = &size32
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	availability, err := h.reservations.CheckAvailability(ctx, at, tableID, partySize)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Availability checked", gin.H{
		"availability":   availability,
		"requested_date": at,
	}))
}

func (h *ReservationsHandler) Today(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := h.reservations.Today(ctx)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Today's reservations retrieved", gin.H{
		"reservations": list,
		"total_count":  len(list),
	}))
}

func respondReservationError(c *gin.Context, err error) {
	var validationErr *reservations.ValidationError
	var conflictErr *reservations.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorResponse(validationErr.Message))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Message: conflictErr.Error(),
			Data:    gin.H{"conflicting_reservation": conflictErr.Existing},
		})
	case errors.Is(err, reservations.ErrTableNotFound),
		errors.Is(err, reservations.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}
