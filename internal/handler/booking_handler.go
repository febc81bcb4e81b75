package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rentify/internal/middleware"
	"rentify/internal/service"
)

// BookingHandler handles booking endpoints, both top-level and nested under
// an agency.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// BookingRequest represents a booking creation request.
type BookingRequest struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// BookingUpdateRequest represents a partial booking update.
type BookingUpdateRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// List godoc
// @Summary List bookings
// @Description Non-admin callers see only their own bookings. Admins see all, or one agency's when nested under /agencies/{id}/bookings.
// @Tags bookings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	agencyID := uuid.Nil
	if raw := c.Param("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid agency id")
		}
		agencyID = id
	}

	bookings, err := h.bookingService.List(c.Request().Context(), middleware.AccountFrom(c), agencyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(bookings),
		"data":    bookings,
	})
}

// Get godoc
// @Summary Get one booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	booking, err := h.bookingService.Get(c.Request().Context(), middleware.AccountFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": booking})
}

// Create godoc
// @Summary Book an agency
// @Description Non-admin accounts may hold at most 3 bookings.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Agency ID"
// @Param request body BookingRequest true "Booking dates"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /agencies/{id}/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	agencyID, err := pathID(c)
	if err != nil {
		return err
	}

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.Create(c.Request().Context(), middleware.AccountFrom(c), agencyID, service.BookingInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": booking})
}

// Update godoc
// @Summary Update a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body BookingUpdateRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /bookings/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req BookingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.bookingService.Update(c.Request().Context(), middleware.AccountFrom(c), id, service.BookingUpdate{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": booking})
}

// Delete godoc
// @Summary Delete a booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.bookingService.Delete(c.Request().Context(), middleware.AccountFrom(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{}})
}
