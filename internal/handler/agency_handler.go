package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rentify/internal/errors"
	"rentify/internal/service"
)

// AgencyHandler handles agency endpoints.
type AgencyHandler struct {
	agencyService service.AgencyService
}

// NewAgencyHandler creates a new agency handler.
func NewAgencyHandler(agencyService service.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencyService: agencyService}
}

// AgencyRequest represents an agency creation request.
type AgencyRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// AgencyUpdateRequest represents a partial agency update.
type AgencyUpdateRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// List godoc
// @Summary List agencies
// @Description Supports the select, sort, page, limit and field[op] query grammar.
// @Tags agencies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /agencies [get]
func (h *AgencyHandler) List(c echo.Context) error {
	agencies, pagination, err := h.agencyService.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"count":      len(agencies),
		"pagination": pagination,
		"data":       agencies,
	})
}

// Get godoc
// @Summary Get one agency
// @Tags agencies
// @Produce json
// @Param id path string true "Agency ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /agencies/{id} [get]
func (h *AgencyHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	agency, err := h.agencyService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": agency})
}

// Create godoc
// @Summary Create an agency
// @Tags agencies
// @Accept json
// @Produce json
// @Param request body AgencyRequest true "Agency data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /agencies [post]
func (h *AgencyHandler) Create(c echo.Context) error {
	var req AgencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agency, err := h.agencyService.Create(c.Request().Context(), service.AgencyInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": agency})
}

// Update godoc
// @Summary Update an agency
// @Tags agencies
// @Accept json
// @Produce json
// @Param id path string true "Agency ID"
// @Param request body AgencyUpdateRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /agencies/{id} [put]
func (h *AgencyHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req AgencyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	agency, err := h.agencyService.Update(c.Request().Context(), id, service.AgencyUpdate{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": agency})
}

// Delete godoc
// @Summary Delete an agency and all of its bookings
// @Tags agencies
// @Produce json
// @Param id path string true "Agency ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /agencies/{id} [delete]
func (h *AgencyHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.agencyService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{}})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Validation("Invalid id %s", raw)
	}
	return id, nil
}
