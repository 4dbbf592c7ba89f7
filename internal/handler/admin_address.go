package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/model"
	"facilities-directory/internal/repository"
)

type addressReq struct {
	CityID *uuid.UUID `json:"city_id"`
	Label  string     `json:"label"`
	Lat    *float64   `json:"lat"`
	Lng    *float64   `json:"lng"`
}

type addressResp struct {
	ID     uuid.UUID `json:"id"`
	CityID uuid.UUID `json:"city_id"`
	Label  string    `json:"label"`
	Lat    *float64  `json:"lat,omitempty"`
	Lng    *float64  `json:"lng,omitempty"`
}

func toAddressResp(a model.Address) addressResp {
	return addressResp{ID: a.ID, CityID: a.CityID, Label: a.Label, Lat: a.Lat, Lng: a.Lng}
}

func (r addressReq) validate() string {
	if r.CityID == nil {
		return "city_id required"
	}
	if strings.TrimSpace(r.Label) == "" {
		return "label required"
	}
	if (r.Lat == nil) != (r.Lng == nil) {
		return "lat and lng must be set together"
	}
	return ""
}

func (h *AdminHandler) GetAddress(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	a, err := h.Addresses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toAddressResp(*a))
}

func (h *AdminHandler) CreateAddress(c echo.Context) error {
	var req addressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := model.Address{
		ID:     uuid.New(),
		CityID: *req.CityID,
		Label:  strings.TrimSpace(req.Label),
		Lat:    req.Lat,
		Lng:    req.Lng,
	}
	if err := h.Addresses.Insert(c.Request().Context(), &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create address failed"})
	}
	return c.JSON(http.StatusCreated, toAddressResp(a))
}

func (h *AdminHandler) UpdateAddress(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req addressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := model.Address{
		ID:     id,
		CityID: *req.CityID,
		Label:  strings.TrimSpace(req.Label),
		Lat:    req.Lat,
		Lng:    req.Lng,
	}
	if err := h.Addresses.Update(c.Request().Context(), &a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update address failed"})
	}
	publishChange(c.Request().Context(), "address", "updated", uuid.Nil, a.CityID)
	return c.JSON(http.StatusOK, toAddressResp(a))
}

// DeleteAddress removes an address; 409 while a facility still points
// at it.
func (h *AdminHandler) DeleteAddress(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Addresses.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
		case errors.Is(err, repository.ErrReferenced):
			return c.JSON(http.StatusConflict, echo.Map{"error": "address still attached to a facility"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete address failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
