// Package handler exposes HTTP handlers for both public and admin
// endpoints. This file defines the public facility listing and detail
// handlers: the only responsibility here is parsing query parameters
// and mapping service results to wire responses; all filtering,
// ordering and assembly logic lives in the service layer.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/repository"
	"facilities-directory/internal/service"
)

// PublicHandler aggregates the dependencies of the unauthenticated
// browsing API.
type PublicHandler struct {
	Cities     *repository.CityRepo
	Meta       *repository.MetaRepo
	Facilities *service.FacilityService
}

func NewPublicHandler(cities *repository.CityRepo, meta *repository.MetaRepo, facilities *service.FacilityService) *PublicHandler {
	return &PublicHandler{Cities: cities, Meta: meta, Facilities: facilities}
}

// ListFacilities handles GET /v1/facilities. cityId is the only
// required parameter; everything else is optional and unset filters
// simply do not constrain the search.
func (h *PublicHandler) ListFacilities(c echo.Context) error {
	cityID, err := uuid.Parse(c.QueryParam("cityId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cityId must be a valid uuid"})
	}

	in := service.ListFacilitiesInput{
		CityID:              cityID,
		Query:               c.QueryParam("q"),
		Capabilities:        c.QueryParams()["capability"],
		Features:            c.QueryParams()["feature"],
		EquipmentCategories: c.QueryParams()["equipmentCategory"],
		SpaceTypes:          c.QueryParams()["spaceType"],
		Sort:                c.QueryParam("sort"),
	}

	if in.HasAddress, err = parseBoolParam(c, "hasAddress"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hasAddress must be true or false"})
	}
	if in.HasCoordinates, err = parseBoolParam(c, "hasCoordinates"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hasCoordinates must be true or false"})
	}
	if in.PriceMin, err = parseFloatParam(c, "priceMin"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priceMin must be a number"})
	}
	if in.PriceMax, err = parseFloatParam(c, "priceMax"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priceMax must be a number"})
	}
	in.Page = atoiDefault(c.QueryParam("page"), 1)
	in.PageSize = atoiDefault(c.QueryParam("pageSize"), 0)

	list, err := h.Facilities.ListFacilities(c.Request().Context(), in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetFacility handles GET /v1/facilities/:id. Unknown ids and
// facilities that are not publicly visible both come back as 404.
func (h *PublicHandler) GetFacility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Facilities.GetFacilityDetails(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// parseBoolParam reads an optional tri-state boolean query parameter.
// Absent means nil (no constraint).
func parseBoolParam(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloatParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// atoiDefault parses an int parameter, returning def on blank or
// garbage. Out-of-range values are clamped downstream.
func atoiDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
