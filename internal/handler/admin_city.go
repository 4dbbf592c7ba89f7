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

type cityReq struct {
	Name        string   `json:"name"`
	CountryCode string   `json:"country_code"`
	CenterLat   *float64 `json:"center_lat"`
	CenterLng   *float64 `json:"center_lng"`
}

type cityResp struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	CenterLat   *float64  `json:"center_lat,omitempty"`
	CenterLng   *float64  `json:"center_lng,omitempty"`
}

func toCityResp(c model.City) cityResp {
	return cityResp{ID: c.ID, Name: c.Name, CountryCode: c.CountryCode, CenterLat: c.CenterLat, CenterLng: c.CenterLng}
}

func (r cityReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if len(strings.TrimSpace(r.CountryCode)) != 2 {
		return "country_code must be a 2-letter code"
	}
	if (r.CenterLat == nil) != (r.CenterLng == nil) {
		return "center_lat and center_lng must be set together"
	}
	return ""
}

func (h *AdminHandler) ListCitiesAdmin(c echo.Context) error {
	cities, err := h.Cities.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]cityResp, 0, len(cities))
	for _, city := range cities {
		out = append(out, toCityResp(city))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *AdminHandler) GetCity(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	city, err := h.Cities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toCityResp(*city))
}

func (h *AdminHandler) CreateCity(c echo.Context) error {
	var req cityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	city := model.City{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		CountryCode: strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		CenterLat:   req.CenterLat,
		CenterLng:   req.CenterLng,
	}
	if err := h.Cities.Insert(c.Request().Context(), &city); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create city failed"})
	}
	publishChange(c.Request().Context(), "city", "created", uuid.Nil, city.ID)
	return c.JSON(http.StatusCreated, toCityResp(city))
}

func (h *AdminHandler) UpdateCity(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req cityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	city := model.City{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		CountryCode: strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		CenterLat:   req.CenterLat,
		CenterLng:   req.CenterLng,
	}
	if err := h.Cities.Update(c.Request().Context(), &city); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update city failed"})
	}
	publishChange(c.Request().Context(), "city", "updated", uuid.Nil, id)
	return c.JSON(http.StatusOK, toCityResp(city))
}

// DeleteCity removes a city; 409 while facilities or addresses still
// live in it.
func (h *AdminHandler) DeleteCity(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Cities.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		case errors.Is(err, repository.ErrReferenced):
			return c.JSON(http.StatusConflict, echo.Map{"error": "city still has facilities or addresses"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete city failed"})
		}
	}
	publishChange(c.Request().Context(), "city", "deleted", uuid.Nil, id)
	return c.NoContent(http.StatusNoContent)
}
