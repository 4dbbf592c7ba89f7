package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PublicCity is a city exposed via the public API. Center is present
// only when both coordinates are set.
type PublicCity struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	CountryCode string      `json:"country_code"`
	Center      *CityCenter `json:"center,omitempty"`
}

type CityCenter struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ListCities returns every city ordered by name. The response carries
// an "items" array so the shape matches the other list endpoints.
func (h *PublicHandler) ListCities(c echo.Context) error {
	cities, err := h.Cities.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicCity, 0, len(cities))
	for _, city := range cities {
		pc := PublicCity{ID: city.ID, Name: city.Name, CountryCode: city.CountryCode}
		if city.CenterLat != nil && city.CenterLng != nil {
			pc.Center = &CityCenter{Lat: *city.CenterLat, Lng: *city.CenterLng}
		}
		out = append(out, pc)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
