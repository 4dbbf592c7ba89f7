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

type spaceReq struct {
	FacilityID     *uuid.UUID `json:"facility_id"`
	SpaceTypeID    *uuid.UUID `json:"space_type_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	CapacityPeople *int       `json:"capacity_people"`
	SizeM2         *float64   `json:"size_m2"`
}

type spaceResp struct {
	ID             uuid.UUID `json:"id"`
	FacilityID     uuid.UUID `json:"facility_id"`
	SpaceTypeID    uuid.UUID `json:"space_type_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	CapacityPeople *int      `json:"capacity_people,omitempty"`
	SizeM2         *float64  `json:"size_m2,omitempty"`
}

func toSpaceResp(s model.Space) spaceResp {
	return spaceResp{
		ID:             s.ID,
		FacilityID:     s.FacilityID,
		SpaceTypeID:    s.SpaceTypeID,
		Name:           s.Name,
		Description:    s.Description,
		CapacityPeople: s.CapacityPeople,
		SizeM2:         s.SizeM2,
	}
}

func (r spaceReq) validate(create bool) string {
	if create && r.FacilityID == nil {
		return "facility_id required"
	}
	if r.SpaceTypeID == nil {
		return "space_type_id required"
	}
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if r.CapacityPeople != nil && *r.CapacityPeople < 1 {
		return "capacity_people must be positive"
	}
	if r.SizeM2 != nil && *r.SizeM2 <= 0 {
		return "size_m2 must be positive"
	}
	return ""
}

func (h *AdminHandler) GetSpace(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	s, err := h.Spaces.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toSpaceResp(*s))
}

func (h *AdminHandler) CreateSpace(c echo.Context) error {
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(true); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	// The facility must exist; its city rides along on the change event.
	f, err := h.Facilities.GetByID(c.Request().Context(), *req.FacilityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s := model.Space{
		ID:             uuid.New(),
		FacilityID:     *req.FacilityID,
		SpaceTypeID:    *req.SpaceTypeID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		CapacityPeople: req.CapacityPeople,
		SizeM2:         req.SizeM2,
	}
	if err := h.Spaces.Insert(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create space failed"})
	}
	publishChange(c.Request().Context(), "space", "created", s.FacilityID, f.CityID)
	return c.JSON(http.StatusCreated, toSpaceResp(s))
}

func (h *AdminHandler) UpdateSpace(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(false); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	s, err := h.Spaces.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s.SpaceTypeID = *req.SpaceTypeID
	s.Name = strings.TrimSpace(req.Name)
	s.Description = req.Description
	s.CapacityPeople = req.CapacityPeople
	s.SizeM2 = req.SizeM2
	if err := h.Spaces.Update(c.Request().Context(), s); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update space failed"})
	}
	publishChange(c.Request().Context(), "space", "updated", s.FacilityID, uuid.Nil)
	return c.JSON(http.StatusOK, toSpaceResp(*s))
}

// DeleteSpace removes a space with its media links and space-scoped
// prices.
func (h *AdminHandler) DeleteSpace(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	s, err := h.Spaces.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Spaces.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete space failed"})
	}
	publishChange(c.Request().Context(), "space", "deleted", s.FacilityID, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}

// ReplaceSpaceMedia swaps a space's media gallery links.
func (h *AdminHandler) ReplaceSpaceMedia(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []mediaLinkItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	inputs, msg := parseMediaLinks(req.Items)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	s, err := h.Spaces.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Spaces.ReplaceMedia(c.Request().Context(), id, inputs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "replace space media failed"})
	}
	publishChange(c.Request().Context(), "space_media", "replaced", s.FacilityID, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}
