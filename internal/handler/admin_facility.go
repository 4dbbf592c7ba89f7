package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/model"
	"facilities-directory/internal/repository"
)

type facilityReq struct {
	CityID       *uuid.UUID `json:"city_id"`
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	AddressID    *uuid.UUID `json:"address_id"`
	CoverMediaID *uuid.UUID `json:"cover_media_id"`
	Status       *string    `json:"status"`
}

type facilityResp struct {
	ID           uuid.UUID  `json:"id"`
	CityID       uuid.UUID  `json:"city_id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	AddressID    *uuid.UUID `json:"address_id,omitempty"`
	CoverMediaID *uuid.UUID `json:"cover_media_id,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toFacilityResp(f model.Facility) facilityResp {
	return facilityResp{
		ID:           f.ID,
		CityID:       f.CityID,
		Name:         f.Name,
		Description:  f.Description,
		AddressID:    f.AddressID,
		CoverMediaID: f.CoverMediaID,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func validStatus(s string) bool {
	switch s {
	case model.FacilityStatusActive, model.FacilityStatusDraft, model.FacilityStatusArchived:
		return true
	}
	return false
}

// checkAddressCity enforces that an attached address belongs to the
// facility's own city.
func (h *AdminHandler) checkAddressCity(c echo.Context, addressID *uuid.UUID, cityID uuid.UUID) error {
	if addressID == nil {
		return nil
	}
	addr, err := h.Addresses.GetByID(c.Request().Context(), *addressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return err
	}
	if addr.CityID != cityID {
		return repository.ErrCityMismatch
	}
	return nil
}

func (h *AdminHandler) GetFacilityAdmin(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	f, err := h.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toFacilityResp(*f))
}

func (h *AdminHandler) CreateFacility(c echo.Context) error {
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CityID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city_id required"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	status := model.FacilityStatusDraft
	if req.Status != nil {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
		if !validStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
	}

	switch err := h.checkAddressCity(c, req.AddressID, *req.CityID); {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "address not found"})
	case errors.Is(err, repository.ErrCityMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	f := model.Facility{
		ID:           uuid.New(),
		CityID:       *req.CityID,
		Name:         strings.TrimSpace(*req.Name),
		Description:  req.Description,
		AddressID:    req.AddressID,
		CoverMediaID: req.CoverMediaID,
		Status:       status,
	}
	if err := h.Facilities.Insert(c.Request().Context(), &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create facility failed"})
	}
	created, err := h.Facilities.GetByID(c.Request().Context(), f.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	publishChange(c.Request().Context(), "facility", "created", f.ID, f.CityID)
	return c.JSON(http.StatusCreated, toFacilityResp(*created))
}

// UpdateFacility merges the request over the stored row: fields absent
// from the body keep their current value, so partial updates are safe.
func (h *AdminHandler) UpdateFacility(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	f, err := h.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if req.CityID != nil {
		f.CityID = *req.CityID
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
		}
		f.Name = name
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.AddressID != nil {
		f.AddressID = req.AddressID
	}
	if req.CoverMediaID != nil {
		f.CoverMediaID = req.CoverMediaID
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !validStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		f.Status = status
	}

	switch err := h.checkAddressCity(c, f.AddressID, f.CityID); {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "address not found"})
	case errors.Is(err, repository.ErrCityMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := h.Facilities.Update(c.Request().Context(), f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update facility failed"})
	}
	updated, err := h.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	publishChange(c.Request().Context(), "facility", "updated", id, f.CityID)
	return c.JSON(http.StatusOK, toFacilityResp(*updated))
}

func (h *AdminHandler) DeleteFacility(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Facilities.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete facility failed"})
	}
	publishChange(c.Request().Context(), "facility", "deleted", id, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}

// ----- replace-all sub-resources -----

var timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

type contactItem struct {
	Type      string  `json:"type"`
	Value     string  `json:"value"`
	Label     *string `json:"label"`
	IsPrimary bool    `json:"is_primary"`
}

// ReplaceContacts swaps the full contact list of a facility.
func (h *AdminHandler) ReplaceContacts(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []contactItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	inputs := make([]repository.ContactInput, 0, len(req.Items))
	for _, it := range req.Items {
		if strings.TrimSpace(it.Type) == "" || strings.TrimSpace(it.Value) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact type and value required"})
		}
		inputs = append(inputs, repository.ContactInput{
			Type:      strings.TrimSpace(it.Type),
			Value:     strings.TrimSpace(it.Value),
			Label:     it.Label,
			IsPrimary: it.IsPrimary,
		})
	}
	return h.runReplace(c, id, "contacts", func() error {
		return h.Facilities.ReplaceContacts(c.Request().Context(), id, inputs)
	})
}

type hoursItem struct {
	DayOfWeek int     `json:"day_of_week"`
	IsClosed  bool    `json:"is_closed"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	Note      *string `json:"note"`
}

// ReplaceOpeningHours swaps the weekday schedule. At most one entry per
// ISO weekday; open entries must carry well-formed times.
func (h *AdminHandler) ReplaceOpeningHours(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []hoursItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	seen := map[int]bool{}
	inputs := make([]repository.HoursInput, 0, len(req.Items))
	for _, it := range req.Items {
		if it.DayOfWeek < 1 || it.DayOfWeek > 7 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day_of_week must be 1..7"})
		}
		if seen[it.DayOfWeek] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate day_of_week"})
		}
		seen[it.DayOfWeek] = true
		if !it.IsClosed {
			if it.OpenTime == nil || it.CloseTime == nil || !timeRe.MatchString(*it.OpenTime) || !timeRe.MatchString(*it.CloseTime) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "open_time and close_time must be HH:MM or HH:MM:SS"})
			}
		}
		inputs = append(inputs, repository.HoursInput{
			DayOfWeek: it.DayOfWeek,
			IsClosed:  it.IsClosed,
			OpenTime:  it.OpenTime,
			CloseTime: it.CloseTime,
			Note:      it.Note,
		})
	}
	return h.runReplace(c, id, "opening_hours", func() error {
		return h.Facilities.ReplaceOpeningHours(c.Request().Context(), id, inputs)
	})
}

type capabilityItem struct {
	CapabilityTypeID uuid.UUID       `json:"capability_type_id"`
	Summary          *string         `json:"summary"`
	Details          json.RawMessage `json:"details"`
	IsActive         bool            `json:"is_active"`
}

// ReplaceCapabilities swaps the capability attachments. Details is an
// opaque JSON document stored as-is.
func (h *AdminHandler) ReplaceCapabilities(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []capabilityItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	inputs := make([]repository.CapabilityInput, 0, len(req.Items))
	for _, it := range req.Items {
		if it.CapabilityTypeID == uuid.Nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capability_type_id required"})
		}
		in := repository.CapabilityInput{
			CapabilityTypeID: it.CapabilityTypeID,
			Summary:          it.Summary,
			IsActive:         it.IsActive,
		}
		if len(it.Details) > 0 && string(it.Details) != "null" {
			if !json.Valid(it.Details) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "details must be valid JSON"})
			}
			s := string(it.Details)
			in.DetailsJSON = &s
		}
		inputs = append(inputs, in)
	}
	return h.runReplace(c, id, "capabilities", func() error {
		return h.Facilities.ReplaceCapabilities(c.Request().Context(), id, inputs)
	})
}

type featureItem struct {
	FeatureID   uuid.UUID `json:"feature_id"`
	ValueBool   *bool     `json:"value_bool"`
	ValueText   *string   `json:"value_text"`
	ValueNumber *float64  `json:"value_number"`
}

// ReplaceFeatures swaps the feature attachments. Each item carries at
// most one value.
func (h *AdminHandler) ReplaceFeatures(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []featureItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	inputs := make([]repository.FeatureInput, 0, len(req.Items))
	for _, it := range req.Items {
		if it.FeatureID == uuid.Nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "feature_id required"})
		}
		set := 0
		if it.ValueBool != nil {
			set++
		}
		if it.ValueText != nil {
			set++
		}
		if it.ValueNumber != nil {
			set++
		}
		if set > 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "feature value must be at most one of bool/text/number"})
		}
		inputs = append(inputs, repository.FeatureInput{
			FeatureID:   it.FeatureID,
			ValueBool:   it.ValueBool,
			ValueText:   it.ValueText,
			ValueNumber: it.ValueNumber,
		})
	}
	return h.runReplace(c, id, "features", func() error {
		return h.Facilities.ReplaceFeatures(c.Request().Context(), id, inputs)
	})
}

type equipmentItem struct {
	EquipmentTypeID uuid.UUID `json:"equipment_type_id"`
	Quantity        *int      `json:"quantity"`
	Mode            string    `json:"mode"`
	Note            *string   `json:"note"`
}

// ReplaceEquipment swaps the equipment attachments.
func (h *AdminHandler) ReplaceEquipment(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []equipmentItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	inputs := make([]repository.EquipmentInput, 0, len(req.Items))
	for _, it := range req.Items {
		if it.EquipmentTypeID == uuid.Nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "equipment_type_id required"})
		}
		if it.Quantity != nil && *it.Quantity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must not be negative"})
		}
		inputs = append(inputs, repository.EquipmentInput{
			EquipmentTypeID: it.EquipmentTypeID,
			Quantity:        it.Quantity,
			Mode:            strings.TrimSpace(it.Mode),
			Note:            it.Note,
		})
	}
	return h.runReplace(c, id, "equipment", func() error {
		return h.Facilities.ReplaceEquipment(c.Request().Context(), id, inputs)
	})
}

type priceItem struct {
	CapabilityTypeID *uuid.UUID `json:"capability_type_id"`
	SpaceID          *uuid.UUID `json:"space_id"`
	Kind             string     `json:"kind"`
	AmountFrom       *float64   `json:"amount_from"`
	AmountTo         *float64   `json:"amount_to"`
	Currency         string     `json:"currency"`
	Note             *string    `json:"note"`
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ReplacePrices swaps the price entries.
func (h *AdminHandler) ReplacePrices(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Items []priceItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	inputs := make([]repository.PriceInput, 0, len(req.Items))
	for _, it := range req.Items {
		kind := strings.ToUpper(strings.TrimSpace(it.Kind))
		if kind == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind required"})
		}
		currency := strings.ToUpper(strings.TrimSpace(it.Currency))
		if !currencyRe.MatchString(currency) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency must be a 3-letter code"})
		}
		if it.AmountFrom != nil && it.AmountTo != nil && *it.AmountFrom > *it.AmountTo {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_from must not exceed amount_to"})
		}
		inputs = append(inputs, repository.PriceInput{
			CapabilityTypeID: it.CapabilityTypeID,
			SpaceID:          it.SpaceID,
			Kind:             kind,
			AmountFrom:       it.AmountFrom,
			AmountTo:         it.AmountTo,
			Currency:         currency,
			Note:             it.Note,
		})
	}
	return h.runReplace(c, id, "prices", func() error {
		return h.Facilities.ReplacePrices(c.Request().Context(), id, inputs)
	})
}

type mediaLinkItem struct {
	MediaID   uuid.UUID `json:"media_id"`
	SortOrder int       `json:"sort_order"`
	Caption   *string   `json:"caption"`
	IsCover   bool      `json:"is_cover"`
}

func parseMediaLinks(items []mediaLinkItem) ([]repository.MediaLinkInput, string) {
	inputs := make([]repository.MediaLinkInput, 0, len(items))
	for _, it := range items {
		if it.MediaID == uuid.Nil {
			return nil, "media_id required"
		}
		if it.SortOrder < 0 {
			return nil, "sort_order must not be negative"
		}
		inputs = append(inputs, repository.MediaLinkInput{
			MediaID:   it.MediaID,
			SortOrder: it.SortOrder,
			Caption:   it.Caption,
			IsCover:   it.IsCover,
		})
	}
	return inputs, ""
}

// ReplaceFacilityMedia swaps the facility's media gallery links.
func (h *AdminHandler) ReplaceFacilityMedia(c echo.Context) error {
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
	return h.runReplace(c, id, "media", func() error {
		return h.Facilities.ReplaceMedia(c.Request().Context(), id, inputs)
	})
}

// runReplace executes one replace-all operation after checking the
// facility exists, publishes the change event and answers 204.
func (h *AdminHandler) runReplace(c echo.Context, facilityID uuid.UUID, entity string, op func() error) error {
	f, err := h.Facilities.GetByID(c.Request().Context(), facilityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := op(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "replace " + entity + " failed"})
	}
	publishChange(c.Request().Context(), entity, "replaced", facilityID, f.CityID)
	return c.NoContent(http.StatusNoContent)
}
