package handler

// Handlers for the four reference tables (capability types, features,
// equipment types, space types). They share the same CRUD shape; delete
// answers 409 while facilities still reference the row.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/model"
	"facilities-directory/internal/repository"
)

type codeLabelReq struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func (r codeLabelReq) validate() string {
	if strings.TrimSpace(r.Code) == "" {
		return "code required"
	}
	if strings.TrimSpace(r.Label) == "" {
		return "label required"
	}
	return ""
}

type codeLabelResp struct {
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code"`
	Label string    `json:"label"`
}

func refError(c echo.Context, err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": entity + " not found"})
	case errors.Is(err, repository.ErrReferenced):
		return c.JSON(http.StatusConflict, echo.Map{"error": entity + " still referenced"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// ----- capability types -----

func (h *AdminHandler) ListCapabilityTypes(c echo.Context) error {
	items, err := h.CapabilityTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]codeLabelResp, 0, len(items))
	for _, it := range items {
		out = append(out, codeLabelResp{ID: it.ID, Code: it.Code, Label: it.Label})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *AdminHandler) GetCapabilityType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	ct, err := h.CapabilityTypes.GetByID(c.Request().Context(), id)
	if err != nil {
		return refError(c, err, "capability type")
	}
	return c.JSON(http.StatusOK, codeLabelResp{ID: ct.ID, Code: ct.Code, Label: ct.Label})
}

func (h *AdminHandler) CreateCapabilityType(c echo.Context) error {
	var req codeLabelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ct := model.CapabilityType{
		ID:    uuid.New(),
		Code:  strings.ToUpper(strings.TrimSpace(req.Code)),
		Label: strings.TrimSpace(req.Label),
	}
	if err := h.CapabilityTypes.Insert(c.Request().Context(), &ct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create capability type failed"})
	}
	publishChange(c.Request().Context(), "capability_type", "created", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusCreated, codeLabelResp{ID: ct.ID, Code: ct.Code, Label: ct.Label})
}

func (h *AdminHandler) UpdateCapabilityType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req codeLabelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ct := model.CapabilityType{
		ID:    id,
		Code:  strings.ToUpper(strings.TrimSpace(req.Code)),
		Label: strings.TrimSpace(req.Label),
	}
	if err := h.CapabilityTypes.Update(c.Request().Context(), &ct); err != nil {
		return refError(c, err, "capability type")
	}
	publishChange(c.Request().Context(), "capability_type", "updated", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusOK, codeLabelResp{ID: ct.ID, Code: ct.Code, Label: ct.Label})
}

func (h *AdminHandler) DeleteCapabilityType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.CapabilityTypes.Delete(c.Request().Context(), id); err != nil {
		return refError(c, err, "capability type")
	}
	publishChange(c.Request().Context(), "capability_type", "deleted", uuid.Nil, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}

// ----- features -----

type featureReq struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	ValueType string `json:"value_type"`
}

type featureResp struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Label     string    `json:"label"`
	ValueType string    `json:"value_type"`
}

func (r featureReq) validate() string {
	if strings.TrimSpace(r.Code) == "" {
		return "code required"
	}
	if strings.TrimSpace(r.Label) == "" {
		return "label required"
	}
	switch strings.ToUpper(strings.TrimSpace(r.ValueType)) {
	case model.FeatureValueBool, model.FeatureValueText, model.FeatureValueNumber:
		return ""
	}
	return "value_type must be BOOL, TEXT or NUMBER"
}

func (h *AdminHandler) ListFeatures(c echo.Context) error {
	items, err := h.Features.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]featureResp, 0, len(items))
	for _, it := range items {
		out = append(out, featureResp{ID: it.ID, Code: it.Code, Label: it.Label, ValueType: it.ValueType})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *AdminHandler) GetFeature(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	f, err := h.Features.GetByID(c.Request().Context(), id)
	if err != nil {
		return refError(c, err, "feature")
	}
	return c.JSON(http.StatusOK, featureResp{ID: f.ID, Code: f.Code, Label: f.Label, ValueType: f.ValueType})
}

func (h *AdminHandler) CreateFeature(c echo.Context) error {
	var req featureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	f := model.Feature{
		ID:        uuid.New(),
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Label:     strings.TrimSpace(req.Label),
		ValueType: strings.ToUpper(strings.TrimSpace(req.ValueType)),
	}
	if err := h.Features.Insert(c.Request().Context(), &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create feature failed"})
	}
	publishChange(c.Request().Context(), "feature", "created", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusCreated, featureResp{ID: f.ID, Code: f.Code, Label: f.Label, ValueType: f.ValueType})
}

func (h *AdminHandler) UpdateFeature(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req featureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	f := model.Feature{
		ID:        id,
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Label:     strings.TrimSpace(req.Label),
		ValueType: strings.ToUpper(strings.TrimSpace(req.ValueType)),
	}
	if err := h.Features.Update(c.Request().Context(), &f); err != nil {
		return refError(c, err, "feature")
	}
	publishChange(c.Request().Context(), "feature", "updated", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusOK, featureResp{ID: f.ID, Code: f.Code, Label: f.Label, ValueType: f.ValueType})
}

func (h *AdminHandler) DeleteFeature(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Features.Delete(c.Request().Context(), id); err != nil {
		return refError(c, err, "feature")
	}
	publishChange(c.Request().Context(), "feature", "deleted", uuid.Nil, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}

// ----- equipment types -----

type equipmentTypeReq struct {
	Name         string     `json:"name"`
	CategoryCode string     `json:"category_code"`
	Description  *string    `json:"description"`
	CoverMediaID *uuid.UUID `json:"cover_media_id"`
}

type equipmentTypeResp struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	CategoryCode string     `json:"category_code"`
	Description  *string    `json:"description,omitempty"`
	CoverMediaID *uuid.UUID `json:"cover_media_id,omitempty"`
}

func toEquipmentTypeResp(et model.EquipmentType) equipmentTypeResp {
	return equipmentTypeResp{ID: et.ID, Name: et.Name, CategoryCode: et.CategoryCode, Description: et.Description, CoverMediaID: et.CoverMediaID}
}

func (r equipmentTypeReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if strings.TrimSpace(r.CategoryCode) == "" {
		return "category_code required"
	}
	return ""
}

func (h *AdminHandler) ListEquipmentTypes(c echo.Context) error {
	items, err := h.EquipmentTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]equipmentTypeResp, 0, len(items))
	for _, it := range items {
		out = append(out, toEquipmentTypeResp(it))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *AdminHandler) GetEquipmentType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	et, err := h.EquipmentTypes.GetByID(c.Request().Context(), id)
	if err != nil {
		return refError(c, err, "equipment type")
	}
	return c.JSON(http.StatusOK, toEquipmentTypeResp(*et))
}

func (h *AdminHandler) CreateEquipmentType(c echo.Context) error {
	var req equipmentTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	et := model.EquipmentType{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		CategoryCode: strings.ToUpper(strings.TrimSpace(req.CategoryCode)),
		Description:  req.Description,
		CoverMediaID: req.CoverMediaID,
	}
	if err := h.EquipmentTypes.Insert(c.Request().Context(), &et); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create equipment type failed"})
	}
	publishChange(c.Request().Context(), "equipment_type", "created", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusCreated, toEquipmentTypeResp(et))
}

func (h *AdminHandler) UpdateEquipmentType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req equipmentTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	et := model.EquipmentType{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		CategoryCode: strings.ToUpper(strings.TrimSpace(req.CategoryCode)),
		Description:  req.Description,
		CoverMediaID: req.CoverMediaID,
	}
	if err := h.EquipmentTypes.Update(c.Request().Context(), &et); err != nil {
		return refError(c, err, "equipment type")
	}
	publishChange(c.Request().Context(), "equipment_type", "updated", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusOK, toEquipmentTypeResp(et))
}

func (h *AdminHandler) DeleteEquipmentType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.EquipmentTypes.Delete(c.Request().Context(), id); err != nil {
		return refError(c, err, "equipment type")
	}
	publishChange(c.Request().Context(), "equipment_type", "deleted", uuid.Nil, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}

// ----- space types -----

func (h *AdminHandler) ListSpaceTypes(c echo.Context) error {
	items, err := h.SpaceTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]codeLabelResp, 0, len(items))
	for _, it := range items {
		out = append(out, codeLabelResp{ID: it.ID, Code: it.Code, Label: it.Label})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *AdminHandler) GetSpaceType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	st, err := h.SpaceTypes.GetByID(c.Request().Context(), id)
	if err != nil {
		return refError(c, err, "space type")
	}
	return c.JSON(http.StatusOK, codeLabelResp{ID: st.ID, Code: st.Code, Label: st.Label})
}

func (h *AdminHandler) CreateSpaceType(c echo.Context) error {
	var req codeLabelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	st := model.SpaceType{
		ID:    uuid.New(),
		Code:  strings.ToUpper(strings.TrimSpace(req.Code)),
		Label: strings.TrimSpace(req.Label),
	}
	if err := h.SpaceTypes.Insert(c.Request().Context(), &st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create space type failed"})
	}
	publishChange(c.Request().Context(), "space_type", "created", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusCreated, codeLabelResp{ID: st.ID, Code: st.Code, Label: st.Label})
}

func (h *AdminHandler) UpdateSpaceType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req codeLabelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	st := model.SpaceType{
		ID:    id,
		Code:  strings.ToUpper(strings.TrimSpace(req.Code)),
		Label: strings.TrimSpace(req.Label),
	}
	if err := h.SpaceTypes.Update(c.Request().Context(), &st); err != nil {
		return refError(c, err, "space type")
	}
	publishChange(c.Request().Context(), "space_type", "updated", uuid.Nil, uuid.Nil)
	return c.JSON(http.StatusOK, codeLabelResp{ID: st.ID, Code: st.Code, Label: st.Label})
}

func (h *AdminHandler) DeleteSpaceType(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.SpaceTypes.Delete(c.Request().Context(), id); err != nil {
		return refError(c, err, "space type")
	}
	publishChange(c.Request().Context(), "space_type", "deleted", uuid.Nil, uuid.Nil)
	return c.NoContent(http.StatusNoContent)
}
