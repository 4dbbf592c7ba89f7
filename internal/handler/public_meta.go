package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"facilities-directory/internal/repository"
)

// MetaItem is a (code, label) pair in meta responses.
type MetaItem struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FeatureMetaItem additionally exposes the declared value type.
type FeatureMetaItem struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	ValueType string `json:"value_type"`
}

type metaResp struct {
	Capabilities        []MetaItem        `json:"capabilities"`
	Features            []FeatureMetaItem `json:"features"`
	EquipmentCategories []MetaItem        `json:"equipment_categories"`
	SpaceTypes          []MetaItem        `json:"space_types"`
}

// GetMeta returns the reference lists the frontend builds its filter UI
// from, all in one response.
func (h *PublicHandler) GetMeta(c echo.Context) error {
	ctx := c.Request().Context()

	caps, err := h.Meta.FetchCapabilities(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	features, err := h.Meta.FetchFeatures(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	categories, err := h.Meta.FetchEquipmentCategories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	spaceTypes, err := h.Meta.FetchSpaceTypes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := metaResp{
		Capabilities:        metaItems(caps),
		Features:            make([]FeatureMetaItem, 0, len(features)),
		EquipmentCategories: metaItems(categories),
		SpaceTypes:          metaItems(spaceTypes),
	}
	for _, f := range features {
		resp.Features = append(resp.Features, FeatureMetaItem{Code: f.Code, Label: f.Label, ValueType: f.ValueType})
	}
	return c.JSON(http.StatusOK, resp)
}

func metaItems(rows []repository.MetaItem) []MetaItem {
	out := make([]MetaItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, MetaItem{Code: r.Code, Label: r.Label})
	}
	return out
}
