package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"facilities-directory/internal/model"
	"facilities-directory/internal/repository"
)

type mediaReq struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type mediaResp struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func toMediaResp(m model.Media) mediaResp {
	return mediaResp{ID: m.ID, URL: m.URL, Kind: m.Kind, CreatedAt: m.CreatedAt}
}

// validMediaURL accepts absolute http(s) URLs only; the binaries live
// behind them, this service stores just the metadata.
func validMediaURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (r mediaReq) validate() string {
	if !validMediaURL(strings.TrimSpace(r.URL)) {
		return "url must be an absolute http(s) URL"
	}
	if strings.TrimSpace(r.Kind) == "" {
		return "kind required"
	}
	return ""
}

func (h *AdminHandler) GetMedia(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	m, err := h.Media.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "media not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toMediaResp(*m))
}

func (h *AdminHandler) CreateMedia(c echo.Context) error {
	var req mediaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m := model.Media{
		ID:   uuid.New(),
		URL:  strings.TrimSpace(req.URL),
		Kind: strings.ToUpper(strings.TrimSpace(req.Kind)),
	}
	if err := h.Media.Insert(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create media failed"})
	}
	return c.JSON(http.StatusCreated, toMediaResp(m))
}

func (h *AdminHandler) UpdateMedia(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var req mediaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m := model.Media{
		ID:   id,
		URL:  strings.TrimSpace(req.URL),
		Kind: strings.ToUpper(strings.TrimSpace(req.Kind)),
	}
	if err := h.Media.Update(c.Request().Context(), &m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "media not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update media failed"})
	}
	publishChange(c.Request().Context(), "media", "updated", uuid.Nil, uuid.Nil)
	got, err := h.Media.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toMediaResp(*got))
}

// DeleteMedia removes a media row; 409 while it is still linked as a
// cover image or gallery entry anywhere.
func (h *AdminHandler) DeleteMedia(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Media.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "media not found"})
		case errors.Is(err, repository.ErrReferenced):
			return c.JSON(http.StatusConflict, echo.Map{"error": "media still linked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete media failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
