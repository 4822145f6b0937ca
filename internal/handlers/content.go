package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type ContentHandler struct {
	Svc *service.ContentService
}

func (h *ContentHandler) SetSectionText(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.set_text")

	key := c.Param("key")

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_text_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetSectionText(ctx, key, req.Text); err != nil {
		l.Warn("set_text_error", "key", key, "error", err)
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHandler) GetSectionText(c echo.Context) error {
	ctx := c.Request().Context()

	text, err := h.Svc.GetSectionText(ctx, c.Param("key"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}

func (h *ContentHandler) AddSectionPhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.add_photo")

	key := c.Param("key")

	var req struct {
		FileID    string `json:"file_id" validate:"required"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_photo_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.AddSectionPhoto(ctx, key, req.FileID, req.SortOrder); err != nil {
		l.Warn("add_photo_error", "key", key, "error", err)
		return httpError(err)
	}

	return c.NoContent(http.StatusCreated)
}

func (h *ContentHandler) ListSectionPhotos(c echo.Context) error {
	ctx := c.Request().Context()

	photos, err := h.Svc.ListSectionPhotos(ctx, c.Param("key"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, photos)
}

func (h *ContentHandler) ClearSectionPhotos(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.ClearSectionPhotos(ctx, c.Param("key")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
