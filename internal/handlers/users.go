package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type UserHandler struct {
	Svc *service.UserService
}

func (h *UserHandler) EnsureUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.ensure")

	var req struct {
		TgID     int64  `json:"tg_id" validate:"required"`
		FullName string `json:"full_name"`
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("ensure_user_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Svc.EnsureUser(ctx, req.TgID, req.FullName, req.Username)
	if err != nil {
		l.Error("ensure_user_error", "tg_id", req.TgID, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetByTgID(c echo.Context) error {
	ctx := c.Request().Context()

	tgID, err := strconv.ParseInt(c.Param("tg_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tg_id")
	}

	user, err := h.Svc.GetByTgID(ctx, tgID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ConfirmPhone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.confirm_phone")

	var req struct {
		TgID  int64  `json:"tg_id" validate:"required"`
		Phone string `json:"phone" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("confirm_phone_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.ConfirmPhone(ctx, req.TgID, req.Phone); err != nil {
		l.Warn("confirm_phone_error", "tg_id", req.TgID, "error", err)
		return httpError(err)
	}

	l.Info("phone confirmed", "tg_id", req.TgID)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) ListRecent(c echo.Context) error {
	ctx := c.Request().Context()

	limit := parseIntDefault(c.QueryParam("limit"), service.DefaultRecentUsers)
	users, err := h.Svc.ListRecent(ctx, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
