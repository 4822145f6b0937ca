package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type VerificationHandler struct {
	Svc *service.VerificationService
}

func (h *VerificationHandler) Issue(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "verification.issue")

	var req struct {
		UserID uint   `json:"user_id" validate:"required"`
		Email  string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("issue_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// The code goes out through the mailer; it is never echoed back.
	if _, err := h.Svc.Issue(ctx, req.UserID, req.Email); err != nil {
		l.Warn("issue_error", "user_id", req.UserID, "error", err)
		return httpError(err)
	}

	l.Info("code issued", "user_id", req.UserID)
	return c.NoContent(http.StatusNoContent)
}

func (h *VerificationHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "verification.verify")

	var req struct {
		UserID uint   `json:"user_id" validate:"required"`
		Email  string `json:"email" validate:"required,email"`
		Code   string `json:"code" validate:"required,len=6,numeric"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.Verify(ctx, req.UserID, req.Email, req.Code); err != nil {
		l.Warn("verify_error", "user_id", req.UserID, "error", err)
		return httpError(err)
	}

	l.Info("email verified", "user_id", req.UserID)
	return c.JSON(http.StatusOK, map[string]string{"message": "email verified"})
}
