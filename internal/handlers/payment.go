package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mykafka"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type PaymentHandler struct {
	Svc      *service.PaymentService
	Producer *mykafka.Producer
}

// Callback receives provider webhooks. The provider gets a 2xx once the
// callback is durably recorded, even when its effect was suppressed by
// idempotency; only an unknown order propagates as 404 so the dispatcher
// retries after the order lands.
func (h *PaymentHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.callback")

	var req struct {
		OrderID          uint   `json:"order_id"`
		Provider         string `json:"provider"`
		Payload          string `json:"payload"`
		ProviderChargeID string `json:"provider_charge_id"`
		TelegramChargeID string `json:"telegram_charge_id"`
		Status           string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("callback_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.ApplyCallback(ctx, service.PaymentCallback{
		OrderID:          req.OrderID,
		Provider:         req.Provider,
		Payload:          req.Payload,
		ProviderChargeID: req.ProviderChargeID,
		TelegramChargeID: req.TelegramChargeID,
		Status:           req.Status,
	})
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		l.Warn("callback_unknown_order", "order_id", req.OrderID)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidPayload):
		// Recorded for forensics; acknowledge so the provider stops retrying.
		l.Warn("callback_malformed", "order_id", req.OrderID, "provider", req.Provider)
		return c.JSON(http.StatusOK, result)
	case err != nil:
		l.Error("callback_error", "order_id", req.OrderID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if result.Anomaly != "" {
		l.Warn("callback_anomaly", "order_id", req.OrderID, "anomaly", result.Anomaly)
	}

	if result.Outcome == service.ApplyOutcomeApplied {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":           "payment_" + result.PaymentStatus,
			"order_id":       req.OrderID,
			"order_status":   result.OrderStatus,
			"payment_status": result.PaymentStatus,
		}
		if err := h.Producer.PublishEvent(pubCtx, mykafka.TopicPaymentEvents,
			strconv.FormatUint(uint64(req.OrderID), 10), event); err != nil {
			l.Error("kafka publish error", "error", err)
		}
	}

	l.Info("callback applied", "order_id", req.OrderID, "outcome", result.Outcome)
	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) ListOrderPayments(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	payments, err := h.Svc.ListOrderPayments(ctx, orderID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, payments)
}
