package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mykafka"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	var req struct {
		UserID  uint   `json:"user_id" validate:"required"`
		Address string `json:"address" validate:"required"`
		Note    string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.Svc.PlaceOrder(ctx, req.UserID, req.Address, req.Note)
	if err != nil {
		l.Warn("place_order_error", "user_id", req.UserID, "error", err)
		return httpError(err)
	}

	h.publish(c, strconv.FormatUint(uint64(order.UserID), 10), map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"ref":      order.Ref,
		"user_id":  order.UserID,
		"amount":   order.Amount,
		"currency": order.Currency,
	})

	l.Info("order placed", "order_id", order.ID, "amount", order.Amount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderByRef(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.Svc.GetOrderByRef(ctx, c.Param("ref"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id required")
	}
	limit := parseIntDefault(c.QueryParam("limit"), service.DefaultOrdersPageSize)
	offset := parseIntDefault(c.QueryParam("offset"), 0)

	orders, err := h.Svc.ListUserOrders(ctx, uint(userID), limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	return h.transition(c, "cancelled", h.Svc.Cancel)
}

func (h *OrderHandler) Fulfill(c echo.Context) error {
	return h.transition(c, "fulfilled", h.Svc.Fulfill)
}

func (h *OrderHandler) Refund(c echo.Context) error {
	return h.transition(c, "refunded", h.Svc.Refund)
}

func (h *OrderHandler) transition(c echo.Context, to string, fn func(context.Context, uint) error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order."+to)

	orderID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := fn(ctx, orderID); err != nil {
		l.Warn("transition_error", "order_id", orderID, "to", to, "error", err)
		return httpError(err)
	}

	h.publish(c, strconv.FormatUint(uint64(orderID), 10), map[string]any{
		"type":     "order_" + to,
		"order_id": orderID,
	})

	l.Info("order transitioned", "order_id", orderID, "to", to)
	return c.NoContent(http.StatusNoContent)
}
