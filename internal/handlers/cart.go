package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type CartHandler struct {
	Svc *service.CartService
}

func (h *CartHandler) GetOrCreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_or_create")

	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("get_or_create_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cart, err := h.Svc.GetOrCreateCart(ctx, req.UserID)
	if err != nil {
		l.Error("get_or_create_cart_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	cartID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id" validate:"required"`
		Qty       int  `json:"qty" validate:"required,gt=0"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.Svc.AddItem(ctx, cartID, req.ProductID, req.Qty)
	if err != nil {
		l.Warn("add_item_error", "cart_id", cartID, "product_id", req.ProductID, "error", err)
		return httpError(err)
	}

	l.Info("item added to cart", "cart_id", cartID, "product_id", req.ProductID, "qty", item.Qty)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	cartID, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	productID, err := paramUint(c, "product_id")
	if err != nil {
		return err
	}

	var req struct {
		Qty int `json:"qty" validate:"gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Svc.SetQuantity(ctx, cartID, productID, req.Qty); err != nil {
		l.Warn("set_quantity_error", "cart_id", cartID, "product_id", productID, "error", err)
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Snapshot(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.snapshot")

	cartID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	lines, err := h.Svc.Snapshot(ctx, cartID)
	if err != nil {
		l.Warn("snapshot_error", "cart_id", cartID, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, lines)
}

func (h *CartHandler) Drain(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.drain")

	cartID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Drain(ctx, cartID); err != nil {
		l.Warn("drain_error", "cart_id", cartID, "error", err)
		return httpError(err)
	}

	l.Info("cart drained", "cart_id", cartID)
	return c.NoContent(http.StatusNoContent)
}
