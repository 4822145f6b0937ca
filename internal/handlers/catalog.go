package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/logging"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

type CatalogHandler struct {
	Svc *service.CatalogService
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	product, err := h.Svc.GetActiveProduct(ctx, productID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.Svc.ListActive(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Price       int64  `json:"price" validate:"required,gt=0"`
		Currency    string `json:"currency"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.Svc.CreateProduct(ctx, req.Title, req.Description, req.Price, req.Currency)
	if err != nil {
		l.Warn("create_product_error", "error", err)
		return httpError(err)
	}

	l.Info("product created", "product_id", product.ID, "title", product.Title)
	return c.JSON(http.StatusCreated, product)
}
