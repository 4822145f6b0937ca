package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/middleware"
)

type Deps struct {
	UserHandler         *UserHandler
	CatalogHandler      *CatalogHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	PaymentHandler      *PaymentHandler
	VerificationHandler *VerificationHandler
	ContentHandler      *ContentHandler
	ServiceSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// The gateway authenticates its webhook dispatch upstream; everything
	// else is for the bot layer and carries a service token.
	e.POST("/payments/callback", d.PaymentHandler.Callback)

	api := e.Group("", middleware.ServiceAuth(d.ServiceSecret))

	api.POST("/users", d.UserHandler.EnsureUser)
	api.POST("/users/phone", d.UserHandler.ConfirmPhone)
	api.GET("/users/recent", d.UserHandler.ListRecent)
	api.GET("/users/:tg_id", d.UserHandler.GetByTgID)

	api.GET("/products", d.CatalogHandler.ListProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.POST("/products", d.CatalogHandler.CreateProduct)

	api.POST("/carts", d.CartHandler.GetOrCreateCart)
	api.GET("/carts/:id", d.CartHandler.Snapshot)
	api.POST("/carts/:id/items", d.CartHandler.AddItem)
	api.PUT("/carts/:id/items/:product_id", d.CartHandler.SetQuantity)
	api.DELETE("/carts/:id/items", d.CartHandler.Drain)

	api.POST("/orders", d.OrderHandler.PlaceOrder)
	api.GET("/orders", d.OrderHandler.ListUserOrders)
	api.GET("/orders/:id", d.OrderHandler.GetOrder)
	api.GET("/orders/ref/:ref", d.OrderHandler.GetOrderByRef)
	api.GET("/orders/:id/payments", d.PaymentHandler.ListOrderPayments)
	api.POST("/orders/:id/cancel", d.OrderHandler.Cancel)
	api.POST("/orders/:id/fulfill", d.OrderHandler.Fulfill)
	api.POST("/orders/:id/refund", d.OrderHandler.Refund)

	api.POST("/verification/issue", d.VerificationHandler.Issue)
	api.POST("/verification/verify", d.VerificationHandler.Verify)

	api.PUT("/content/:key", d.ContentHandler.SetSectionText)
	api.GET("/content/:key", d.ContentHandler.GetSectionText)
	api.POST("/content/:key/photos", d.ContentHandler.AddSectionPhoto)
	api.GET("/content/:key/photos", d.ContentHandler.ListSectionPhotos)
	api.DELETE("/content/:key/photos", d.ContentHandler.ClearSectionPhotos)
}
