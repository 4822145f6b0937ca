package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

func TestOrderService_PlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 200)
	a := env.createProduct(t, "Juice 500", 500, "EUR", true)
	b := env.createProduct(t, "Juice 300", 300, "EUR", true)

	cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, b.ID, 1)
	require.NoError(t, err)

	order, err := env.Order.PlaceOrder(ctx, user.ID, "Hauptstr. 1, Berlin", "leave at door")
	require.NoError(t, err)

	assert.Equal(t, int64(1300), order.Amount)
	assert.Equal(t, "EUR", order.Currency)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.Ref)
	assert.Equal(t, "Hauptstr. 1, Berlin", order.Address)
	require.Len(t, order.Items, 2)

	// The cart is drained atomically with order creation.
	lines, err := env.Cart.Snapshot(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderService_PlaceOrder_FreezesPrices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 201)
	prod := env.createProduct(t, "Pod kit", 2500, "EUR", true)

	cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, prod.ID, 1)
	require.NoError(t, err)

	order, err := env.Order.PlaceOrder(ctx, user.ID, "addr", "")
	require.NoError(t, err)

	require.NoError(t, env.DB.Model(prod).Update("price", 9900).Error)

	got, err := env.Order.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2500), got.Items[0].Price)
	assert.Equal(t, int64(2500), got.Amount)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 202)

	_, err := env.Order.PlaceOrder(ctx, user.ID, "addr", "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_PlaceOrder_CurrencyMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 203)
	eur := env.createProduct(t, "EUR item", 100, "EUR", true)
	usd := env.createProduct(t, "USD item", 100, "USD", true)

	cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, eur.ID, 1)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, usd.ID, 1)
	require.NoError(t, err)

	_, err = env.Order.PlaceOrder(ctx, user.ID, "addr", "")
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	// The cart survives a rejected checkout untouched.
	lines, serr := env.Cart.Snapshot(ctx, cart.ID)
	require.NoError(t, serr)
	assert.Len(t, lines, 2)
}

func TestOrderService_PlaceOrder_ProductDeactivatedMidway(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 204)
	prod := env.createProduct(t, "Soon gone", 800, "EUR", true)

	cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, prod.ID, 1)
	require.NoError(t, err)

	require.NoError(t, env.DB.Model(prod).Update("is_active", false).Error)

	_, err = env.Order.PlaceOrder(ctx, user.ID, "addr", "")
	assert.ErrorIs(t, err, ErrProductUnavailable)

	// Neither an order nor a drained cart: the failure leaves no partial state.
	var orders int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var items int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestOrderService_GetOrderByRef(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 209)
	prod := env.createProduct(t, "Ref lookup", 100, "EUR", true)

	cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
	require.NoError(t, err)
	_, err = env.Cart.AddItem(ctx, cart.ID, prod.ID, 1)
	require.NoError(t, err)
	order, err := env.Order.PlaceOrder(ctx, user.ID, "addr", "")
	require.NoError(t, err)

	got, err := env.Order.GetOrderByRef(ctx, order.Ref)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = env.Order.GetOrderByRef(ctx, "no-such-ref")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListUserOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, 205)
	prod := env.createProduct(t, "Repeat buy", 100, "EUR", true)

	for i := 0; i < 3; i++ {
		cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
		require.NoError(t, err)
		_, err = env.Cart.AddItem(ctx, cart.ID, prod.ID, 1)
		require.NoError(t, err)
		_, err = env.Order.PlaceOrder(ctx, user.ID, "addr", "")
		require.NoError(t, err)
	}

	orders, err := env.Order.ListUserOrders(ctx, user.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = env.Order.ListUserOrders(ctx, user.ID, 10, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_Transitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	place := func(t *testing.T, tgID int64) *models.Order {
		t.Helper()
		user := env.createUser(t, tgID)
		prod := env.createProduct(t, "T", 100, "EUR", true)
		cart, err := env.Cart.GetOrCreateCart(ctx, user.ID)
		require.NoError(t, err)
		_, err = env.Cart.AddItem(ctx, cart.ID, prod.ID, 1)
		require.NoError(t, err)
		order, err := env.Order.PlaceOrder(ctx, user.ID, "addr", "")
		require.NoError(t, err)
		return order
	}

	t.Run("cancel pending", func(t *testing.T) {
		order := place(t, 206)
		require.NoError(t, env.Order.Cancel(ctx, order.ID))

		got, err := env.Order.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, got.Status)

		// cancelled is terminal.
		assert.ErrorIs(t, env.Order.Cancel(ctx, order.ID), ErrInvalidTransition)
		assert.ErrorIs(t, env.Order.Fulfill(ctx, order.ID), ErrInvalidTransition)
	})

	t.Run("fulfill requires paid", func(t *testing.T) {
		order := place(t, 207)
		assert.ErrorIs(t, env.Order.Fulfill(ctx, order.ID), ErrInvalidTransition)

		moved, err := env.Repo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusPaid)
		require.NoError(t, err)
		require.True(t, moved)

		require.NoError(t, env.Order.Fulfill(ctx, order.ID))
		assert.ErrorIs(t, env.Order.Refund(ctx, order.ID), ErrInvalidTransition)
	})

	t.Run("refund requires paid", func(t *testing.T) {
		order := place(t, 208)
		assert.ErrorIs(t, env.Order.Refund(ctx, order.ID), ErrInvalidTransition)

		moved, err := env.Repo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusPaid)
		require.NoError(t, err)
		require.True(t, moved)

		require.NoError(t, env.Order.Refund(ctx, order.ID))
	})

	t.Run("unknown order", func(t *testing.T) {
		assert.ErrorIs(t, env.Order.Cancel(ctx, 9999), ErrOrderNotFound)
	})
}
