package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

const DefaultOrdersPageSize = 20

// OrderService owns the single authoritative transition from mutable cart to
// immutable order. It only ever creates orders in pending; paid is driven by
// the payment reconciler, the other transitions by external collaborators.
type OrderService struct {
	Repo *repo.GormRepo
	Cart *CartService
}

// PlaceOrder converts the user's cart into an order with prices frozen at
// conversion time, then drains the cart. Runs under the same per-user lock as
// the cart mutations, so no concurrent checkout can drain the cart twice.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, address, note string) (*models.Order, error) {
	unlock := s.Cart.lockUser(userID)
	defer unlock()

	cart, err := s.Cart.Repo.FirstOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.Cart.snapshot(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	currency := lines[0].Product.Currency
	var amount int64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Product.Currency != currency {
			return nil, ErrCurrencyMismatch
		}
		amount += int64(line.Qty) * line.Product.Price
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Qty:       line.Qty,
			Price:     line.Product.Price,
		})
	}

	order := &models.Order{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		Status:   models.OrderStatusPending,
		Address:  address,
		Note:     note,
		Items:    items,
	}
	return s.Repo.CreateOrderDrainingCart(ctx, order, cart.ID)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// GetOrderByRef resolves the public reference handed to the payment gateway
// back to the order.
func (s *OrderService) GetOrderByRef(ctx context.Context, ref string) (*models.Order, error) {
	order, err := s.Repo.GetOrderByRef(ctx, ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = DefaultOrdersPageSize
	}
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

// Cancel moves a pending order to cancelled.
func (s *OrderService) Cancel(ctx context.Context, orderID uint) error {
	return s.transition(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
}

// Fulfill moves a paid order to fulfilled.
func (s *OrderService) Fulfill(ctx context.Context, orderID uint) error {
	return s.transition(ctx, orderID, models.OrderStatusPaid, models.OrderStatusFulfilled)
}

// Refund moves a paid order to refunded.
func (s *OrderService) Refund(ctx context.Context, orderID uint) error {
	return s.transition(ctx, orderID, models.OrderStatusPaid, models.OrderStatusRefunded)
}

func (s *OrderService) transition(ctx context.Context, orderID uint, from, to string) error {
	ok, err := s.Repo.UpdateOrderStatus(ctx, orderID, from, to)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.Repo.GetOrder(ctx, orderID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	} else if err != nil {
		return err
	}
	return ErrInvalidTransition
}
