package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

// CreateOrderDrainingCart inserts the order with its items and empties the
// source cart in the same transaction, so a checkout either fully lands or
// leaves the cart as it was.
func (r *GormRepo) CreateOrderDrainingCart(ctx context.Context, order *models.Order, cartID uint) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return touchCart(tx, cartID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderByRef(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("ref = ?", ref).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var orders []models.Order
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves the order from one status to another as a
// compare-and-set; false means the order was not in the expected status.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}
