package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

func (r *GormRepo) FirstOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart := models.Cart{}
	if err := r.DB.WithContext(ctx).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) GetCart(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).First(&cart, cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) GetCartItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem increments the line quantity if the product already has one,
// otherwise inserts a new line. The cart's updated_at is refreshed either way.
func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
			Update("qty", gorm.Expr("qty + ?", item.Qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if err := tx.Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
				First(item).Error; err != nil {
				return err
			}
			return touchCart(tx, item.CartID)
		}

		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return touchCart(tx, item.CartID)
	})
}

// SetCartItemQty upserts the line to the exact quantity (qty > 0).
func (r *GormRepo) SetCartItemQty(ctx context.Context, cartID, productID, qty uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Update("qty", qty)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			item := models.CartItem{CartID: cartID, ProductID: productID, Qty: qty}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return touchCart(tx, cartID)
	})
}

// DeleteCartItem removes the line; reports whether a row existed.
func (r *GormRepo) DeleteCartItem(ctx context.Context, cartID, productID uint) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).
			Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		return touchCart(tx, cartID)
	})
	return deleted, err
}

// DrainCart atomically empties the cart's items.
func (r *GormRepo) DrainCart(ctx context.Context, cartID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return touchCart(tx, cartID)
	})
}

func touchCart(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now().UTC()).Error
}
