package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

// CartLine is one snapshot line: the product as priced right now plus the
// quantity staged in the cart.
type CartLine struct {
	Product models.Product `json:"product"`
	Qty     uint           `json:"qty"`
}

// CartService owns the mutable per-user cart. All mutations and the checkout
// in OrderService serialize on the same per-user lock.
type CartService struct {
	Repo    *repo.GormRepo
	Catalog *CatalogService

	userLocks keyedMutex
}

func (s *CartService) lockUser(userID uint) func() {
	return s.userLocks.lock(fmt.Sprintf("user/%d", userID))
}

// GetOrCreateCart returns the user's single open cart, creating an empty one
// if none exists. Safe under concurrent calls for the same user.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	return s.Repo.FirstOrCreateCart(ctx, userID)
}

func (s *CartService) getCart(ctx context.Context, cartID uint) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, cartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	return cart, err
}

// AddItem validates the product against the catalog and either increments the
// existing line or inserts a new one. Not idempotent by design: every call
// adds, callers de-duplicate at a higher level.
func (s *CartService) AddItem(ctx context.Context, cartID, productID uint, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.getCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockUser(cart.UserID)
	defer unlock()

	if _, err := s.Catalog.GetActiveProduct(ctx, productID); err != nil {
		return nil, err
	}

	item := models.CartItem{CartID: cartID, ProductID: productID, Qty: uint(qty)}
	if err := s.Repo.AddCartItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity upserts the line to qty; qty == 0 removes it and fails with
// ErrLineNotFound when there is nothing to remove.
func (s *CartService) SetQuantity(ctx context.Context, cartID, productID uint, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	cart, err := s.getCart(ctx, cartID)
	if err != nil {
		return err
	}

	unlock := s.lockUser(cart.UserID)
	defer unlock()

	if qty == 0 {
		deleted, err := s.Repo.DeleteCartItem(ctx, cartID, productID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrLineNotFound
		}
		return nil
	}

	if _, err := s.Catalog.GetActiveProduct(ctx, productID); err != nil {
		return err
	}
	return s.Repo.SetCartItemQty(ctx, cartID, productID, uint(qty))
}

// Snapshot returns the ordered cart lines priced at current catalog prices,
// re-validating that every product is still active. It never mutates state.
func (s *CartService) Snapshot(ctx context.Context, cartID uint) ([]CartLine, error) {
	if _, err := s.getCart(ctx, cartID); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, cartID)
}

func (s *CartService) snapshot(ctx context.Context, cartID uint) ([]CartLine, error) {
	items, err := s.Repo.GetCartItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		p, err := s.Catalog.GetActiveProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, CartLine{Product: *p, Qty: item.Qty})
	}
	return lines, nil
}

// Drain atomically empties the cart; called by the order engine right after
// a successful order insert.
func (s *CartService) Drain(ctx context.Context, cartID uint) error {
	cart, err := s.getCart(ctx, cartID)
	if err != nil {
		return err
	}

	unlock := s.lockUser(cart.UserID)
	defer unlock()

	return s.Repo.DrainCart(ctx, cartID)
}
