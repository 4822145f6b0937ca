package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

const DefaultCurrency = "EUR"

// CatalogService is the read-mostly leaf the cart and order engines validate
// products against. Writes exist only for catalog administration.
type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetActiveProduct(ctx context.Context, productID uint) (*models.Product, error) {
	p, err := s.Repo.GetActiveProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductUnavailable
	}
	return p, err
}

func (s *CatalogService) ListActive(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListActiveProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, title, description string, price int64, currency string) (*models.Product, error) {
	if title == "" {
		return nil, fmt.Errorf("title required: %w", ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price must be > 0: %w", ErrValidation)
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	prod := models.Product{
		Title:       title,
		Description: description,
		Price:       price,
		Currency:    currency,
		IsActive:    true,
	}
	return s.Repo.CreateProduct(ctx, &prod)
}
