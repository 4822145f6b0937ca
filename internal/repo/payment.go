package repo

import (
	"context"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

func (r *GormRepo) FindPayment(ctx context.Context, provider, chargeID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).
		Where("provider = ? AND provider_charge_id = ?", provider, chargeID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	return r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormRepo) ListOrderPayments(ctx context.Context, orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
