package repo

import (
	"context"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

func (r *GormRepo) EnsureUser(ctx context.Context, tgID int64, fullName, username string) (*models.User, error) {
	user := models.User{TgID: tgID, FullName: fullName, Username: username}
	if err := r.DB.WithContext(ctx).
		Where(models.User{TgID: tgID}).
		FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByTgID(ctx context.Context, tgID int64) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("tg_id = ?", tgID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SetUserPhone(ctx context.Context, tgID int64, phone string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("tg_id = ?", tgID).
		Updates(map[string]any{"phone": phone, "is_verified": true})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) ListRecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
