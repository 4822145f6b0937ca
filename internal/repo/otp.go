package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

// ReplaceActiveOTP marks every unused code for the (user, email) pair as used
// and inserts the fresh one in the same transaction, so at most one active
// code exists at any time.
func (r *GormRepo) ReplaceActiveOTP(ctx context.Context, otp *models.EmailOTP) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EmailOTP{}).
			Where("user_id = ? AND email = ? AND used = ?", otp.UserID, otp.Email, false).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
}

func (r *GormRepo) LatestOTP(ctx context.Context, userID uint, email string) (*models.EmailOTP, error) {
	var otp models.EmailOTP
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND email = ?", userID, email).
		Order("id DESC").
		First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

// ConsumeOTP marks the code used and flips the user to verified in one
// transaction. gorm.ErrRecordNotFound means the code was consumed concurrently.
func (r *GormRepo) ConsumeOTP(ctx context.Context, otpID, userID uint, email string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.EmailOTP{}).
			Where("id = ? AND used = ?", otpID, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]any{"is_verified": true, "email": email}).Error
	})
}
