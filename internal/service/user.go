package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

const DefaultRecentUsers = 20

// UserService registers users on first bot contact and records phone
// confirmations. Users are never deleted.
type UserService struct {
	Repo *repo.GormRepo
}

// EnsureUser is idempotent per tg_id: repeated calls return the same row.
func (s *UserService) EnsureUser(ctx context.Context, tgID int64, fullName, username string) (*models.User, error) {
	if tgID == 0 {
		return nil, fmt.Errorf("tg_id required: %w", ErrValidation)
	}
	return s.Repo.EnsureUser(ctx, tgID, fullName, username)
}

// GetByTgID resolves the Telegram account to the registered user.
func (s *UserService) GetByTgID(ctx context.Context, tgID int64) (*models.User, error) {
	user, err := s.Repo.GetUserByTgID(ctx, tgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ConfirmPhone stores the contact-shared phone and marks the user verified.
func (s *UserService) ConfirmPhone(ctx context.Context, tgID int64, phone string) error {
	if phone == "" {
		return fmt.Errorf("phone required: %w", ErrValidation)
	}
	ok, err := s.Repo.SetUserPhone(ctx, tgID, phone)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) ListRecent(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = DefaultRecentUsers
	}
	return s.Repo.ListRecentUsers(ctx, limit)
}
