package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

// ContentService stores editable presentation blocks for the bot layer. The
// engine treats key, text and file ids as opaque.
type ContentService struct {
	Repo *repo.GormRepo
}

func (s *ContentService) SetSectionText(ctx context.Context, key, text string) error {
	if key == "" {
		return fmt.Errorf("key required: %w", ErrValidation)
	}
	return s.Repo.UpsertSection(ctx, key, text)
}

func (s *ContentService) GetSectionText(ctx context.Context, key string) (string, error) {
	section, err := s.Repo.GetSection(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("section %q: %w", key, ErrNotFound)
	} else if err != nil {
		return "", err
	}
	return section.Text, nil
}

func (s *ContentService) AddSectionPhoto(ctx context.Context, key, fileID string, sortOrder int) error {
	if key == "" || fileID == "" {
		return fmt.Errorf("key and file_id required: %w", ErrValidation)
	}
	photo := models.ContentPhoto{SectionKey: key, FileID: fileID, SortOrder: sortOrder}
	return s.Repo.AddSectionPhoto(ctx, &photo)
}

func (s *ContentService) ListSectionPhotos(ctx context.Context, key string) ([]models.ContentPhoto, error) {
	return s.Repo.ListSectionPhotos(ctx, key)
}

func (s *ContentService) ClearSectionPhotos(ctx context.Context, key string) error {
	return s.Repo.ClearSectionPhotos(ctx, key)
}
