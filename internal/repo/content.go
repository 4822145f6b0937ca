package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
)

func (r *GormRepo) UpsertSection(ctx context.Context, key, text string) error {
	section := models.ContentSection{Key: key, Text: text}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"text":       text,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&section).Error
}

func (r *GormRepo) GetSection(ctx context.Context, key string) (*models.ContentSection, error) {
	var section models.ContentSection
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *GormRepo) AddSectionPhoto(ctx context.Context, photo *models.ContentPhoto) error {
	return r.DB.WithContext(ctx).Create(photo).Error
}

func (r *GormRepo) ListSectionPhotos(ctx context.Context, key string) ([]models.ContentPhoto, error) {
	var photos []models.ContentPhoto
	if err := r.DB.WithContext(ctx).
		Where("section_key = ?", key).
		Order("sort_order ASC, id ASC").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *GormRepo) ClearSectionPhotos(ctx context.Context, key string) error {
	return r.DB.WithContext(ctx).
		Where("section_key = ?", key).
		Delete(&models.ContentPhoto{}).Error
}
