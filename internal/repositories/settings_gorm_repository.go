package repositories

import (
	"fmt"

	"cuero/internal/models"

	"gorm.io/gorm"
)

// GORMSettingsRepository is a GORM implementation of SettingsRepository.
type GORMSettingsRepository struct {
	db *gorm.DB
}

// NewGORMSettingsRepository creates a new instance of GORMSettingsRepository.
func NewGORMSettingsRepository(db *gorm.DB) *GORMSettingsRepository {
	return &GORMSettingsRepository{
		db: db,
	}
}

// Get retrieves the singleton settings row.
func (r *GORMSettingsRepository) Get() (*models.SiteSettings, error) {
	var settings models.SiteSettings
	if err := r.db.First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("site settings row not found")
		}
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	return &settings, nil
}

// Update applies a partial field patch to the settings row.
func (r *GORMSettingsRepository) Update(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.SiteSettings{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update site settings: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("site settings row with ID %s not found for update", id)
	}
	return nil
}
