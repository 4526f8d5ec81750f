package repositories

import (
	"fmt"
	"sync"
	"time"

	"cuero/internal/models"

	"github.com/google/uuid"
)

// MockSettingsRepository is an in-memory implementation of
// SettingsRepository, pre-provisioned with a single settings row.
type MockSettingsRepository struct {
	settings *models.SiteSettings
	mu       sync.RWMutex
}

// NewMockSettingsRepository creates a new instance holding one settings row.
func NewMockSettingsRepository() *MockSettingsRepository {
	now := time.Now()
	return &MockSettingsRepository{
		settings: &models.SiteSettings{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// NewEmptyMockSettingsRepository creates an instance with no row at all, for
// exercising the missing-singleton failure path.
func NewEmptyMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

// Get returns the singleton settings row.
func (r *MockSettingsRepository) Get() (*models.SiteSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, fmt.Errorf("site settings row not found")
	}
	s := *r.settings
	return &s, nil
}

// Update applies a partial field patch to the settings row.
func (r *MockSettingsRepository) Update(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil || r.settings.ID != id {
		return fmt.Errorf("site settings row with ID %s not found for update", id)
	}
	for k, v := range fields {
		switch k {
		case "hero_image":
			r.settings.HeroImage = v.(string)
		case "banner_image":
			r.settings.BannerImage = v.(string)
		case "banner_text":
			r.settings.BannerText = v.(string)
		case "banner_link":
			r.settings.BannerLink = v.(string)
		case "banner_enabled":
			r.settings.BannerEnabled = v.(bool)
		}
	}
	r.settings.UpdatedAt = time.Now()
	return nil
}
