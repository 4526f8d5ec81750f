package repositories

import "cuero/internal/models"

// SettingsRepository defines the interface for site-settings data access.
// The settings row is a pre-provisioned singleton: it is read and patched in
// place, never created or deleted through this interface.
type SettingsRepository interface {
	Get() (*models.SiteSettings, error)
	// Update applies a partial field patch to the settings row.
	Update(id string, fields map[string]interface{}) error
}
