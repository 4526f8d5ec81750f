package services

import (
	"bytes"
	"context"
	"path"
	"sync"

	"cuero/internal/models"
	"cuero/internal/repositories"
	"cuero/internal/storage"
)

// SettingsService manages the singleton site-settings row: the storefront
// hero image and the banner configuration. The row is provisioned at
// startup; this service only reads and patches it. Writes are serialized by
// a single mutex and follow last-write-wins across processes.
type SettingsService struct {
	repo  repositories.SettingsRepository
	store storage.ObjectStorage
	mu    sync.Mutex
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo repositories.SettingsRepository, store storage.ObjectStorage) *SettingsService {
	return &SettingsService{
		repo:  repo,
		store: store,
	}
}

// Load fetches the singleton settings row.
func (s *SettingsService) Load(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.repo.Get()
	if err != nil {
		return nil, &LoadError{Op: "site settings", Err: err}
	}
	return settings, nil
}

// UpdateHeroImage uploads the file to the fixed hero key, overwriting any
// previous hero image, and writes the resulting URL onto the settings row.
// The key is not unique per upload, so clients caching the old URL may keep
// serving the previous image; this layer does not cache-bust.
func (s *SettingsService) UpdateHeroImage(ctx context.Context, file models.ImageFile) (*models.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Get()
	if err != nil {
		return nil, &LoadError{Op: "site settings", Err: err}
	}

	key := "hero/hero-image" + path.Ext(file.Name)
	if err := s.store.Upload(ctx, storage.SiteImagesBucket, key, bytes.NewReader(file.Data), true); err != nil {
		return nil, &MutationError{Op: "upload hero image", Err: err}
	}
	url := s.store.PublicURL(storage.SiteImagesBucket, key)

	if err := s.repo.Update(settings.ID, map[string]interface{}{"hero_image": url}); err != nil {
		return nil, &MutationError{Op: "update hero image", Err: err}
	}
	return s.Load(ctx)
}

// UpdateBanner applies a partial update to the banner fields. Omitted
// fields are left untouched; a provided image is uploaded to the fixed
// banner key with overwrite semantics and supersedes the stored banner
// image.
func (s *SettingsService) UpdateBanner(ctx context.Context, update models.BannerUpdate) (*models.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.Get()
	if err != nil {
		return nil, &LoadError{Op: "site settings", Err: err}
	}

	fields := map[string]interface{}{}
	if update.Image != nil {
		key := "banner/banner-image" + path.Ext(update.Image.Name)
		if err := s.store.Upload(ctx, storage.SiteImagesBucket, key, bytes.NewReader(update.Image.Data), true); err != nil {
			return nil, &MutationError{Op: "upload banner image", Err: err}
		}
		fields["banner_image"] = s.store.PublicURL(storage.SiteImagesBucket, key)
	}
	if update.Text != nil {
		fields["banner_text"] = *update.Text
	}
	if update.Link != nil {
		fields["banner_link"] = *update.Link
	}
	if update.Enabled != nil {
		fields["banner_enabled"] = *update.Enabled
	}

	if len(fields) > 0 {
		if err := s.repo.Update(settings.ID, fields); err != nil {
			return nil, &MutationError{Op: "update banner", Err: err}
		}
	}
	return s.Load(ctx)
}
