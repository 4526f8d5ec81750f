package services_test

import (
	"context"
	"testing"

	"cuero/internal/models"
	"cuero/internal/repositories"
	"cuero/internal/services"
	"cuero/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestSettingsService_Load_MissingRow(t *testing.T) {
	repo := repositories.NewEmptyMockSettingsRepository()
	service := services.NewSettingsService(repo, storage.NewMemoryStorage())

	settings, err := service.Load(context.Background())

	assert.Nil(t, settings)
	var loadErr *services.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestSettingsService_UpdateHeroImage_OverwritesFixedKey(t *testing.T) {
	repo := repositories.NewMockSettingsRepository()
	store := storage.NewMemoryStorage()
	service := services.NewSettingsService(repo, store)

	file := models.ImageFile{Name: "shopfront.jpg", ContentType: "image/jpeg", Size: 64, Data: []byte("first")}
	settings, err := service.UpdateHeroImage(context.Background(), file)

	assert.NoError(t, err)
	assert.Equal(t, "https://storage.local/site-images/hero/hero-image.jpg", settings.HeroImage)
	body, ok := store.Object(storage.SiteImagesBucket, "hero/hero-image.jpg")
	assert.True(t, ok)
	assert.Equal(t, []byte("first"), body)

	// A second upload with the same extension replaces the object instead of
	// piling up a new one.
	file.Name = "renovated.jpg"
	file.Data = []byte("second")
	settings, err = service.UpdateHeroImage(context.Background(), file)

	assert.NoError(t, err)
	assert.Equal(t, "https://storage.local/site-images/hero/hero-image.jpg", settings.HeroImage)
	assert.Equal(t, 1, store.Count(storage.SiteImagesBucket))
	body, _ = store.Object(storage.SiteImagesBucket, "hero/hero-image.jpg")
	assert.Equal(t, []byte("second"), body)
}

func TestSettingsService_UpdateBanner_PartialPatch(t *testing.T) {
	repo := repositories.NewMockSettingsRepository()
	store := storage.NewMemoryStorage()
	service := services.NewSettingsService(repo, store)

	text := "Summer sale"
	link := "/sale"
	settings, err := service.UpdateBanner(context.Background(), models.BannerUpdate{Text: &text, Link: &link})

	assert.NoError(t, err)
	assert.Equal(t, "Summer sale", settings.BannerText)
	assert.Equal(t, "/sale", settings.BannerLink)
	assert.False(t, settings.BannerEnabled)
	assert.Empty(t, settings.BannerImage)

	// Enabling the banner later must not disturb the text or link.
	enabled := true
	settings, err = service.UpdateBanner(context.Background(), models.BannerUpdate{Enabled: &enabled})

	assert.NoError(t, err)
	assert.True(t, settings.BannerEnabled)
	assert.Equal(t, "Summer sale", settings.BannerText)
	assert.Equal(t, "/sale", settings.BannerLink)
}

func TestSettingsService_UpdateBanner_WithImage(t *testing.T) {
	repo := repositories.NewMockSettingsRepository()
	store := storage.NewMemoryStorage()
	service := services.NewSettingsService(repo, store)

	image := models.ImageFile{Name: "promo.png", ContentType: "image/png", Size: 64, Data: []byte("banner bytes")}
	settings, err := service.UpdateBanner(context.Background(), models.BannerUpdate{Image: &image})

	assert.NoError(t, err)
	assert.Equal(t, "https://storage.local/site-images/banner/banner-image.png", settings.BannerImage)
	_, ok := store.Object(storage.SiteImagesBucket, "banner/banner-image.png")
	assert.True(t, ok)
}

func TestSettingsService_UpdateBanner_EmptyUpdateReturnsCurrentRow(t *testing.T) {
	repo := repositories.NewMockSettingsRepository()
	service := services.NewSettingsService(repo, storage.NewMemoryStorage())

	text := "Keep me"
	_, err := service.UpdateBanner(context.Background(), models.BannerUpdate{Text: &text})
	assert.NoError(t, err)

	settings, err := service.UpdateBanner(context.Background(), models.BannerUpdate{})

	assert.NoError(t, err)
	assert.Equal(t, "Keep me", settings.BannerText)
}
