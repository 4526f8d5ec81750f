package models

import "time"

// SiteSettings is the singleton row holding the storefront hero image and
// banner configuration. It is provisioned once at startup and only ever
// updated in place, never created or deleted by the services.
type SiteSettings struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	HeroImage     string    `json:"hero_image"`
	BannerImage   string    `json:"banner_image,omitempty"`
	BannerText    string    `json:"banner_text,omitempty" validate:"omitempty,max=200"`
	BannerLink    string    `json:"banner_link,omitempty" validate:"omitempty,max=500"`
	BannerEnabled bool      `json:"banner_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BannerUpdate is a partial patch for the banner fields; nil fields are left
// untouched. Image, when set, replaces the stored banner image.
type BannerUpdate struct {
	Image   *ImageFile
	Text    *string
	Link    *string
	Enabled *bool
}
