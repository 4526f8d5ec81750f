package handlers

import (
	"log"

	"cuero/internal/models"
	"cuero/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles HTTP requests for the site settings: the public
// read path and the hero/banner admin forms.
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
	}
}

// RegisterPublicRoutes registers the storefront settings route.
func (h *SettingsHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/settings", h.HandleGetSettings)
}

// RegisterAdminRoutes registers the back-office settings routes.
func (h *SettingsHandler) RegisterAdminRoutes(router fiber.Router) {
	settingsRoutes := router.Group("/settings")
	settingsRoutes.Put("/hero", h.HandleUpdateHeroImage)
	settingsRoutes.Put("/banner", h.HandleUpdateBanner)
}

// HandleGetSettings returns the singleton settings row.
func (h *SettingsHandler) HandleGetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Load(c.UserContext())
	if err != nil {
		log.Printf("Error loading site settings: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(settings)
}

// HandleUpdateHeroImage replaces the storefront hero image with the single
// file uploaded under "image".
func (h *SettingsHandler) HandleUpdateHeroImage(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing hero image form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
	}

	images, err := imageFilesFromForm(form, "image")
	if err != nil {
		log.Printf("Error reading hero image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
			"error":   err.Error(),
		})
	}
	if len(images) != 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "exactly one image is required",
		})
	}
	if err := validateImageFile(images[0]); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	settings, err := h.settings.UpdateHeroImage(c.UserContext(), images[0])
	if err != nil {
		log.Printf("Error updating hero image: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Hero image updated successfully",
		"settings": settings,
	})
}

// HandleUpdateBanner applies a partial update to the banner configuration.
// Only fields present in the form are written; an uploaded "image" file
// replaces the banner image.
func (h *SettingsHandler) HandleUpdateBanner(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing banner form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
	}

	var update models.BannerUpdate

	images, err := imageFilesFromForm(form, "image")
	if err != nil {
		log.Printf("Error reading banner image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
			"error":   err.Error(),
		})
	}
	if len(images) > 1 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "at most one image is allowed",
		})
	}
	if len(images) == 1 {
		if err := validateImageFile(images[0]); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		update.Image = &images[0]
	}

	// Field presence in the form, not the zero value, decides what gets
	// patched.
	if values, ok := form.Value["text"]; ok && len(values) > 0 {
		update.Text = &values[0]
	}
	if values, ok := form.Value["link"]; ok && len(values) > 0 {
		update.Link = &values[0]
	}
	if values, ok := form.Value["enabled"]; ok && len(values) > 0 {
		enabled := values[0] == "true"
		update.Enabled = &enabled
	}

	settings, err := h.settings.UpdateBanner(c.UserContext(), update)
	if err != nil {
		log.Printf("Error updating banner: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Banner updated successfully",
		"settings": settings,
	})
}
