package handlers

import (
	"log"

	"cuero/internal/models"
	"cuero/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BulkUploadHandler handles the folder-based bulk product upload.
type BulkUploadHandler struct {
	bulk *services.BulkUploadService
}

// NewBulkUploadHandler creates a new BulkUploadHandler.
func NewBulkUploadHandler(bulk *services.BulkUploadService) *BulkUploadHandler {
	return &BulkUploadHandler{
		bulk: bulk,
	}
}

// RegisterAdminRoutes registers the bulk upload route.
func (h *BulkUploadHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/products/bulk", h.HandleBulkUpload)
}

// HandleBulkUpload creates one product per uploaded subfolder. The form
// carries a category shared by every created product, an optional shared
// price, and the files under "files" with their relative paths intact.
// The response is a per-group result list plus the per-file rejections; a
// mixed outcome is normal and still a 200.
func (h *BulkUploadHandler) HandleBulkUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing bulk upload form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
	}

	category := c.FormValue("category")
	if !models.ValidCategory(category) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "a valid category is required",
		})
	}

	price, err := parsePrice(c.FormValue("price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	files, err := imageFilesFromForm(form, "files")
	if err != nil {
		log.Printf("Error reading bulk upload files: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded files",
			"error":   err.Error(),
		})
	}

	groups, fileErrors := h.bulk.Group(files)
	if len(groups) == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":     "No files selected",
			"file_errors": fileErrors,
		})
	}

	results := h.bulk.Process(c.UserContext(), groups, category, price)

	return c.JSON(fiber.Map{
		"message":     "Bulk upload processed",
		"results":     results,
		"file_errors": fileErrors,
	})
}
