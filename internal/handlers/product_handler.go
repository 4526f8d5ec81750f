package handlers

import (
	"fmt"
	"log"
	"strconv"

	"cuero/internal/models"
	"cuero/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog: the public
// storefront read path and the administrative CRUD surface.
type ProductHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the storefront routes.
func (h *ProductHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/catalog", h.HandleGetCatalog)
}

// RegisterAdminRoutes registers the back-office routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Patch("/:id/featured", h.HandleToggleFeatured)
	productRoutes.Post("/:id/images", h.HandleAddImages)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	router.Delete("/images/:imageId", h.HandleDeleteImage)
}

// HandleGetCatalog returns all products plus the derived featured view.
func (h *ProductHandler) HandleGetCatalog(c *fiber.Ctx) error {
	catalog, err := h.catalog.Load(c.UserContext())
	if err != nil {
		log.Printf("Error loading catalog: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(catalog)
}

// HandleCreateProduct creates a product from a multipart form carrying the
// product fields and 1-5 image files under "images".
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing create product form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
	}

	price, err := parsePrice(c.FormValue("price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	data := models.CreateProductData{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Featured:    c.FormValue("featured") == "true",
		Category:    c.FormValue("category"),
	}
	if err := h.validate.Struct(data); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	images, err := imageFilesFromForm(form, "images")
	if err != nil {
		log.Printf("Error reading uploaded images: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded images",
			"error":   err.Error(),
		})
	}
	for _, img := range images {
		if err := validateImageFile(img); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
	}

	outcome, err := h.catalog.Create(c.UserContext(), data, images)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondServiceError(c, err)
	}

	// Per-image failures do not fail the request; the product and any
	// successfully recorded images are kept and the failures reported.
	failed := 0
	for _, r := range outcome.Images {
		if r.Failed() {
			failed++
		}
	}
	message := "Product created successfully"
	if failed > 0 {
		message = fmt.Sprintf("Product created with %d of %d images", len(outcome.Images)-failed, len(outcome.Images))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"product": outcome.Product,
		"images":  outcome.Images,
		"catalog": outcome.Catalog,
	})
}

// HandleUpdateProduct applies a partial patch to a product's fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	var data models.UpdateProductData
	if err := c.BodyParser(&data); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(data); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	catalog, err := h.catalog.Update(c.UserContext(), productID, data)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"catalog": catalog,
	})
}

// HandleToggleFeatured flips a product's featured flag.
func (h *ProductHandler) HandleToggleFeatured(c *fiber.Ctx) error {
	productID := c.Params("id")

	catalog, err := h.catalog.ToggleFeatured(c.UserContext(), productID)
	if err != nil {
		log.Printf("Error toggling featured for product %s: %v", productID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"catalog": catalog,
	})
}

// HandleAddImages uploads additional images for an existing product. The
// optional start_order form field sets the first order value; when absent
// the images continue from the current image count.
func (h *ProductHandler) HandleAddImages(c *fiber.Ctx) error {
	productID := c.Params("id")

	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing add images form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid multipart form",
			"error":   err.Error(),
		})
	}

	startOrder := -1
	if v := c.FormValue("start_order"); v != "" {
		startOrder, err = strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request",
				"error":   fmt.Sprintf("invalid start_order %q", v),
			})
		}
	}

	images, err := imageFilesFromForm(form, "images")
	if err != nil {
		log.Printf("Error reading uploaded images: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded images",
			"error":   err.Error(),
		})
	}
	for _, img := range images {
		if err := validateImageFile(img); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
	}

	catalog, results, err := h.catalog.AddImages(c.UserContext(), productID, images, startOrder)
	if err != nil {
		log.Printf("Error adding images to product %s: %v", productID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Images uploaded",
		"images":  results,
		"catalog": catalog,
	})
}

// HandleDeleteImage removes one image: its storage object and its row. The
// image_url query parameter carries the stored public URL the object key is
// derived from.
func (h *ProductHandler) HandleDeleteImage(c *fiber.Ctx) error {
	imageID := c.Params("imageId")
	imageURL := c.Query("image_url")
	if imageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "image_url query parameter is required",
		})
	}

	catalog, err := h.catalog.DeleteImage(c.UserContext(), imageID, imageURL)
	if err != nil {
		log.Printf("Error deleting image %s: %v", imageID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Image deleted successfully",
		"catalog": catalog,
	})
}

// HandleDeleteProduct removes a product, its storage objects, and (via the
// store's cascade) its image rows.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	catalog, err := h.catalog.Delete(c.UserContext(), productID)
	if err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
		"catalog": catalog,
	})
}
