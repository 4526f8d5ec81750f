package repositories

import (
	"cuero/internal/models"
)

// ProductRepository defines the interface for product and product-image data
// access. Image rows are owned by their product; the backing store is
// expected to cascade image-row deletion when the product row is deleted.
type ProductRepository interface {
	// GetAllWithImages returns every product ordered by creation time
	// descending, each with its images ordered by display order (creation
	// time as the stable tie-break).
	GetAllWithImages() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	// Update applies a partial field patch to the product row.
	Update(id string, fields map[string]interface{}) error
	Delete(id string) error

	CreateImage(image *models.ProductImage) error
	GetImageByID(id string) (*models.ProductImage, error)
	GetImagesByProduct(productID string) ([]models.ProductImage, error)
	DeleteImage(id string) error
}
