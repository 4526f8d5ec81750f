package repositories

import (
	"fmt"

	"cuero/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAllWithImages retrieves all products with their images preloaded.
// Products come back newest first; images by display order, creation time
// breaking ties so incremental additions keep a stable sequence.
func (r *GORMProductRepository) GetAllWithImages() ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID, with images.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product row in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update applies a partial field patch to an existing product row.
func (r *GORMProductRepository) Update(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update", id)
	}
	return nil
}

// Delete deletes a product row; the foreign-key constraint cascades into the
// product's image rows.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	return nil
}

// CreateImage inserts a new image row for a product.
func (r *GORMProductRepository) CreateImage(image *models.ProductImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create product image: %w", err)
	}
	return nil
}

// GetImageByID retrieves a single image row by its ID.
func (r *GORMProductRepository) GetImageByID(id string) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("image with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get image by ID %s: %w", id, err)
	}
	return &image, nil
}

// GetImagesByProduct retrieves all image rows belonging to a product.
func (r *GORMProductRepository) GetImagesByProduct(productID string) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.
		Where("product_id = ?", productID).
		Order("display_order ASC, created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get images for product %s: %w", productID, err)
	}
	return images, nil
}

// DeleteImage deletes a single image row by its ID.
func (r *GORMProductRepository) DeleteImage(id string) error {
	res := r.db.Delete(&models.ProductImage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("image with ID %s not found for deletion", id)
	}
	return nil
}
