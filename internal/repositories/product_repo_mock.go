package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cuero/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It backs dev mode (no database configured) and tests.
type MockProductRepository struct {
	products []models.Product      // insertion order
	images   map[string][]models.ProductImage // keyed by product ID, insertion order
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		images: make(map[string][]models.ProductImage),
	}
}

// GetAllWithImages returns all products, newest first, images attached and
// sorted by display order with insertion order breaking ties.
func (r *MockProductRepository) GetAllWithImages() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for i := len(r.products) - 1; i >= 0; i-- {
		p := r.products[i]
		p.Images = r.sortedImages(p.ID)
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID, with images.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			p.Images = r.sortedImages(id)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with ID %s not found", id)
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products = append(r.products, *product)
	return nil
}

// Update applies a partial field patch to an existing product.
func (r *MockProductRepository) Update(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID != id {
			continue
		}
		p := &r.products[i]
		for k, v := range fields {
			switch k {
			case "name":
				p.Name = v.(string)
			case "description":
				p.Description = v.(string)
			case "price":
				price := v.(float64)
				p.Price = &price
			case "featured":
				p.Featured = v.(bool)
			case "category":
				p.Category = v.(string)
			case "visible":
				p.Visible = v.(bool)
			}
		}
		p.UpdatedAt = time.Now()
		return nil
	}
	return fmt.Errorf("product with ID %s not found for update", id)
}

// Delete removes a product and, mirroring the store's cascade, its images.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			delete(r.images, id)
			return nil
		}
	}
	return fmt.Errorf("product with ID %s not found for deletion", id)
}

// CreateImage adds a new image record for a product.
func (r *MockProductRepository) CreateImage(image *models.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	image.CreatedAt = time.Now()
	r.images[image.ProductID] = append(r.images[image.ProductID], *image)
	return nil
}

// GetImageByID returns an image record by its ID.
func (r *MockProductRepository) GetImageByID(id string) (*models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, imgs := range r.images {
		for _, img := range imgs {
			if img.ID == id {
				return &img, nil
			}
		}
	}
	return nil, fmt.Errorf("image with ID %s not found", id)
}

// GetImagesByProduct returns all image records for a product.
func (r *MockProductRepository) GetImagesByProduct(productID string) ([]models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedImages(productID), nil
}

// DeleteImage removes an image record by its ID.
func (r *MockProductRepository) DeleteImage(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for productID, imgs := range r.images {
		for i, img := range imgs {
			if img.ID == id {
				r.images[productID] = append(imgs[:i], imgs[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("image with ID %s not found for deletion", id)
}

// sortedImages copies and sorts a product's images by display order; the
// stable sort preserves insertion order between equal order values. Callers
// must hold at least a read lock.
func (r *MockProductRepository) sortedImages(productID string) []models.ProductImage {
	imgs := r.images[productID]
	out := make([]models.ProductImage, len(imgs))
	copy(out, imgs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
