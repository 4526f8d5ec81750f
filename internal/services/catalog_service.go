package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"cuero/internal/models"
	"cuero/internal/repositories"
	"cuero/internal/storage"
)

// MaxProductImages caps how many images a product may own, counting both
// existing and newly added images.
const MaxProductImages = 5

// EventPublisher receives catalog change notifications. Publishing is
// best-effort: failures are logged, never surfaced to callers.
type EventPublisher interface {
	PublishProductCreated(event map[string]interface{}) error
	PublishProductDeleted(event map[string]interface{}) error
}

// Catalog is the loaded product list plus the derived featured view:
// products with featured && visible, inheriting the load order.
type Catalog struct {
	Products []models.Product `json:"products"`
	Featured []models.Product `json:"featured"`
}

// ImageResult is the tagged outcome of one image upload sub-operation.
type ImageResult struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether the sub-operation failed.
func (r ImageResult) Failed() bool { return r.Error != "" }

// CreateOutcome is what a successful (possibly partially successful) create
// returns: the canonical product row re-read after all writes, the per-image
// results, and the reloaded catalog.
type CreateOutcome struct {
	Product *models.Product `json:"product"`
	Images  []ImageResult   `json:"images"`
	Catalog *Catalog        `json:"catalog"`
}

// CatalogService orchestrates product and image persistence across the data
// store and the object store. Mutations reload the catalog before returning
// so callers always observe consistent post-state.
type CatalogService struct {
	repo   repositories.ProductRepository
	store  storage.ObjectStorage
	events EventPublisher // may be nil
	locks  *entityLocks
}

// NewCatalogService creates a new CatalogService. events may be nil, in
// which case no change notifications are published.
func NewCatalogService(repo repositories.ProductRepository, store storage.ObjectStorage, events EventPublisher) *CatalogService {
	return &CatalogService{
		repo:   repo,
		store:  store,
		events: events,
		locks:  newEntityLocks(),
	}
}

// Load fetches all products, newest first, with their images, and derives
// the featured view.
func (s *CatalogService) Load(ctx context.Context) (*Catalog, error) {
	products, err := s.repo.GetAllWithImages()
	if err != nil {
		return nil, &LoadError{Op: "catalog", Err: err}
	}

	featured := make([]models.Product, 0)
	for _, p := range products {
		if p.Featured && p.Visible {
			featured = append(featured, p)
		}
	}
	return &Catalog{Products: products, Featured: featured}, nil
}

// Create inserts a product row and then uploads and records its images in
// input order. A failure inserting the product aborts the whole operation;
// a failure on one image does not roll back the product or earlier images,
// it is recorded in that image's result and the loop continues.
func (s *CatalogService) Create(ctx context.Context, data models.CreateProductData, images []models.ImageFile) (*CreateOutcome, error) {
	// Validation short-circuits before any store call, in this order.
	if strings.TrimSpace(data.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(data.Description) == "" {
		return nil, &ValidationError{Field: "description", Message: "description is required"}
	}
	if len(images) == 0 {
		return nil, &ValidationError{Field: "images", Message: "at least one image is required"}
	}
	if len(images) > MaxProductImages {
		return nil, &ValidationError{Field: "images", Message: fmt.Sprintf("a maximum of %d images is allowed", MaxProductImages)}
	}

	product := &models.Product{
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Featured:    data.Featured,
		Category:    data.Category,
		Visible:     true,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, &MutationError{Op: "create product", Err: err}
	}

	results := s.uploadImages(ctx, product.ID, images, 0)

	if s.events != nil {
		err := s.events.PublishProductCreated(map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
			"category":   product.Category,
		})
		if err != nil {
			log.Printf("Failed to publish product created event for %s: %v", product.ID, err)
		}
	}

	catalog, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.GetByID(product.ID)
	if err != nil {
		return nil, &LoadError{Op: "created product", Err: err}
	}
	return &CreateOutcome{Product: created, Images: results, Catalog: catalog}, nil
}

// Update applies a partial field patch to an existing product. Images are
// not touched. Provided name/description values are re-validated against
// the non-empty rule before the update is issued.
func (s *CatalogService) Update(ctx context.Context, productID string, data models.UpdateProductData) (*Catalog, error) {
	if data.Name != nil && strings.TrimSpace(*data.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if data.Description != nil && strings.TrimSpace(*data.Description) == "" {
		return nil, &ValidationError{Field: "description", Message: "description is required"}
	}

	fields := map[string]interface{}{}
	if data.Name != nil {
		fields["name"] = *data.Name
	}
	if data.Description != nil {
		fields["description"] = *data.Description
	}
	if data.Price != nil {
		fields["price"] = *data.Price
	}
	if data.Featured != nil {
		fields["featured"] = *data.Featured
	}
	if data.Category != nil {
		fields["category"] = *data.Category
	}
	if data.Visible != nil {
		fields["visible"] = *data.Visible
	}
	if len(fields) == 0 {
		return s.Load(ctx)
	}

	release := s.locks.acquire(productID)
	defer release()

	if err := s.repo.Update(productID, fields); err != nil {
		return nil, &MutationError{Op: "update product", Err: err}
	}
	return s.Load(ctx)
}

// AddImages uploads additional images for an existing product. The combined
// cap of MaxProductImages (existing + new) is checked before anything is
// uploaded. Pass startOrder < 0 to continue from the current image count.
func (s *CatalogService) AddImages(ctx context.Context, productID string, images []models.ImageFile, startOrder int) (*Catalog, []ImageResult, error) {
	if len(images) == 0 {
		return nil, nil, &ValidationError{Field: "images", Message: "at least one image is required"}
	}

	release := s.locks.acquire(productID)
	defer release()

	existing, err := s.repo.GetImagesByProduct(productID)
	if err != nil {
		return nil, nil, &LoadError{Op: "product images", Err: err}
	}
	if len(existing)+len(images) > MaxProductImages {
		return nil, nil, &ValidationError{Field: "images", Message: fmt.Sprintf("a product may have at most %d images", MaxProductImages)}
	}
	if startOrder < 0 {
		startOrder = len(existing)
	}

	results := s.uploadImages(ctx, productID, images, startOrder)

	catalog, err := s.Load(ctx)
	if err != nil {
		return nil, results, err
	}
	return catalog, results, nil
}

// DeleteImage removes an image's storage object and its metadata row. The
// two stores cannot be committed together, so both removals are always
// attempted; a half-completed outcome (object gone but row kept, or the
// reverse) is a recognized failure mode, not something this layer prevents.
func (s *CatalogService) DeleteImage(ctx context.Context, imageID, imageURL string) (*Catalog, error) {
	image, err := s.repo.GetImageByID(imageID)
	if err != nil {
		return nil, &LoadError{Op: "image", Err: err}
	}

	release := s.locks.acquire(image.ProductID)
	defer release()

	if err := s.removeObjectAndRow(ctx, image.ProductID, imageID, imageURL); err != nil {
		return nil, &MutationError{Op: "delete image", Err: err}
	}
	return s.Load(ctx)
}

// Delete removes a product: its storage objects best-effort, then the
// product row (the store cascades the image rows). A failure listing the
// images is logged and the row deletion still proceeds; orphaned storage
// objects are an accepted failure mode.
func (s *CatalogService) Delete(ctx context.Context, productID string) (*Catalog, error) {
	release := s.locks.acquire(productID)
	defer release()

	images, err := s.repo.GetImagesByProduct(productID)
	if err != nil {
		log.Printf("Failed to list images for product %s before delete: %v", productID, err)
	} else if len(images) > 0 {
		keys := make([]string, 0, len(images))
		for _, img := range images {
			keys = append(keys, objectKey(productID, img.ImageURL))
		}
		if err := s.store.Remove(ctx, storage.ProductImagesBucket, keys); err != nil {
			log.Printf("Failed to remove storage objects for product %s: %v", productID, err)
		}
	}

	if err := s.repo.Delete(productID); err != nil {
		return nil, &MutationError{Op: "delete product", Err: err}
	}

	if s.events != nil {
		err := s.events.PublishProductDeleted(map[string]interface{}{
			"product_id": productID,
		})
		if err != nil {
			log.Printf("Failed to publish product deleted event for %s: %v", productID, err)
		}
	}
	return s.Load(ctx)
}

// ToggleFeatured flips the featured flag. There is no optimistic local
// mutation: the flag is read, inverted, written, and the reloaded catalog
// returned. Concurrent writers follow last-write-wins.
func (s *CatalogService) ToggleFeatured(ctx context.Context, productID string) (*Catalog, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, &LoadError{Op: "product", Err: err}
	}
	featured := !product.Featured
	return s.Update(ctx, productID, models.UpdateProductData{Featured: &featured})
}

// uploadImages uploads files in input order and records one image row per
// successful upload, with order values assigned monotonically from
// startOrder. A failure on one image is recorded in its result and the loop
// continues; earlier writes are retained. An upload that succeeds but whose
// row insert fails leaves an orphaned object behind.
func (s *CatalogService) uploadImages(ctx context.Context, productID string, images []models.ImageFile, startOrder int) []ImageResult {
	results := make([]ImageResult, 0, len(images))
	for i, img := range images {
		key := fmt.Sprintf("%s/%d-%d%s", productID, time.Now().UnixMilli(), i, path.Ext(img.Name))
		if err := s.store.Upload(ctx, storage.ProductImagesBucket, key, bytes.NewReader(img.Data), false); err != nil {
			log.Printf("Failed to upload image %s for product %s: %v", img.Name, productID, err)
			results = append(results, ImageResult{FileName: img.Name, Error: err.Error()})
			continue
		}
		url := s.store.PublicURL(storage.ProductImagesBucket, key)

		record := &models.ProductImage{
			ProductID: productID,
			ImageURL:  url,
			Order:     startOrder + i,
		}
		if err := s.repo.CreateImage(record); err != nil {
			log.Printf("Failed to record image %s for product %s: %v", img.Name, productID, err)
			results = append(results, ImageResult{FileName: img.Name, Error: err.Error()})
			continue
		}
		results = append(results, ImageResult{FileName: img.Name, URL: url})
	}
	return results
}

// removeObjectAndRow is the best-effort, non-atomic dual delete across the
// object store and the data store. Both deletions are attempted regardless
// of the other's outcome and any errors are joined.
func (s *CatalogService) removeObjectAndRow(ctx context.Context, productID, imageID, imageURL string) error {
	key := objectKey(productID, imageURL)
	storageErr := s.store.Remove(ctx, storage.ProductImagesBucket, []string{key})
	if storageErr != nil {
		log.Printf("Failed to remove storage object %s: %v", key, storageErr)
	}
	rowErr := s.repo.DeleteImage(imageID)
	if rowErr != nil {
		log.Printf("Failed to delete image row %s: %v", imageID, rowErr)
	}
	return errors.Join(storageErr, rowErr)
}

// objectKey derives the storage key for an image from its public URL and
// the owning product ID.
func objectKey(productID, imageURL string) string {
	name := imageURL
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return productID + "/" + path.Base(name)
}
