package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cuero/internal/models"

	"github.com/go-playground/validator/v10"
)

// MaxImageSize is the per-file size limit for bulk-uploaded images.
const MaxImageSize = 5 << 20 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// FileError reports one file rejected during grouping.
type FileError struct {
	Folder string `json:"folder"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// GroupResult is the tagged outcome of one product group: fully created,
// partially created (see Images), or skipped with Error set.
type GroupResult struct {
	Product string          `json:"product"`
	Created *models.Product `json:"created,omitempty"`
	Images  []ImageResult   `json:"images,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BulkUploadService turns a folder of images into products: one product per
// subfolder, with the subfolder's files as the product's images.
type BulkUploadService struct {
	catalog  *CatalogService
	validate *validator.Validate
}

// NewBulkUploadService creates a new BulkUploadService.
func NewBulkUploadService(catalog *CatalogService) *BulkUploadService {
	return &BulkUploadService{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// Group organizes files by the subfolder naming their product: the second
// segment of each file's relative path (the first segment is the root folder
// the user selected). Files outside a subfolder are discarded. Files
// failing the type or size check are excluded from their group and reported
// as FileError entries. Encounter order is preserved within each group.
func (s *BulkUploadService) Group(files []models.ImageFile) (map[string][]models.ImageFile, []FileError) {
	groups := make(map[string][]models.ImageFile)
	var fileErrors []FileError

	for _, f := range files {
		parts := strings.Split(f.RelativePath, "/")
		// The first segment is the selected root folder; a file needs a
		// subfolder segment after it to belong to a product.
		if len(parts) < 3 {
			continue
		}
		folder := parts[1]

		if !allowedImageTypes[f.ContentType] {
			fileErrors = append(fileErrors, FileError{
				Folder: folder,
				Name:   f.Name,
				Reason: "file must be JPG, PNG or WebP",
			})
			continue
		}
		if f.Size > MaxImageSize {
			fileErrors = append(fileErrors, FileError{
				Folder: folder,
				Name:   f.Name,
				Reason: "file exceeds the 5MB limit",
			})
			continue
		}
		groups[folder] = append(groups[folder], f)
	}
	return groups, fileErrors
}

// Process creates one product per group, sharing the given category and
// optional price. Groups are independent: a failure in one is recorded in
// its result and the next group still runs; no cross-group ordering is
// guaranteed. Nothing is transactional across groups or within a group's
// images, so a mixed outcome (some products complete, some with fewer
// images than supplied, some skipped) is a normal result.
func (s *BulkUploadService) Process(ctx context.Context, groups map[string][]models.ImageFile, category string, price *float64) []GroupResult {
	results := make([]GroupResult, 0, len(groups))
	for name, files := range groups {
		if len(files) == 0 {
			continue
		}
		if len(files) > MaxProductImages {
			results = append(results, GroupResult{
				Product: name,
				Error:   fmt.Sprintf("product %s has more than %d images", name, MaxProductImages),
			})
			continue
		}

		data := models.CreateProductData{
			Name:        name,
			Description: fmt.Sprintf("Product: %s", name),
			Price:       price,
			Featured:    false,
			Category:    category,
		}
		// The folder name becomes the product name, so it must pass the
		// same constraints the single-create form enforces.
		if err := s.validate.Struct(data); err != nil {
			log.Printf("Bulk upload: invalid product data for folder %s: %v", name, err)
			results = append(results, GroupResult{
				Product: name,
				Error:   fmt.Sprintf("folder %s does not yield a valid product: %v", name, err),
			})
			continue
		}
		outcome, err := s.catalog.Create(ctx, data, files)
		if err != nil {
			log.Printf("Bulk upload: failed to create product %s: %v", name, err)
			results = append(results, GroupResult{Product: name, Error: err.Error()})
			continue
		}
		results = append(results, GroupResult{
			Product: name,
			Created: outcome.Product,
			Images:  outcome.Images,
		})
	}
	return results
}
