package models

import "time"

// ProductCategories is the fixed set of categories a product may belong to.
var ProductCategories = []string{
	"Formal Shoes",
	"Boots",
	"Loafers",
	"Sandals",
	"Sneakers",
	"Other",
}

// Product represents a catalog entry in the store.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string         `json:"name" validate:"required,min=3,max=100"`
	Description string         `json:"description" validate:"required,min=10,max=500"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999.99"`
	Featured    bool           `json:"featured"`
	Category    string         `json:"category" validate:"required,oneof='Formal Shoes' Boots Loafers Sandals Sneakers Other"`
	Visible     bool           `json:"visible"`
	Images      []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProductImage is a single stored image belonging to a product. Order is
// 0-based and determines display sequence; values need not be contiguous and
// ties are broken by creation time.
type ProductImage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index;type:varchar(36)"`
	ImageURL  string    `json:"image_url"`
	Order     int       `json:"order" gorm:"column:display_order"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductData carries the fields accepted when creating a product.
// Visibility is not part of the input; new products are always visible.
type CreateProductData struct {
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=99999.99"`
	Featured    bool     `json:"featured"`
	Category    string   `json:"category" validate:"required,oneof='Formal Shoes' Boots Loafers Sandals Sneakers Other"`
}

// UpdateProductData is a partial patch; nil fields are left untouched.
type UpdateProductData struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=99999.99"`
	Featured    *bool    `json:"featured"`
	Category    *string  `json:"category" validate:"omitempty,oneof='Formal Shoes' Boots Loafers Sandals Sneakers Other"`
	Visible     *bool    `json:"visible"`
}

// ImageFile is an uploaded image held in memory. RelativePath is only set
// for bulk folder uploads, where it carries the browser-supplied path whose
// second segment names the target product.
type ImageFile struct {
	Name         string
	ContentType  string
	Size         int64
	RelativePath string
	Data         []byte
}

// ValidCategory reports whether category is one of ProductCategories.
func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}
