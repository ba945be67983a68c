package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a catalog product entity.
// The slug carries a unique index; it is the public identifier used by the
// storefront, distinct from the numeric primary key.
type Product struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug             string         `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_products_slug"`
	Category         string         `json:"category" gorm:"type:varchar(255);not null;index"`
	SubcategoryID    *uint          `json:"subcategoryId,omitempty" gorm:"index"`
	Subcategory      *Subcategory   `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID"`
	ShortDescription *string        `json:"shortDescription,omitempty" gorm:"type:text"`
	Description      *string        `json:"description,omitempty" gorm:"type:text"`
	Specifications   *string        `json:"specifications,omitempty" gorm:"type:text"`
	SKU              *string        `json:"sku,omitempty" gorm:"type:varchar(100);index"`
	MetaKeywords     *string        `json:"metaKeywords,omitempty" gorm:"type:text"`
	MetaTitle        *string        `json:"metaTitle,omitempty" gorm:"type:varchar(255)"`
	MetaDescription  *string        `json:"metaDescription,omitempty" gorm:"type:text"`
	Status           ProductStatus  `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	Featured         int            `json:"featured" gorm:"type:smallint;not null;default:0;index"`
	Image            *string        `json:"image,omitempty" gorm:"type:varchar(500)"`
	PDF              *string        `json:"pdf,omitempty" gorm:"column:pdf;type:varchar(500)"`
	Features         datatypes.JSON `json:"features" gorm:"type:jsonb;default:'[]'"`
	InStock          int            `json:"inStock" gorm:"column:in_stock;not null;default:1"`
	Rating           float64        `json:"rating" gorm:"not null;default:0"`
	Reviews          int            `json:"reviews" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Subcategory is a reference entity. The import pipeline resolves a
// human-readable subcategory name to an ID by exact match on either Name or
// DisplayName; it never creates subcategories.
type Subcategory struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName string `json:"displayName" gorm:"column:display_name;type:varchar(255);not null"`
}

// TableName returns the table name for the Subcategory model
func (Subcategory) TableName() string {
	return "subcategories"
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name             string         `json:"name" binding:"required"`
	Slug             *string        `json:"slug,omitempty"`
	Category         string         `json:"category" binding:"required"`
	SubcategoryID    *uint          `json:"subcategoryId,omitempty"`
	ShortDescription *string        `json:"shortDescription,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Specifications   *string        `json:"specifications,omitempty"`
	SKU              *string        `json:"sku,omitempty"`
	MetaKeywords     *string        `json:"metaKeywords,omitempty"`
	MetaTitle        *string        `json:"metaTitle,omitempty"`
	MetaDescription  *string        `json:"metaDescription,omitempty"`
	Status           *ProductStatus `json:"status,omitempty"`
	Featured         *bool          `json:"featured,omitempty"`
	Image            *string        `json:"image,omitempty"`
	PDF              *string        `json:"pdf,omitempty"`
	Features         []string       `json:"features,omitempty"`
	InStock          *int           `json:"inStock,omitempty"`
}

// UpdateProductRequest represents a request to update an existing product
type UpdateProductRequest struct {
	Name             *string        `json:"name,omitempty"`
	Slug             *string        `json:"slug,omitempty"`
	Category         *string        `json:"category,omitempty"`
	SubcategoryID    *uint          `json:"subcategoryId,omitempty"`
	ShortDescription *string        `json:"shortDescription,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Specifications   *string        `json:"specifications,omitempty"`
	SKU              *string        `json:"sku,omitempty"`
	MetaKeywords     *string        `json:"metaKeywords,omitempty"`
	MetaTitle        *string        `json:"metaTitle,omitempty"`
	MetaDescription  *string        `json:"metaDescription,omitempty"`
	Status           *ProductStatus `json:"status,omitempty"`
	Featured         *bool          `json:"featured,omitempty"`
	Image            *string        `json:"image,omitempty"`
	PDF              *string        `json:"pdf,omitempty"`
	Features         []string       `json:"features,omitempty"`
	InStock          *int           `json:"inStock,omitempty"`
}

// ListProductsQuery captures the supported product list filters
type ListProductsQuery struct {
	Category      string `form:"category"`
	SubcategoryID *uint  `form:"subcategoryId"`
	Status        string `form:"status"`
	Featured      *bool  `form:"featured"`
	Search        string `form:"search"`
	Page          int    `form:"page,default=1"`
	Limit         int    `form:"limit,default=20"`
}

// PaginationInfo describes the page window of a list response
type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ProductListResponse is the envelope for product list queries
type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MessageResponse is the standard acknowledgement envelope
type MessageResponse struct {
	Message string `json:"message"`
}
