package models

import "time"

// BlogStatus represents the publication status of a blog post
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// Blog represents a blog post
type Blog struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Title           string     `json:"title" gorm:"type:varchar(255);not null"`
	Slug            string     `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_blogs_slug"`
	Excerpt         *string    `json:"excerpt,omitempty" gorm:"type:text"`
	Content         string     `json:"content" gorm:"type:text;not null"`
	Author          *string    `json:"author,omitempty" gorm:"type:varchar(255)"`
	Image           *string    `json:"image,omitempty" gorm:"type:varchar(500)"`
	MetaTitle       *string    `json:"metaTitle,omitempty" gorm:"type:varchar(255)"`
	MetaDescription *string    `json:"metaDescription,omitempty" gorm:"type:text"`
	MetaKeywords    *string    `json:"metaKeywords,omitempty" gorm:"type:text"`
	Status          BlogStatus `json:"status" gorm:"type:varchar(20);not null;default:'published';index"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Blog model
func (Blog) TableName() string {
	return "blogs"
}

// CreateBlogRequest represents a request to create a blog post
type CreateBlogRequest struct {
	Title           string      `json:"title" binding:"required"`
	Slug            *string     `json:"slug,omitempty"`
	Excerpt         *string     `json:"excerpt,omitempty"`
	Content         string      `json:"content" binding:"required"`
	Author          *string     `json:"author,omitempty"`
	Image           *string     `json:"image,omitempty"`
	MetaTitle       *string     `json:"metaTitle,omitempty"`
	MetaDescription *string     `json:"metaDescription,omitempty"`
	MetaKeywords    *string     `json:"metaKeywords,omitempty"`
	Status          *BlogStatus `json:"status,omitempty"`
}

// UpdateBlogRequest represents a request to update a blog post
type UpdateBlogRequest struct {
	Title           *string     `json:"title,omitempty"`
	Slug            *string     `json:"slug,omitempty"`
	Excerpt         *string     `json:"excerpt,omitempty"`
	Content         *string     `json:"content,omitempty"`
	Author          *string     `json:"author,omitempty"`
	Image           *string     `json:"image,omitempty"`
	MetaTitle       *string     `json:"metaTitle,omitempty"`
	MetaDescription *string     `json:"metaDescription,omitempty"`
	MetaKeywords    *string     `json:"metaKeywords,omitempty"`
	Status          *BlogStatus `json:"status,omitempty"`
}
