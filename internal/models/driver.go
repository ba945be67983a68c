package models

import "time"

// Driver represents a downloadable device driver or utility
type Driver struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Brand       *string   `json:"brand,omitempty" gorm:"type:varchar(255);index"`
	Category    *string   `json:"category,omitempty" gorm:"type:varchar(255);index"`
	Version     *string   `json:"version,omitempty" gorm:"type:varchar(100)"`
	OS          *string   `json:"os,omitempty" gorm:"column:os;type:varchar(255)"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	FileURL     string    `json:"fileUrl" gorm:"column:file_url;type:varchar(500);not null"`
	FileSize    *string   `json:"fileSize,omitempty" gorm:"column:file_size;type:varchar(50)"`
	Downloads   int       `json:"downloads" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Driver model
func (Driver) TableName() string {
	return "drivers"
}

// CreateDriverRequest represents a request to register a driver download
type CreateDriverRequest struct {
	Name        string  `json:"name" binding:"required"`
	Brand       *string `json:"brand,omitempty"`
	Category    *string `json:"category,omitempty"`
	Version     *string `json:"version,omitempty"`
	OS          *string `json:"os,omitempty"`
	Description *string `json:"description,omitempty"`
	FileURL     string  `json:"fileUrl" binding:"required"`
	FileSize    *string `json:"fileSize,omitempty"`
}

// UpdateDriverRequest represents a request to update a driver download
type UpdateDriverRequest struct {
	Name        *string `json:"name,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Category    *string `json:"category,omitempty"`
	Version     *string `json:"version,omitempty"`
	OS          *string `json:"os,omitempty"`
	Description *string `json:"description,omitempty"`
	FileURL     *string `json:"fileUrl,omitempty"`
	FileSize    *string `json:"fileSize,omitempty"`
}
