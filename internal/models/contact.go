package models

import "time"

// ContactInfo holds the company contact details shown on the contact page.
// A single row is maintained and updated in place.
type ContactInfo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Address   *string   `json:"address,omitempty" gorm:"type:text"`
	Hours     *string   `json:"hours,omitempty" gorm:"type:varchar(255)"`
	MapURL    *string   `json:"mapUrl,omitempty" gorm:"column:map_url;type:varchar(500)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for the ContactInfo model
func (ContactInfo) TableName() string {
	return "contact_info"
}

// Location represents a branch office or showroom
type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Address   string    `json:"address" gorm:"type:text;not null"`
	City      *string   `json:"city,omitempty" gorm:"type:varchar(255)"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Email     *string   `json:"email,omitempty" gorm:"type:varchar(255)"`
	MapURL    *string   `json:"mapUrl,omitempty" gorm:"column:map_url;type:varchar(500)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Location model
func (Location) TableName() string {
	return "locations"
}

// ContactMessage is an inbound enquiry submitted through the contact form
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Subject   *string   `json:"subject,omitempty" gorm:"type:varchar(255)"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Read      bool      `json:"read" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for the ContactMessage model
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// UpdateContactInfoRequest represents a request to update company contact details
type UpdateContactInfoRequest struct {
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Hours   *string `json:"hours,omitempty"`
	MapURL  *string `json:"mapUrl,omitempty"`
}

// CreateLocationRequest represents a request to add a location
type CreateLocationRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address string  `json:"address" binding:"required"`
	City    *string `json:"city,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	MapURL  *string `json:"mapUrl,omitempty"`
}

// UpdateLocationRequest represents a request to update a location
type UpdateLocationRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	MapURL  *string `json:"mapUrl,omitempty"`
}

// CreateContactMessageRequest represents a contact form submission
type CreateContactMessageRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Message string  `json:"message" binding:"required"`
}
