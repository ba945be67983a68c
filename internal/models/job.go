package models

import "time"

// Job represents an open position listed on the careers page
type Job struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Department   *string   `json:"department,omitempty" gorm:"type:varchar(255)"`
	Location     *string   `json:"location,omitempty" gorm:"type:varchar(255)"`
	Type         *string   `json:"type,omitempty" gorm:"type:varchar(100)"` // full-time, part-time, contract
	Description  string    `json:"description" gorm:"type:text;not null"`
	Requirements *string   `json:"requirements,omitempty" gorm:"type:text"`
	Active       bool      `json:"active" gorm:"not null;default:true;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// CreateJobRequest represents a request to create a job listing
type CreateJobRequest struct {
	Title        string  `json:"title" binding:"required"`
	Department   *string `json:"department,omitempty"`
	Location     *string `json:"location,omitempty"`
	Type         *string `json:"type,omitempty"`
	Description  string  `json:"description" binding:"required"`
	Requirements *string `json:"requirements,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

// UpdateJobRequest represents a request to update a job listing
type UpdateJobRequest struct {
	Title        *string `json:"title,omitempty"`
	Department   *string `json:"department,omitempty"`
	Location     *string `json:"location,omitempty"`
	Type         *string `json:"type,omitempty"`
	Description  *string `json:"description,omitempty"`
	Requirements *string `json:"requirements,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}
