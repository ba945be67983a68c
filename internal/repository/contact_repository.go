package repository

import (
	"context"
	"errors"
	"time"

	"catalog-service/internal/models"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// GetContactInfo returns the single contact info row, creating an empty one
// on first access so updates always have a target.
func (r *ContactRepository) GetContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	var info models.ContactInfo
	err := r.db.WithContext(ctx).First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			info = models.ContactInfo{Email: "", CreatedAt: time.Now(), UpdatedAt: time.Now()}
			if err := r.db.WithContext(ctx).Create(&info).Error; err != nil {
				return nil, err
			}
			return &info, nil
		}
		return nil, err
	}
	return &info, nil
}

// UpdateContactInfo persists changes to the contact info row
func (r *ContactRepository) UpdateContactInfo(ctx context.Context, info *models.ContactInfo) error {
	info.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(info).Error
}

// CreateLocation adds a branch location
func (r *ContactRepository) CreateLocation(ctx context.Context, loc *models.Location) error {
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(loc).Error
}

// GetLocationByID retrieves a location by ID
func (r *ContactRepository) GetLocationByID(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// ListLocations returns all branch locations
func (r *ContactRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).Order("name").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// UpdateLocation persists changes to a location
func (r *ContactRepository) UpdateLocation(ctx context.Context, loc *models.Location) error {
	loc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(loc).Error
}

// DeleteLocation removes a location by ID
func (r *ContactRepository) DeleteLocation(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Location{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateContactMessage stores a contact form submission
func (r *ContactRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListContactMessages returns submissions, newest first
func (r *ContactRepository) ListContactMessages(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var messages []models.ContactMessage
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessageRead flags a contact message as handled
func (r *ContactRepository) MarkMessageRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("id = ?", id).
		UpdateColumn("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
