package repository

import (
	"context"
	"time"

	"catalog-service/internal/models"
	"gorm.io/gorm"
)

type DriversRepository struct {
	db *gorm.DB
}

func NewDriversRepository(db *gorm.DB) *DriversRepository {
	return &DriversRepository{db: db}
}

// CreateDriver registers a driver download
func (r *DriversRepository) CreateDriver(ctx context.Context, driver *models.Driver) error {
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(driver).Error
}

// GetDriverByID retrieves a driver download by ID
func (r *DriversRepository) GetDriverByID(ctx context.Context, id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.WithContext(ctx).First(&driver, id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

// ListDrivers returns driver downloads, optionally filtered by brand and category
func (r *DriversRepository) ListDrivers(ctx context.Context, brand, category string) ([]models.Driver, error) {
	query := r.db.WithContext(ctx).Model(&models.Driver{})
	if brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var drivers []models.Driver
	if err := query.Order("name").Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

// UpdateDriver persists changes to a driver download
func (r *DriversRepository) UpdateDriver(ctx context.Context, driver *models.Driver) error {
	driver.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(driver).Error
}

// DeleteDriver removes a driver download by ID
func (r *DriversRepository) DeleteDriver(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Driver{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementDownloads bumps the download counter for a driver
func (r *DriversRepository) IncrementDownloads(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Driver{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}
