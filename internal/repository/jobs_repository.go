package repository

import (
	"context"
	"time"

	"catalog-service/internal/models"
	"gorm.io/gorm"
)

type JobsRepository struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *JobsRepository {
	return &JobsRepository{db: db}
}

// CreateJob creates a new job listing
func (r *JobsRepository) CreateJob(ctx context.Context, job *models.Job) error {
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(job).Error
}

// GetJobByID retrieves a job listing by ID
func (r *JobsRepository) GetJobByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns job listings. When activeOnly is set, closed positions
// are filtered out.
func (r *JobsRepository) ListJobs(ctx context.Context, activeOnly bool) ([]models.Job, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var jobs []models.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateJob persists changes to a job listing
func (r *JobsRepository) UpdateJob(ctx context.Context, job *models.Job) error {
	job.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(job).Error
}

// DeleteJob removes a job listing by ID
func (r *JobsRepository) DeleteJob(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Job{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
