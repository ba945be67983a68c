package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const BlogCacheTTL = 5 * time.Minute

type BlogsRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewBlogsRepository(db *gorm.DB, redisClient *redis.Client) *BlogsRepository {
	return &BlogsRepository{db: db, redis: redisClient}
}

// CreateBlog creates a new blog post
func (r *BlogsRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	if blog.Status == models.BlogStatusPublished && blog.PublishedAt == nil {
		now := time.Now()
		blog.PublishedAt = &now
	}
	return r.db.WithContext(ctx).Create(blog).Error
}

// GetBlogBySlug retrieves a blog post by slug with read-through caching
func (r *BlogsRepository) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	cacheKey := fmt.Sprintf("catalog:blog:slug:%s", slug)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var blog models.Blog
			if err := json.Unmarshal([]byte(val), &blog); err == nil {
				return &blog, nil
			}
		}
	}

	var blog models.Blog
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&blog).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(blog); err == nil {
			r.redis.Set(ctx, cacheKey, data, BlogCacheTTL)
		}
	}
	return &blog, nil
}

// GetBlogByID retrieves a blog post by ID
func (r *BlogsRepository) GetBlogByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// ListBlogs returns blog posts, optionally filtered by status
func (r *BlogsRepository) ListBlogs(ctx context.Context, status string, page, limit int) ([]models.Blog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var blogs []models.Blog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// UpdateBlog persists changes to a blog post and drops its cached entry
func (r *BlogsRepository) UpdateBlog(ctx context.Context, blog *models.Blog) error {
	blog.UpdatedAt = time.Now()
	if blog.Status == models.BlogStatusPublished && blog.PublishedAt == nil {
		now := time.Now()
		blog.PublishedAt = &now
	}
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return err
	}
	if r.redis != nil {
		_ = r.redis.Del(ctx, fmt.Sprintf("catalog:blog:slug:%s", blog.Slug)).Err()
	}
	return nil
}

// DeleteBlog removes a blog post by ID
func (r *BlogsRepository) DeleteBlog(ctx context.Context, id uint) error {
	blog, err := r.GetBlogByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Blog{}, id).Error; err != nil {
		return err
	}
	if r.redis != nil {
		_ = r.redis.Del(ctx, fmt.Sprintf("catalog:blog:slug:%s", blog.Slug)).Err()
	}
	return nil
}

// BlogSlugExists reports whether a blog slug is already taken
func (r *BlogsRepository) BlogSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
