package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute
	ProductListCacheTTL = 2 * time.Minute
)

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProductsRepository(db *gorm.DB, redisClient *redis.Client) *ProductsRepository {
	return &ProductsRepository{
		db:    db,
		redis: redisClient,
	}
}

// DB exposes the underlying handle for request-scoped queries
func (r *ProductsRepository) DB() *gorm.DB {
	return r.db
}

// invalidateProductCaches drops cached entries touched by a product write
func (r *ProductsRepository) invalidateProductCaches(ctx context.Context, product *models.Product) {
	if r.redis == nil || product == nil {
		return
	}
	keys := []string{
		fmt.Sprintf("catalog:product:id:%d", product.ID),
		fmt.Sprintf("catalog:product:slug:%s", product.Slug),
	}
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate product cache")
	}
	r.invalidateProductListCaches(ctx)
}

// invalidateProductListCaches drops all cached product list pages
func (r *ProductsRepository) invalidateProductListCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(ctx, 0, "catalog:products:list:*", 100).Iterator()
	for iter.Next(ctx) {
		_ = r.redis.Del(ctx, iter.Val()).Err()
	}
}

// CreateProduct creates a new product
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	r.invalidateProductCaches(ctx, product)
	return nil
}

// GetProductByID retrieves a product by ID with read-through caching
func (r *ProductsRepository) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:id:%d", id)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Subcategory").First(&product, id).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}
	return &product, nil
}

// GetProductBySlug retrieves a product by its slug with read-through caching
func (r *ProductsRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:slug:%s", slug)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Subcategory").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}
	return &product, nil
}

// ListProducts returns a filtered, paginated product page with cached reads
func (r *ProductsRepository) ListProducts(ctx context.Context, q models.ListProductsQuery) ([]models.Product, int64, error) {
	cacheKey := listCacheKey(q)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var page cachedProductPage
			if err := json.Unmarshal([]byte(val), &page); err == nil {
				return page.Products, page.Total, nil
			}
		}
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.SubcategoryID != nil {
		query = query.Where("subcategory_id = ?", *q.SubcategoryID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", strings.ToLower(q.Status))
	}
	if q.Featured != nil {
		featured := 0
		if *q.Featured {
			featured = 1
		}
		query = query.Where("featured = ?", featured)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	offset := (q.Page - 1) * q.Limit

	var products []models.Product
	if err := query.Preload("Subcategory").
		Order("created_at DESC").
		Offset(offset).Limit(q.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(cachedProductPage{Products: products, Total: total}); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductListCacheTTL)
		}
	}
	return products, total, nil
}

type cachedProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

func listCacheKey(q models.ListProductsQuery) string {
	data, _ := json.Marshal(q)
	return "catalog:products:list:" + string(data)
}

// UpdateProduct persists changes to an existing product
func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return err
	}
	r.invalidateProductCaches(ctx, product)
	return nil
}

// DeleteProduct removes a product by ID
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	product, err := r.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return err
	}
	r.invalidateProductCaches(ctx, product)
	return nil
}

// SlugExists reports whether any product already uses the given slug
func (r *ProductsRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveSubcategoryID resolves a subcategory name to its ID by exact match
// on name or display name. A miss returns (nil, nil); callers decide whether
// that is fatal.
func (r *ProductsRepository) ResolveSubcategoryID(ctx context.Context, name string) (*uint, error) {
	var sub models.Subcategory
	err := r.db.WithContext(ctx).
		Where("name = ? OR display_name = ?", name, name).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub.ID, nil
}

// InsertImportedProduct inserts a single row from an import run. The caller
// owns slug dedup and duplicate-key retries; this is a plain create bounded
// by the row context.
func (r *ProductsRepository) InsertImportedProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return err
	}
	r.invalidateProductListCaches(ctx)
	return nil
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ListSubcategories returns all subcategories
func (r *ProductsRepository) ListSubcategories(ctx context.Context) ([]models.Subcategory, error) {
	var subs []models.Subcategory
	if err := r.db.WithContext(ctx).Order("name").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
