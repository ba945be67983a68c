package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type BlogsHandler struct {
	repo *repository.BlogsRepository
}

func NewBlogsHandler(repo *repository.BlogsRepository) *BlogsHandler {
	return &BlogsHandler{repo: repo}
}

// ListBlogs returns blog posts, optionally filtered by status
// GET /api/blogs?status=published&page=1&limit=20
func (h *BlogsHandler) ListBlogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	blogs, total, err := h.repo.ListBlogs(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		blogServerError(c, "Failed to list blogs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  blogs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetBlogBySlug returns a blog post by slug
// GET /api/blogs/:slug
func (h *BlogsHandler) GetBlogBySlug(c *gin.Context) {
	blog, err := h.repo.GetBlogBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Blog not found"})
			return
		}
		blogServerError(c, "Failed to get blog", err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

// CreateBlog creates a blog post
// POST /api/blogs
func (h *BlogsHandler) CreateBlog(c *gin.Context) {
	var req models.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	blogSlug := ""
	if req.Slug != nil && *req.Slug != "" {
		blogSlug = *req.Slug
	} else {
		blogSlug = slug.Make(req.Title)
	}
	exists, err := h.repo.BlogSlugExists(c.Request.Context(), blogSlug)
	if err != nil {
		blogServerError(c, "Failed to check slug uniqueness", err)
		return
	}
	if exists {
		blogSlug = fmt.Sprintf("%s-%d", blogSlug, rand.Intn(10000))
	}

	status := models.BlogStatusPublished
	if req.Status != nil {
		normalized := models.BlogStatus(strings.ToLower(string(*req.Status)))
		if normalized != models.BlogStatusDraft && normalized != models.BlogStatusPublished {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid status '%s'. Must be 'draft' or 'published'", *req.Status),
			})
			return
		}
		status = normalized
	}

	blog := &models.Blog{
		Title:           req.Title,
		Slug:            blogSlug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Author:          req.Author,
		Image:           req.Image,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Status:          status,
	}
	if err := h.repo.CreateBlog(c.Request.Context(), blog); err != nil {
		if repository.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "A blog with this slug already exists"})
			return
		}
		blogServerError(c, "Failed to create blog", err)
		return
	}
	c.JSON(http.StatusCreated, blog)
}

// UpdateBlog applies a partial update to a blog post
// PUT /api/blogs/:id
func (h *BlogsHandler) UpdateBlog(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid blog ID"})
		return
	}

	var req models.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	blog, err := h.repo.GetBlogByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Blog not found"})
			return
		}
		blogServerError(c, "Failed to get blog", err)
		return
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != "" {
		blog.Slug = *req.Slug
	}
	if req.Excerpt != nil {
		blog.Excerpt = req.Excerpt
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Author != nil {
		blog.Author = req.Author
	}
	if req.Image != nil {
		blog.Image = req.Image
	}
	if req.MetaTitle != nil {
		blog.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != nil {
		blog.MetaDescription = req.MetaDescription
	}
	if req.MetaKeywords != nil {
		blog.MetaKeywords = req.MetaKeywords
	}
	if req.Status != nil {
		normalized := models.BlogStatus(strings.ToLower(string(*req.Status)))
		if normalized != models.BlogStatusDraft && normalized != models.BlogStatusPublished {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: fmt.Sprintf("Invalid status '%s'. Must be 'draft' or 'published'", *req.Status),
			})
			return
		}
		blog.Status = normalized
	}

	if err := h.repo.UpdateBlog(c.Request.Context(), blog); err != nil {
		if repository.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "A blog with this slug already exists"})
			return
		}
		blogServerError(c, "Failed to update blog", err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

// DeleteBlog removes a blog post
// DELETE /api/blogs/:id
func (h *BlogsHandler) DeleteBlog(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid blog ID"})
		return
	}

	if err := h.repo.DeleteBlog(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Blog not found"})
			return
		}
		blogServerError(c, "Failed to delete blog", err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Blog deleted"})
}

func blogServerError(c *gin.Context, message string, err error) {
	logrus.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     message,
		Details:   err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
