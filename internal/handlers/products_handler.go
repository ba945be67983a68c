package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ProductsHandler struct {
	repo      *repository.ProductsRepository
	publisher *events.Publisher
}

func NewProductsHandler(repo *repository.ProductsRepository, publisher *events.Publisher) *ProductsHandler {
	return &ProductsHandler{repo: repo, publisher: publisher}
}

// ListProducts returns a filtered, paginated product list
// GET /api/products
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var query models.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	products, total, err := h.repo.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.serverError(c, "Failed to list products", err)
		return
	}

	totalPages := 0
	if query.Limit > 0 {
		totalPages = int((total + int64(query.Limit) - 1) / int64(query.Limit))
	}
	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
		Pagination: &models.PaginationInfo{
			Page:       query.Page,
			Limit:      query.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GetProduct returns a single product by numeric ID
// GET /api/products/:id
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Product not found"})
			return
		}
		h.serverError(c, "Failed to get product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductBySlug returns a single product by its slug
// GET /api/products/slug/:slug
func (h *ProductsHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.repo.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Product not found"})
			return
		}
		h.serverError(c, "Failed to get product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a single product
// POST /api/products
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.productFromCreateRequest(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.repo.CreateProduct(c.Request.Context(), product); err != nil {
		if repository.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "A product with this slug already exists"})
			return
		}
		h.serverError(c, "Failed to create product", err)
		return
	}

	h.publisher.PublishProductCreated(product)
	c.JSON(http.StatusCreated, product)
}

func (h *ProductsHandler) productFromCreateRequest(c *gin.Context, req *models.CreateProductRequest) (*models.Product, error) {
	productSlug := ""
	if req.Slug != nil && *req.Slug != "" {
		productSlug = *req.Slug
	} else {
		productSlug = slug.Make(req.Name)
	}
	exists, err := h.repo.SlugExists(c.Request.Context(), productSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %s", err.Error())
	}
	if exists {
		productSlug = fmt.Sprintf("%s-%d", productSlug, rand.Intn(10000))
	}

	status := models.ProductStatusActive
	if req.Status != nil {
		normalized := models.ProductStatus(strings.ToLower(string(*req.Status)))
		if normalized != models.ProductStatusActive && normalized != models.ProductStatusInactive {
			return nil, fmt.Errorf("invalid status '%s'", *req.Status)
		}
		status = normalized
	}

	featured := 0
	if req.Featured != nil && *req.Featured {
		featured = 1
	}

	features, err := json.Marshal(append([]string{}, req.Features...))
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %s", err.Error())
	}

	inStock := 1
	if req.InStock != nil {
		inStock = *req.InStock
	}

	return &models.Product{
		Name:             req.Name,
		Slug:             productSlug,
		Category:         req.Category,
		SubcategoryID:    req.SubcategoryID,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Specifications:   req.Specifications,
		SKU:              req.SKU,
		MetaKeywords:     req.MetaKeywords,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		Status:           status,
		Featured:         featured,
		Image:            req.Image,
		PDF:              req.PDF,
		Features:         features,
		InStock:          inStock,
	}, nil
}

// UpdateProduct applies a partial update to a product
// PUT /api/products/:id
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Product not found"})
			return
		}
		h.serverError(c, "Failed to get product", err)
		return
	}

	if err := applyProductUpdate(product, &req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.repo.UpdateProduct(c.Request.Context(), product); err != nil {
		if repository.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "A product with this slug already exists"})
			return
		}
		h.serverError(c, "Failed to update product", err)
		return
	}

	h.publisher.PublishProductUpdated(product)
	c.JSON(http.StatusOK, product)
}

func applyProductUpdate(product *models.Product, req *models.UpdateProductRequest) error {
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Slug != nil && *req.Slug != "" {
		product.Slug = *req.Slug
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.SubcategoryID != nil {
		product.SubcategoryID = req.SubcategoryID
	}
	if req.ShortDescription != nil {
		product.ShortDescription = req.ShortDescription
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Specifications != nil {
		product.Specifications = req.Specifications
	}
	if req.SKU != nil {
		product.SKU = req.SKU
	}
	if req.MetaKeywords != nil {
		product.MetaKeywords = req.MetaKeywords
	}
	if req.MetaTitle != nil {
		product.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != nil {
		product.MetaDescription = req.MetaDescription
	}
	if req.Status != nil {
		normalized := models.ProductStatus(strings.ToLower(string(*req.Status)))
		if normalized != models.ProductStatusActive && normalized != models.ProductStatusInactive {
			return fmt.Errorf("invalid status '%s'", *req.Status)
		}
		product.Status = normalized
	}
	if req.Featured != nil {
		product.Featured = 0
		if *req.Featured {
			product.Featured = 1
		}
	}
	if req.Image != nil {
		product.Image = req.Image
	}
	if req.PDF != nil {
		product.PDF = req.PDF
	}
	if req.Features != nil {
		data, err := json.Marshal(req.Features)
		if err != nil {
			return fmt.Errorf("failed to encode features: %s", err.Error())
		}
		product.Features = data
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	return nil
}

// DeleteProduct removes a product
// DELETE /api/products/:id
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Product not found"})
			return
		}
		h.serverError(c, "Failed to get product", err)
		return
	}

	if err := h.repo.DeleteProduct(c.Request.Context(), id); err != nil {
		h.serverError(c, "Failed to delete product", err)
		return
	}

	h.publisher.PublishProductDeleted(product)
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Product deleted"})
}

// ListSubcategories returns all subcategories
// GET /api/subcategories
func (h *ProductsHandler) ListSubcategories(c *gin.Context) {
	subs, err := h.repo.ListSubcategories(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list subcategories", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ExportProducts downloads the catalog as CSV or XLSX
// GET /api/products/export?format=csv|xlsx&category=&status=
func (h *ProductsHandler) ExportProducts(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Unsupported export format"})
		return
	}

	query := models.ListProductsQuery{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     1,
		Limit:    10000,
	}
	products, _, err := h.repo.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.serverError(c, "Failed to export products", err)
		return
	}

	headers := []string{"id", "name", "slug", "category", "subcategory_id", "sku", "status", "featured", "in_stock", "created_at"}
	if format == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=products_export.csv")

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()
		writer.Write(headers)
		for i := range products {
			writer.Write(exportRecord(&products[i]))
		}
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, hdr)
	}
	for rowIdx := range products {
		record := exportRecord(&products[rowIdx])
		for colIdx, value := range record {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_export.xlsx")
	f.Write(c.Writer)
}

func exportRecord(p *models.Product) []string {
	subID := ""
	if p.SubcategoryID != nil {
		subID = strconv.FormatUint(uint64(*p.SubcategoryID), 10)
	}
	sku := ""
	if p.SKU != nil {
		sku = *p.SKU
	}
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Name,
		p.Slug,
		p.Category,
		subID,
		sku,
		string(p.Status),
		strconv.Itoa(p.Featured),
		strconv.Itoa(p.InStock),
		p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ProductsHandler) serverError(c *gin.Context, message string, err error) {
	logrus.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     message,
		Details:   err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
