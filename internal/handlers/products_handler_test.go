package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestApplyProductUpdateNormalizesStatus(t *testing.T) {
	product := &models.Product{Status: models.ProductStatusActive}
	status := models.ProductStatus("INACTIVE")

	err := applyProductUpdate(product, &models.UpdateProductRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusInactive, product.Status)
}

func TestApplyProductUpdateRejectsUnknownStatus(t *testing.T) {
	product := &models.Product{Status: models.ProductStatusActive}
	status := models.ProductStatus("archived")

	err := applyProductUpdate(product, &models.UpdateProductRequest{Status: &status})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
	assert.Equal(t, models.ProductStatusActive, product.Status)
}

func TestApplyProductUpdateMapsFeaturedFlag(t *testing.T) {
	product := &models.Product{}

	require.NoError(t, applyProductUpdate(product, &models.UpdateProductRequest{Featured: boolPtr(true)}))
	assert.Equal(t, 1, product.Featured)

	require.NoError(t, applyProductUpdate(product, &models.UpdateProductRequest{Featured: boolPtr(false)}))
	assert.Equal(t, 0, product.Featured)
}

func TestApplyProductUpdateLeavesUntouchedFields(t *testing.T) {
	desc := "original"
	product := &models.Product{Name: "Zebra ZD421", Description: &desc}

	require.NoError(t, applyProductUpdate(product, &models.UpdateProductRequest{Name: strPtr("Zebra ZD421-HC")}))
	assert.Equal(t, "Zebra ZD421-HC", product.Name)
	require.NotNil(t, product.Description)
	assert.Equal(t, "original", *product.Description)
}

func TestApplyProductUpdateEncodesFeatures(t *testing.T) {
	product := &models.Product{}

	require.NoError(t, applyProductUpdate(product, &models.UpdateProductRequest{
		Features: []string{"Bluetooth", "Ethernet"},
	}))
	assert.JSONEq(t, `["Bluetooth","Ethernet"]`, string(product.Features))
}

func TestExportRecordFormatsOptionalColumns(t *testing.T) {
	subID := uint(5)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &models.Product{
		ID:            7,
		Name:          "Zebra ZD421",
		Slug:          "zebra-zd421",
		Category:      "printers",
		SubcategoryID: &subID,
		SKU:           strPtr("ZD4A042"),
		Status:        models.ProductStatusActive,
		Featured:      1,
		InStock:       1,
		CreatedAt:     created,
	}

	record := exportRecord(p)
	assert.Equal(t, []string{"7", "Zebra ZD421", "zebra-zd421", "printers", "5", "ZD4A042", "active", "1", "1", "2025-03-01T12:00:00Z"}, record)

	p.SubcategoryID = nil
	p.SKU = nil
	record = exportRecord(p)
	assert.Equal(t, "", record[4])
	assert.Equal(t, "", record[5])
}

func TestGetProductRejectsNonNumericID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewProductsHandler(nil, nil)

	router := gin.New()
	router.GET("/api/products/:id", handler.GetProduct)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/not-a-number", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid product ID")
}
