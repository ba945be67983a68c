package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
	"catalog-service/internal/uploads"
)

func TestParseCSVNormalizesHeadersAndRowNumbers(t *testing.T) {
	input := "Name *,CATEGORY, Slug \nZebra ZD421,printers,zd421\nHoneywell 1470g,scanners,1470g\n"

	headers, rows, err := parseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "category", "slug"}, headers)
	require.Len(t, rows, 2)

	// Data rows are numbered from 2, matching spreadsheet rows after the header
	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, "Zebra ZD421", rows[0].Get("name"))
	assert.Equal(t, "scanners", rows[1].Get("category"))
}

func TestParseCSVTrimsCellWhitespace(t *testing.T) {
	input := "name,category\n  Zebra ZD421  ,  printers \n"

	_, rows, err := parseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zebra ZD421", rows[0].Get("name"))
	assert.Equal(t, "printers", rows[0].Get("category"))
}

func TestParseXLSXReadsFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "category"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Zebra ZD421", "printers"}))

	// A later sheet named "Products" must not take precedence
	_, err := f.NewSheet("Products")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Products", "A1", &[]interface{}{"name", "category"}))
	require.NoError(t, f.SetSheetRow("Products", "A2", &[]interface{}{"Other Sheet", "misc"}))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	_, rows, err := parseXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zebra ZD421", rows[0].Get("name"))
}

func TestRowLabelFallsBackToRowNumber(t *testing.T) {
	named := models.ImportRow{Number: 2, Fields: map[string]string{"name": "Zebra ZD421"}}
	unnamed := models.ImportRow{Number: 7, Fields: map[string]string{}}

	assert.Equal(t, "Zebra ZD421", named.Label())
	assert.Equal(t, "Row 7", unnamed.Label())
}

func TestValidateRowsReportsEveryProblem(t *testing.T) {
	rows := []models.ImportRow{
		{Number: 2, Fields: map[string]string{
			"category": "printers",
			"status":   "Discontinued",
			"featured": "maybe",
			"image":    `C:\Users\joe\photo.jpg`,
		}},
		{Number: 3, Fields: map[string]string{
			"name":     "Honeywell 1470g",
			"category": "scanners",
		}},
	}

	rowErrors, _ := validateRows([]string{"name", "category"}, rows, models.EnhancedImportOptions())

	// Row 2 has four independent problems and all must be reported
	require.Len(t, rowErrors, 4)
	for _, re := range rowErrors {
		assert.Equal(t, 2, re.RowNumber)
		assert.Equal(t, "Row 2", re.ProductName)
	}
	assert.Contains(t, rowErrors[0].Error, "Missing required field: name")
	assert.Contains(t, rowErrors[1].Error, "Invalid status 'Discontinued'")
	assert.Contains(t, rowErrors[2].Error, "Invalid featured value 'maybe'")
	assert.Contains(t, rowErrors[3].Error, "local file path")
}

func TestValidateRowsIsIdempotent(t *testing.T) {
	rows := []models.ImportRow{
		{Number: 2, Fields: map[string]string{"status": "bogus"}},
	}
	opts := models.EnhancedImportOptions()

	first, _ := validateRows(nil, rows, opts)
	second, _ := validateRows(nil, rows, opts)

	assert.Equal(t, first, second)
}

func TestValidateRowsAcceptsCaseInsensitiveStatus(t *testing.T) {
	rows := []models.ImportRow{
		{Number: 2, Fields: map[string]string{"name": "A", "category": "c", "status": "Active"}},
		{Number: 3, Fields: map[string]string{"name": "B", "category": "c", "status": "INACTIVE"}},
	}

	rowErrors, _ := validateRows(nil, rows, models.EnhancedImportOptions())
	assert.Empty(t, rowErrors)
}

func TestValidateRowsFeaturedSpellings(t *testing.T) {
	valid := []string{"true", "false", "1", "0", "yes", "no", "YES", "False"}
	for _, v := range valid {
		_, ok := parseFeatured(v)
		assert.True(t, ok, v)
	}
	truthy, _ := parseFeatured("Yes")
	falsy, _ := parseFeatured("0")
	assert.Equal(t, 1, truthy)
	assert.Equal(t, 0, falsy)

	_, ok := parseFeatured("2")
	assert.False(t, ok)
}

func TestValidateRowsLegacyPresetRequiresSlugAndSKU(t *testing.T) {
	rows := []models.ImportRow{
		{Number: 2, Fields: map[string]string{"name": "Zebra ZD421", "category": "printers"}},
	}

	rowErrors, _ := validateRows(nil, rows, models.LegacyImportOptions())

	require.Len(t, rowErrors, 2)
	assert.Contains(t, rowErrors[0].Error, "slug")
	assert.Contains(t, rowErrors[1].Error, "sku")
}

func TestValidateRowsTrailingEmptyCellsWarnOnly(t *testing.T) {
	headers := []string{"name", "category", "description", "sku", "image", "pdf"}
	rows := []models.ImportRow{
		// Last four named cells are blank
		{Number: 2, Fields: map[string]string{"name": "Zebra", "category": "printers"}},
		{Number: 3, Fields: map[string]string{
			"name": "Honeywell 1470g", "category": "scanners",
			"description": "d", "sku": "HW-1470G", "image": "/uploads/images/h.jpg", "pdf": "/uploads/pdfs/h.pdf",
		}},
	}

	rowErrors, warnings := validateRows(headers, rows, models.EnhancedImportOptions())

	assert.Empty(t, rowErrors)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Row 2")
	assert.Contains(t, warnings[0], "trailing empty columns")
}

func TestValidateRowsUnnamedTrailingColumnsCountAsEmpty(t *testing.T) {
	headers := []string{"name", "category", "", "", "", ""}
	rows := []models.ImportRow{
		{Number: 2, Fields: map[string]string{"name": "Zebra", "category": "printers"}},
	}

	_, warnings := validateRows(headers, rows, models.EnhancedImportOptions())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "trailing empty columns")
}

func TestValidateRowsFewTrailingEmptyCellsNoWarning(t *testing.T) {
	headers := []string{"name", "category", "", ""}
	rows := []models.ImportRow{
		{Number: 2, Fields: map[string]string{"name": "Zebra", "category": "printers"}},
	}

	_, warnings := validateRows(headers, rows, models.EnhancedImportOptions())
	assert.Empty(t, warnings)
}

func TestImportFormatDetection(t *testing.T) {
	format, ok := importFormat("products.CSV")
	assert.True(t, ok)
	assert.Equal(t, models.ImportFormatCSV, format)

	format, ok = importFormat("products.xlsx")
	assert.True(t, ok)
	assert.Equal(t, models.ImportFormatXLSX, format)

	// Legacy .xls uploads take the Excel path too
	format, ok = importFormat("products.XLS")
	assert.True(t, ok)
	assert.Equal(t, models.ImportFormatXLSX, format)

	_, ok = importFormat("products.pdf")
	assert.False(t, ok)
	_, ok = importFormat("products.txt")
	assert.False(t, ok)
}

func TestSanitizeFileRef(t *testing.T) {
	assert.Nil(t, sanitizeFileRef(""))
	assert.Nil(t, sanitizeFileRef(`C:\photos\p.jpg`))
	assert.Nil(t, sanitizeFileRef("C:/photos/p.jpg"))

	ref := sanitizeFileRef("/uploads/images/p.jpg")
	require.NotNil(t, ref)
	assert.Equal(t, "/uploads/images/p.jpg", *ref)
}

func TestFeaturesJSON(t *testing.T) {
	data, err := featuresJSON("Bluetooth, Auto-calibration , ")
	require.NoError(t, err)
	assert.JSONEq(t, `["Bluetooth","Auto-calibration"]`, string(data))

	data, err = featuresJSON("")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func newImportTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := uploads.NewStore(t.TempDir(), "http://localhost:8080", 0)
	handler := NewImportHandler(nil, store, nil)

	router := gin.New()
	router.POST("/api/products/bulk-import", handler.BulkImportProducts)
	return router
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestBulkImportRejectsMissingFile(t *testing.T) {
	router := newImportTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products/bulk-import", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestBulkImportRejectsUnsupportedFormat(t *testing.T) {
	router := newImportTestRouter(t)
	body, contentType := multipartUpload(t, "products.txt", "name,category\na,b\n")

	req := httptest.NewRequest(http.MethodPost, "/api/products/bulk-import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported file format")
}

func TestBulkImportAcceptsXLSExtension(t *testing.T) {
	router := newImportTestRouter(t)
	// Not real Excel content: the file must clear the format gate and then
	// fail in the parser, not be rejected up front.
	body, contentType := multipartUpload(t, "products.xls", "name,category\na,b\n")

	req := httptest.NewRequest(http.MethodPost, "/api/products/bulk-import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Unsupported file format")
	assert.Contains(t, w.Body.String(), "Failed to parse file")
}

func TestBulkImportParseFailureIsServerError(t *testing.T) {
	router := newImportTestRouter(t)
	body, contentType := multipartUpload(t, "products.xlsx", "this is not a zip archive")

	req := httptest.NewRequest(http.MethodPost, "/api/products/bulk-import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to parse file", resp.Error)
	assert.NotEmpty(t, resp.Details)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestBulkImportRejectsEmptyFile(t *testing.T) {
	router := newImportTestRouter(t)
	body, contentType := multipartUpload(t, "products.csv", "name,category\n")

	req := httptest.NewRequest(http.MethodPost, "/api/products/bulk-import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no data rows")
}

func TestBulkImportValidationGateBlocksWholeFile(t *testing.T) {
	router := newImportTestRouter(t)
	// Row 3 is valid, row 2 is not; nothing may be inserted
	csv := "name,category,status\n,printers,active\nHoneywell 1470g,scanners,active\n"
	body, contentType := multipartUpload(t, "products.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/products/bulk-import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Errors []models.RowError `json:"errors"`
		Total  int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 2, resp.Errors[0].RowNumber)
	assert.Equal(t, "Row 2", resp.Errors[0].ProductName)
}
