package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/uploads"
)

// trailingEmptyColumnLimit is how many trailing empty cells a row may carry
// before it is flagged. Spreadsheet exports routinely pad a few empty
// columns; more than that usually means the row was truncated.
const trailingEmptyColumnLimit = 3

type ImportHandler struct {
	repo      *repository.ProductsRepository
	store     *uploads.Store
	publisher *events.Publisher
}

func NewImportHandler(repo *repository.ProductsRepository, store *uploads.Store, publisher *events.Publisher) *ImportHandler {
	return &ImportHandler{
		repo:      repo,
		store:     store,
		publisher: publisher,
	}
}

// BulkImportProducts imports products from an uploaded CSV or Excel file.
// POST /api/products/bulk-import
//
// The pipeline runs in strict stages: the file is staged to disk, parsed
// into rows, validated in full, and only a fully valid file reaches the
// insertion stage. Insertion is sequential and non-atomic; rows that fail
// are reported individually while the rest commit.
func (h *ImportHandler) BulkImportProducts(c *gin.Context) {
	h.runImport(c, models.EnhancedImportOptions(), false)
}

// ImportProducts is the original import endpoint. It requires slug and sku
// columns and answers with the older response shape.
// POST /api/products/import
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	h.runImport(c, models.LegacyImportOptions(), true)
}

func (h *ImportHandler) runImport(c *gin.Context, opts models.ImportOptions, legacy bool) {
	startTime := time.Now()

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "No file uploaded",
		})
		return
	}

	format, ok := importFormat(file.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Unsupported file format",
		})
		return
	}

	// Stage to disk first so parsing failures never leave an open multipart
	// stream, and so the temp file lifecycle is uniform for both formats.
	tempPath, _, err := h.store.Save(c, file, "temp")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	defer func() {
		if err := h.store.Remove(tempPath); err != nil {
			logrus.WithError(err).WithField("path", tempPath).Warn("Failed to delete temp import file")
		}
	}()

	headers, rows, parseErr := parseImportFile(tempPath, format)
	if parseErr != nil {
		// A file that passed the extension check but cannot be parsed is a
		// server-side failure, not a client error.
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Failed to parse file",
			Details:   parseErr.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "File contains no data rows",
		})
		return
	}

	validationErrors, warnings := validateRows(headers, rows, opts)
	if len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"errors": validationErrors,
			"total":  len(rows),
		})
		return
	}

	result, err := h.insertRows(c.Request.Context(), rows, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Import failed",
			Details:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}
	result.Warnings = append(warnings, result.Warnings...)

	logrus.WithFields(logrus.Fields{
		"filename":   file.Filename,
		"total":      result.Total,
		"successful": len(result.Imported),
		"failed":     len(result.Failed),
		"durationMs": time.Since(startTime).Milliseconds(),
	}).Info("Product import completed")

	h.publisher.PublishProductsImported(file.Filename, result.Total, len(result.Imported), len(result.Failed))

	if legacy {
		failed := make([]models.LegacyFailedRow, 0, len(result.Failed))
		for _, f := range result.Failed {
			failed = append(failed, models.LegacyFailedRow{Product: f.ProductName, Error: f.Error})
		}
		c.JSON(http.StatusOK, models.LegacyImportResponse{
			Message:  "Import completed",
			Imported: result.Imported,
			Failed:   failed,
			Total:    result.Total,
		})
		return
	}

	successRate := 0
	if result.Total > 0 {
		successRate = len(result.Imported) * 100 / result.Total
	}
	c.JSON(http.StatusOK, models.EnhancedImportResponse{
		Message:    "Import completed",
		Successful: len(result.Imported),
		Failed:     result.Failed,
		Total:      result.Total,
		Summary: models.ImportSummary{
			SuccessRate: fmt.Sprintf("%d%%", successRate),
			ProcessedAt: time.Now().Format(time.RFC3339),
		},
		Warnings: result.Warnings,
	})
}

// importFormat maps a filename to its import format by extension
func importFormat(filename string) (models.ImportFormat, bool) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return models.ImportFormatCSV, true
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return models.ImportFormatXLSX, true
	default:
		return "", false
	}
}

// parseImportFile reads a staged file into normalised rows. Headers are
// returned in column order so callers can inspect the raw header shape.
func parseImportFile(path string, format models.ImportFormat) ([]string, []models.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	if format == models.ImportFormatCSV {
		return parseCSV(f)
	}
	return parseXLSX(f)
}

func parseCSV(r io.Reader) ([]string, []models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rawHeaders, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := normalizeHeaders(rawHeaders)

	var rows []models.ImportRow
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}
		lineNum++
		rows = append(rows, buildRow(headers, record, lineNum))
	}
	return headers, rows, nil
}

func parseXLSX(r io.Reader) ([]string, []models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in Excel file")
	}
	// Data is always read from the first sheet, whatever it is named.
	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, nil, fmt.Errorf("file must have a header row")
	}

	headers := normalizeHeaders(excelRows[0])
	var rows []models.ImportRow
	for idx, excelRow := range excelRows[1:] {
		rows = append(rows, buildRow(headers, excelRow, idx+2))
	}
	return headers, rows, nil
}

// normalizeHeaders lowercases, trims and strips the " *" required marker
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, hdr := range raw {
		hdr = strings.TrimSpace(strings.ToLower(hdr))
		hdr = strings.TrimSuffix(hdr, " *")
		headers[i] = hdr
	}
	return headers
}

func buildRow(headers []string, record []string, number int) models.ImportRow {
	fields := make(map[string]string, len(headers))
	for i, value := range record {
		if i < len(headers) && headers[i] != "" {
			fields[headers[i]] = strings.TrimSpace(value)
		}
	}
	return models.ImportRow{Number: number, Fields: fields}
}

// validateRows checks every row against every rule before anything is
// inserted. The report is complete: a row with three problems yields three
// entries, and a single invalid row blocks the whole file.
func validateRows(headers []string, rows []models.ImportRow, opts models.ImportOptions) ([]models.RowError, []string) {
	var rowErrors []models.RowError
	var warnings []string

	addError := func(row models.ImportRow, msg string) {
		rowErrors = append(rowErrors, models.RowError{
			RowNumber:   row.Number,
			ProductName: row.Label(),
			Error:       msg,
		})
	}

	for _, row := range rows {
		if n := trailingEmptyCells(headers, row); n > trailingEmptyColumnLimit {
			warnings = append(warnings, fmt.Sprintf("Row %d has %d trailing empty columns", row.Number, n))
		}

		for _, field := range opts.RequiredFields {
			if row.Get(field) == "" {
				addError(row, fmt.Sprintf("Missing required field: %s", field))
			}
		}

		if status := row.Get("status"); status != "" {
			normalized := strings.ToLower(status)
			if normalized != string(models.ProductStatusActive) && normalized != string(models.ProductStatusInactive) {
				addError(row, fmt.Sprintf("Invalid status '%s'. Must be 'active' or 'inactive'", status))
			}
		}

		if featured := row.Get("featured"); featured != "" {
			if _, ok := parseFeatured(featured); !ok {
				addError(row, fmt.Sprintf("Invalid featured value '%s'. Must be true/false, 1/0, or yes/no", featured))
			}
		}

		if img := row.Get("image"); isLocalFilePath(img) {
			addError(row, "Image must be a URL or server path, not a local file path")
		}
		if pdf := row.Get("pdf"); isLocalFilePath(pdf) {
			addError(row, "PDF must be a URL or server path, not a local file path")
		}
	}
	return rowErrors, warnings
}

// trailingEmptyCells counts how many cells at the end of a row are empty,
// in header order. Cells under unnamed header columns count as empty.
func trailingEmptyCells(headers []string, row models.ImportRow) int {
	n := 0
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i] != "" && row.Get(headers[i]) != "" {
			break
		}
		n++
	}
	return n
}

// parseFeatured maps the accepted featured spellings to the stored 0/1 value
func parseFeatured(value string) (int, bool) {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return 1, true
	case "false", "0", "no":
		return 0, true
	default:
		return 0, false
	}
}

// isLocalFilePath catches Windows paths pasted straight out of a file picker
func isLocalFilePath(value string) bool {
	return strings.Contains(value, `C:\`) || strings.Contains(value, "C:/")
}

// insertRows inserts validated rows one at a time in batch-sized groups.
// Batches exist for logging granularity only; rows always commit
// independently, so one failure never rolls back its neighbours.
func (h *ImportHandler) insertRows(ctx context.Context, rows []models.ImportRow, opts models.ImportOptions) (*models.ImportResult, error) {
	result := &models.ImportResult{
		Imported: make([]string, 0, len(rows)),
		Failed:   make([]models.RowError, 0),
		Total:    len(rows),
	}

	// Insertion is sequential, so a plain map is enough to avoid repeated
	// subcategory lookups across rows.
	subcategoryCache := make(map[string]*uint)

	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = 10
	}
	totalBatches := (len(rows) + batchSize - 1) / batchSize

	for batchNum := 0; batchNum < totalBatches; batchNum++ {
		start := batchNum * batchSize
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		logrus.WithFields(logrus.Fields{
			"batch":    batchNum + 1,
			"batches":  totalBatches,
			"startRow": rows[start].Number,
			"endRow":   rows[end-1].Number,
		}).Info("Processing import batch")

		for _, row := range rows[start:end] {
			h.insertRow(ctx, row, opts, subcategoryCache, result)
		}
	}
	return result, nil
}

func (h *ImportHandler) insertRow(
	ctx context.Context,
	row models.ImportRow,
	opts models.ImportOptions,
	subcategoryCache map[string]*uint,
	result *models.ImportResult,
) {
	rowCtx, cancel := context.WithTimeout(ctx, opts.RowTimeout)
	defer cancel()

	product, warning, err := h.buildProduct(rowCtx, row, subcategoryCache)
	if err != nil {
		result.Failed = append(result.Failed, models.RowError{
			RowNumber:   row.Number,
			ProductName: row.Label(),
			Error:       err.Error(),
		})
		return
	}
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	err = h.repo.InsertImportedProduct(rowCtx, product)
	if repository.IsDuplicateKey(err) {
		// One retry with a timestamped slug. A second collision means
		// something beyond slug contention is wrong with the row.
		base := product.Slug
		if base == "" {
			base = "product"
		}
		product.ID = 0
		product.Slug = fmt.Sprintf("%s-%d-%d", base, time.Now().UnixMilli(), rand.Intn(1000))
		logrus.WithFields(logrus.Fields{
			"row":  row.Number,
			"slug": product.Slug,
		}).Warn("Duplicate key on insert, retrying with fallback slug")
		err = h.repo.InsertImportedProduct(rowCtx, product)
	}
	if err != nil {
		result.Failed = append(result.Failed, models.RowError{
			RowNumber:   row.Number,
			ProductName: row.Label(),
			Error:       err.Error(),
		})
		return
	}
	result.Imported = append(result.Imported, product.Name)
}

// buildProduct maps one validated row onto a Product, resolving the
// subcategory reference and deduplicating the slug.
func (h *ImportHandler) buildProduct(
	ctx context.Context,
	row models.ImportRow,
	subcategoryCache map[string]*uint,
) (*models.Product, string, error) {
	warning := ""

	var subcategoryID *uint
	if raw := row.Get("subcategory_id"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			return nil, "", fmt.Errorf("subcategory_id must be a number, got '%s'", raw)
		}
		subcategoryID = &id
	} else if name := row.Get("subcategory"); name != "" {
		key := strings.ToLower(name)
		if cached, ok := subcategoryCache[key]; ok {
			subcategoryID = cached
		} else {
			resolved, err := h.repo.ResolveSubcategoryID(ctx, name)
			if err != nil {
				return nil, "", fmt.Errorf("failed to resolve subcategory '%s': %s", name, err.Error())
			}
			subcategoryCache[key] = resolved
			subcategoryID = resolved
		}
		if subcategoryID == nil {
			warning = fmt.Sprintf("Row %d: subcategory '%s' not found, product imported without one", row.Number, name)
			logrus.WithFields(logrus.Fields{
				"row":         row.Number,
				"subcategory": name,
			}).Warn("Subcategory not found, importing without it")
		}
	}

	productSlug := row.Get("slug")
	if productSlug == "" {
		productSlug = slug.Make(row.Get("name"))
	}
	exists, err := h.repo.SlugExists(ctx, productSlug)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check slug uniqueness: %s", err.Error())
	}
	if exists {
		productSlug = fmt.Sprintf("%s-%d", productSlug, rand.Intn(10000))
	}

	status := models.ProductStatusActive
	if raw := row.Get("status"); raw != "" {
		status = models.ProductStatus(strings.ToLower(raw))
	}

	featured := 0
	if raw := row.Get("featured"); raw != "" {
		featured, _ = parseFeatured(raw)
	}

	features, err := featuresJSON(row.Get("features"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode features: %s", err.Error())
	}

	product := &models.Product{
		Name:             row.Get("name"),
		Slug:             productSlug,
		Category:         row.Get("category"),
		SubcategoryID:    subcategoryID,
		ShortDescription: optionalString(row.Get("short_description")),
		Description:      optionalString(row.Get("description")),
		Specifications:   optionalString(row.Get("specifications")),
		SKU:              optionalString(row.Get("sku")),
		MetaKeywords:     optionalString(row.Get("meta_keywords")),
		MetaTitle:        optionalString(row.Get("meta_title")),
		MetaDescription:  optionalString(row.Get("meta_description")),
		Status:           status,
		Featured:         featured,
		Image:            sanitizeFileRef(row.Get("image")),
		PDF:              sanitizeFileRef(row.Get("pdf")),
		Features:         features,
		InStock:          1,
	}
	return product, warning, nil
}

// sanitizeFileRef drops local file paths that slipped past validation and
// empty values, keeping URLs and server paths.
func sanitizeFileRef(value string) *string {
	if value == "" || isLocalFilePath(value) {
		return nil
	}
	return &value
}

// featuresJSON turns a comma separated feature list into a JSON array
func featuresJSON(raw string) (datatypes.JSON, error) {
	features := []string{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	data, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func parseUint(value string) (uint, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}
