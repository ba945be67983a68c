package models

import (
	"strconv"
	"time"
)

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportRow is a single spreadsheet row keyed by normalised header name.
// Header normalisation lowercases, trims whitespace and strips a trailing
// " *" required marker. The original 1-based spreadsheet row number (data
// rows start at 2, after the header) is carried separately.
type ImportRow struct {
	Number int
	Fields map[string]string
}

// Get returns the trimmed value for a normalised header, or "" if absent.
func (r ImportRow) Get(key string) string {
	return r.Fields[key]
}

// Label returns the product name for error reporting, falling back to a
// positional label when the name cell is empty.
func (r ImportRow) Label() string {
	if name := r.Get("name"); name != "" {
		return name
	}
	return "Row " + strconv.Itoa(r.Number)
}

// RowError describes a validation or insertion failure for one row
type RowError struct {
	RowNumber   int    `json:"rowNumber"`
	ProductName string `json:"productName"`
	Error       string `json:"error"`
}

// ImportOptions parameterises a product import run
type ImportOptions struct {
	RequiredFields []string
	BatchSize      int
	RowTimeout     time.Duration
}

// EnhancedImportOptions is the preset for the primary bulk import endpoint
func EnhancedImportOptions() ImportOptions {
	return ImportOptions{
		RequiredFields: []string{"name", "category"},
		BatchSize:      10,
		RowTimeout:     15 * time.Second,
	}
}

// LegacyImportOptions is the preset for the original import endpoint, which
// also required an explicit slug and sku per row
func LegacyImportOptions() ImportOptions {
	return ImportOptions{
		RequiredFields: []string{"name", "category", "slug", "sku"},
		BatchSize:      5,
		RowTimeout:     10 * time.Second,
	}
}

// ImportSummary gives aggregate statistics for a completed import
type ImportSummary struct {
	SuccessRate string `json:"successRate"`
	ProcessedAt string `json:"processedAt"`
}

// ImportResult is the outcome of a full import run
type ImportResult struct {
	Imported []string   `json:"imported"`
	Failed   []RowError `json:"failed"`
	Warnings []string   `json:"warnings,omitempty"`
	Total    int        `json:"total"`
}

// EnhancedImportResponse is the response body for the bulk import endpoint
type EnhancedImportResponse struct {
	Message    string        `json:"message"`
	Successful int           `json:"successful"`
	Failed     []RowError    `json:"failed"`
	Total      int           `json:"total"`
	Summary    ImportSummary `json:"summary"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// LegacyFailedRow is the failure shape of the original import endpoint
type LegacyFailedRow struct {
	Product string `json:"product"`
	Error   string `json:"error"`
}

// LegacyImportResponse is the response body for the original import endpoint
type LegacyImportResponse struct {
	Message  string            `json:"message"`
	Imported []string          `json:"imported"`
	Failed   []LegacyFailedRow `json:"failed"`
	Total    int               `json:"total"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean
	Example     string `json:"example"`
}

// ImportTemplate defines the downloadable import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ProductImportColumns returns the template columns for product imports
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Zebra ZD421 Desktop Printer"},
		{Name: "category", Description: "Product category", Required: true, Type: "string", Example: "barcode-printers"},
		{Name: "subcategory", Description: "Subcategory name or display name", Required: false, Type: "string", Example: "Desktop Printers"},
		{Name: "subcategory_id", Description: "Subcategory numeric ID, overrides subcategory name", Required: false, Type: "number", Example: "3"},
		{Name: "slug", Description: "URL slug, generated from name when empty", Required: false, Type: "string", Example: "zebra-zd421-desktop-printer"},
		{Name: "sku", Description: "Stock keeping unit", Required: false, Type: "string", Example: "ZD4A042-301E00EZ"},
		{Name: "short_description", Description: "One line summary", Required: false, Type: "string", Example: "4-inch thermal transfer printer"},
		{Name: "description", Description: "Full description", Required: false, Type: "string", Example: "The ZD421 offers..."},
		{Name: "specifications", Description: "Technical specifications", Required: false, Type: "string", Example: "203 dpi, USB, Ethernet"},
		{Name: "features", Description: "Comma separated feature list", Required: false, Type: "string", Example: "Bluetooth, Auto-calibration"},
		{Name: "status", Description: "active or inactive", Required: false, Type: "string", Example: "active"},
		{Name: "featured", Description: "true/false, 1/0, yes/no", Required: false, Type: "boolean", Example: "false"},
		{Name: "image", Description: "Image URL or server path", Required: false, Type: "string", Example: "/uploads/images/zd421.jpg"},
		{Name: "pdf", Description: "Datasheet URL or server path", Required: false, Type: "string", Example: "/uploads/pdfs/zd421.pdf"},
		{Name: "meta_title", Description: "SEO title", Required: false, Type: "string", Example: "Zebra ZD421 | Printers"},
		{Name: "meta_description", Description: "SEO description", Required: false, Type: "string", Example: "Buy the Zebra ZD421..."},
		{Name: "meta_keywords", Description: "SEO keywords", Required: false, Type: "string", Example: "zebra, zd421, printer"},
	}
}
