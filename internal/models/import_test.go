package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportOptionPresets(t *testing.T) {
	enhanced := EnhancedImportOptions()
	assert.Equal(t, []string{"name", "category"}, enhanced.RequiredFields)
	assert.Equal(t, 10, enhanced.BatchSize)
	assert.Equal(t, 15*time.Second, enhanced.RowTimeout)

	legacy := LegacyImportOptions()
	assert.Equal(t, []string{"name", "category", "slug", "sku"}, legacy.RequiredFields)
	assert.Equal(t, 5, legacy.BatchSize)
	assert.Equal(t, 10*time.Second, legacy.RowTimeout)
}

func TestRowErrorJSONShape(t *testing.T) {
	data, err := json.Marshal(RowError{RowNumber: 4, ProductName: "Zebra ZD421", Error: "Missing required field: category"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rowNumber":4,"productName":"Zebra ZD421","error":"Missing required field: category"}`, string(data))
}

func TestProductImportColumnsRequiredSet(t *testing.T) {
	required := map[string]bool{}
	for _, col := range ProductImportColumns() {
		if col.Required {
			required[col.Name] = true
		}
	}
	assert.Equal(t, map[string]bool{"name": true, "category": true}, required)
}
