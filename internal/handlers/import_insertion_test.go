package handlers

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

func newMockRepo(t *testing.T) (*repository.ProductsRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return repository.NewProductsRepository(gdb, nil), mock
}

func expectSlugCount(mock sqlmock.Sqlmock, count int64) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func expectInsertSuccess(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	mock.ExpectCommit()
}

func expectInsertError(mock sqlmock.Sqlmock, err error) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnError(err)
	mock.ExpectRollback()
}

func importRow(number int, fields map[string]string) models.ImportRow {
	return models.ImportRow{Number: number, Fields: fields}
}

func TestInsertRowsImportsValidRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	expectSlugCount(mock, 0)
	expectInsertSuccess(mock, 1)

	rows := []models.ImportRow{
		importRow(2, map[string]string{"name": "Zebra ZD421", "category": "printers"}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Zebra ZD421"}, result.Imported)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 1, result.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowsSuffixesCollidingSlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	// First row takes the base slug; second finds it taken and gets a suffix
	expectSlugCount(mock, 0)
	expectInsertSuccess(mock, 1)
	expectSlugCount(mock, 1)
	expectInsertSuccess(mock, 2)

	rows := []models.ImportRow{
		importRow(2, map[string]string{"name": "Zebra ZD421", "category": "printers"}),
		importRow(3, map[string]string{"name": "Zebra ZD421", "category": "printers"}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Len(t, result.Imported, 2)
	assert.Empty(t, result.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowsRetriesOnceOnDuplicateKey(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	expectSlugCount(mock, 0)
	expectInsertError(mock, gorm.ErrDuplicatedKey)
	expectInsertSuccess(mock, 1)

	rows := []models.ImportRow{
		importRow(2, map[string]string{"name": "Zebra ZD421", "category": "printers"}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Zebra ZD421"}, result.Imported)
	assert.Empty(t, result.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowsFailsRowWhenRetryAlsoCollides(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	expectSlugCount(mock, 0)
	expectInsertError(mock, gorm.ErrDuplicatedKey)
	expectInsertError(mock, gorm.ErrDuplicatedKey)

	rows := []models.ImportRow{
		importRow(2, map[string]string{"name": "Zebra ZD421", "category": "printers"}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Empty(t, result.Imported)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 2, result.Failed[0].RowNumber)
	assert.Equal(t, "Zebra ZD421", result.Failed[0].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowsContinuesPastFailedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	// Row 2 hits a non-duplicate error and is not retried; row 3 commits
	expectSlugCount(mock, 0)
	expectInsertError(mock, gorm.ErrInvalidData)
	expectSlugCount(mock, 0)
	expectInsertSuccess(mock, 2)

	rows := []models.ImportRow{
		importRow(2, map[string]string{"name": "Zebra ZD421", "category": "printers"}),
		importRow(3, map[string]string{"name": "Honeywell 1470g", "category": "scanners"}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Honeywell 1470g"}, result.Imported)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 2, result.Failed[0].RowNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowsUnmatchedSubcategoryWarnsAndImports(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "subcategories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}))
	expectSlugCount(mock, 0)
	expectInsertSuccess(mock, 1)

	rows := []models.ImportRow{
		importRow(2, map[string]string{
			"name":        "Zebra ZD421",
			"category":    "printers",
			"subcategory": "Nonexistent Subcategory",
		}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Len(t, result.Imported, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Nonexistent Subcategory")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRowsExplicitSubcategoryIDPassesThrough(t *testing.T) {
	repo, mock := newMockRepo(t)
	handler := NewImportHandler(repo, nil, nil)

	// No subcategory lookup may happen when subcategory_id is supplied
	expectSlugCount(mock, 0)
	expectInsertSuccess(mock, 1)

	rows := []models.ImportRow{
		importRow(2, map[string]string{
			"name":           "Zebra ZD421",
			"category":       "printers",
			"subcategory_id": "5",
		}),
	}
	result, err := handler.insertRows(context.Background(), rows, models.EnhancedImportOptions())
	require.NoError(t, err)

	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
