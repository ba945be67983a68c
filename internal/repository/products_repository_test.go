package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-service/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestSlugExists(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductsRepository(gdb, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE slug = $1`)).
		WithArgs("zebra-zd421").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := repo.SlugExists(context.Background(), "zebra-zd421")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE slug = $1`)).
		WithArgs("unused-slug").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	exists, err = repo.SlugExists(context.Background(), "unused-slug")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveSubcategoryIDMatchesNameOrDisplayName(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductsRepository(gdb, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "subcategories" WHERE name = $1 OR display_name = $2`)).
		WithArgs("Desktop Printers", "Desktop Printers", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow(3, "desktop-printers", "Desktop Printers"))

	id, err := repo.ResolveSubcategoryID(context.Background(), "Desktop Printers")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(3), *id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveSubcategoryIDMissReturnsNilWithoutError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductsRepository(gdb, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "subcategories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}))

	id, err := repo.ResolveSubcategoryID(context.Background(), "No Such Subcategory")
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertImportedProductPropagatesDuplicateKey(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewProductsRepository(gdb, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.InsertImportedProduct(context.Background(), &models.Product{
		Name:     "Zebra ZD421",
		Slug:     "zebra-zd421",
		Category: "printers",
		Status:   models.ProductStatusActive,
		Features: []byte("[]"),
	})
	assert.True(t, IsDuplicateKey(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
	assert.False(t, IsDuplicateKey(errors.New("connection reset")))
	assert.False(t, IsDuplicateKey(nil))
}
