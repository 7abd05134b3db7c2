// Package dbtest opens isolated sqlite databases with the order schema for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
	pkgdb "github.com/ruslanbektulqinov01/e-commerce/pkg/db"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	t.Cleanup(func() { _ = pkgdb.Close(db) })
	return db
}

func SeedProduct(t testing.TB, db *gorm.DB, name, price string, quantity int) models.Product {
	t.Helper()

	p := models.Product{
		Name:              name,
		Price:             decimal.RequireFromString(price),
		AvailableQuantity: quantity,
		IsActive:          true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func Available(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()

	var p models.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.AvailableQuantity
}

func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
