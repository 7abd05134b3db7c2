package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ruslanbektulqinov01/e-commerce/internal/dbtest"
	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
)

func TestLedger_Reserve_DecrementsAndReturnsPrice(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	p := dbtest.SeedProduct(t, db, "keyboard", "49.90", 5)

	price, err := NewLedger(db).Reserve(context.Background(), p.ID, 3)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("49.90")), price.String())
	assert.Equal(t, 2, dbtest.Available(t, db, p.ID))
}

func TestLedger_Reserve_ExactStockReachesZero(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	p := dbtest.SeedProduct(t, db, "mouse", "10.00", 2)
	l := NewLedger(db)

	_, err := l.Reserve(context.Background(), p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, dbtest.Available(t, db, p.ID))

	_, err = l.Reserve(context.Background(), p.ID, 1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, dbtest.Available(t, db, p.ID))
}

func TestLedger_Reserve_Rejections(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	p := dbtest.SeedProduct(t, db, "monitor", "150.00", 1)
	retired := dbtest.SeedProduct(t, db, "crt", "5.00", 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error)

	l := NewLedger(db)

	tests := []struct {
		name      string
		productID uint
		quantity  int
		wantErr   error
		available int
	}{
		{name: "insufficient", productID: p.ID, quantity: 2, wantErr: domain.ErrInsufficientStock, available: 1},
		{name: "missing", productID: 9999, quantity: 1, wantErr: domain.ErrProductNotFound},
		{name: "inactive", productID: retired.ID, quantity: 1, wantErr: domain.ErrProductNotFound},
		{name: "zero quantity", productID: p.ID, quantity: 0, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Reserve(context.Background(), tt.productID, tt.quantity)
			require.ErrorIs(t, err, tt.wantErr)

			var pe *domain.ProductError
			if errors.As(err, &pe) {
				assert.Equal(t, tt.productID, pe.ProductID)
				assert.Equal(t, tt.quantity, pe.Requested)
				assert.Equal(t, tt.available, pe.Available)
			}
		})
	}

	assert.Equal(t, 1, dbtest.Available(t, db, p.ID))
	assert.Equal(t, 10, dbtest.Available(t, db, retired.ID))
}

func TestLedger_Reserve_RolledBackWithTransaction(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	p := dbtest.SeedProduct(t, db, "cable", "3.00", 4)
	abort := errors.New("abort")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := NewLedger(tx).Reserve(context.Background(), p.ID, 4); err != nil {
			return err
		}
		return abort
	})
	require.ErrorIs(t, err, abort)
	assert.Equal(t, 4, dbtest.Available(t, db, p.ID))
}

func TestLedger_Available(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	p := dbtest.SeedProduct(t, db, "hub", "20.00", 7)
	l := NewLedger(db)

	n, err := l.Available(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = l.Available(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
