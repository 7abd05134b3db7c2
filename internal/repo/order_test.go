package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruslanbektulqinov01/e-commerce/internal/dbtest"
	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
)

func seedOrder(t *testing.T, r *GormRepo, userID uint, productID uint, qty int, price string) *models.Order {
	t.Helper()
	ctx := context.Background()

	order := &models.Order{UserID: userID, Status: models.OrderStatusPending, TotalPrice: decimal.Zero}
	require.NoError(t, r.CreateOrder(ctx, order))

	p := decimal.RequireFromString(price)
	require.NoError(t, r.CreateItems(ctx, []models.OrderItem{
		{OrderID: order.ID, ProductID: productID, Quantity: qty, Price: p},
	}))
	require.NoError(t, r.SetTotal(ctx, order.ID, p.Mul(decimal.NewFromInt(int64(qty)))))
	return order
}

func TestGormRepo_GetByID(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	r := &GormRepo{DB: db}
	p := dbtest.SeedProduct(t, db, "lamp", "12.00", 10)
	created := seedOrder(t, r, 3, p.ID, 2, "12.00")

	got, err := r.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.UserID)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("24.00")))
	require.Len(t, got.Items, 1)
	assert.Equal(t, p.ID, got.Items[0].ProductID)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = r.GetByID(context.Background(), created.ID+100)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGormRepo_Lists(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	r := &GormRepo{DB: db}
	p := dbtest.SeedProduct(t, db, "pen", "1.00", 100)

	a1 := seedOrder(t, r, 1, p.ID, 1, "1.00")
	b1 := seedOrder(t, r, 2, p.ID, 2, "1.00")
	a2 := seedOrder(t, r, 1, p.ID, 3, "1.00")

	all, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{a1.ID, b1.ID, a2.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	for _, o := range all {
		assert.Len(t, o.Items, 1)
	}

	mine, err := r.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a1.ID, mine[0].ID)
	assert.Equal(t, a2.ID, mine[1].ID)

	none, err := r.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGormRepo_StatusAndOwner(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	r := &GormRepo{DB: db}
	p := dbtest.SeedProduct(t, db, "cup", "4.00", 5)
	o := seedOrder(t, r, 9, p.ID, 1, "4.00")

	status, err := r.GetStatus(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, status)

	owner, err := r.GetOwner(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(9), owner)

	_, err = r.GetStatus(context.Background(), 777)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = r.GetOwner(context.Background(), 777)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGormRepo_TransactionRollsBack(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	r := &GormRepo{DB: db}
	boom := errors.New("boom")

	err := r.Transaction(context.Background(), func(tx *GormRepo) error {
		if err := tx.CreateOrder(context.Background(), &models.Order{UserID: 1, Status: models.OrderStatusPending}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, dbtest.Count(t, db, &models.Order{}))
}

func TestGormRepo_ItemsRequireExistingProduct(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	r := &GormRepo{DB: db}

	order := &models.Order{UserID: 1, Status: models.OrderStatusPending}
	require.NoError(t, r.CreateOrder(context.Background(), order))

	err := r.CreateItems(context.Background(), []models.OrderItem{
		{OrderID: order.ID, ProductID: 999, Quantity: 1, Price: decimal.NewFromInt(1)},
	})
	assert.Error(t, err)
}

func TestGormRepo_ProductDeleteRestricted(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	r := &GormRepo{DB: db}
	p := dbtest.SeedProduct(t, db, "desk", "99.00", 1)
	seedOrder(t, r, 1, p.ID, 1, "99.00")

	assert.Error(t, db.Delete(&models.Product{}, p.ID).Error)
	assert.Equal(t, int64(1), dbtest.Count(t, db, &models.OrderItem{}))
}
