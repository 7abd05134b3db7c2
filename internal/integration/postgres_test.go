package integration

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
	"github.com/ruslanbektulqinov01/e-commerce/internal/repo"
	"github.com/ruslanbektulqinov01/e-commerce/internal/service"
	"github.com/ruslanbektulqinov01/e-commerce/internal/transport"
	pkgdb "github.com/ruslanbektulqinov01/e-commerce/pkg/db"
)

// Runs against a disposable database: TEST_DATABASE_URL=postgres://... go test ./internal/integration
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	reset := func() {
		require.NoError(t, db.Exec("TRUNCATE order_items, orders, products RESTART IDENTITY CASCADE").Error)
	}
	reset()
	t.Cleanup(func() {
		reset()
		_ = pkgdb.Close(db)
	})
	return db
}

func TestPostgres_ConcurrentMultiProductOrders(t *testing.T) {
	db := openPostgres(t)

	a := models.Product{Name: "a", Price: decimal.RequireFromString("3.00"), AvailableQuantity: 10, IsActive: true}
	b := models.Product{Name: "b", Price: decimal.RequireFromString("7.00"), AvailableQuantity: 10, IsActive: true}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	svc := &service.OrderService{Repo: &repo.GormRepo{DB: db}, Events: service.NoopPublisher{}}

	const buyers = 30
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok         int
		unexpected []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// opposite line orders on alternate buyers must not deadlock
			req := transport.CreateOrderRequest{Items: []transport.CreateOrderItem{
				{ProductID: a.ID, Quantity: 1},
				{ProductID: b.ID, Quantity: 1},
			}}
			if i%2 == 1 {
				req.Items[0], req.Items[1] = req.Items[1], req.Items[0]
			}

			_, err := svc.CreateOrder(context.Background(), domain.Identity{UserID: uint(i + 1)}, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
			default:
				unexpected = append(unexpected, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 10, ok)

	var left []models.Product
	require.NoError(t, db.Order("id").Find(&left).Error)
	for _, p := range left {
		assert.Zero(t, p.AvailableQuantity, p.Name)
	}

	var total decimal.Decimal
	require.NoError(t, db.Model(&models.Order{}).Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error)
	assert.True(t, total.Equal(decimal.RequireFromString("100.00")), total.String())
}
