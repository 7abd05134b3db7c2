package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/ruslanbektulqinov01/e-commerce/internal/transport"
	pkgdb "github.com/ruslanbektulqinov01/e-commerce/pkg/db"
	middleware "github.com/ruslanbektulqinov01/e-commerce/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
	DB           *gorm.DB
	// OrderRateLimit is order creations per second per user; <= 0 disables the limiter.
	OrderRateLimit float64
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return c.JSON(http.StatusServiceUnavailable, transport.ErrorResponse{Message: "database unavailable"})
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	orders := e.Group("/api/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder, orderRateLimiter(d.OrderRateLimit)...)
	orders.GET("/me", d.OrderHandler.ListMyOrders)
	orders.GET("/customer/:customer_id", d.OrderHandler.ListCustomerOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.GET("/:id/status", d.OrderHandler.GetOrderStatus)

	admin := orders.Group("", authMW.RequireAdmin)
	admin.GET("", d.OrderHandler.ListOrders)
}

func orderRateLimiter(perSecond float64) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return []echo.MiddlewareFunc{echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id, ok := c.Get(middleware.ContextUserID).(uint); ok {
				return "user:" + strconv.FormatUint(uint64(id), 10), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, transport.ErrorResponse{
				Message:   "too many order requests",
				Retryable: true,
			})
		},
	})}
}
