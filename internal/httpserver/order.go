package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/service"
	"github.com/ruslanbektulqinov01/e-commerce/internal/transport"
	"github.com/ruslanbektulqinov01/e-commerce/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	id, err := identityFrom(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, id, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(order))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := identityFrom(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id is not a positive integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	order, err := h.Svc.GetOrder(ctx, id, orderID)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(order))
}

func (h *OrderHTTP) GetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_status")

	id, err := identityFrom(c)
	if err != nil {
		l.Warn("get_status_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		l.Warn("get_status_error", "status", 400, "reason", "id is not a positive integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	status, err := h.Svc.GetStatus(ctx, id, orderID)
	if err != nil {
		return fail(l, "get_status_error", err)
	}
	return c.JSON(http.StatusOK, transport.StatusResponse{Status: status})
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_my_orders")

	id, err := identityFrom(c)
	if err != nil {
		l.Warn("list_my_orders_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListMine(ctx, id)
	if err != nil {
		return fail(l, "list_my_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderListResponse(orders))
}

func (h *OrderHTTP) ListCustomerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_customer_orders")

	id, err := identityFrom(c)
	if err != nil {
		l.Warn("list_customer_orders_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	customerID, err := parseID(c.Param("customer_id"))
	if err != nil {
		l.Warn("list_customer_orders_error", "status", 400, "reason", "customer_id is not a positive integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id is not a positive integer")
	}

	orders, err := h.Svc.ListCustomer(ctx, id, customerID)
	if err != nil {
		return fail(l, "list_customer_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderListResponse(orders))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	id, err := identityFrom(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListAll(ctx, id)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderListResponse(orders))
}

// fail maps a service error to its HTTP reply and logs it under event.
func fail(l *slog.Logger, event string, err error) error {
	body := transport.ErrorResponse{}
	var pe *domain.ProductError
	if errors.As(err, &pe) {
		body.ProductID = pe.ProductID
		if errors.Is(err, domain.ErrInsufficientStock) {
			body.Requested = pe.Requested
			available := pe.Available
			body.Available = &available
		}
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, body.Message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, body.Message = http.StatusBadRequest, "insufficient stock"
	case errors.Is(err, domain.ErrProductNotFound):
		status, body.Message = http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrOrderNotFound):
		status, body.Message = http.StatusNotFound, "order not found"
	case errors.Is(err, domain.ErrForbidden):
		status, body.Message = http.StatusForbidden, "forbidden"
	case domain.IsRetryable(err):
		status, body.Message, body.Retryable = http.StatusConflict, "conflict, retry the request", true
	default:
		l.Error(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Warn(event, "status", status, "reason", body.Message, "error", err)
	return echo.NewHTTPError(status, body)
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, strconv.ErrRange
	}
	return uint(n), nil
}
