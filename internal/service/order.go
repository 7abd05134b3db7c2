package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/inventory"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
	"github.com/ruslanbektulqinov01/e-commerce/internal/policy"
	"github.com/ruslanbektulqinov01/e-commerce/internal/pricing"
	"github.com/ruslanbektulqinov01/e-commerce/internal/repo"
	"github.com/ruslanbektulqinov01/e-commerce/internal/transport"
	"github.com/ruslanbektulqinov01/e-commerce/pkg/logging"
)

const (
	MaxOrderLines      = 100
	DefaultEventsTopic = "order_events"
	publishTimeout     = 5 * time.Second
)

var tracer = otel.Tracer("github.com/ruslanbektulqinov01/e-commerce/internal/service")

type OrderService struct {
	Repo   *repo.GormRepo
	Events Publisher
	Topic  string
}

// CreateOrder reserves stock for every line, prices the order from stored product prices and
// persists it in one transaction. Any failing line leaves no trace in storage.
func (svc *OrderService) CreateOrder(ctx context.Context, id domain.Identity, req transport.CreateOrderRequest) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.Int64("order.user_id", int64(id.UserID)),
		attribute.Int("order.lines", len(req.Items)),
	))
	defer span.End()

	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", id.UserID)

	if err := validateCreate(id, req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	var orderID uint
	err := svc.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order := &models.Order{
			UserID:     id.UserID,
			Status:     models.OrderStatusPending,
			TotalPrice: decimal.Zero,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		prices, err := reserveAll(ctx, inventory.NewLedger(tx.DB), req.Items)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		lines := make([]pricing.Line, 0, len(req.Items))
		for i, it := range req.Items {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     prices[i],
			})
			lines = append(lines, pricing.Line{Quantity: it.Quantity, UnitPrice: prices[i]})
		}
		if err := tx.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
		if err := tx.SetTotal(ctx, order.ID, pricing.Total(lines)); err != nil {
			return fmt.Errorf("set total: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
		l.Debug("create_order_rolled_back", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	order, err := svc.Repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", orderID, err)
	}

	l.Info("order_created", "order_id", order.ID, "total_price", order.TotalPrice.String(), "lines", len(order.Items))
	svc.publish(ctx, order)
	return order, nil
}

func validateCreate(id domain.Identity, req transport.CreateOrderRequest) error {
	if id.UserID == 0 {
		return fmt.Errorf("%w: identity required", domain.ErrForbidden)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: items required", domain.ErrValidation)
	}
	if len(req.Items) > MaxOrderLines {
		return fmt.Errorf("%w: at most %d items per order", domain.ErrValidation, MaxOrderLines)
	}
	for i, it := range req.Items {
		if it.ProductID == 0 {
			return fmt.Errorf("%w: items[%d].product_id required", domain.ErrValidation, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be > 0", domain.ErrValidation, i)
		}
	}
	return nil
}

// reserveAll reserves lines in ascending product id order so that concurrent multi-product
// orders lock rows in the same sequence. Prices are returned indexed like items.
func reserveAll(ctx context.Context, ledger *inventory.Ledger, items []transport.CreateOrderItem) ([]decimal.Decimal, error) {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].ProductID < items[order[b]].ProductID
	})

	prices := make([]decimal.Decimal, len(items))
	for _, i := range order {
		price, err := ledger.Reserve(ctx, items[i].ProductID, items[i].Quantity)
		if err != nil {
			return nil, err
		}
		prices[i] = price
	}
	return prices, nil
}

func (svc *OrderService) publish(ctx context.Context, order *models.Order) {
	events := svc.Events
	if events == nil {
		return
	}
	topic := svc.Topic
	if topic == "" {
		topic = DefaultEventsTopic
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := events.PublishEvent(ctx, topic, eventKey(order.UserID), newOrderCreatedEvent(order)); err != nil {
		logging.FromContext(ctx).Error("order_event_publish_failed", "svc", "order.create", "order_id", order.ID, "topic", topic, "error", err)
	}
}

// GetOrder returns the order with its items. A missing order is reported before any
// ownership check.
func (svc *OrderService) GetOrder(ctx context.Context, id domain.Identity, orderID uint) (*models.Order, error) {
	if err := svc.authorizeOrder(ctx, id, orderID, policy.ReadOrder); err != nil {
		return nil, err
	}
	return svc.Repo.GetByID(ctx, orderID)
}

func (svc *OrderService) GetStatus(ctx context.Context, id domain.Identity, orderID uint) (models.OrderStatus, error) {
	if err := svc.authorizeOrder(ctx, id, orderID, policy.ReadStatus); err != nil {
		return "", err
	}
	return svc.Repo.GetStatus(ctx, orderID)
}

func (svc *OrderService) ListMine(ctx context.Context, id domain.Identity) ([]models.Order, error) {
	return svc.ListCustomer(ctx, id, id.UserID)
}

func (svc *OrderService) ListCustomer(ctx context.Context, id domain.Identity, customerID uint) ([]models.Order, error) {
	if err := policy.Authorize(id, customerID, policy.ListCustomer); err != nil {
		return nil, err
	}
	return svc.Repo.ListByOwner(ctx, customerID)
}

func (svc *OrderService) ListAll(ctx context.Context, id domain.Identity) ([]models.Order, error) {
	if err := policy.Authorize(id, 0, policy.ListAll); err != nil {
		return nil, err
	}
	return svc.Repo.ListAll(ctx)
}

func (svc *OrderService) authorizeOrder(ctx context.Context, id domain.Identity, orderID uint, action policy.Action) error {
	owner, err := svc.Repo.GetOwner(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("order owner: %w", err)
	}
	return policy.Authorize(id, owner, action)
}
