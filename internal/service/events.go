package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
)

const EventOrderCreated = "order_created"

// Publisher delivers order events to the notification side. *mykafka.Producer satisfies it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }

type EventItem struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCreatedEvent struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	OrderID    uint            `json:"order_id"`
	UserID     uint            `json:"user_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []EventItem     `json:"items"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func newOrderCreatedEvent(o *models.Order) OrderCreatedEvent {
	items := make([]EventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, EventItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return OrderCreatedEvent{
		EventID:    uuid.NewString(),
		Type:       EventOrderCreated,
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalPrice: o.TotalPrice,
		Items:      items,
		OccurredAt: time.Now().UTC(),
	}
}

func eventKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
