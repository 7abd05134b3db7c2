package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
)

// CreateOrderItem carries no price: totals are always computed from stored product prices.
type CreateOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

type OrderItemResponse struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID         uint                `json:"id"`
	UserID     uint                `json:"user_id"`
	CreatedAt  time.Time           `json:"created_at"`
	Status     models.OrderStatus  `json:"status"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Items      []OrderItemResponse `json:"items"`
}

type StatusResponse struct {
	Status models.OrderStatus `json:"status"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message   string `json:"message"`
	ProductID uint   `json:"product_id,omitempty"`
	Requested int    `json:"requested,omitempty"`
	Available *int   `json:"available,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return OrderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		CreatedAt:  o.CreatedAt,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		Items:      items,
	}
}

func NewOrderListResponse(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
