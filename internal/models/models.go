package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Product rows are owned by the catalog; the order path only reads them and decrements stock.
type Product struct {
	ID                uint            `gorm:"primaryKey;autoIncrement"                          json:"id"`
	Name              string          `gorm:"not null"                                          json:"name"`
	Description       string          `gorm:"type:text"                                         json:"description"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null;check:price >= 0"      json:"price"`
	AvailableQuantity int             `gorm:"not null;default:0;check:available_quantity >= 0"  json:"available_quantity"`
	IsActive          bool            `gorm:"not null;default:true"                             json:"is_active"`

	// Historical order items keep the product row alive.
	OrderItems []OrderItem `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"                       json:"id"`
	UserID     uint            `gorm:"index;not null"                                 json:"user_id"`
	CreatedAt  time.Time       `gorm:"not null"                                       json:"created_at"`
	Status     OrderStatus     `gorm:"type:varchar(16);not null;default:pending"      json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"                    json:"total_price"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem.Price is the unit price captured when stock was reserved.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	ProductID uint            `gorm:"index;not null"              json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{}, &Order{}, &OrderItem{})
}
