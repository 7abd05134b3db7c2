package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ruslanbektulqinov01/e-commerce/internal/domain"
	"github.com/ruslanbektulqinov01/e-commerce/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to a single database transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&items).Error
}

func (r *GormRepo) SetTotal(ctx context.Context, orderID uint, total decimal.Decimal) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("total_price", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *GormRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Items", itemsInOrder).Where("id = ?", id).Take(&order).Error
	if err != nil {
		return nil, notFound(err, id)
	}
	return &order, nil
}

func (r *GormRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).Preload("Items", itemsInOrder).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListByOwner(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.DB.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetStatus(ctx context.Context, id uint) (models.OrderStatus, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Select("id", "status").Where("id = ?", id).Take(&order).Error; err != nil {
		return "", notFound(err, id)
	}
	return order.Status, nil
}

// GetOwner returns the user id that placed the order.
func (r *GormRepo) GetOwner(ctx context.Context, id uint) (uint, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).Take(&order).Error; err != nil {
		return 0, notFound(err, id)
	}
	return order.UserID, nil
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}

func notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", domain.ErrOrderNotFound, id)
	}
	return err
}
